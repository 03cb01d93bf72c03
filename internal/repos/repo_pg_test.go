package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	fp := Fingerprint{Industry: "fintech", ProjectType: "api"}
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO repos").
		WithArgs(
			sqlmock.AnyArg(), // generated id
			"https://github.com/acme/pay",
			sqlmock.AnyArg(), // fingerprint jsonb
			sqlmock.AnyArg(), // timestamp
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("repo-1", now))

	saved, err := store.Upsert(context.Background(), Repo{
		GithubURL:   "https://github.com/acme/pay",
		Fingerprint: &fp,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved.ID != "repo-1" {
		t.Fatalf("expected returned id, got %q", saved.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	fingerprint := []byte(`{"industry": "Fintech", "project_type": "api", "gaps": ["no monitoring"]}`)

	mock.ExpectQuery("SELECT id, github_url, fingerprint, created_at").
		WithArgs("repo-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "github_url", "fingerprint", "created_at"}).
			AddRow("repo-1", "https://github.com/acme/pay", fingerprint, time.Now().UTC()))

	repo, err := store.GetByID(context.Background(), "repo-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if repo.Fingerprint == nil {
		t.Fatal("expected fingerprint")
	}
	// Stored fingerprints are normalized on read.
	if repo.Fingerprint.Industry != "fintech" {
		t.Fatalf("expected normalized industry, got %q", repo.Fingerprint.Industry)
	}
	if len(repo.Fingerprint.Gaps) != 1 {
		t.Fatalf("unexpected gaps: %v", repo.Fingerprint.Gaps)
	}
}

func TestPGStoreGetByIDWithoutFingerprint(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}

	mock.ExpectQuery("SELECT id, github_url, fingerprint, created_at").
		WithArgs("repo-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "github_url", "fingerprint", "created_at"}).
			AddRow("repo-1", "https://github.com/acme/pay", nil, time.Now().UTC()))

	repo, err := store.GetByID(context.Background(), "repo-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if repo.Fingerprint != nil {
		t.Fatalf("expected nil fingerprint, got %+v", repo.Fingerprint)
	}
}

func TestPGStoreGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}

	mock.ExpectQuery("SELECT id, github_url, fingerprint, created_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "github_url", "fingerprint", "created_at"}))

	_, err = store.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUpsertReplacesFingerprintByURL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Upsert(ctx, Repo{GithubURL: "https://github.com/acme/pay"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	fp := Fingerprint{Industry: "fintech"}
	second, err := store.Upsert(ctx, Repo{
		GithubURL:   "https://github.com/acme/pay",
		Fingerprint: &fp,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("same URL must keep the same id: %s vs %s", first.ID, second.ID)
	}

	got, err := store.GetByGithubURL(ctx, "https://github.com/acme/pay")
	if err != nil {
		t.Fatalf("GetByGithubURL: %v", err)
	}
	if got.Fingerprint == nil || got.Fingerprint.Industry != "fintech" {
		t.Fatalf("fingerprint not replaced: %+v", got.Fingerprint)
	}
}
