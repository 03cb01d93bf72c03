package main

// Seed the tool catalog from a JSON file and compute embeddings:
//   go run ./cmd/seedtools -file data/tools_seed.json

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"stackscout-backend/internal/embeddings"
	"stackscout-backend/internal/shared/config"
	"stackscout-backend/internal/shared/storage/db"
	"stackscout-backend/internal/tools"
)

const embedBatchSize = 20

type seedFile struct {
	Tools []tools.Tool `json:"tools"`
}

func main() {
	file := flag.String("file", "data/tools_seed.json", "path to the tools seed JSON")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("parse seed file: %v", err)
	}
	if len(seed.Tools) == 0 {
		log.Fatalf("seed file %s contains no tools", *file)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer sqlDB.Close()
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	catalog := &tools.PGCatalog{DB: sqlDB}
	embedder := embeddings.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)

	inserted := make([]tools.Tool, 0, len(seed.Tools))
	for _, tool := range seed.Tools {
		saved, err := catalog.InsertTool(ctx, tool)
		if err != nil {
			log.Fatalf("insert tool %q: %v", tool.Name, err)
		}
		inserted = append(inserted, saved)
	}
	log.Printf("inserted %d tools", len(inserted))

	for start := 0; start < len(inserted); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(inserted) {
			end = len(inserted)
		}
		batch := inserted[start:end]

		texts := make([]string, len(batch))
		for i, tool := range batch {
			texts[i] = tool.EmbeddingText()
		}
		vectors, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			log.Fatalf("embed batch %d-%d: %v", start, end, err)
		}
		for i, tool := range batch {
			if err := catalog.UpsertEmbedding(ctx, tool.ID, vectors[i]); err != nil {
				log.Fatalf("store embedding for %q: %v", tool.Name, err)
			}
		}
		log.Printf("embedded %d/%d tools", end, len(inserted))
	}
}
