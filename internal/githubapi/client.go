package githubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const apiBase = "https://api.github.com"

// Dependency manifests worth fetching for fingerprinting. Missing files are
// skipped, not errors.
var dependencyFiles = []string{
	"package.json",
	"requirements.txt",
	"pyproject.toml",
	"Gemfile",
	"go.mod",
	"Cargo.toml",
	"docker-compose.yml",
	"docker-compose.yaml",
	"README.md",
}

// RepoFiles holds the raw inputs for repository analysis.
type RepoFiles struct {
	Owner     string
	Repo      string
	Files     map[string]string
	Languages map[string]int64
}

// Client is a thin wrapper around the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a GitHub client. An empty token yields unauthenticated
// requests subject to the lower rate limit.
func NewClient(token string) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if strings.TrimSpace(token) != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = 30 * time.Second
	}
	return &Client{baseURL: apiBase, httpClient: httpClient}
}

var repoURLPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?github\.com/([^/]+)/([^/]+)`)
var shortRepoPattern = regexp.MustCompile(`^([^/]+)/([^/]+)$`)

// ParseRepoURL extracts owner and repo name from a GitHub URL. Accepts full
// URLs, bare github.com paths, and owner/repo shorthand.
func ParseRepoURL(repoURL string) (string, string, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	cleaned = strings.TrimSuffix(cleaned, ".git")

	if m := repoURLPattern.FindStringSubmatch(cleaned); m != nil {
		return m[1], m[2], nil
	}
	if m := shortRepoPattern.FindStringSubmatch(cleaned); m != nil {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("invalid GitHub repo URL: %q", repoURL)
}

// FetchRepoFiles retrieves the dependency manifests and language byte counts
// for a repository. File fetches run concurrently.
func (c *Client) FetchRepoFiles(ctx context.Context, repoURL string) (*RepoFiles, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	out := &RepoFiles{
		Owner: owner,
		Repo:  repo,
		Files: make(map[string]string, len(dependencyFiles)),
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, path := range dependencyFiles {
		path := path
		g.Go(func() error {
			content, err := c.fetchFileContent(gCtx, owner, repo, path)
			if err != nil {
				return err
			}
			if content == "" {
				return nil
			}
			mu.Lock()
			out.Files[path] = content
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		langs, err := c.fetchLanguages(gCtx, owner, repo)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Languages = langs
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(out.Files) == 0 {
		return nil, fmt.Errorf("repository %s/%s: no readable dependency files", owner, repo)
	}
	return out, nil
}

type contentResponse struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func (c *Client) fetchFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), path)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", nil
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("github contents %s: status %d", path, status)
	}

	var parsed contentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("github contents %s: %w", path, err)
	}
	if parsed.Type != "file" {
		return "", nil
	}
	if parsed.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(parsed.Content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("github contents %s: decode: %w", path, err)
		}
		return string(decoded), nil
	}
	return parsed.Content, nil
}

func (c *Client) fetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/languages",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("repository %s/%s not found", owner, repo)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("github languages: status %d", status)
	}

	langs := make(map[string]int64)
	if err := json.Unmarshal(body, &langs); err != nil {
		return nil, fmt.Errorf("github languages: %w", err)
	}
	return langs, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
