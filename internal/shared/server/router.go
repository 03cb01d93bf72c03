package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"stackscout-backend/internal/embeddings"
	"stackscout-backend/internal/githubapi"
	"stackscout-backend/internal/llm"
	llmopenai "stackscout-backend/internal/llm/openai"
	"stackscout-backend/internal/recommendations"
	"stackscout-backend/internal/repos"
	"stackscout-backend/internal/shared/config"
	"stackscout-backend/internal/shared/server/middleware"
	"stackscout-backend/internal/shared/server/respond"
	"stackscout-backend/internal/shared/storage/db"
	"stackscout-backend/internal/tools"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var repoStore repos.Store
	var catalog tools.Catalog
	if sqlDB != nil {
		repoStore = &repos.PGStore{DB: sqlDB}
		catalog = &tools.PGCatalog{DB: sqlDB}
	} else {
		repoStore = repos.NewMemoryStore()
		catalog = tools.NewMemoryCatalog()
	}

	llmClient, err := llmopenai.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	if err != nil {
		log.Printf("LLM client unavailable, explanations and analysis degrade: %v", err)
	}
	embedder := embeddings.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)

	repoSvc := &repos.Service{
		Store:    repoStore,
		GitHub:   githubapi.NewClient(cfg.GitHubToken),
		Analyzer: &repos.Analyzer{LLM: clientOrNil(llmClient)},
	}
	repoHandler := repos.NewHandler(repoSvc)
	toolHandler := tools.NewHandler(catalog)

	recSvc := &recommendations.Service{
		Repos:      repoStore,
		Catalog:    catalog,
		Embeddings: embedder,
		Engine:     recommendations.NewEngine(recommendations.DefaultTables()),
		Explainer:  recommendations.NewExplanationGenerator(clientOrNil(llmClient)),
	}
	recHandler := recommendations.NewHandler(recSvc)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	repoHandler.RegisterRoutes(api)
	toolHandler.RegisterRoutes(api)
	recHandler.RegisterRoutes(api)

	return r
}

// clientOrNil keeps a typed nil out of the llm.Client interface value.
func clientOrNil(c *llmopenai.Client) llm.Client {
	if c == nil {
		return nil
	}
	return c
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
