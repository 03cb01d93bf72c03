package repos

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stackscout-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the repos service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches repo routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/repos/analyze", h.analyzeRepo)
	rg.GET("/repos/:id", h.getRepo)
}

type analyzeRequest struct {
	GithubURL string `json:"github_url" binding:"required"`
}

func (h *Handler) analyzeRepo(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "github_url is required", nil)
		return
	}

	repo, err := h.Svc.Analyze(c.Request.Context(), req.GithubURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid github_url", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "analysis_failed", "failed to analyze repository", nil)
		}
		return
	}

	c.Set("repoId", repo.ID)
	respond.OK(c, repo)
}

func (h *Handler) getRepo(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "repo id is required", nil)
		return
	}

	repo, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "repo not found", nil)
		case errors.Is(err, ErrNoFingerprint):
			respond.Error(c, http.StatusNotFound, "not_found", "fingerprint not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch repo", nil)
		}
		return
	}

	c.Set("repoId", repo.ID)
	respond.OK(c, repo)
}
