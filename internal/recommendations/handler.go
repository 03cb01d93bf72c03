package recommendations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stackscout-backend/internal/repos"
	"stackscout-backend/internal/shared/server/respond"
)

const (
	defaultLimit = 10
	maxLimit     = 30
)

// Handler wires HTTP handlers to the recommendation service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/repos/:id/recommendations", h.getRecommendations)
}

func (h *Handler) getRecommendations(c *gin.Context) {
	repoID := c.Param("id")
	if repoID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "repo id is required", nil)
		return
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLimit {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 30", nil)
			return
		}
		limit = parsed
	}

	recs, err := h.Svc.GetRecommendations(c.Request.Context(), repoID, limit)
	if err != nil {
		switch {
		case errors.Is(err, repos.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "repo not found", nil)
		case errors.Is(err, repos.ErrNoFingerprint):
			respond.Error(c, http.StatusNotFound, "not_found", "fingerprint not found", nil)
		case errors.Is(err, ErrInvalidLimit):
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be at least 1", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "recommendation_failed", "failed to compute recommendations", nil)
		}
		return
	}

	c.Set("repoId", repoID)
	respond.OK(c, recs)
}
