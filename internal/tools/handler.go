package tools

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stackscout-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the tool catalog.
type Handler struct {
	Catalog Catalog
}

// NewHandler constructs a Handler.
func NewHandler(catalog Catalog) *Handler {
	return &Handler{Catalog: catalog}
}

// RegisterRoutes attaches tool routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tools", h.listTools)
	rg.GET("/tools/:id", h.getTool)
}

func (h *Handler) listTools(c *gin.Context) {
	all, err := h.Catalog.ListTools(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list tools", nil)
		return
	}

	category := strings.TrimSpace(c.Query("category"))
	tagFilter := parseTagFilter(c.Query("tags"))

	out := make([]Tool, 0, len(all))
	for _, tool := range all {
		if category != "" && !strings.EqualFold(tool.Category, category) {
			continue
		}
		if len(tagFilter) > 0 && !hasAnyTag(tool, tagFilter) {
			continue
		}
		out = append(out, tool)
	}
	respond.OK(c, out)
}

func (h *Handler) getTool(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "tool id is required", nil)
		return
	}

	tool, err := h.Catalog.GetTool(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch tool", nil)
		}
		return
	}

	c.Set("toolId", tool.ID)
	respond.OK(c, tool)
}

func parseTagFilter(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func hasAnyTag(tool Tool, wanted []string) bool {
	for _, tag := range tool.Tags {
		lower := strings.ToLower(tag)
		for _, w := range wanted {
			if lower == w {
				return true
			}
		}
	}
	return false
}
