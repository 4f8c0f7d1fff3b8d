package handler

import (
	"net/http"
	"strconv"

	"penny-wise/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetMemory returns stored stage memories for one agent type. With the
// vector backend the optional q parameter orders results by similarity
// to the query text; without it the backend's default ordering applies.
func (h *Handler) GetMemory(c *gin.Context) {
	if h.store == nil || h.embedder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "memory store unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-memory")
	defer span.End()

	agentType := domain.AgentType(c.Param("agentType"))
	if !agentType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown agent type: " + string(agentType)})
		return
	}
	span.SetAttributes(attribute.String("agent_type", string(agentType)))

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 100"})
			return
		}
		limit = parsed
	}

	query, err := h.embedder.Embed(ctx, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.store.Retrieve(ctx, agentType, query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agent_type":        agentType,
		"entries":           entries,
		"count":             len(entries),
		"similarity_search": h.store.SimilaritySearch(),
	})
}
