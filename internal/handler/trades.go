package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetTrades returns recently executed trades, newest first.
func (h *Handler) GetTrades(c *gin.Context) {
	if h.trades == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trade log unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-trades")
	defer span.End()

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
			return
		}
		limit = parsed
	}
	span.SetAttributes(attribute.Int("limit", limit))

	trades, err := h.trades.RecentTrades(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}
