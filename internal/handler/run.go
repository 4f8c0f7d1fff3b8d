package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// TriggerRun executes one full pipeline pass for the requested symbol
// and returns the run report.
func (h *Handler) TriggerRun(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pipeline unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-run")
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol query parameter is required"})
		return
	}
	span.SetAttributes(attribute.String("symbol", symbol))

	report := h.runner.Run(ctx, symbol)
	c.JSON(http.StatusOK, report)
}
