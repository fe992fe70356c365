// server/internal/api/handlers/metrics_handler.go
package handlers

import (
	"context"
	"net/http"

	"recycle-connect-api-server/internal/database"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	Metrics *database.MetricsStore
}

// GetSystemMetrics trả về số liệu tổng hợp cho trang Performance.
func (h *MetricsHandler) GetSystemMetrics(c *gin.Context) {
	metrics, err := h.Metrics.GetSystemMetrics(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}
