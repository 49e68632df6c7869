package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/smart-presensee/auto-alpha-api/internal/service"
)

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Handle proxies to the Prometheus handler.
func (h *MetricsHandler) Handle(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
