package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fontsmith/internal/metrics"
)

// @Summary      健康检查
// @Tags         ops
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

// @Summary      Prometheus 指标
// @Description  暴露 Prometheus 指标（text/plain; version=0.0.4）
// @Tags         ops
// @Produce      plain
// @Success      200 {string} string
// @Router       /metrics [get]
func (h *Handler) metrics(c *gin.Context) { metrics.Exposer()(c) }
