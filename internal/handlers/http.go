package handlers

import (
	"github.com/gin-gonic/gin"

	"fontsmith/internal/config"
	"fontsmith/internal/fonttools"
	"fontsmith/internal/services"
)

// Handler 聚合所有依赖（配置、服务）并注册所有 HTTP 路由。
type Handler struct {
	cfg     config.Config
	fontSvc *services.FontService
}

// New 构造 Handler，将领域服务注入，用于后续路由注册与处理。
func New(cfg config.Config, fs *services.FontService) *Handler {
	return &Handler{cfg: cfg, fontSvc: fs}
}

// RegisterRoutes 在 Gin 路由上挂载全部端点（实例化、字体列表、静态页面与运维端点）。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 前端入口页与其它静态资源
	r.GET("/", h.index)
	r.NoRoute(h.static)

	// 字体实例化
	r.POST("/generate-font", h.generate(fonttools.TrueType))
	r.POST("/generate-font-woff2", h.generate(fonttools.WOFF2))
	r.GET("/fonts", h.listFonts)
	r.GET("/fonts/:name", h.fontFile)

	// 运维端点
	r.GET("/health", h.health)
	r.GET("/healthz", h.health)
	r.GET("/metrics", h.metrics)
}
