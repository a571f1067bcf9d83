package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fontsmith/internal/config"
)

// CORS 为所有接口添加跨域响应头；AllowedOrigins 为空时允许任意来源。
// 预检请求（OPTIONS）直接以 204 结束。
func CORS(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.CORS.Enable {
			c.Next()
			return
		}
		origin := c.GetHeader("Origin")
		if origin != "" && (len(cfg.CORS.AllowedOrigins) == 0 || contains(cfg.CORS.AllowedOrigins, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Expose-Headers", "Content-Disposition")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
