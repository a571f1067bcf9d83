package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fontsmith/internal/config"
)

type header struct{ key, value string }

// SecurityHeaders 在启动时按配置生成固定的安全响应头集合，之后每个请求原样写入。
// HSTS 只在请求经由 HTTPS（直连 TLS 或反代声明的 X-Forwarded-Proto）时附加。
func SecurityHeaders(cfg config.Config) gin.HandlerFunc {
	always := []header{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
		{"Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()"},
		{"Cross-Origin-Opener-Policy", "same-origin"},
	}
	if csp := strings.TrimSpace(cfg.Security.ContentSecurityPolicy); csp != "" {
		always = append(always, header{"Content-Security-Policy", csp})
	}
	hsts := hstsValue(cfg.Security)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range always {
			h.Set(kv.key, kv.value)
		}
		if hsts != "" && overHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

func hstsValue(s config.SecurityConfig) string {
	if !s.HSTS.Enabled || s.HSTS.MaxAgeSeconds < 0 {
		return ""
	}
	v := "max-age=" + strconv.Itoa(s.HSTS.MaxAgeSeconds)
	if s.HSTS.IncludeSubdomains {
		v += "; includeSubDomains"
	}
	return v
}

// overHTTPS 只采信 X-Forwarded-Proto 的第一跳（最靠近客户端的代理）。
func overHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	proto, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}
