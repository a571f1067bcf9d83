package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fontsmith/internal/config"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })
	r.POST("/echo", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusOK, string(b))
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	r := newEngine(RequestID())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	rid := w.Header().Get("X-Request-Id")
	_, err := uuid.Parse(rid)
	require.NoError(t, err)
	require.Equal(t, rid, w.Body.String())
}

func TestRequestIDPassthrough(t *testing.T) {
	r := newEngine(RequestID())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	r.ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestCORSAnyOrigin(t *testing.T) {
	cfg := config.Default()
	r := newEngine(CORS(cfg))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSPreflight(t *testing.T) {
	cfg := config.Default()
	r := newEngine(CORS(cfg))
	r.OPTIONS("/echo", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	cfg := config.Default()
	cfg.CORS.AllowedOrigins = []string{"https://fonts.example.com"}
	r := newEngine(CORS(cfg))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.CORS.Enable = false
	r := newEngine(CORS(cfg))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeadersHSTSOnlyOverHTTPS(t *testing.T) {
	cfg := config.Default()
	r := newEngine(SecurityHeaders(cfg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)
	require.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeadersForwardedProtoFirstHop(t *testing.T) {
	r := newEngine(SecurityHeaders(config.Default()))
	for proto, want := range map[string]bool{
		"HTTPS":       true,
		"https, http": true,
		"http, https": false,
		"":            false,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if proto != "" {
			req.Header.Set("X-Forwarded-Proto", proto)
		}
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Header().Get("Strict-Transport-Security") != "", proto)
	}
}

func TestSecurityHeadersContentPolicy(t *testing.T) {
	cfg := config.Default()
	r := newEngine(SecurityHeaders(cfg))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, config.DefaultContentSecurityPolicy, w.Header().Get("Content-Security-Policy"))
	require.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
	require.Equal(t, "same-origin", w.Header().Get("Cross-Origin-Opener-Policy"))

	cfg.Security.ContentSecurityPolicy = ""
	cfg.Security.HSTS.Enabled = false
	r = newEngine(SecurityHeaders(cfg))
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Content-Security-Policy"))
	require.Empty(t, w.Header().Get("Strict-Transport-Security"))
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(BodyLimit(8))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("short")))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	r := newEngine(RequestID(), RequestLogger())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
