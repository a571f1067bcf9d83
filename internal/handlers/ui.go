package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// @Summary      前端入口页
// @Tags         ui
// @Produce      html
// @Success      200 {string} string "HTML"
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	p := filepath.Join(h.cfg.StaticDir, "index.html")
	if _, err := os.Stat(p); err != nil {
		writeError(c, http.StatusNotFound, "index.html not found")
		return
	}
	c.File(p)
}

// static 为未匹配的 GET 请求提供 StaticDir 下的静态文件（app.js、样式等）；其余返回 JSON 404。
func (h *Handler) static(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		writeError(c, http.StatusNotFound, "not found")
		return
	}
	// path.Clean 以 "/" 为根，去除所有 ".." 片段
	rel := path.Clean("/" + c.Request.URL.Path)
	p := filepath.Join(h.cfg.StaticDir, filepath.FromSlash(rel))
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		writeError(c, http.StatusNotFound, "not found")
		return
	}
	c.File(p)
}
