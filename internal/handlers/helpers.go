package handlers

import (
	"mime"

	"github.com/gin-gonic/gin"
)

// setNoCache 为动态生成的响应添加禁止缓存的标准响应头。
func setNoCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// writeError 以 {"error": msg} 的形式返回错误。
func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// attachment 生成下载用的 Content-Disposition 头（非 ASCII 文件名按 RFC 6266 编码）。
func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
