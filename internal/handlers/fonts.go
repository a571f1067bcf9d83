package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fontsmith/internal/fonttools"
	"fontsmith/internal/metrics"
	"fontsmith/internal/middlewares"
	"fontsmith/internal/services"
)

// generate 返回指定输出格式的实例化处理器。
// @Summary      生成静态字体实例
// @Description  按轴取值对可变字体进行实例化，返回 TTF 或 WOFF2 文件
// @Tags         fonts
// @Accept       json
// @Produce      octet-stream
// @Param        body body services.GenerateRequest true "字体名与轴取值"
// @Success      200 {file} binary
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /generate-font [post]
// @Router       /generate-font-woff2 [post]
func (h *Handler) generate(flavor fonttools.Flavor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.GenerateRequest
		// 空请求体视为空对象，随后因缺少字体返回 400
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		start := time.Now()
		out, err := h.fontSvc.Generate(c.Request.Context(), req, flavor)
		if err != nil {
			status, msg := errorStatus(err)
			if status == http.StatusInternalServerError {
				metrics.ObserveGeneration(flavor.String(), "error", time.Since(start))
				log.WithFields(log.Fields{
					"request_id": c.GetString(middlewares.RequestIDKey),
					"font":       req.Font,
					"flavor":     flavor.String(),
				}).WithError(err).Error("font generation failed")
			}
			writeError(c, status, msg)
			return
		}
		metrics.ObserveGeneration(flavor.String(), "ok", time.Since(start))
		setNoCache(c)
		c.Header("Content-Disposition", attachment(out.FileName))
		c.Data(http.StatusOK, out.MIMEType, out.Data)
	}
}

// @Summary      可用字体列表
// @Tags         fonts
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /fonts [get]
func (h *Handler) listFonts(c *gin.Context) {
	list, err := h.fontSvc.Fonts(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"fonts": list})
}

// fontFile 返回原始可变字体文件，供前端预览使用。
// @Summary      下载原始字体
// @Tags         fonts
// @Produce      octet-stream
// @Param        name path string true "字体文件名"
// @Success      200 {file} binary
// @Failure      404 {object} map[string]string
// @Router       /fonts/{name} [get]
func (h *Handler) fontFile(c *gin.Context) {
	p, err := h.fontSvc.Path(c.Param("name"))
	if err != nil {
		status, msg := errorStatus(err)
		writeError(c, status, msg)
		return
	}
	c.File(p)
}

// errorStatus 将服务层错误映射为 HTTP 状态码与消息：缺少字体 400，文件不存在 404，
// 其余（含无法传给 fontTools 的轴参数）500。
func errorStatus(err error) (int, string) {
	var nf *services.NotFoundError
	switch {
	case errors.Is(err, services.ErrNoFont):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &nf):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
