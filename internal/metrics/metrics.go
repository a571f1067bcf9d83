package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标定义：
// - http_requests_total：按路径与方法统计请求次数（附带状态码标签）
// - http_request_duration_seconds：按路径与方法统计请求耗时分布
// - fonts_generated_total：按格式与结果统计实例化次数
// - font_instancing_duration_seconds：外部实例化耗时分布
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP 请求计数（按路径/方法/状态）"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP 请求耗时（秒）", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	FontsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fonts_generated_total", Help: "字体实例化计数（按格式/结果）"},
		[]string{"flavor", "result"},
	)
	InstancingLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "font_instancing_duration_seconds", Help: "字体实例化耗时（秒）", Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}},
		[]string{"flavor"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, FontsGenerated, InstancingLatency)
}

// Handler 返回记录基础 HTTP 指标的中间件（QPS/耗时）。
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			// 未匹配路由（静态文件、404）统一归类，避免标签基数膨胀
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		HTTPRequests.WithLabelValues(path, c.Request.Method, fmt.Sprintf("%d", c.Writer.Status())).Inc()
	}
}

// ObserveGeneration 记录一次实例化的结果与耗时。
func ObserveGeneration(flavor, result string, d time.Duration) {
	FontsGenerated.WithLabelValues(flavor, result).Inc()
	InstancingLatency.WithLabelValues(flavor).Observe(d.Seconds())
}

// Exposer 返回标准 Prometheus 暴露处理器。
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
