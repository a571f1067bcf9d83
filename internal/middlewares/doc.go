// Package middlewares 提供 Gin 中间件：请求 ID、访问日志、安全响应头、CORS 与请求体大小限制。
package middlewares
