// Package handlers 暴露 HTTP 层接口，负责路由注册、请求解析与错误映射。
// handlers 内部聚焦输入/输出转换，并委托 services 层完成字体实例化。
package handlers
