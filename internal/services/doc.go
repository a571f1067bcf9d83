// Package services 提供应用的领域服务层：字体名解析、参数校验与实例化编排。
// 该层对 handlers 提供稳定的接口，避免在 HTTP 层直接操作字体目录或外部进程。
package services
