// Package storage 提供底层文件访问适配：固定字体目录的名称解析与枚举。
// 其它层应通过 services 间接访问字体文件，以便集中处理错误映射与指标。
package storage
