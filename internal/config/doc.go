// Package config 负责加载与解析进程配置：内置默认值、YAML/JSON 配置文件与环境变量（PORT 等）三层合并。
// 该层不依赖其它内部包，供 main 与其它组件直接读取结构化配置。
package config
