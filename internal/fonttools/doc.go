// Package fonttools 封装外部的可变字体实例化能力（fontTools 命令行）。
// 本包不解析字体二进制，仅负责参数拼装、临时文件与进程生命周期。
package fonttools
