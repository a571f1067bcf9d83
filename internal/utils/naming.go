package utils

import (
	"math"
	"path/filepath"
	"strings"
)

// DownloadName 生成实例文件的下载名：<去扩展名的字体名>-Custom.<ext>。
// 例如 Roboto-Flex-Variable.ttf + woff2 → Roboto-Flex-Variable-Custom.woff2。
func DownloadName(fontFile, ext string) string {
	base := strings.TrimSuffix(fontFile, filepath.Ext(fontFile))
	return base + "-Custom." + strings.TrimPrefix(ext, ".")
}

// ValidAxisTag 判断是否为合法的 OpenType 轴标签：1~4 个可打印 ASCII 字符，且不含空格与 '='。
// 注册轴为小写（wght、wdth），自定义轴为大写（GRAD、XOPQ）。
func ValidAxisTag(tag string) bool {
	if len(tag) == 0 || len(tag) > 4 {
		return false
	}
	for i := 0; i < len(tag); i++ {
		b := tag[i]
		if b <= 0x20 || b >= 0x7f || b == '=' || b == '-' {
			return false
		}
	}
	return true
}

// Finite 判断数值既非 NaN 也非无穷。
func Finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
