package storage

// 字体目录适配：将请求中的字体名解析为固定目录下的本地文件，并提供目录枚举。

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound 表示字体文件在目录中不存在。
var ErrNotFound = errors.New("font_not_found")

// ErrInvalidName 表示字体名去除路径后为空或为特殊目录名。
var ErrInvalidName = errors.New("invalid_font_name")

// FontFile 描述目录中的一个可用字体文件。
type FontFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FontDir 为只读的本地字体目录。
type FontDir struct {
	root string
}

// NewFontDir 构造字体目录；root 为空时使用当前工作目录。
func NewFontDir(root string) *FontDir {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	return &FontDir{root: root}
}

// Root 返回目录路径。
func (d *FontDir) Root() string { return d.root }

// Basename 只保留名称的最后一段；反斜杠同样视为路径分隔符。
// 以分隔符结尾的名称（如 "a.ttf/"）没有文件名部分，返回空字符串。
func Basename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" || strings.HasSuffix(name, "/") {
		return ""
	}
	return name[strings.LastIndex(name, "/")+1:]
}

// Resolve 将字体名解析为目录内文件的路径。名称中的任何目录部分都会被丢弃，
// 因此 "../etc/passwd" 等价于 "passwd"。文件不存在或为目录时返回 ErrNotFound。
func (d *FontDir) Resolve(name string) (string, error) {
	base := Basename(strings.TrimSpace(name))
	switch base {
	case "", ".", "..":
		return "", ErrInvalidName
	}
	p := filepath.Join(d.root, base)
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat %s: %w", base, err)
	}
	if fi.IsDir() {
		return "", ErrNotFound
	}
	return p, nil
}

// Exists 报告目录中是否存在该字体文件。
func (d *FontDir) Exists(name string) bool {
	_, err := d.Resolve(name)
	return err == nil
}

// List 返回目录中的 .ttf/.otf 文件，按名称排序。
func (d *FontDir) List() ([]FontFile, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, err
	}
	out := make([]FontFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".ttf", ".otf":
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, FontFile{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
