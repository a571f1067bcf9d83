package fonttools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Flavor 为输出字体的封装格式。
type Flavor int

const (
	TrueType Flavor = iota
	WOFF2
)

func (f Flavor) String() string {
	if f == WOFF2 {
		return "woff2"
	}
	return "ttf"
}

// Ext 返回下载文件扩展名（不含点）。
func (f Flavor) Ext() string { return f.String() }

// MIMEType 返回响应的 Content-Type。
func (f Flavor) MIMEType() string {
	if f == WOFF2 {
		return "font/woff2"
	}
	return "font/ttf"
}

// Instancer 由可变字体生成静态实例。实现需保证对同一输入是无状态的，可并发调用。
type Instancer interface {
	Instantiate(ctx context.Context, path string, axes map[string]float64, flavor Flavor) ([]byte, error)
}

// CLI 通过调用 fontTools 命令行（varLib.instancer 与 ttLib.woff2）实现 Instancer。
type CLI struct {
	command string
	timeout time.Duration
	tempDir string
}

// NewCLI 构造 CLI；command 为空时使用 PATH 中的 fonttools，timeout<=0 表示不设额外超时。
func NewCLI(command string, timeout time.Duration, tempDir string) *CLI {
	if strings.TrimSpace(command) == "" {
		command = "fonttools"
	}
	return &CLI{command: command, timeout: timeout, tempDir: tempDir}
}

// Instantiate 在临时目录中生成实例并读取结果；临时目录在返回前删除。
func (c *CLI) Instantiate(ctx context.Context, path string, axes map[string]float64, flavor Flavor) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	work, err := os.MkdirTemp(c.tempDir, "instance-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	ttf := filepath.Join(work, "instance.ttf")
	args := append([]string{"varLib.instancer", path}, AxisArgs(axes)...)
	args = append(args, "-o", ttf)
	if err := c.run(ctx, args...); err != nil {
		return nil, err
	}
	out := ttf
	if flavor == WOFF2 {
		out = filepath.Join(work, "instance.woff2")
		if err := c.run(ctx, "ttLib.woff2", "compress", "-o", out, ttf); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	return data, nil
}

// Version 返回 fonttools 的版本号，用于启动时的环境探测。
func (c *CLI) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.command, "--version")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", c.command, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *CLI) run(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Stderr = &stderr
	// 进程被取消后，最多再等待子进程释放 stderr 管道的时间
	cmd.WaitDelay = 2 * time.Second
	start := time.Now()
	err := cmd.Run()
	log.WithFields(log.Fields{
		"tool":       args[0],
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("fonttools finished")
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("fonttools %s: %w", args[0], ctxErr)
	}
	if msg := lastLine(stderr.String()); msg != "" {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return fmt.Errorf("fonttools %s: %s", args[0], msg)
		}
	}
	return fmt.Errorf("fonttools %s: %w", args[0], err)
}

// AxisArgs 将轴取值转换为 instancer 的位置参数（tag=value），按 tag 排序以保证结果稳定。
func AxisArgs(axes map[string]float64) []string {
	tags := make([]string, 0, len(axes))
	for tag := range axes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag+"="+strconv.FormatFloat(axes[tag], 'f', -1, 64))
	}
	return out
}

// lastLine 取 stderr 的最后一个非空行（Python 异常的消息位于回溯末尾）。
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
