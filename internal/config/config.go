package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	yaml "gopkg.in/yaml.v3"
)

// Config 保存进程级配置：内置默认值 → 配置文件 → 环境变量，后者覆盖前者。
// 字段提供开发友好的默认值；部署时通过 config.yaml 或环境变量覆盖。
type Config struct {
	Env         string
	Port        int
	HTTPAddr    string
	FontDir     string
	DefaultFont string
	StaticDir   string
	Instancer   InstancerConfig
	CORS        CORSConfig
	Limits      LimitConfig
	Security    SecurityConfig
}

// InstancerConfig 描述外部 fontTools 命令的调用方式。
type InstancerConfig struct {
	// fonttools 可执行文件（可为绝对路径）
	Command string
	// 单次实例化（含 WOFF2 压缩）的超时
	Timeout time.Duration
	// 临时目录，为空则使用系统默认
	TempDir string
}

type CORSConfig struct {
	// 是否为所有接口启用 CORS；默认开启（前端可能与服务分开部署）
	Enable bool
	// 允许的来源；为空表示任意来源
	AllowedOrigins []string
}

type LimitConfig struct {
	// 请求体最大字节数
	MaxBodyBytes int64
	// 单次请求允许的最大轴数量
	MaxAxes int
}

type SecurityConfig struct {
	HSTS struct {
		Enabled           bool
		MaxAgeSeconds     int
		IncludeSubdomains bool
	}
	// 为空时不发送 Content-Security-Policy
	ContentSecurityPolicy string
}

// DefaultContentSecurityPolicy 允许入口页的内联样式与同源字体，禁止被嵌入。
const DefaultContentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; font-src 'self'; img-src 'self' data:; object-src 'none'; base-uri 'none'; frame-ancestors 'none'"

// envModel 为环境变量覆盖层；零值表示未设置。
type envModel struct {
	Env         string        `env:"APP_ENV"`
	Port        int           `env:"PORT"`
	FontDir     string        `env:"FONT_DIR"`
	DefaultFont string        `env:"DEFAULT_FONT"`
	StaticDir   string        `env:"STATIC_DIR"`
	Command     string        `env:"FONTTOOLS_BIN"`
	Timeout     time.Duration `env:"INSTANCER_TIMEOUT"`
	Origins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Default 返回内置默认配置（本地开发可直接运行）。
func Default() Config {
	cfg := Config{
		Env:         "dev",
		Port:        8000,
		FontDir:     ".",
		DefaultFont: "Roboto-Flex-Variable.ttf",
		StaticDir:   "web",
		Instancer:   InstancerConfig{Command: "fonttools", Timeout: 60 * time.Second},
		CORS:        CORSConfig{Enable: true},
		Limits:      LimitConfig{MaxBodyBytes: 64 << 10, MaxAxes: 64},
		Security: func() SecurityConfig {
			var s SecurityConfig
			s.HSTS.Enabled = true
			s.HSTS.MaxAgeSeconds = 31536000
			s.HSTS.IncludeSubdomains = true
			s.ContentSecurityPolicy = DefaultContentSecurityPolicy
			return s
		}(),
	}
	cfg.HTTPAddr = fmt.Sprintf(":%d", cfg.Port)
	return cfg
}

// Load 生成配置：先使用内置默认值，再用工作目录下的配置文件（config.yaml/yml/json）覆盖，
// 最后应用环境变量（PORT 等）。
func Load() (Config, error) {
	cfg := Default()
	if path := FirstExisting("config.yaml", "config.yml", "config.json"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var em envModel
	if err := env.Parse(&em); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if em.Env != "" {
		cfg.Env = em.Env
	}
	if em.Port != 0 {
		if em.Port < 0 || em.Port > 65535 {
			return fmt.Errorf("invalid PORT %d", em.Port)
		}
		cfg.Port = em.Port
		cfg.HTTPAddr = fmt.Sprintf(":%d", cfg.Port)
	}
	if em.FontDir != "" {
		cfg.FontDir = em.FontDir
	}
	if em.DefaultFont != "" {
		cfg.DefaultFont = em.DefaultFont
	}
	if em.StaticDir != "" {
		cfg.StaticDir = em.StaticDir
	}
	if em.Command != "" {
		cfg.Instancer.Command = em.Command
	}
	if em.Timeout > 0 {
		cfg.Instancer.Timeout = em.Timeout
	}
	if len(em.Origins) > 0 {
		cfg.CORS.AllowedOrigins = em.Origins
	}
	return nil
}

// 配置文件格式：YAML 或 JSON。仅非零值会覆盖现有字段。
func loadFromFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var fm fileModel
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else if ext == ".json" || ext == "" {
		if err := json.Unmarshal(b, &fm); err != nil {
			return err
		}
	} else {
		return errors.New("unsupported config file format")
	}
	return fm.apply(cfg)
}

// --- 配置文件模型与合并逻辑 ---

type fileModel struct {
	Env         string         `yaml:"env" json:"env"`
	Port        int            `yaml:"port" json:"port"`
	HTTPAddr    string         `yaml:"http_addr" json:"http_addr"`
	FontDir     string         `yaml:"font_dir" json:"font_dir"`
	DefaultFont string         `yaml:"default_font" json:"default_font"`
	StaticDir   string         `yaml:"static_dir" json:"static_dir"`
	Instancer   *fileInstancer `yaml:"instancer" json:"instancer"`
	CORS        *fileCORS      `yaml:"cors" json:"cors"`
	Limits      *fileLimits    `yaml:"limits" json:"limits"`
	Security    *fileSecurity  `yaml:"security" json:"security"`
}

type fileInstancer struct {
	Command string `yaml:"command" json:"command"`
	Timeout string `yaml:"timeout" json:"timeout"`
	TempDir string `yaml:"temp_dir" json:"temp_dir"`
}
type fileCORS struct {
	Enable         *bool    `yaml:"enable" json:"enable"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}
type fileLimits struct {
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes"`
	MaxAxes      int   `yaml:"max_axes" json:"max_axes"`
}
type fileSecurity struct {
	HSTS struct {
		Enabled           *bool `yaml:"enabled" json:"enabled"`
		MaxAge            int   `yaml:"max_age" json:"max_age"`
		IncludeSubdomains *bool `yaml:"include_subdomains" json:"include_subdomains"`
	} `yaml:"hsts" json:"hsts"`
	CSP *string `yaml:"content_security_policy" json:"content_security_policy"`
}

func (fm *fileModel) apply(cfg *Config) error {
	if fm.Env != "" {
		cfg.Env = fm.Env
	}
	if fm.Port != 0 {
		cfg.Port = fm.Port
		cfg.HTTPAddr = fmt.Sprintf(":%d", fm.Port)
	}
	// http_addr 显式指定时优先于 port
	if fm.HTTPAddr != "" {
		cfg.HTTPAddr = fm.HTTPAddr
	}
	if fm.FontDir != "" {
		cfg.FontDir = fm.FontDir
	}
	if fm.DefaultFont != "" {
		cfg.DefaultFont = fm.DefaultFont
	}
	if fm.StaticDir != "" {
		cfg.StaticDir = fm.StaticDir
	}
	if fm.Instancer != nil {
		if fm.Instancer.Command != "" {
			cfg.Instancer.Command = fm.Instancer.Command
		}
		if fm.Instancer.Timeout != "" {
			d, err := time.ParseDuration(fm.Instancer.Timeout)
			if err != nil {
				return fmt.Errorf("instancer.timeout: %w", err)
			}
			if d <= 0 {
				return fmt.Errorf("instancer.timeout: must be positive, got %s", fm.Instancer.Timeout)
			}
			cfg.Instancer.Timeout = d
		}
		if fm.Instancer.TempDir != "" {
			cfg.Instancer.TempDir = fm.Instancer.TempDir
		}
	}
	if fm.CORS != nil {
		if fm.CORS.Enable != nil {
			cfg.CORS.Enable = *fm.CORS.Enable
		}
		if len(fm.CORS.AllowedOrigins) > 0 {
			cfg.CORS.AllowedOrigins = fm.CORS.AllowedOrigins
		}
	}
	if fm.Limits != nil {
		if fm.Limits.MaxBodyBytes > 0 {
			cfg.Limits.MaxBodyBytes = fm.Limits.MaxBodyBytes
		}
		if fm.Limits.MaxAxes > 0 {
			cfg.Limits.MaxAxes = fm.Limits.MaxAxes
		}
	}
	if fm.Security != nil {
		if fm.Security.HSTS.Enabled != nil {
			cfg.Security.HSTS.Enabled = *fm.Security.HSTS.Enabled
		}
		if fm.Security.HSTS.MaxAge != 0 {
			cfg.Security.HSTS.MaxAgeSeconds = fm.Security.HSTS.MaxAge
		}
		if fm.Security.HSTS.IncludeSubdomains != nil {
			cfg.Security.HSTS.IncludeSubdomains = *fm.Security.HSTS.IncludeSubdomains
		}
		if fm.Security.CSP != nil {
			cfg.Security.ContentSecurityPolicy = *fm.Security.CSP
		}
	}
	return nil
}

// FirstExisting 按顺序返回第一个存在的文件路径；若都不存在则返回空字符串。
// 注意：该函数用于在多路径间进行容错查找，如配置文件或静态资源位置。
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
