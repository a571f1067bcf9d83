package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fontsmith/internal/fonttools"
	"fontsmith/internal/storage"
	"fontsmith/internal/utils"
)

// ErrNoFont 表示请求未指定字体。
var ErrNoFont = errors.New("No font specified")

// ErrInvalidAxes 表示轴参数无法传给实例化工具（标签格式、数值或数量）。
// 与实例化失败同等对待，由 HTTP 层映射为 500。
var ErrInvalidAxes = errors.New("invalid_axes")

// NotFoundError 表示字体目录中不存在请求的文件。Name 为去除路径后的文件名。
type NotFoundError struct{ Name string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("Font file %s not found", e.Name) }

// GenerateRequest 为一次实例化请求。Axes 的取值保留 JSON 原始类型，非数值在实例化阶段报错。
type GenerateRequest struct {
	Font string         `json:"font"`
	Axes map[string]any `json:"axes"`
}

// GeneratedFont 为实例化结果。
type GeneratedFont struct {
	Data     []byte
	FileName string
	MIMEType string
}

// FontService 负责字体名解析、轴参数校验以及委托外部实例化工具。
type FontService struct {
	dir     *storage.FontDir
	inst    fonttools.Instancer
	maxAxes int
}

func NewFontService(dir *storage.FontDir, inst fonttools.Instancer, maxAxes int) *FontService {
	return &FontService{dir: dir, inst: inst, maxAxes: maxAxes}
}

// Generate 解析字体文件并生成指定格式的静态实例。
// 字体名只保留最后一段（"../etc/passwd" 视为 "passwd"）。
func (s *FontService) Generate(ctx context.Context, req GenerateRequest, flavor fonttools.Flavor) (*GeneratedFont, error) {
	if strings.TrimSpace(req.Font) == "" {
		return nil, ErrNoFont
	}
	name := storage.Basename(strings.TrimSpace(req.Font))
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	axes, err := s.axisValues(req.Axes)
	if err != nil {
		return nil, err
	}
	data, err := s.inst.Instantiate(ctx, path, axes, flavor)
	if err != nil {
		return nil, err
	}
	return &GeneratedFont{
		Data:     data,
		FileName: utils.DownloadName(name, flavor.Ext()),
		MIMEType: flavor.MIMEType(),
	}, nil
}

// Path 将字体名解析为目录内的文件路径；不存在时返回 *NotFoundError。
func (s *FontService) Path(font string) (string, error) {
	name := storage.Basename(strings.TrimSpace(font))
	path, err := s.dir.Resolve(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return "", &NotFoundError{Name: name}
		}
		return "", err
	}
	return path, nil
}

// Fonts 列出字体目录中可用的字体文件。
func (s *FontService) Fonts(ctx context.Context) ([]storage.FontFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.dir.List()
}

// axisValues 将请求中的轴取值转换为数值，并拒绝会被命令行误解的标签。
func (s *FontService) axisValues(raw map[string]any) (map[string]float64, error) {
	if s.maxAxes > 0 && len(raw) > s.maxAxes {
		return nil, fmt.Errorf("%w: too many axes (%d > %d)", ErrInvalidAxes, len(raw), s.maxAxes)
	}
	axes := make(map[string]float64, len(raw))
	for tag, v := range raw {
		if !utils.ValidAxisTag(tag) {
			return nil, fmt.Errorf("%w: bad axis tag %q", ErrInvalidAxes, tag)
		}
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: axis %s: %v", ErrInvalidAxes, tag, err)
			}
			f = parsed
		default:
			return nil, fmt.Errorf("%w: axis %s is not a number", ErrInvalidAxes, tag)
		}
		if !utils.Finite(f) {
			return nil, fmt.Errorf("%w: axis %s is not a finite number", ErrInvalidAxes, tag)
		}
		axes[tag] = f
	}
	return axes, nil
}
