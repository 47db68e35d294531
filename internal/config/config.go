// Package config 负责 gamebox.json 的发现、解析与 CLI 参数合并。
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// ErrCodeNotFound 表示无参运行但 cwd 下没有 gamebox.json。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingPath 表示无参运行但配置文件缺少 path 字段。
	ErrCodeMissingPath = "config_missing_path"
)

const (
	// FileName 是配置文件的固定名字。
	FileName = "gamebox.json"

	// DefaultTimeoutSeconds 是单次查询的默认等待上限。
	DefaultTimeoutSeconds = 30
	// DefaultConcurrency 是并发查询的内置默认值（当配置未指定时）。
	DefaultConcurrency = 5
)

// DefaultProviders 是未配置时启用的来源集合。
// igdb 需要凭据、tgdb 只有占位实现，都不能作为默认值。
var DefaultProviders = []string{"dlsite"}

// CLIArgs 只包含 CLI 暴露的入口项，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --provider 必须能覆盖 config.providers。
type CLIArgs struct {
	Path string

	Providers    []string
	ProvidersSet bool

	Output    string
	OutputSet bool
}

// FileConfig 对应 gamebox.json 的解析结构。
type FileConfig struct {
	Path           string       `json:"path"`
	Extensions     []string     `json:"extensions"`
	ExcludeDirs    []string     `json:"exclude_dirs"`
	Providers      []string     `json:"providers"`
	IGDB           *IGDBConfig  `json:"igdb"`
	Proxy          *ProxyConfig `json:"proxy"`
	TimeoutSeconds int          `json:"timeout_seconds"`
	Concurrency    int          `json:"concurrency"`
	Output         string       `json:"output"`
}

// IGDBConfig 是 IGDB（Twitch OAuth）凭据。
type IGDBConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Path string

	Extensions  []string
	ExcludeDirs []string
	Providers   []string

	IGDBClientID     string
	IGDBClientSecret string

	ProxyURL    string
	Timeout     time.Duration
	Concurrency int
	Output      string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingPath:
		return fmt.Sprintf("%s：配置文件 %q 缺少必填字段 path", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 按固定规则发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 path：尝试读取 <path>/gamebox.json（可选）
// 2) CLI 未提供 path：必须读取 <cwd>/gamebox.json（必选），且其中必须包含 path
//
// 覆盖优先级（固定）：
// - path：CLI path > config path
// - providers：CLI > config > 默认 [dlsite]
// - output：CLI > config >（各命令自己的默认文件名）
// - 其他字段：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	if strings.TrimSpace(cli.Path) != "" {
		// CLI 给了 path：配置文件可选，位置固定在 <path>/gamebox.json。
		absPath := absCleanFrom(cwdAbs, cli.Path)
		cfgPath := filepath.Join(absPath, FileName)

		fc, _, err := readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		return merge(absPath, cli, fc, cfgPath)
	}

	// CLI 没给 path：必须读取 <cwd>/gamebox.json，且其中必须包含 path。
	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	if strings.TrimSpace(fc.Path) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingPath, Path: cfgPath}
	}

	absPath := absCleanFrom(cwdAbs, fc.Path)
	return merge(absPath, cli, fc, cfgPath)
}

func merge(absPath string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// providers：CLI > config > 默认
	providers := append([]string(nil), DefaultProviders...)
	if cli.ProvidersSet {
		providers = append([]string(nil), cli.Providers...)
	} else if len(fc.Providers) > 0 {
		providers = append([]string(nil), fc.Providers...)
	}
	for _, p := range providers {
		if err := validateProvider(p); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	}

	// igdb 启用时凭据必须齐全：延迟到查询时才失败会浪费整轮扫描。
	var clientID, clientSecret string
	if fc.IGDB != nil {
		clientID = strings.TrimSpace(fc.IGDB.ClientID)
		clientSecret = strings.TrimSpace(fc.IGDB.ClientSecret)
	}
	if containsProvider(providers, "igdb") && (clientID == "" || clientSecret == "") {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath,
			Err: fmt.Errorf("启用 igdb 时必须配置 igdb.client_id 与 igdb.client_secret")}
	}

	timeoutSec := fc.TimeoutSeconds
	if timeoutSec == 0 {
		timeoutSec = DefaultTimeoutSeconds
	}
	// 文档约定：范围 [1, 300]；超出截断。
	if timeoutSec < 1 {
		timeoutSec = 1
	}
	if timeoutSec > 300 {
		timeoutSec = 300
	}

	concurrency := fc.Concurrency
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}
	// 文档约定：范围 [1, 16]；超出截断。
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 16 {
		concurrency = 16
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%q", proxyURL)}
		}
	}

	output := strings.TrimSpace(fc.Output)
	if cli.OutputSet {
		output = strings.TrimSpace(cli.Output)
	}

	return EffectiveConfig{
		Path:             absPath,
		Extensions:       append([]string(nil), fc.Extensions...),
		ExcludeDirs:      append([]string(nil), fc.ExcludeDirs...),
		Providers:        providers,
		IGDBClientID:     clientID,
		IGDBClientSecret: clientSecret,
		ProxyURL:         proxyURL,
		Timeout:          time.Duration(timeoutSec) * time.Second,
		Concurrency:      concurrency,
		Output:           output,
	}, nil
}

func validateProvider(p string) error {
	switch p {
	case "dlsite", "tgdb", "igdb":
		return nil
	case "":
		return fmt.Errorf("provider 不能为空")
	default:
		return fmt.Errorf("provider 只能是 dlsite、tgdb 或 igdb，实际是 %q", p)
	}
}

func containsProvider(providers []string, name string) bool {
	for _, p := range providers {
		if p == name {
			return true
		}
	}
	return false
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
