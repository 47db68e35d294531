// Package jsonout 负责把扫描/搜索结果落盘为 JSON 文件。
package jsonout

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/John-Robertt/gamebox/internal/domain"
	"github.com/John-Robertt/gamebox/internal/infra/fsx"
)

const (
	// DefaultScanFile 是 scan 命令的默认输出文件名。
	DefaultScanFile = "scan_result.json"
	// DefaultSearchFile 是 search 命令的默认输出文件名。
	DefaultSearchFile = "search_result.json"
)

// ScanResult 是 scan_result.json 的顶层结构。
type ScanResult struct {
	Root      string             `json:"root"`
	ScanTime  time.Time          `json:"scan_time"`
	Assets    []domain.GameAsset `json:"assets"`
	AssetSize int                `json:"asset_size"`
}

// SearchResult 是 search_result.json 的顶层结构。
type SearchResult struct {
	Query   string               `json:"query"`
	Results []domain.QueryResult `json:"results"`
}

// NewScanResult 组装顶层结构并打上当前时间戳。
// 调用方复用同一个值落盘和输出到 stdout，保证两份文档一致。
func NewScanResult(root string, assets []domain.GameAsset) ScanResult {
	return ScanResult{
		Root:      root,
		ScanTime:  time.Now(),
		Assets:    assets,
		AssetSize: len(assets),
	}
}

// WriteScanResult 原子写出扫描结果；path 为空时用 DefaultScanFile。
// 返回实际写入的完整路径。
func WriteScanResult(path string, res ScanResult) (string, error) {
	return write(path, DefaultScanFile, res)
}

// WriteSearchResult 原子写出搜索结果；path 为空时用 DefaultSearchFile。
// 返回实际写入的完整路径。
func WriteSearchResult(path, query string, results []domain.QueryResult) (string, error) {
	res := SearchResult{
		Query:   query,
		Results: results,
	}
	return write(path, DefaultSearchFile, res)
}

func write(path, defaultName string, v any) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultName
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}

	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	if err := fsx.WriteFileAtomicReplace(dir, name, b); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
