package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/John-Robertt/gamebox/internal/domain"
	"github.com/John-Robertt/gamebox/internal/scan"
)

var _ scan.Observer = (*progressUI)(nil)

// progressUI 是交互终端的进度输出。
//
// 设计目标：
// - 所有过程信息写到 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出契约
// - 事件驱动：scan 层只发事件，CLI 决定如何展示
type progressUI struct {
	w io.Writer
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w}
}

func (p *progressUI) OnStart(root string, fileCount, groupCount int) {
	fmt.Fprintf(p.w, "[%s] gamebox scan\n", time.Now().Format("15:04:05"))
	fmt.Fprintf(p.w, "  path: %s\n", root)
	fmt.Fprintf(p.w, "  files=%d groups=%d\n\n", fileCount, groupCount)
}

func (p *progressUI) OnGroupDone(idx, total int, g domain.PathGroup, asset domain.GameAsset, dur time.Duration) {
	matched := "MATCH"
	if len(asset.CoverURLs) == 0 && asset.Developer == "" && asset.Description == "" {
		matched = "LOCAL"
	}
	fmt.Fprintf(p.w, "[%d/%d] %s %s title=%q starts=%d (%s)\n",
		idx+1, total, matched, truncate(g.RootName, 60), truncate(asset.Title, 60),
		len(asset.StartPaths), formatShortDuration(dur),
	)
}

func (p *progressUI) OnFinish(assetCount int, dur time.Duration) {
	fmt.Fprintf(p.w, "\n完成：assets=%d elapsed=%s\n", assetCount, formatShortDuration(dur))
}

// truncate 按码点截断，避免把 CJK 目录名截成半个字符。
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
