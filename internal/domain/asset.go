package domain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// GameAsset 是扫描后最终呈现的信息项：本地扫描结果与各来源元数据的合并。
//
// 约束：
// - 由 scan 层一次性构建，构建后引擎不再修改
// - SubTitle 恒为本地目录名（即使远端给出了更好的标题）
type GameAsset struct {
	// ID 在构建时分配，进程内唯一。
	ID string `json:"id"`
	// Title 优先取置信度最高的远端标题；未找到时回退本地目录名。
	Title string `json:"title"`
	// SubTitle 恒为本地扫描的目录名。
	SubTitle string `json:"sub_title"`
	// Version 来自目录名的版本号提取；可为空。
	Version string `json:"version,omitempty"`
	// CoverURLs 是各来源封面的去重并集。
	CoverURLs []string `json:"cover_urls"`
	// DirPath 是游戏根目录路径。
	DirPath string `json:"dir_path"`
	// StartPaths 收集全部候选启动项（相对 DirPath）；无法判断哪个才是真正入口。
	StartPaths []string `json:"start_paths"`
	// StartPathDefault 取 StartPaths 的第一项。
	StartPathDefault string `json:"start_path_default"`

	Description string    `json:"description,omitempty"`
	ReleaseDate time.Time `json:"release_date"`
	Developer   string    `json:"developer,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	// Tags 是各来源 genres 与 tags 的去重并集。
	Tags []string `json:"tags,omitempty"`

	// ByteSize 是根目录下全部文件的字节数之和。
	ByteSize int64 `json:"byte_size"`
	// ScanTime 是本条结果的构建时间。
	ScanTime time.Time `json:"scan_time"`
}

// Launch 启动游戏进程，工作目录为 DirPath。
//
// index < 0 时使用默认启动项；越界或文件不存在返回错误。
// 返回实际启动的完整路径。
func (g *GameAsset) Launch(index int) (string, error) {
	if len(g.StartPaths) == 0 {
		return "", fmt.Errorf("没有可用启动项：%q", g.DirPath)
	}

	start := g.StartPathDefault
	if index >= 0 {
		if index >= len(g.StartPaths) {
			return "", fmt.Errorf("启动项索引越界：%d（共 %d 个）", index, len(g.StartPaths))
		}
		start = g.StartPaths[index]
	}
	if start == "" {
		start = g.StartPaths[0]
	}

	full := filepath.Join(filepath.FromSlash(g.DirPath), filepath.FromSlash(start))
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("启动项不存在：%q：%w", full, err)
	}

	cmd := exec.Command(full)
	cmd.Dir = filepath.FromSlash(g.DirPath)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("启动失败：%q：%w", full, err)
	}
	// 不等待进程退出：启动器语义是 fire-and-forget。
	_ = cmd.Process.Release()
	return full, nil
}
