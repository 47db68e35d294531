// Package scan 实现库目录的顺序扫描编排：
// 枚举可执行文件 → 分组 → 逐组查询元数据 → 合并为 GameAsset。
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions 是未配置时识别的可执行扩展名。
var DefaultExtensions = []string{".exe"}

// ScanExecutables 扫描 root 下匹配扩展名的文件，并应用目录排除规则。
//
// 规则（硬约束）：
// - extensions 为空时使用 DefaultExtensions；匹配不区分大小写
// - excludeDirs 均视为相对 root 的路径（若是绝对路径，则按绝对路径处理）
// - 不可读的子目录/条目跳过，不中断整体扫描；仅根目录不可读时报错
// - 返回绝对路径，按路径字典序稳定排序
//
// 注意：扫描阶段只做目录遍历，不读文件内容。
func ScanExecutables(root string, extensions, excludeDirs []string) ([]string, error) {
	root = filepath.Clean(root)
	excluded := buildExcluded(root, excludeDirs)
	extSet := buildExtSet(extensions)

	files := make([]string, 0, 64)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// 单个条目不可读只影响它自己：跳过继续，与 DirSize 同一口径。
			// 根目录本身不可读没有降级余地，原样报错。
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// 统一的排除判断：目录用 SkipDir，文件则直接跳过。
		if isExcluded(path, excluded) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := extSet[ext]; !ok {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 强制稳定输出，避免不同平台/文件系统行为差异带来的不确定性。
	sort.Strings(files)
	return files, nil
}

func buildExtSet(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	set := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return set
}

func buildExcluded(root string, excludeDirs []string) []string {
	excluded := make([]string, 0, len(excludeDirs))
	for _, x := range excludeDirs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if filepath.IsAbs(x) {
			excluded = append(excluded, filepath.Clean(x))
			continue
		}
		// x 是相对路径：相对 root。
		excluded = append(excluded, filepath.Clean(filepath.Join(root, x)))
	}

	// 排除列表排序后，isExcluded 的行为更可预测（且便于测试）。
	sort.Strings(excluded)
	return excluded
}

func isExcluded(path string, excluded []string) bool {
	path = filepath.Clean(path)
	for _, base := range excluded {
		if isUnder(path, base) {
			return true
		}
	}
	return false
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, base+sep)
}
