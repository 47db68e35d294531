// Package group 把扫描到的可执行文件路径聚类为逻辑安装单元（PathGroup）。
//
// 算法：
//  1. 统一路径分隔符并按组件拆分
//  2. 确定扫描根目录（调用方给定，或从输入推导）
//  3. 按扫描根之后的第一级目录初步分组
//  4. 对每组求最近公共父目录，用启发式规则决定游戏根目录
//  5. 提取版本号与查询关键词，按首个子路径稳定排序
package group

import (
	"sort"
	"strings"

	"github.com/John-Robertt/gamebox/internal/domain"
)

// platformNames 是第二级目录的平台名白名单：命中则不做根目录下移。
var platformNames = map[string]struct{}{
	"Windows": {},
	"Linux":   {},
	"Mac":     {},
	"MacOS":   {},
	"Android": {},
	"iOS":     {},
}

// Group 把一组绝对文件路径聚类为 PathGroup 列表。
//
// 扫描根从输入推导：全局公共前缀，截断到不含任何文件名，
// 且当深度 ≥ 2 时回退一级——所有文件都落在同一个目录下时，
// 该目录本身就是一个安装单元，而不是装着多个游戏的库目录。
// 已知扫描根时（Scanner 场景）必须用 GroupUnder，推导仅供裸列表输入。
//
// 约束：
// - 输入为空 => 输出为空
// - 输出按各组首个子路径字典序稳定排序（无子路径的组排最前）
func Group(paths []string) []domain.PathGroup {
	components := splitAll(paths)
	if len(components) == 0 {
		return nil
	}

	scanRootLen := commonPrefixLen(components)

	// 扫描根不得吃掉任何路径的文件名。
	minLen := len(components[0])
	for _, c := range components[1:] {
		if len(c) < minLen {
			minLen = len(c)
		}
	}
	if scanRootLen > minLen-1 {
		scanRootLen = minLen - 1
	}
	if scanRootLen >= 2 {
		scanRootLen--
	}
	if scanRootLen < 0 {
		scanRootLen = 0
	}

	return groupAt(scanRootLen, components)
}

// GroupUnder 在已知扫描根目录 root 下聚类（Scanner 使用此入口）。
// 不在 root 之下的路径被丢弃。
func GroupUnder(root string, paths []string) []domain.PathGroup {
	components := splitAll(paths)
	if len(components) == 0 {
		return nil
	}
	return groupAt(len(splitOne(root)), components)
}

func groupAt(scanRootLen int, components [][]string) []domain.PathGroup {
	// 按第一级目录初步分组；短于扫描根的路径没有第一级，直接丢弃。
	firstLevel := make(map[string][]int, len(components))
	for idx, comp := range components {
		if scanRootLen < len(comp) {
			name := comp[scanRootLen]
			firstLevel[name] = append(firstLevel[name], idx)
		}
	}

	results := make([]domain.PathGroup, 0, len(firstLevel))
	for _, indices := range firstLevel {
		groupPaths := make([][]string, 0, len(indices))
		for _, idx := range indices {
			groupPaths = append(groupPaths, components[idx])
		}

		rootLen := rootLenFor(groupPaths, scanRootLen)
		first := groupPaths[0]

		rootPath := ""
		rootName := "Unknown"
		if rootLen > 0 && rootLen <= len(first) {
			rootPath = strings.Join(first[:rootLen], "/")
			rootName = first[rootLen-1]
		}

		childPaths := make([]string, 0, len(indices))
		for _, comp := range groupPaths {
			if rootLen < len(comp) {
				childPaths = append(childPaths, strings.Join(comp[rootLen:], "/"))
			}
		}

		results = append(results, domain.PathGroup{
			RootPath:   rootPath,
			RootName:   rootName,
			ChildPaths: childPaths,
			SearchKey:  ExtractSearchKey(rootName),
			Version:    ExtractVersion(rootName),
		})
	}

	// map 遍历顺序随机，必须排序保证结果一致；无首个子路径的组排最前。
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].ChildPaths, results[j].ChildPaths
		if len(a) == 0 {
			return len(b) != 0
		}
		if len(b) == 0 {
			return false
		}
		return a[0] < b[0]
	})

	return results
}

// rootLenFor 决定一组路径的游戏根目录长度（组件数）。
//
// 默认第一级（scanRootLen+1）。仅当同时满足以下条件才下移到第二级：
// - 该组最近公共父目录恰为第二级
// - 第二级目录名不是平台名
// - 第一级目录名含前缀标签（【…】 或 […]）
func rootLenFor(groupPaths [][]string, scanRootLen int) int {
	rootLen := scanRootLen + 1

	commonParent := commonParentLen(groupPaths)
	first := groupPaths[0]

	if commonParent == scanRootLen+2 && commonParent <= len(first) {
		firstLevelName := first[scanRootLen]
		secondLevelName := first[scanRootLen+1]

		if _, isPlatform := platformNames[secondLevelName]; !isPlatform {
			if strings.ContainsRune(firstLevelName, '【') || strings.ContainsRune(firstLevelName, '[') {
				rootLen = scanRootLen + 2
			}
		}
	}
	return rootLen
}

// splitOne 统一分隔符后按 '/' 拆分路径。
func splitOne(p string) []string {
	if strings.ContainsRune(p, '\\') {
		p = strings.ReplaceAll(p, "\\", "/")
	}
	return strings.Split(p, "/")
}

func splitAll(paths []string) [][]string {
	if len(paths) == 0 {
		return nil
	}
	components := make([][]string, 0, len(paths))
	for _, p := range paths {
		components = append(components, splitOne(p))
	}
	return components
}

// commonPrefixLen 求全部路径共有的前缀组件数。
func commonPrefixLen(paths [][]string) int {
	if len(paths) == 0 {
		return 0
	}
	n := 0
	first := paths[0]
outer:
	for i := 0; i < len(first); i++ {
		for _, p := range paths {
			if i >= len(p) || p[i] != first[i] {
				break outer
			}
		}
		n = i + 1
	}
	return n
}

// commonParentLen 求一组路径的最近公共父目录长度（不含文件名，故上界为 min(len)-1）。
func commonParentLen(paths [][]string) int {
	if len(paths) == 0 {
		return 0
	}

	minLen := len(paths[0]) - 1
	for _, p := range paths[1:] {
		if len(p)-1 < minLen {
			minLen = len(p) - 1
		}
	}
	if minLen < 0 {
		minLen = 0
	}

	n := 0
	for i := 0; i < minLen; i++ {
		c := paths[0][i]
		same := true
		for _, p := range paths {
			if i >= len(p) || p[i] != c {
				same = false
				break
			}
		}
		if !same {
			break
		}
		n = i + 1
	}
	return n
}
