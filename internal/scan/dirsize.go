package scan

import (
	"os"
	"path/filepath"
)

// DirSize 迭代计算目录下全部普通文件的字节总和。
// 读取失败的条目直接跳过：体积统计是展示信息，不值得让扫描失败。
func DirSize(dir string) int64 {
	var total int64
	stack := []string{filepath.Clean(dir)}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(cur)
		if err != nil {
			continue
		}
		for _, e := range entries {
			p := filepath.Join(cur, e.Name())
			if e.IsDir() {
				stack = append(stack, p)
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				total += info.Size()
			}
		}
	}
	return total
}
