// Package match 提供纯文本相似度与置信度计算。
//
// 约束：
// - 全部为纯函数：无 I/O、无全局状态，相同输入 => 相同输出
// - 本包存在两条独立的打分曲线（Confidence 与 Score），服务于不同调用方，
//   权重契约不同，禁止合并（见 bestmatch.go）。
package match

import (
	"strings"

	"github.com/John-Robertt/gamebox/internal/domain"
)

// Levenshtein 计算编辑距离（Unicode 码点级）。
// 滚动数组实现：额外空间 O(len(b))，避免二维矩阵。
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := prev[j] + 1 // 删除
			if ins := curr[j-1] + 1; ins < d { // 插入
				d = ins
			}
			if sub := prev[j-1] + cost; sub < d { // 替换
				d = sub
			}
			curr[j] = d
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity 把编辑距离归一化为 [0,1] 相似度。
// 两者皆空 => 1.0；仅一方为空 => 0.0。
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}
	if la == 0 || lb == 0 {
		return 0.0
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}

// Confidence 估算 query 与一条元数据的匹配质量。
//
// 构成：标题匹配度最高 0.7 + 字段完整度最高 0.3，结果钳制到 [0,1]。
// 该曲线专供 aggregate 层排序使用。
func Confidence(query string, meta domain.Metadata) float64 {
	c := 0.0

	if meta.Title != "" {
		q := strings.ToLower(query)
		t := strings.ToLower(meta.Title)

		switch {
		case q == t:
			c += 0.7
		case strings.Contains(t, q):
			// 精确包含：按长度占比上调。
			c += 0.5 + float64(len(q))/float64(len(t))*0.2
		case strings.Contains(q, t):
			c += 0.4 + float64(len(t))/float64(len(q))*0.2
		default:
			s := Similarity(q, t)
			switch {
			case s > 0.8:
				c += 0.5 * s
			case s > 0.5:
				c += 0.3 * s
			default:
				c += tokenOverlap(q, t)
			}
		}
	}

	c += completeness(meta)

	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

// tokenOverlap 是标题相似度过低时的兜底：按词语重叠计分。
// 两个词语互相包含即视为匹配。
func tokenOverlap(q, t string) float64 {
	qWords := strings.Fields(q)
	tWords := strings.Fields(t)
	if len(qWords) == 0 {
		return 0
	}

	matches := 0
	totalMatchLen := 0
	for _, qw := range qWords {
		for _, tw := range tWords {
			if strings.Contains(tw, qw) || strings.Contains(qw, tw) {
				matches++
				l := len(qw)
				if len(tw) < l {
					l = len(tw)
				}
				totalMatchLen += l
				break
			}
		}
	}

	matchRatio := float64(matches) / float64(len(qWords))
	lengthRatio := float64(totalMatchLen) / float64(len(q))
	return 0.2*matchRatio + 0.1*lengthRatio
}

// completeness 计算字段完整度子分（权重固定，合计 0.30）。
func completeness(meta domain.Metadata) float64 {
	c := 0.0
	if meta.Title != "" {
		c += 0.08
	}
	if meta.CoverURL != "" {
		c += 0.05
	}
	if meta.Description != "" {
		c += 0.04
	}
	if meta.ReleaseDate != "" {
		c += 0.04
	}
	if meta.Developer != "" {
		c += 0.04
	}
	if meta.Publisher != "" {
		c += 0.03
	}
	if len(meta.Genres) > 0 {
		c += 0.01
	}
	if len(meta.Tags) > 0 {
		c += 0.01
	}
	return c
}
