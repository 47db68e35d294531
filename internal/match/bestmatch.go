package match

import (
	"sort"
	"strings"

	"github.com/John-Robertt/gamebox/internal/domain"
)

// Score 计算“平铺列表取最优”场景下的标题匹配分（0.0 ~ 1.0）。
//
// 与 Confidence 是两条独立曲线：这里只看标题、权重更陡，
// 供 BestMatches 这类过滤调用方使用，不参与 aggregate 排序。
func Score(query, title string) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	title = strings.ToLower(strings.TrimSpace(title))

	if query == "" || title == "" {
		return 0.0
	}
	if query == title {
		return 1.0
	}

	// 包含关系：正向包含按长度占比上调，反向包含固定 0.8。
	if strings.Contains(title, query) {
		return 0.9 + float64(len(query))/float64(len(title))*0.1
	}
	if strings.Contains(query, title) {
		return 0.8
	}

	maxLen := len(query)
	if len(title) > maxLen {
		maxLen = len(title)
	}
	distanceScore := 1.0 - float64(Levenshtein(query, title))/float64(maxLen)

	return distanceScore * lengthPenalty(len(query), len(title))
}

// lengthPenalty 按长度比分档惩罚：差异越大，惩罚越重。
func lengthPenalty(queryLen, titleLen int) float64 {
	shorter, longer := queryLen, titleLen
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	ratio := float64(shorter) / float64(longer)

	switch {
	case ratio >= 0.8:
		return 1.0
	case ratio >= 0.6:
		return 0.8
	case ratio >= 0.4:
		return 0.5
	default:
		return 0.2
	}
}

// BestMatches 从平铺的元数据列表中找出标题匹配分最高的前 limit 项。
// 无标题的条目直接跳过；结果按分数降序（稳定）。
func BestMatches(list []domain.Metadata, query string, limit int) []domain.Metadata {
	type scored struct {
		meta  domain.Metadata
		score float64
	}

	candidates := make([]scored, 0, len(list))
	for _, m := range list {
		if m.Title == "" {
			continue
		}
		candidates = append(candidates, scored{meta: m, score: Score(query, m.Title)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]domain.Metadata, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, c.meta)
	}
	return out
}

// BestMatch 返回匹配分最高的一项；列表为空或全部无标题时 ok=false。
func BestMatch(list []domain.Metadata, query string) (domain.Metadata, bool) {
	top := BestMatches(list, query, 1)
	if len(top) == 0 {
		return domain.Metadata{}, false
	}
	return top[0], true
}
