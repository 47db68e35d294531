package match

import (
	"math"
	"testing"

	"github.com/John-Robertt/gamebox/internal/domain"
)

func TestLevenshtein_Basic(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"abc", "abc", 0},
		{"游戏名称", "游戏名", 1},
	}
	for _, c := range cases {
		if got := Levenshtein(c.a, c.b); got != c.want {
			t.Errorf("Levenshtein(%q,%q)=%d，期望 %d", c.a, c.b, got, c.want)
		}
	}
}

func TestLevenshtein_Identity(t *testing.T) {
	for _, s := range []string{"", "a", "游戏", "MyGame v1.2"} {
		if got := Levenshtein(s, s); got != 0 {
			t.Errorf("Levenshtein(%q,%q)=%d，期望 0", s, s, got)
		}
	}
}

func TestLevenshtein_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"游戏名称", "名称"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		if Levenshtein(p[0], p[1]) != Levenshtein(p[1], p[0]) {
			t.Errorf("Levenshtein 不对称：%q vs %q", p[0], p[1])
		}
	}
}

func TestLevenshtein_TriangleInequality(t *testing.T) {
	triples := [][3]string{
		{"kitten", "sitting", "sitter"},
		{"abc", "abd", "xyz"},
		{"游戏", "游戏名", "名称"},
	}
	for _, tr := range triples {
		ab := Levenshtein(tr[0], tr[1])
		bc := Levenshtein(tr[1], tr[2])
		ac := Levenshtein(tr[0], tr[2])
		if ac > ab+bc {
			t.Errorf("三角不等式不成立：d(%q,%q)=%d > %d+%d", tr[0], tr[2], ac, ab, bc)
		}
	}
}

func TestSimilarity_EmptyCases(t *testing.T) {
	if got := Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity(\"\",\"\")=%v，期望 1.0", got)
	}
	if got := Similarity("x", ""); got != 0.0 {
		t.Errorf("Similarity(\"x\",\"\")=%v，期望 0.0", got)
	}
	if got := Similarity("", "x"); got != 0.0 {
		t.Errorf("Similarity(\"\",\"x\")=%v，期望 0.0", got)
	}
}

func TestConfidence_Range(t *testing.T) {
	metas := []domain.Metadata{
		{}, // 无标题
		{Title: "MyGame"},
		{
			Title: "MyGame", CoverURL: "http://x/c.jpg", Description: "d",
			ReleaseDate: "2024-01-01", Developer: "dev", Publisher: "pub",
			Genres: []string{"RPG"}, Tags: []string{"tag"},
		},
		{Title: "完全不相关的东西"},
	}
	for _, q := range []string{"", "MyGame", "mygame", "别的游戏", "My"} {
		for _, m := range metas {
			got := Confidence(q, m)
			if got < 0 || got > 1 {
				t.Errorf("Confidence(%q,%+v)=%v，超出 [0,1]", q, m, got)
			}
		}
	}
}

func TestConfidence_ExactMatchFull(t *testing.T) {
	m := domain.Metadata{
		Title: "MyGame", CoverURL: "u", Description: "d", ReleaseDate: "2024",
		Developer: "dev", Publisher: "pub", Genres: []string{"g"}, Tags: []string{"t"},
	}
	// 0.7（完全匹配）+ 0.30（完整度满额）= 1.0
	if got := Confidence("mygame", m); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Confidence=%v，期望 1.0", got)
	}
}

func TestConfidence_NoTitleOnlyCompleteness(t *testing.T) {
	m := domain.Metadata{Description: "d", Developer: "dev"}
	want := 0.04 + 0.04
	if got := Confidence("anything", m); math.Abs(got-want) > 1e-9 {
		t.Errorf("Confidence=%v，期望 %v", got, want)
	}
}

func TestConfidence_ContainmentBeatsOverlap(t *testing.T) {
	contained := Confidence("MyGame", domain.Metadata{Title: "MyGame Deluxe Edition"})
	overlap := Confidence("MyGame", domain.Metadata{Title: "Totally Different"})
	if contained <= overlap {
		t.Errorf("包含关系（%v）应高于词语兜底（%v）", contained, overlap)
	}
}

func TestScore_Curve(t *testing.T) {
	if got := Score("MyGame", "MyGame"); got != 1.0 {
		t.Errorf("完全匹配=%v，期望 1.0", got)
	}
	if got := Score("MyGame", "MyGame DX"); got <= 0.9 || got > 1.0 {
		t.Errorf("正向包含=%v，期望 (0.9,1.0]", got)
	}
	if got := Score("MyGame Deluxe", "MyGame"); got != 0.8 {
		t.Errorf("反向包含=%v，期望 0.8", got)
	}
	if got := Score("", "MyGame"); got != 0.0 {
		t.Errorf("空 query=%v，期望 0.0", got)
	}
	// 长度差异过大：惩罚档位 0.2 把分数压低。
	long := Score("ab", "abcdefghijklmnopqrstuvwx")
	if long >= 0.5 {
		t.Errorf("长度悬殊=%v，期望被惩罚到 0.5 以下", long)
	}
}

func TestBestMatches_OrderAndLimit(t *testing.T) {
	list := []domain.Metadata{
		{Title: "Another Game"},
		{Title: "MyGame"},
		{Title: "MyGame Deluxe"},
		{Description: "无标题，必须跳过"},
	}
	got := BestMatches(list, "MyGame", 2)
	if len(got) != 2 {
		t.Fatalf("期望 2 项，实际 %d", len(got))
	}
	if got[0].Title != "MyGame" {
		t.Errorf("第一项=%q，期望 MyGame", got[0].Title)
	}
	if got[1].Title != "MyGame Deluxe" {
		t.Errorf("第二项=%q，期望 MyGame Deluxe", got[1].Title)
	}
}

func TestBestMatch_Empty(t *testing.T) {
	if _, ok := BestMatch(nil, "x"); ok {
		t.Error("空列表不应返回结果")
	}
	if _, ok := BestMatch([]domain.Metadata{{Description: "d"}}, "x"); ok {
		t.Error("全部无标题时不应返回结果")
	}
}
