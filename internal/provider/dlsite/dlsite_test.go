package dlsite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	providerx "github.com/John-Robertt/gamebox/internal/provider"
)

const searchFixture = `
<html><body>
<ul>
<li class="search_result_img_box_inner">
  <dl>
    <dt class="search_img work_thumb">
      <a href="/maniax/work/=/product_id/RJ01014447.html">
        <img src="//img.dlsite.jp/modpub/images2/work/doujin/RJ01015000/RJ01014447_img_sam.jpg" alt="">
      </a>
    </dt>
    <dd class="work_name">
      <a href="/maniax/work/=/product_id/RJ01014447.html" title="お試しゲームA">お試しゲームA</a>
    </dd>
    <dd class="maker_name"><a href="/maniax/circle">サークルA</a></dd>
  </dl>
</li>
<li class="search_result_img_box_inner">
  <dl>
    <dt class="search_img work_thumb">
      <a href="/maniax/work/=/product_id/RJ222222.html">
        <img data-src="//img.dlsite.jp/RJ222222_img_sam.jpg" src="/loading.gif" alt="">
      </a>
    </dt>
    <dd class="work_name">
      <a href="/maniax/work/=/product_id/RJ222222.html">ゲームB</a>
    </dd>
    <dd class="maker_name"><a href="/maniax/circle">サークルB</a></dd>
  </dl>
</li>
</ul>
</body></html>`

const productFixture = `[
  {
    "workno": "RJ01014447",
    "work_name": "お試しゲームA",
    "maker_name": "サークルA",
    "intro": "体験版あり。",
    "regist_date": "2023-05-01 10:00:00",
    "genres": [{"name": "RPG"}, {"name": "ファンタジー"}]
  }
]`

func TestParseSearch(t *testing.T) {
	items, err := parseSearch([]byte(searchFixture), "https://www.dlsite.com")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(items) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(items))
	}

	a := items[0]
	if a.ID != "RJ01014447" {
		t.Errorf("ID=%q", a.ID)
	}
	if a.Title != "お試しゲームA" {
		t.Errorf("Title=%q", a.Title)
	}
	if !strings.HasPrefix(a.ThumbURL, "https://img.dlsite.jp/") {
		t.Errorf("ThumbURL=%q，期望补全协议", a.ThumbURL)
	}
	if a.Maker != "サークルA" {
		t.Errorf("Maker=%q", a.Maker)
	}

	// data-src 优先于占位 src。
	b := items[1]
	if b.ThumbURL != "https://img.dlsite.jp/RJ222222_img_sam.jpg" {
		t.Errorf("懒加载缩略图解析错误：%q", b.ThumbURL)
	}
}

func TestParseSearch_Empty(t *testing.T) {
	items, err := parseSearch([]byte("<html><body>no results</body></html>"), "https://www.dlsite.com")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(items) != 0 {
		t.Errorf("期望 0 条，实际 %d", len(items))
	}
}

func TestParseProduct(t *testing.T) {
	meta, err := parseProduct([]byte(productFixture), "RJ01014447")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if meta.Title != "お試しゲームA" {
		t.Errorf("Title=%q", meta.Title)
	}
	if meta.Publisher != "サークルA" {
		t.Errorf("Publisher=%q", meta.Publisher)
	}
	if meta.Description != "体験版あり。" {
		t.Errorf("Description=%q", meta.Description)
	}
	if meta.ReleaseDate != "2023-05-01" {
		t.Errorf("ReleaseDate=%q，期望只保留日期部分", meta.ReleaseDate)
	}
	if len(meta.Genres) != 2 || meta.Genres[0] != "RPG" {
		t.Errorf("Genres=%v", meta.Genres)
	}
}

func TestParseProduct_NotFound(t *testing.T) {
	_, err := parseProduct([]byte(`[]`), "RJ999999")
	if !errors.Is(err, providerx.ErrNotFound) {
		t.Fatalf("期望 ErrNotFound，实际 %v", err)
	}
}

func TestSearch_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/maniax/fsr/"):
			_, _ = w.Write([]byte(searchFixture))
		case r.URL.Path == "/maniax/api/=/product.json":
			if r.URL.Query().Get("workno") == "RJ01014447" {
				_, _ = w.Write([]byte(productFixture))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := New(srv.Client())
	p.BaseURL = srv.URL

	metas, err := p.Search(context.Background(), "お試し")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(metas))
	}

	// 首条走详情补全：有简介/日期/genres，缩略图保留搜索页的。
	if metas[0].Description == "" || metas[0].ReleaseDate != "2023-05-01" {
		t.Errorf("详情未补全：%+v", metas[0])
	}
	if metas[0].CoverURL == "" {
		t.Errorf("封面不应被详情覆盖为空")
	}
	// 第二条详情 API 返回空：退回基本信息。
	if metas[1].Title != "ゲームB" || metas[1].Description != "" {
		t.Errorf("基本信息错误：%+v", metas[1])
	}
}

func TestGetByID_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("workno") == "RJ01014447" {
			_, _ = w.Write([]byte(productFixture))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := New(srv.Client())
	p.BaseURL = srv.URL

	meta, err := p.GetByID(context.Background(), "RJ01014447")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if meta.Title != "お試しゲームA" {
		t.Errorf("Title=%q", meta.Title)
	}

	if _, err := p.GetByID(context.Background(), "RJ000000"); !errors.Is(err, providerx.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际 %v", err)
	}
}

func TestSupportsGameType(t *testing.T) {
	p := New(nil)
	for _, gt := range []string{"visual_novel", "japanese_rpg", "doujin", "all"} {
		if !p.SupportsGameType(gt) {
			t.Errorf("应支持 %q", gt)
		}
	}
	if p.SupportsGameType("fps") {
		t.Errorf("不应支持 fps")
	}
}
