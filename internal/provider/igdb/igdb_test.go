package igdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	providerx "github.com/John-Robertt/gamebox/internal/provider"
)

const gamesFixture = `[
  {
    "name": "Space Quest",
    "summary": "A classic adventure.",
    "first_release_date": 1577836800,
    "cover": {"image_id": "co1abc"},
    "involved_companies": [
      {"company": {"name": "DevStudio"}, "developer": true, "publisher": false},
      {"company": {"name": "PubCorp"}, "developer": false, "publisher": true}
    ]
  }
]`

func newTestServer(t *testing.T, tokenCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth2/token"):
			if tokenCalls != nil {
				tokenCalls.Add(1)
			}
			_, _ = w.Write([]byte(`{"access_token":"tok123","expires_in":3600,"token_type":"bearer"}`))
		case r.URL.Path == "/games":
			if r.Header.Get("Client-ID") != "cid" || r.Header.Get("Authorization") != "Bearer tok123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			body, _ := io.ReadAll(r.Body)
			if strings.Contains(string(body), "where id = 404") {
				_, _ = w.Write([]byte(`[]`))
				return
			}
			_, _ = w.Write([]byte(gamesFixture))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestProvider(srv *httptest.Server) *Provider {
	p := New(srv.Client(), "cid", "secret")
	p.APIURL = srv.URL
	p.TokenURL = srv.URL + "/oauth2/token"
	return p
}

func TestSearch_NoCredentials(t *testing.T) {
	p := New(http.DefaultClient, "", "")
	_, err := p.Search(context.Background(), "test game")
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("期望 ErrNoCredentials，实际 %v", err)
	}
}

func TestSearch_ParsesGames(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()
	p := newTestProvider(srv)

	metas, err := p.Search(context.Background(), "Space Quest")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("期望 1 条，实际 %d", len(metas))
	}
	m := metas[0]
	if m.Title != "Space Quest" {
		t.Errorf("Title=%q", m.Title)
	}
	if m.Description != "A classic adventure." {
		t.Errorf("Description=%q", m.Description)
	}
	// Unix 时间戳 1577836800 = 2020-01-01。
	if m.ReleaseDate != "2020" {
		t.Errorf("ReleaseDate=%q，期望年份 2020", m.ReleaseDate)
	}
	if m.CoverURL != "https://images.igdb.com/igdb/image/upload/t_cover_big/co1abc.jpg" {
		t.Errorf("CoverURL=%q", m.CoverURL)
	}
	if m.Developer != "DevStudio" || m.Publisher != "PubCorp" {
		t.Errorf("公司解析错误：dev=%q pub=%q", m.Developer, m.Publisher)
	}
}

func TestTokenCachedAcrossCalls(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTestServer(t, &tokenCalls)
	defer srv.Close()
	p := newTestProvider(srv)

	for i := 0; i < 3; i++ {
		if _, err := p.Search(context.Background(), "q"); err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
	}
	if got := tokenCalls.Load(); got != 1 {
		t.Errorf("token 请求次数=%d，期望缓存后只有 1 次", got)
	}
}

func TestGetByID(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()
	p := newTestProvider(srv)

	meta, err := p.GetByID(context.Background(), "1942")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if meta.Title != "Space Quest" {
		t.Errorf("Title=%q", meta.Title)
	}

	if _, err := p.GetByID(context.Background(), "404"); !errors.Is(err, providerx.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际 %v", err)
	}
}

func TestSupportsGameType(t *testing.T) {
	p := New(nil, "a", "b")
	for _, gt := range []string{"western_game", "aaa_game", "indie_game", "all"} {
		if !p.SupportsGameType(gt) {
			t.Errorf("应支持 %q", gt)
		}
	}
	if p.SupportsGameType("visual_novel") {
		t.Errorf("不应支持 visual_novel")
	}
}
