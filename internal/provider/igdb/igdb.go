// Package igdb 实现 IGDB（Twitch OAuth）来源。
package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/gamebox/internal/domain"
	providerx "github.com/John-Robertt/gamebox/internal/provider"
)

const (
	defaultAPIURL   = "https://api.igdb.com/v4"
	defaultTokenURL = "https://id.twitch.tv/oauth2/token"

	coverURLTemplate = "https://images.igdb.com/igdb/image/upload/t_cover_big/%s.jpg"
)

// ErrNoCredentials 表示未配置 client_id/client_secret。
// 配置层应提前拦截；这里再兜一次底，保证错误可解释。
var ErrNoCredentials = errors.New("igdb: credentials not configured")

// Provider 实现 IGDB 来源。
//
// 令牌用读写锁缓存：并发查询共享同一个 access token，
// 只在首次（或失效后清空时）请求 Twitch OAuth。
type Provider struct {
	ClientID     string
	ClientSecret string
	Client       *http.Client

	// APIURL/TokenURL 默认生产地址；测试时指向 httptest server。
	APIURL   string
	TokenURL string

	tokenMu sync.RWMutex
	token   string
}

// New 创建 IGDB provider。
func New(client *http.Client, clientID, clientSecret string) *Provider {
	return &Provider{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Client:       client,
		APIURL:       defaultAPIURL,
		TokenURL:     defaultTokenURL,
	}
}

func (*Provider) Name() string { return "igdb" }

// Priority 欧美游戏来源，次于 dlsite。
func (*Provider) Priority() int { return 80 }

func (*Provider) SupportsGameType(gameType string) bool {
	switch gameType {
	case "western_game", "aaa_game", "indie_game", "all":
		return true
	default:
		return false
	}
}

// Search 用 APOC 查询语法搜索；limit 10。
func (p *Provider) Search(ctx context.Context, title string) ([]domain.Metadata, error) {
	query := fmt.Sprintf(
		`search "%s"; fields name,summary,first_release_date,cover.image_id,involved_companies.company.name,involved_companies.developer,involved_companies.publisher; limit 10;`,
		strings.ReplaceAll(title, `"`, `\"`))

	games, err := p.queryGames(ctx, query)
	if err != nil {
		return nil, err
	}

	metas := make([]domain.Metadata, 0, len(games))
	for _, g := range games {
		metas = append(metas, g.toMetadata())
	}
	return metas, nil
}

// GetByID 按 IGDB 数字 ID 查询单个游戏。
func (p *Provider) GetByID(ctx context.Context, id string) (domain.Metadata, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Metadata{}, errors.New("id 不能为空")
	}
	query := fmt.Sprintf(
		`fields name,summary,first_release_date,cover.image_id,involved_companies.company.name,involved_companies.developer,involved_companies.publisher; where id = %s;`,
		id)

	games, err := p.queryGames(ctx, query)
	if err != nil {
		return domain.Metadata{}, err
	}
	if len(games) == 0 {
		return domain.Metadata{}, providerx.ErrNotFound
	}
	return games[0].toMetadata(), nil
}

type game struct {
	Name             string `json:"name"`
	Summary          string `json:"summary"`
	FirstReleaseDate int64  `json:"first_release_date"`
	Cover            struct {
		ImageID string `json:"image_id"`
	} `json:"cover"`
	InvolvedCompanies []struct {
		Company struct {
			Name string `json:"name"`
		} `json:"company"`
		Developer bool `json:"developer"`
		Publisher bool `json:"publisher"`
	} `json:"involved_companies"`
}

func (g game) toMetadata() domain.Metadata {
	meta := domain.Metadata{
		Title:       g.Name,
		Description: g.Summary,
	}
	// IGDB 只给 Unix 时间戳：保留年份即可（日期精度在合并层没有意义）。
	if g.FirstReleaseDate > 0 {
		meta.ReleaseDate = time.Unix(g.FirstReleaseDate, 0).UTC().Format("2006")
	}
	if g.Cover.ImageID != "" {
		meta.CoverURL = fmt.Sprintf(coverURLTemplate, g.Cover.ImageID)
	}
	for _, ic := range g.InvolvedCompanies {
		if ic.Company.Name == "" {
			continue
		}
		if ic.Developer && meta.Developer == "" {
			meta.Developer = ic.Company.Name
		}
		if ic.Publisher && meta.Publisher == "" {
			meta.Publisher = ic.Company.Name
		}
	}
	return meta
}

func (p *Provider) queryGames(ctx context.Context, query string) ([]game, error) {
	if p.ClientID == "" || p.ClientSecret == "" {
		return nil, ErrNoCredentials
	}
	if p.Client == nil {
		return nil, errors.New("http client 不能为空")
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	u := strings.TrimRight(p.APIURL, "/") + "/games"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", p.ClientID)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &providerx.HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var games []game
	if err := json.Unmarshal(b, &games); err != nil {
		return nil, fmt.Errorf("igdb 响应解析失败：%w", err)
	}
	return games, nil
}

// accessToken 返回缓存的 token；没有时走 Twitch OAuth client_credentials。
func (p *Provider) accessToken(ctx context.Context) (string, error) {
	p.tokenMu.RLock()
	if p.token != "" {
		t := p.token
		p.tokenMu.RUnlock()
		return t, nil
	}
	p.tokenMu.RUnlock()

	p.tokenMu.Lock()
	defer p.tokenMu.Unlock()
	// double-check：可能别的 goroutine 已经拿到了。
	if p.token != "" {
		return p.token, nil
	}

	form := url.Values{
		"client_id":     {p.ClientID},
		"client_secret": {p.ClientSecret},
		"grant_type":    {"client_credentials"},
	}
	tokenURL := p.TokenURL + "?" + form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &providerx.HTTPStatusError{URL: p.TokenURL, StatusCode: resp.StatusCode}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("oauth 响应解析失败：%w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("oauth 响应缺少 access_token")
	}
	p.token = payload.AccessToken
	return p.token, nil
}
