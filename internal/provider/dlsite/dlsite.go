// Package dlsite 实现 DLsite 的搜索页抓取与作品 API 解析。
package dlsite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/gamebox/internal/domain"
	providerx "github.com/John-Robertt/gamebox/internal/provider"
)

const (
	// detailLimit 限制“为搜索结果补全详情”的次数，避免过多 API 请求。
	detailLimit = 3

	defaultBaseURL = "https://www.dlsite.com"
)

var productIDPattern = regexp.MustCompile(`/product_id/((?:RJ|VJ|BJ)\w+?)\.html`)

// Provider 实现 DLsite 来源。
//
// 约束：
// - 不做缓存/重试/限速（由上层统一控制）
// - parse 系列必须是纯函数（依赖输入 html/json + baseURL）
type Provider struct {
	// Client 必须由调用方注入（统一走 httpx 策略）。
	Client *http.Client
	// BaseURL 默认生产域名；测试时指向 httptest server。
	BaseURL string
}

// New 创建 DLsite provider。
func New(client *http.Client) *Provider {
	return &Provider{Client: client, BaseURL: defaultBaseURL}
}

func (*Provider) Name() string { return "dlsite" }

// Priority 最高：本工具面向的库以日式游戏为主。
func (*Provider) Priority() int { return 90 }

func (*Provider) SupportsGameType(gameType string) bool {
	switch gameType {
	case "visual_novel", "japanese_rpg", "doujin", "all":
		return true
	default:
		return false
	}
}

// Search 抓取搜索页并解析结果；前 detailLimit 条额外请求作品 API 补全详情。
// 补全失败不致命：退回搜索页的基本信息。
func (p *Provider) Search(ctx context.Context, title string) ([]domain.Metadata, error) {
	if p.Client == nil {
		return nil, errors.New("http client 不能为空")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title 不能为空")
	}

	searchURL := p.base() + "/maniax/fsr/=/language/jp/sex_category%5B0%5D/male/keyword/" +
		url.PathEscape(title) + "/"
	html, err := fetchURL(ctx, p.Client, searchURL)
	if err != nil {
		return nil, err
	}

	items, err := parseSearch(html, p.base())
	if err != nil {
		return nil, err
	}

	metas := make([]domain.Metadata, 0, len(items))
	for i, it := range items {
		meta := it.basicMeta()
		if i < detailLimit && it.ID != "" {
			if detail, err := p.fetchProduct(ctx, it.ID); err == nil {
				// 详情覆盖基本信息；缩略图仍用搜索页的（API 不给封面）。
				detail.CoverURL = meta.CoverURL
				meta = detail
			}
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// GetByID 按站点作品 ID（如 RJ01014447）走作品 API。
func (p *Provider) GetByID(ctx context.Context, id string) (domain.Metadata, error) {
	if p.Client == nil {
		return domain.Metadata{}, errors.New("http client 不能为空")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Metadata{}, errors.New("id 不能为空")
	}
	return p.fetchProduct(ctx, id)
}

func (p *Provider) base() string {
	if strings.TrimSpace(p.BaseURL) != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	return defaultBaseURL
}

func (p *Provider) fetchProduct(ctx context.Context, id string) (domain.Metadata, error) {
	apiURL := p.base() + "/maniax/api/=/product.json?workno=" + url.QueryEscape(id)
	b, err := fetchURL(ctx, p.Client, apiURL)
	if err != nil {
		return domain.Metadata{}, err
	}
	return parseProduct(b, id)
}

// searchItem 是搜索结果页单条记录的原始信息。
type searchItem struct {
	ID       string
	Title    string
	ThumbURL string
	Maker    string
}

func (it searchItem) basicMeta() domain.Metadata {
	return domain.Metadata{
		Title:     it.Title,
		CoverURL:  it.ThumbURL,
		Publisher: it.Maker,
	}
}

// parseSearch 把 DLsite 搜索页 HTML 解析为条目列表。
func parseSearch(html []byte, baseURL string) ([]searchItem, error) {
	if len(html) == 0 {
		return nil, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	items := make([]searchItem, 0, 16)
	doc.Find("li.search_result_img_box_inner").Each(func(_ int, s *goquery.Selection) {
		var it searchItem

		link := s.Find("dd.work_name a").First()
		it.Title = strings.TrimSpace(link.Text())
		if t, ok := link.Attr("title"); ok && strings.TrimSpace(t) != "" {
			it.Title = strings.TrimSpace(t)
		}
		if href, ok := link.Attr("href"); ok {
			if m := productIDPattern.FindStringSubmatch(href); m != nil {
				it.ID = m[1]
			}
		}

		img := s.Find("img").First()
		// 懒加载页面把真实地址放在 data-src。
		src, ok := img.Attr("data-src")
		if !ok || strings.TrimSpace(src) == "" {
			src, _ = img.Attr("src")
		}
		it.ThumbURL = resolveURL(baseURL, src)

		it.Maker = strings.TrimSpace(s.Find("dd.maker_name a").First().Text())

		if it.Title != "" {
			items = append(items, it)
		}
	})
	return items, nil
}

// productPayload 对应 product.json 的单条记录（只取我们消费的字段）。
type productPayload struct {
	Workno     string `json:"workno"`
	WorkName   string `json:"work_name"`
	MakerName  string `json:"maker_name"`
	Intro      string `json:"intro"`
	RegistDate string `json:"regist_date"`
	Genres     []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

// parseProduct 解析作品 API 的 JSON 响应。
// API 对不存在的 workno 返回空数组，映射为 ErrNotFound。
func parseProduct(b []byte, id string) (domain.Metadata, error) {
	var payload []productPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return domain.Metadata{}, fmt.Errorf("product.json 解析失败：%w", err)
	}
	if len(payload) == 0 {
		return domain.Metadata{}, providerx.ErrNotFound
	}
	// 先校验 workno 匹配（避免把别的作品当成成功解析）；没有任何匹配时退回首条。
	pr := payload[0]
	for _, cand := range payload {
		if strings.EqualFold(cand.Workno, id) {
			pr = cand
			break
		}
	}
	if pr.WorkName == "" {
		return domain.Metadata{}, providerx.ErrNotFound
	}

	genres := make([]string, 0, len(pr.Genres))
	for _, g := range pr.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	// regist_date 形如 "2023-05-01 10:00:00"：只保留日期部分。
	release := strings.TrimSpace(pr.RegistDate)
	if len(release) > 10 {
		release = release[:10]
	}

	return domain.Metadata{
		Title:       pr.WorkName,
		Description: pr.Intro,
		ReleaseDate: release,
		Publisher:   pr.MakerName,
		Genres:      genres,
	}, nil
}

func fetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, &providerx.HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errors.New("empty response body")
	}
	return b, nil
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ru).String()
}
