package scan

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/John-Robertt/gamebox/internal/domain"
	"github.com/John-Robertt/gamebox/internal/group"
)

// Querier 是 Scanner 对聚合层的最小依赖。
type Querier interface {
	Query(ctx context.Context, key string, timeout time.Duration) ([]domain.QueryResult, error)
}

// Scanner 顺序编排整个扫描流程。分组内的网络查询由聚合层并发，
// 分组之间保持顺序执行：进度可预测，失败影响范围限制在单个分组。
type Scanner struct {
	agg    Querier
	logger *slog.Logger
	obs    Observer

	// Timeout 是单个分组的查询等待上限；<=0 时由聚合层取默认值。
	Timeout time.Duration
	// Extensions/ExcludeDirs 直接传给 ScanExecutables。
	Extensions  []string
	ExcludeDirs []string

	// now 仅测试覆盖。
	now func() time.Time
}

// New 创建 Scanner。logger 必须显式传入；obs 为 nil 时退化为 NopObserver。
func New(agg Querier, logger *slog.Logger, obs Observer) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &Scanner{
		agg:    agg,
		logger: logger,
		obs:    obs,
		now:    time.Now,
	}
}

// Scan 扫描 root 并返回合并后的资产列表。
//
// 契约：
// - 分组查询失败/零结果不会中断扫描：该分组降级为仅含本地信息的资产
// - 返回列表顺序与分组顺序一致（按首个子路径字典序）
func (s *Scanner) Scan(ctx context.Context, root string) ([]domain.GameAsset, error) {
	start := s.now()

	files, err := ScanExecutables(root, s.Extensions, s.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	groups := group.GroupUnder(root, files)
	s.obs.OnStart(root, len(files), len(groups))
	s.logger.Info("扫描开始", "root", root, "files", len(files), "groups", len(groups))

	assets := make([]domain.GameAsset, 0, len(groups))
	for i, g := range groups {
		groupStart := s.now()

		results, err := s.agg.Query(ctx, g.SearchKey, s.Timeout)
		if err != nil {
			// 查询失败降级为本地资产，扫描继续。
			s.logger.Warn("分组查询失败", "search_key", g.SearchKey, "err", err)
			results = nil
		}

		asset := s.buildAsset(g, results)
		assets = append(assets, asset)
		s.obs.OnGroupDone(i, len(groups), g, asset, s.now().Sub(groupStart))
	}

	s.obs.OnFinish(len(assets), s.now().Sub(start))
	return assets, nil
}

// Search 绕过文件扫描，直接按标题查询全部来源（CLI search 子命令的入口）。
func (s *Scanner) Search(ctx context.Context, title string) ([]domain.QueryResult, error) {
	return s.agg.Query(ctx, title, s.Timeout)
}

// buildAsset 把本地分组信息与远端查询结果合并为一个 GameAsset。
//
// 合并规则：
// - 标量字段按置信度顺序取首个非空值
// - 封面取全部来源的去重并集；tags 取 genres+tags 的去重并集
// - 全部来源都没给标题时回退本地目录名（SearchKey 只用于查询，不进资产）
func (s *Scanner) buildAsset(g domain.PathGroup, results []domain.QueryResult) domain.GameAsset {
	now := s.now()

	asset := domain.GameAsset{
		ID:         uuid.NewString(),
		Title:      g.RootName,
		SubTitle:   g.RootName,
		Version:    g.Version,
		DirPath:    g.RootPath,
		StartPaths: append([]string(nil), g.ChildPaths...),
		ByteSize:   DirSize(g.RootPath),
		ScanTime:   now,
	}
	if len(asset.StartPaths) > 0 {
		asset.StartPathDefault = asset.StartPaths[0]
	}

	var (
		title, desc, dev, pub, release string
		covers                         []string
		tags                           []string
	)
	for _, r := range results {
		m := r.Meta
		if title == "" {
			title = m.Title
		}
		if desc == "" {
			desc = m.Description
		}
		if dev == "" {
			dev = m.Developer
		}
		if pub == "" {
			pub = m.Publisher
		}
		if release == "" {
			release = m.ReleaseDate
		}
		if m.CoverURL != "" {
			covers = appendUnique(covers, m.CoverURL)
		}
		for _, t := range m.Genres {
			tags = appendUnique(tags, t)
		}
		for _, t := range m.Tags {
			tags = appendUnique(tags, t)
		}
	}

	if title != "" {
		asset.Title = title
	}
	asset.Description = desc
	asset.Developer = dev
	asset.Publisher = pub
	asset.CoverURLs = covers
	asset.Tags = tags
	asset.ReleaseDate = parseReleaseDate(release, now)
	return asset
}

// parseReleaseDate 解析来源给出的发售日期。
// 支持 "2006-01-02" 与裸四位年份；都解析不了时回退 fallback（扫描时刻）。
func parseReleaseDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if len(s) == 4 {
		if year, err := strconv.Atoi(s); err == nil && year >= 1000 && year <= 9999 {
			return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return fallback
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
