// Package aggregate 实现多来源元数据的并发聚合：
// provider 注册表 + 有界并发闸门 + 进程内缓存 + 置信度排序。
package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/John-Robertt/gamebox/internal/domain"
	"github.com/John-Robertt/gamebox/internal/match"
	"github.com/John-Robertt/gamebox/internal/provider"
)

const (
	// DefaultGateCapacity 限制同时进行的出站查询数，避免触发来源限速。
	DefaultGateCapacity = 5
	// DefaultQueryTimeout 是单次 Query 的整体等待上限。
	DefaultQueryTimeout = 30 * time.Second
	// defaultCacheTTL 只是配置值：当前契约不做时间过期（见 Aggregator.cacheTTL）。
	defaultCacheTTL = time.Hour
)

// ErrQueryTimeout 表示整体等待超时：已在途的查询不被强制取消，
// 其结果在超时后到达时直接丢弃。
var ErrQueryTimeout = errors.New("aggregate: query timeout")

// Aggregator 持有 provider 注册表与查询缓存。
//
// 并发模型：
// - 注册表与缓存各自用独立读写锁保护，读者互不阻塞
// - 闸门为整个实例共享：不同调用方的并发 Query 共用同一上限
type Aggregator struct {
	mu        sync.RWMutex
	providers []provider.Provider

	cacheMu sync.RWMutex
	cache   map[string][]domain.QueryResult

	// cacheTTL 为历史兼容保留的配置项；缓存实际上与进程同生命周期，
	// 只有 ClearCache 会清空，时间永不过期。
	cacheTTL time.Duration

	gate    *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger
}

// New 创建 Aggregator（不注册任何 provider）。
// gateCap/timeout 传 0 使用默认值；logger 必须由调用方显式传入（不依赖全局状态）。
func New(logger *slog.Logger, gateCap int, timeout time.Duration) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if gateCap <= 0 {
		gateCap = DefaultGateCapacity
	}
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Aggregator{
		cache:    make(map[string][]domain.QueryResult),
		cacheTTL: defaultCacheTTL,
		gate:     semaphore.NewWeighted(int64(gateCap)),
		timeout:  timeout,
		logger:   logger,
	}
}

// Register 注册 provider 并按优先级降序重排（稳定排序：同优先级保持注册顺序）。
func (a *Aggregator) Register(p provider.Provider) {
	if p == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.providers = append(a.providers, p)
	sort.SliceStable(a.providers, func(i, j int) bool {
		return a.providers[i].Priority() > a.providers[j].Priority()
	})
}

// Unregister 按名字注销 provider；不存在时为 no-op。
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.providers[:0]
	for _, p := range a.providers {
		if p.Name() != name {
			kept = append(kept, p)
		}
	}
	a.providers = kept
}

// snapshot 返回注册表的副本（优先级降序），避免查询期间持锁。
func (a *Aggregator) snapshot() []provider.Provider {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]provider.Provider(nil), a.providers...)
}

// Query 按 key 并发查询全部 provider，返回按置信度降序的结果列表。
//
// 行为契约：
// - 缓存命中：原样返回存储的列表，不访问任何 provider，不做时效检查
// - 单个 provider 的错误被吞掉（计为零结果），绝不向调用方传播
// - timeout（<=0 用默认 30s）耗尽时整个查询以 ErrQueryTimeout 失败，
//   在途任务不被取消，跑完后结果丢弃
// - 仅当结果非空时写入缓存
func (a *Aggregator) Query(ctx context.Context, key string, timeout time.Duration) ([]domain.QueryResult, error) {
	if timeout <= 0 {
		timeout = a.timeout
	}

	a.cacheMu.RLock()
	if cached, ok := a.cache[key]; ok {
		a.cacheMu.RUnlock()
		a.logger.Debug("缓存命中", "key", key, "results", len(cached))
		return cached, nil
	}
	a.cacheMu.RUnlock()

	providers := a.snapshot()

	type batch struct {
		idx     int
		results []domain.QueryResult
	}
	// 缓冲到 provider 数量：超时后在途任务仍能写入并退出，不泄漏 goroutine。
	ch := make(chan batch, len(providers))

	for i, p := range providers {
		go func(idx int, p provider.Provider) {
			if err := a.gate.Acquire(ctx, 1); err != nil {
				ch <- batch{idx: idx}
				return
			}
			defer a.gate.Release(1)

			metas, err := p.Search(ctx, key)
			if err != nil {
				// 单源失败降级为零结果。
				a.logger.Debug("provider 查询失败", "provider", p.Name(), "key", key, "err", err)
				ch <- batch{idx: idx}
				return
			}

			results := make([]domain.QueryResult, 0, len(metas))
			for _, m := range metas {
				results = append(results, domain.QueryResult{
					Meta:       m,
					Source:     p.Name(),
					Confidence: match.Confidence(key, m),
				})
			}
			ch <- batch{idx: idx, results: results}
		}(i, p)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	byProvider := make([][]domain.QueryResult, len(providers))
	for n := 0; n < len(providers); n++ {
		select {
		case b := <-ch:
			byProvider[b.idx] = b.results
		case <-timer.C:
			a.logger.Warn("查询超时", "key", key, "timeout", timeout)
			return nil, ErrQueryTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// 先按注册表顺序拼接，再稳定排序：置信度并列时保持 provider 优先级顺序。
	results := make([]domain.QueryResult, 0, 16)
	for _, rs := range byProvider {
		results = append(results, rs...)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	if len(results) > 0 {
		a.cacheMu.Lock()
		a.cache[key] = results
		a.cacheMu.Unlock()
	}
	return results, nil
}

// GetByID 按优先级顺序逐个尝试 provider，首个成功即返回（置信度固定 0.95）。
// NotFound/NotImplemented 与其他错误都继续尝试下一个；全部失败报 ErrNotFound。
func (a *Aggregator) GetByID(ctx context.Context, id string) (domain.QueryResult, error) {
	for _, p := range a.snapshot() {
		meta, err := p.GetByID(ctx, id)
		if err != nil {
			continue
		}
		return domain.QueryResult{
			Meta:       meta,
			Source:     p.Name(),
			Confidence: 0.95,
		}, nil
	}
	return domain.QueryResult{}, provider.ErrNotFound
}

// ListProviders 返回全部 provider 名（优先级降序）。
func (a *Aggregator) ListProviders() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.providers))
	for _, p := range a.providers {
		names = append(names, p.Name())
	}
	return names
}

// ClearCache 清空查询缓存（这是缓存唯一的失效途径）。
func (a *Aggregator) ClearCache() {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	a.cache = make(map[string][]domain.QueryResult)
}

// CacheSize 返回缓存条目数。
func (a *Aggregator) CacheSize() int {
	a.cacheMu.RLock()
	defer a.cacheMu.RUnlock()
	return len(a.cache)
}
