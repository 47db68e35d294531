// Package provider 定义外部元数据源的统一能力契约。
package provider

import (
	"context"
	"errors"

	"github.com/John-Robertt/gamebox/internal/domain"
)

// ErrNotFound 表示目标条目在该来源不存在。
var ErrNotFound = errors.New("provider: not found")

// ErrNotImplemented 表示该来源不支持此操作（区别于 ErrNotFound，
// 两者都驱动 GetByID 的逐源回退）。
var ErrNotImplemented = errors.New("provider: not implemented")

// Provider 把“站点/API 差异”限制在各 provider 包内部；
// aggregate 层只依赖统一接口与稳定的 Metadata。
//
// 约束：
// - Search/GetByID 自行负责内部超时（上层不替你兜底单源超时）
// - 不做缓存、不做限速（由 aggregate 层统一实现）
// - Name 必须唯一且稳定（作为结果来源标记与注销键）
type Provider interface {
	Name() string
	Search(ctx context.Context, title string) ([]domain.Metadata, error)
	GetByID(ctx context.Context, id string) (domain.Metadata, error)
	// Priority ∈ [0,100]，越高越优先；默认 50。
	Priority() int
	// SupportsGameType 声明该来源覆盖的游戏类型；默认全部支持。
	SupportsGameType(gameType string) bool
}

// Defaults 提供可嵌入的默认实现：GetByID 未实现、优先级 50、支持全部类型。
// 各 provider 按需覆盖。
type Defaults struct{}

func (Defaults) GetByID(ctx context.Context, id string) (domain.Metadata, error) {
	return domain.Metadata{}, ErrNotImplemented
}

func (Defaults) Priority() int { return 50 }

func (Defaults) SupportsGameType(gameType string) bool { return true }
