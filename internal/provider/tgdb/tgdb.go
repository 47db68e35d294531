// Package tgdb 是 TheGamesDB 来源的占位实现。
package tgdb

import (
	"context"

	"github.com/John-Robertt/gamebox/internal/domain"
)

// Provider 目前返回固定的示例数据。
// TODO: 接入 TheGamesDB 正式 API（需要申请 API key）。
type Provider struct{}

// New 创建 TheGamesDB provider。
func New() *Provider { return &Provider{} }

func (*Provider) Name() string { return "tgdb" }

// Priority 经典游戏来源，中等优先级。
func (*Provider) Priority() int { return 70 }

func (*Provider) SupportsGameType(gameType string) bool {
	switch gameType {
	case "classic_game", "retro_game", "multi_platform", "all":
		return true
	default:
		return false
	}
}

func (*Provider) Search(ctx context.Context, title string) ([]domain.Metadata, error) {
	return []domain.Metadata{
		{
			Title:       title,
			ReleaseDate: "2024",
			Developer:   "TheGamesDB Developer",
			Description: "Game from TheGamesDB",
			Genres:      []string{"Adventure"},
		},
	}, nil
}

func (*Provider) GetByID(ctx context.Context, id string) (domain.Metadata, error) {
	return domain.Metadata{
		Title:       "TheGamesDB Game " + id,
		ReleaseDate: "2024",
		Developer:   "TheGamesDB Developer",
		Description: "Game from TheGamesDB",
		Genres:      []string{"Adventure"},
	}, nil
}
