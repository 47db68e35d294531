package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/John-Robertt/gamebox/internal/aggregate"
	"github.com/John-Robertt/gamebox/internal/config"
	"github.com/John-Robertt/gamebox/internal/infra/httpx"
	"github.com/John-Robertt/gamebox/internal/provider/dlsite"
	"github.com/John-Robertt/gamebox/internal/provider/igdb"
	"github.com/John-Robertt/gamebox/internal/provider/tgdb"
	"github.com/John-Robertt/gamebox/internal/scan"
)

// commonFlags 是 scan/search/lookup 共享的 CLI 入口项。
type commonFlags struct {
	providers []string
	output    string
}

func (f *commonFlags) toCLIArgs(path string, cmdChanged func(string) bool) config.CLIArgs {
	return config.CLIArgs{
		Path:         path,
		Providers:    f.providers,
		ProvidersSet: cmdChanged("provider"),
		Output:       f.output,
		OutputSet:    cmdChanged("output"),
	}
}

// buildAggregator 按生效配置装配 provider 注册表。
func buildAggregator(eff config.EffectiveConfig, logger *slog.Logger) (*aggregate.Aggregator, error) {
	client, err := httpx.NewMetaClient(eff.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("初始化 http client 失败：%w", err)
	}

	agg := aggregate.New(logger, eff.Concurrency, eff.Timeout)
	for _, name := range eff.Providers {
		switch name {
		case "dlsite":
			agg.Register(dlsite.New(client))
		case "igdb":
			agg.Register(igdb.New(client, eff.IGDBClientID, eff.IGDBClientSecret))
		case "tgdb":
			agg.Register(tgdb.New())
		default:
			// 配置层已校验；到这里说明两边清单不同步。
			return nil, fmt.Errorf("未知 provider：%q", name)
		}
	}
	return agg, nil
}

func buildScanner(eff config.EffectiveConfig, logger *slog.Logger, obs scan.Observer) (*scan.Scanner, error) {
	agg, err := buildAggregator(eff, logger)
	if err != nil {
		return nil, err
	}
	s := scan.New(agg, logger, obs)
	s.Timeout = eff.Timeout
	s.Extensions = eff.Extensions
	s.ExcludeDirs = eff.ExcludeDirs
	return s, nil
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}
