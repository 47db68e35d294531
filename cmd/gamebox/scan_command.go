package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/gamebox/internal/config"
	"github.com/John-Robertt/gamebox/internal/domain"
	"github.com/John-Robertt/gamebox/internal/jsonout"
	"github.com/John-Robertt/gamebox/internal/scan"
)

func newScanCmd() *cobra.Command {
	flags := &commonFlags{}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描游戏库目录并生成 scan_result.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("读取当前目录失败：%w", err)
			}

			eff, err := config.LoadEffective(cwd, flags.toCLIArgs(path, cmd.Flags().Changed))
			if err != nil {
				return err
			}

			progressW, interactive := pickProgressWriter()
			var obs scan.Observer
			if interactive {
				obs = newProgressUI(progressW)
			}

			logger := slog.Default()
			scanner, err := buildScanner(eff, logger, obs)
			if err != nil {
				return err
			}

			assets, err := scanner.Scan(cmd.Context(), eff.Path)
			if err != nil {
				return fmt.Errorf("扫描失败：%w", err)
			}

			res := jsonout.NewScanResult(eff.Path, assets)
			outPath, err := jsonout.WriteScanResult(eff.Output, res)
			if err != nil {
				return fmt.Errorf("写入结果失败：%w", err)
			}

			if isTTY(os.Stdout) {
				fmt.Fprintln(os.Stdout, renderAssetTable(assets))
				fmt.Fprintf(os.Stdout, "完成：assets=%d out=%s\n", len(assets), outPath)
				return nil
			}

			// stdout 非 TTY：stdout 必须且仅输出一个结果 JSON（与落盘文件同一个值）。
			enc := json.NewEncoder(os.Stdout)
			if err := enc.Encode(res); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "完成：assets=%d out=%s\n", len(assets), outPath)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&flags.providers, "provider", nil, "启用的元数据来源（可重复；默认读配置文件）")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "输出文件路径（默认 "+jsonout.DefaultScanFile+"）")
	return cmd
}

func renderAssetTable(assets []domain.GameAsset) string {
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		release := ""
		if !a.ReleaseDate.IsZero() {
			release = a.ReleaseDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			a.Title,
			a.Version,
			a.Developer,
			release,
			formatByteSize(a.ByteSize),
			strconv.Itoa(len(a.StartPaths)),
		})
	}
	return renderTable(
		[]string{"标题", "版本", "开发者", "发售日", "体积", "启动项"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func formatByteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	units := []string{"KiB", "MiB", "GiB", "TiB"}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), units[exp])
}
