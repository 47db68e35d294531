package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/gamebox/internal/config"
	"github.com/John-Robertt/gamebox/internal/domain"
)

func newLookupCmd() *cobra.Command {
	flags := &commonFlags{}
	var path string

	cmd := &cobra.Command{
		Use:   "lookup <id>",
		Short: "按来源 ID（如 RJ01014447）逐源查询单个作品",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("读取当前目录失败：%w", err)
			}

			eff, err := config.LoadEffective(cwd, flags.toCLIArgs(path, cmd.Flags().Changed))
			if err != nil {
				return err
			}

			agg, err := buildAggregator(eff, slog.Default())
			if err != nil {
				return err
			}

			result, err := agg.GetByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("未找到 %q：%w", id, err)
			}

			if isTTY(os.Stdout) {
				fmt.Fprintln(os.Stdout, renderResultTable([]domain.QueryResult{result}))
				return nil
			}
			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "库目录（用于定位 gamebox.json；默认当前目录）")
	cmd.Flags().StringSliceVar(&flags.providers, "provider", nil, "启用的元数据来源（可重复；默认读配置文件）")
	return cmd
}
