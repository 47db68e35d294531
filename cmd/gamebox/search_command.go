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
)

func newSearchCmd() *cobra.Command {
	flags := &commonFlags{}
	var path string

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "按标题查询全部来源并生成 search_result.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("读取当前目录失败：%w", err)
			}

			eff, err := config.LoadEffective(cwd, flags.toCLIArgs(path, cmd.Flags().Changed))
			if err != nil {
				return err
			}

			logger := slog.Default()
			scanner, err := buildScanner(eff, logger, nil)
			if err != nil {
				return err
			}

			results, err := scanner.Search(cmd.Context(), title)
			if err != nil {
				return fmt.Errorf("查询失败：%w", err)
			}

			outPath, err := jsonout.WriteSearchResult(eff.Output, title, results)
			if err != nil {
				return fmt.Errorf("写入结果失败：%w", err)
			}

			if isTTY(os.Stdout) {
				fmt.Fprintln(os.Stdout, renderResultTable(results))
				fmt.Fprintf(os.Stdout, "完成：results=%d out=%s\n", len(results), outPath)
				return nil
			}

			res := jsonout.SearchResult{Query: title, Results: results}
			enc := json.NewEncoder(os.Stdout)
			if err := enc.Encode(res); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "完成：results=%d out=%s\n", len(results), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "库目录（用于定位 gamebox.json；默认当前目录）")
	cmd.Flags().StringSliceVar(&flags.providers, "provider", nil, "启用的元数据来源（可重复；默认读配置文件）")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "输出文件路径（默认 "+jsonout.DefaultSearchFile+"）")
	return cmd
}

func renderResultTable(results []domain.QueryResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Source,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			r.Meta.Title,
			r.Meta.ReleaseDate,
			r.Meta.Publisher,
		})
	}
	return renderTable(
		[]string{"来源", "置信度", "标题", "发售日", "发行商"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}
