package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/storage"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print the most searched queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer debuglog.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.Search.TrendingLimit
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), storeOpenTimeout)
		defer cancel()

		counter, err := storage.Open(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
		}
		defer counter.Close()

		entries, err := counter.ListTrending(ctx, limit)
		if err != nil {
			return fmt.Errorf("listing trending searches: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No searches recorded yet.")
			return nil
		}
		fmt.Fprintln(out, trendingTable(entries))
		return nil
	},
}

func init() {
	trendingCmd.Flags().Int("limit", 0, "number of entries to print (default: search.trending_limit)")

	rootCmd.AddCommand(trendingCmd)
}

func trendingTable(entries []storage.TrendingEntry) string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Query,
			strconv.FormatInt(e.Count, 10),
			orDash(e.Title),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "QUERY", "SEARCHES", "TOP HIT").
		Rows(rows...).
		String()
}
