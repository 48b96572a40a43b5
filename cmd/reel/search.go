package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/discover"
	"github.com/pders01/reel/internal/tmdb"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the catalog once and print the results",
	Long: `Search runs a single query against the movie catalog and prints the
results as a table. Without a query the popular movies are listed. Hits are
counted towards the trending list just like searches made in the browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer debuglog.Close()

		c := openCore(cmd.Context(), cfg)
		defer c.Close()

		query := discover.SanitizeQuery(strings.Join(args, " "), cfg.Search.MaxQueryLength)
		result := c.fetcher.Run(cmd.Context(), query)
		if result.Phase == discover.PhaseError {
			return errors.New(result.Message)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		movies := result.Movies
		if limit > 0 && len(movies) > limit {
			movies = movies[:limit]
		}

		out := cmd.OutOrStdout()
		if len(movies) == 0 {
			fmt.Fprintln(out, "No movies found.")
			return nil
		}
		fmt.Fprintln(out, moviesTable(movies))
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("limit", 20, "maximum number of movies to print (0 for all)")

	rootCmd.AddCommand(searchCmd)
}

func moviesTable(movies []tmdb.Movie) string {
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []string{
			strconv.Itoa(m.ID),
			orDash(m.Title),
			orDash(m.Year()),
			orDash(m.Rating()),
			orDash(strings.ToUpper(m.OriginalLanguage)),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "YEAR", "RATING", "LANG").
		Rows(rows...).
		String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
