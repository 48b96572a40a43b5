// Package main is the entry point for the reel CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/discover"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
	"github.com/pders01/reel/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

const storeOpenTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Find movies you'll enjoy without the hassle",
	Long: `reel searches a TMDB-compatible movie catalog from the terminal.

Without a subcommand it starts the interactive browser: type to search,
results appear once you stop typing. Searches that hit are counted and
the most popular ones are listed as trending.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to configuration file (default: ~/.config/reel/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "path to the search count database (overrides config)")
	rootCmd.PersistentFlags().Bool("quiet", false, "skip startup banner")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for cmd: file and environment first,
// then the persistent flags. Logging is set up from the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Store.Path = dbPath
		if cfg.Store.Backend != config.BackendSQLite {
			cfg.Store.Backend = config.BackendBolt
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, err
	}

	if cfg.TMDB.APIKey == "" {
		fmt.Fprintln(os.Stderr, "warning: no TMDB API key configured (set REEL_TMDB_API_KEY or TMDB_API_KEY)")
	}

	return cfg, nil
}

// core bundles what every command needs to talk to the catalog and the
// count store.
type core struct {
	counter storage.Counter
	fetcher *discover.Fetcher
}

// openCore connects to the count store and the movie source. A store that
// cannot be opened is reported and skipped; searching still works.
func openCore(ctx context.Context, cfg *config.Config) *core {
	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, tmdb.WithTimeout(cfg.TMDB.HTTPTimeout))

	openCtx, cancel := context.WithTimeout(ctx, storeOpenTimeout)
	defer cancel()

	counter, err := storage.Open(openCtx, cfg.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: search counts disabled: %v\n", err)
		debuglog.Errorf("opening %s store: %v", cfg.Store.Backend, err)
		return &core{fetcher: discover.NewFetcher(client, nil, cfg.TMDB.ImageBaseURL)}
	}

	return &core{
		counter: counter,
		fetcher: discover.NewFetcher(client, counter, cfg.TMDB.ImageBaseURL),
	}
}

// trending returns the store as a TrendingSource, or nil without a store.
func (c *core) trending() discover.TrendingSource {
	if c.counter == nil {
		return nil
	}
	return c.counter
}

// Close waits for pending recordings and closes the store.
func (c *core) Close() {
	c.fetcher.Wait()
	if c.counter != nil {
		if err := c.counter.Close(); err != nil {
			debuglog.Errorf("closing store: %v", err)
		}
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		tui.ShowBanner(Version)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	c := openCore(cmd.Context(), cfg)
	defer c.Close()

	ctrl := discover.NewController(c.fetcher, c.trending(),
		discover.WithDebounce(cfg.Search.Debounce),
		discover.WithTrendingLimit(cfg.Search.TrendingLimit),
		discover.WithMaxQueryLength(cfg.Search.MaxQueryLength),
	)
	defer ctrl.Close()

	app := tui.NewApp(ctrl, cfg)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}
