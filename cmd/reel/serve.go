package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search and trending as JSON over HTTP",
	Long: `Serve exposes the same search and trending data as the browser through a
small JSON API:

  GET /health
  GET /api/movies?query=
  GET /api/trending?limit=`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer debuglog.Close()

		// Without a log file the server logs to stderr, at info unless set.
		if cfg.Log.File == "" {
			level := debuglog.ParseLogLevel(cfg.Log.Level)
			if level == debuglog.LevelOff {
				level = debuglog.LevelInfo
			}
			debuglog.SetupWriter(level, os.Stderr)
		}

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		c := openCore(cmd.Context(), cfg)
		defer c.Close()

		srv := server.New(cfg, c.fetcher, c.trending(), server.Options{
			RequestLog: debuglog.GetLevel() <= debuglog.LevelInfo,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			fmt.Fprintf(os.Stderr, "reel listening on %s\n", cfg.Server.Addr)
			errCh <- srv.Listen(cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		debuglog.Infof("shutting down server")
		if err := srv.Shutdown(); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")

	rootCmd.AddCommand(serveCmd)
}
