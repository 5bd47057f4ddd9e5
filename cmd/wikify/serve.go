package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wikify/wikify/internal/config"
	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/recommend"
	"github.com/wikify/wikify/internal/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation service over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			initStderrLogging(cfg)

			client, err := newWikiClient(cfg)
			if err != nil {
				return err
			}
			pipeline := recommend.Pipeline{
				Fetcher:  recommend.NewSearchFetcher(client, cfg.SearchLimit),
				Enricher: newEnricher(cfg, client),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Addr:               cfg.Server.Addr,
				CORSOrigins:        cfg.Server.CORSOrigins,
				RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
			}, pipeline)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+config.DefaultServerAddr+")")
	return cmd
}

// initStderrLogging sets up console logging for the non-interactive commands.
func initStderrLogging(cfg *config.Config) {
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console", Output: os.Stderr})
}
