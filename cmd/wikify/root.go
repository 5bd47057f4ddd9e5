package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wikify/wikify/internal/config"
	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/recommend"
	"github.com/wikify/wikify/internal/ui"
	"github.com/wikify/wikify/internal/wiki"
)

type rootFlags struct {
	configPath string
	backendURL string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "wikify",
		Short:         "Find Wikipedia articles that need cleanup in the topics you care about",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/wikify/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.backendURL, "backend", "", "recommendation backend URL; searches the wiki directly when empty")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(flags), newTrendingCmd(flags), newInitCmd(flags))
	return cmd
}

// load reads the config and applies flag overrides on top of it.
func (f *rootFlags) load() (*config.Config, error) {
	if f.configPath != "" {
		if err := os.Setenv("WIKIFY_CONFIG", f.configPath); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.backendURL != "" {
		cfg.BackendURL = f.backendURL
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, nil
}

func newWikiClient(cfg *config.Config) (*wiki.Client, error) {
	return wiki.NewClient(
		wiki.WithAPIURL(cfg.WikiAPIURL),
		wiki.WithRESTURL(cfg.RESTAPIURL),
		wiki.WithTimeout(cfg.RequestTimeout),
		wiki.WithRateLimit(cfg.RateLimit),
	)
}

func newEnricher(cfg *config.Config, client *wiki.Client) *recommend.Enricher {
	return recommend.NewEnricher(client,
		recommend.WithCategoryLimit(cfg.CategoryLimit),
		recommend.WithConcurrency(cfg.EnrichConcurrency),
	)
}

// newFetcher picks the backend strategy when a backend is configured and
// direct wiki search otherwise. The enricher is nil for the backend.
func newFetcher(cfg *config.Config, client *wiki.Client) (recommend.CandidateFetcher, *recommend.Enricher, error) {
	if cfg.BackendURL != "" {
		f, err := recommend.NewBackendFetcher(cfg.BackendURL, recommend.WithBackendTimeout(cfg.RequestTimeout))
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil
	}
	return recommend.NewSearchFetcher(client, cfg.SearchLimit), newEnricher(cfg, client), nil
}

func runTUI(cfg *config.Config) error {
	logPath, err := cfg.LogFilePath()
	if err != nil {
		return fmt.Errorf("resolve log file: %w", err)
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logFile})

	policy, err := recommend.ParseDonePolicy(cfg.DonePolicy)
	if err != nil {
		return err
	}

	client, err := newWikiClient(cfg)
	if err != nil {
		return err
	}
	fetcher, enricher, err := newFetcher(cfg, client)
	if err != nil {
		return err
	}

	session := recommend.NewSession(fetcher, enricher, recommend.NewStore(policy))
	logging.Info().
		Str("session", session.ID).
		Str("strategy", string(fetcher.Strategy())).
		Str("done_policy", string(policy)).
		Msg("starting")

	m := ui.NewModel(cfg, session)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example config file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.configPath != "" {
				if err := os.Setenv("WIKIFY_CONFIG", flags.configPath); err != nil {
					return err
				}
			}
			if err := config.SaveExampleConfig(); err != nil {
				return err
			}
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config directory: %s\n", dir)
			return nil
		},
	}
}
