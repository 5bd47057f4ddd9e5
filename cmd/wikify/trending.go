package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wikify/wikify/internal/wiki"
)

func newTrendingCmd(flags *rootFlags) *cobra.Command {
	var daysAgo int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most viewed Wikipedia articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			initStderrLogging(cfg)

			client, err := newWikiClient(cfg)
			if err != nil {
				return err
			}

			day := time.Now().UTC().AddDate(0, 0, -daysAgo)
			top, err := client.TopPages(cmd.Context(), day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			heading := lipgloss.NewStyle().Bold(true)
			fmt.Fprintln(out, heading.Render("Top articles for "+day.Format("2006-01-02")))
			if len(top) == 0 {
				fmt.Fprintln(out, "no data for that day")
				return nil
			}
			for i, a := range top {
				fmt.Fprintf(out, "%2d. %s (%s views)\n", i+1, wiki.DisplayTitle(a.Article), humanize.Comma(a.Views))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&daysAgo, "days-ago", 1, "which day to rank; today's data is usually not published yet")
	return cmd
}
