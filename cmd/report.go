// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/naka-gawa/pr-weekly-report/internal/config"
	"github.com/naka-gawa/pr-weekly-report/internal/gateway"
	"github.com/naka-gawa/pr-weekly-report/internal/usecase"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generates this week's report and posts it to Slack",
	Long: `Fetches pull requests created and reviewed during the current report week
(last Friday 16:00 KST through this Friday 16:00 KST), aggregates the counts
per repository and per person, and delivers the summary to the configured
Slack channel.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		diag := log.New(io.Discard, "", 0) // Default: discard page-fetch logs.
		if verbose {
			diag.SetOutput(os.Stderr)
		}

		// Configuration is validated before any network call happens.
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, diag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		notifier := gateway.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannel)

		reporter := usecase.NewReporter(githubGateway, notifier,
			log.New(os.Stdout, "", 0), log.New(os.Stderr, "", 0))
		if err := reporter.Run(ctx, cfg.Org, time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate weekly report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
