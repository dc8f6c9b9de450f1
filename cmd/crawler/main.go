// Command crawler collects job postings from a careers site and saves them to the JobPost table.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-jobpost-crawler/internal/config"
	"go-jobpost-crawler/internal/logger"
)

var (
	// cfgFile overrides CRAWLER_CONFIG.
	cfgFile string
	debug   bool
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "crawler",
		Short:        "Crawl a careers site into the JobPost table",
		Long:         "Visits the listing page, opens the first job postings, and saves them in one batch.",
		SilenceUsage: true,
		RunE:         runCrawl,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $CRAWLER_CONFIG or configs/crawler.yaml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.Flags().Int("max-items", 0, "override crawl.max_items for this run")

	root.AddCommand(newProbeCommand())
	root.AddCommand(newDBCheckCommand())
	root.AddCommand(newConfigCommand())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		var startupErr *config.StartupConfigError
		if errors.As(err, &startupErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("CRAWLER_CONFIG")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.With(logger.String("site", cfg.Site.Name)), nil
}
