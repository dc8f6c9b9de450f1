package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-jobpost-crawler/internal/browser"
	"go-jobpost-crawler/internal/config"
	"go-jobpost-crawler/internal/crawl"
	"go-jobpost-crawler/internal/database"
	"go-jobpost-crawler/internal/extract"
	"go-jobpost-crawler/internal/logger"
	"go-jobpost-crawler/internal/reporter"
	"go-jobpost-crawler/internal/revalidate"
)

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("max-items"); n > 0 {
		cfg.Crawl.MaxItems = n
	}

	appLog, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()
	appLog.Info("🔧 Config loaded",
		logger.String("listing_url", cfg.Site.ListingURL),
		logger.Int("max_items", cfg.Crawl.MaxItems),
		logger.Duration("item_delay", cfg.Crawl.ItemDelay))

	//telegram is optional; a broken bot must not stop the crawl
	var tg *reporter.TelegramReporter
	if cfg.TelegramEnabled() {
		tg, err = reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID, cfg.Site.Name)
		if err != nil {
			appLog.Warn("⚠️ Telegram disabled", logger.Err(err))
			tg = nil
		} else {
			appLog.Info("🤖 Telegram reporter initialized")
		}
	}

	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		appLog.Error("❌ Failed to open store", logger.Err(err))
		notifyError(tg, appLog, err)
		return err
	}
	defer closeStore()
	appLog.Info("💾 Store ready", logger.String("store", store.Name()), logger.String("table", cfg.Store.Table))

	session, err := startBrowser(cfg)
	if err != nil {
		appLog.Error("❌ Failed to start browser", logger.Err(err))
		notifyError(tg, appLog, err)
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			appLog.Warn("⚠️ Browser did not close cleanly", logger.Err(err))
		}
	}()
	appLog.Info("✅ Browser initialized successfully!")

	crawler := crawl.New(
		newNavigator(cfg, session, appLog),
		extract.NewDiscoverer(cfg.Site.Selectors),
		extract.NewExtractor(cfg.Site.Selectors, cfg.Site.Rules),
		store,
		crawl.Options{
			ListingURL:        cfg.Site.ListingURL,
			Source:            cfg.Site.Source,
			MaxItems:          cfg.Crawl.MaxItems,
			ItemDelay:         cfg.Crawl.ItemDelay,
			NavigationRetries: cfg.Crawl.NavigationRetries,
			ScrollListing:     cfg.Crawl.ScrollListing,
		},
		appLog,
	)

	res := crawler.Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())

	if tg != nil {
		if err := tg.SendRunSummary(res); err != nil {
			appLog.Warn("⚠️ Failed to send run summary", logger.Err(err))
		}
	}

	if res.Failed() {
		return res.Err
	}

	if res.Inserted > 0 && cfg.RevalidateEnabled() {
		triggerRevalidate(ctx, cfg, appLog)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (database.Store, func(), error) {
	return database.Open(ctx, database.OpenOptions{
		DatabaseURL:      cfg.DatabaseURL,
		SupabaseURL:      cfg.SupabaseURL,
		SupabaseAnonKey:  cfg.SupabaseAnonKey,
		Table:            cfg.Store.Table,
		IgnoreDuplicates: cfg.Store.IgnoreDuplicates,
		Timeout:          cfg.Store.Timeout,
	})
}

func startBrowser(cfg *config.Config) (*browser.Session, error) {
	return browser.StartSession(browser.Options{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
		Locale:    cfg.Browser.Locale,
	}, cfg.Browser.CookiesPath)
}

func newNavigator(cfg *config.Config, session *browser.Session, appLog logger.Logger) *browser.Navigator {
	screenshots, err := browser.NewScreenShotDebugger(cfg.Browser.ScreenshotDir, appLog)
	if err != nil {
		appLog.Warn("⚠️ Screenshots disabled", logger.Err(err))
	}
	return browser.NewNavigator(session.Page, cfg.Crawl.NavigationTimeout, screenshots, appLog)
}

// triggerRevalidate only logs on failure; the rows are already saved.
func triggerRevalidate(ctx context.Context, cfg *config.Config, appLog logger.Logger) {
	rctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	resp, err := revalidate.NewClient(cfg.RevalidateURL, cfg.RevalidateToken, 10*time.Second).Trigger(rctx)
	if err != nil {
		appLog.Warn("⚠️ Revalidate failed", logger.Err(err))
		return
	}
	appLog.Info("🔄 Listing page revalidated", logger.String("message", resp.Message))
}

func notifyError(tg *reporter.TelegramReporter, appLog logger.Logger, err error) {
	if tg == nil {
		return
	}
	if sendErr := tg.SendError(err); sendErr != nil {
		appLog.Warn("⚠️ Failed to send error to telegram", logger.Err(sendErr))
	}
}
