// Load envs from .env.local / .env
// Load YAML config over the built-in toss defaults
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-jobpost-crawler/internal/scraper"
	"go-jobpost-crawler/internal/scraper/toss"
)

const defaultConfigPath = "configs/crawler.yaml"

type Config struct {
	Site    scraper.Site  `yaml:"site"`
	Crawl   CrawlConfig   `yaml:"crawl"`
	Browser BrowserConfig `yaml:"browser"`
	Store   StoreConfig   `yaml:"store"`

	// From env only
	SupabaseURL     string `yaml:"-"`
	SupabaseAnonKey string `yaml:"-"`
	DatabaseURL     string `yaml:"-"`
	TelegramToken   string `yaml:"-"`
	TelegramChatID  int64  `yaml:"-"`
	RevalidateURL   string `yaml:"-"`
	RevalidateToken string `yaml:"-"`
	LogLevel        string `yaml:"log_level"`
}

type CrawlConfig struct {
	MaxItems          int           `yaml:"max_items"`
	ItemDelay         time.Duration `yaml:"item_delay"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	// Extra attempts after a retryable navigation failure.
	NavigationRetries int  `yaml:"navigation_retries"`
	ScrollListing     bool `yaml:"scroll_listing"`
}

type BrowserConfig struct {
	Headless      bool   `yaml:"headless"`
	UserAgent     string `yaml:"user_agent"`
	Locale        string `yaml:"locale"`
	CookiesPath   string `yaml:"cookies_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type StoreConfig struct {
	Table            string        `yaml:"table"`
	IgnoreDuplicates bool          `yaml:"ignore_duplicates"`
	Timeout          time.Duration `yaml:"timeout"`
}

// StartupConfigError means the process cannot start; nothing has been crawled yet.
type StartupConfigError struct {
	Missing []string
	Err     error
}

func (e *StartupConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required environment: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("invalid config: %v", e.Err)
}

func (e *StartupConfigError) Unwrap() error { return e.Err }

// Default returns the toss crawl: first 5 postings, 1s apart.
func Default() *Config {
	return &Config{
		Site: toss.Site(),
		Crawl: CrawlConfig{
			MaxItems:          5,
			ItemDelay:         time.Second,
			NavigationTimeout: 30 * time.Second,
			NavigationRetries: 1,
			ScrollListing:     true,
		},
		Browser: BrowserConfig{
			Headless: true,
			Locale:   "ko-KR",
		},
		Store: StoreConfig{
			Table:            "JobPost",
			IgnoreDuplicates: true,
			Timeout:          30 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads .env files, the YAML file named by CRAWLER_CONFIG (or the default path when it
// exists) and the environment. Missing store credentials are reported as *StartupConfigError.
func Load() (*Config, error) {
	loadDotEnv()
	return LoadFrom(os.Getenv("CRAWLER_CONFIG"))
}

// LoadFrom is Load with an explicit YAML path. An empty path falls back to the default
// location, which may be absent; an explicit path must exist.
func LoadFrom(path string) (*Config, error) {
	loadDotEnv()

	cfg := Default()

	required := path != ""
	if path == "" {
		path = defaultConfigPath
	}
	if err := cfg.loadYAML(path, required); err != nil {
		return nil, &StartupConfigError{Err: err}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, &StartupConfigError{Err: err}
	}
	return cfg, nil
}

func loadDotEnv() {
	// both optional; .env.local wins because godotenv never overrides
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

func (c *Config) loadYAML(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) applyEnv() error {
	c.SupabaseURL = strings.TrimRight(firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"), "/")
	c.SupabaseAnonKey = firstEnv("SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY")
	c.DatabaseURL = firstEnv("DATABASE_URL")
	c.TelegramToken = firstEnv("TELEGRAM_BOT_TOKEN")
	c.RevalidateURL = firstEnv("REVALIDATE_URL")
	c.RevalidateToken = firstEnv("REVALIDATE_TOKEN")
	if lvl := firstEnv("LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}

	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if len(missing) > 0 {
		return &StartupConfigError{Missing: missing}
	}

	if chatID := firstEnv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return &StartupConfigError{Err: fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)}
		}
		c.TelegramChatID = id
	}
	return nil
}

// Validate checks the crawl bounds and the site table.
func (c *Config) Validate() error {
	if c.Crawl.MaxItems <= 0 {
		return fmt.Errorf("crawl.max_items must be positive, got %d", c.Crawl.MaxItems)
	}
	if c.Crawl.ItemDelay < 0 {
		return fmt.Errorf("crawl.item_delay must not be negative")
	}
	if c.Crawl.NavigationTimeout <= 0 {
		return fmt.Errorf("crawl.navigation_timeout must be positive")
	}
	if c.Crawl.NavigationRetries < 0 {
		return fmt.Errorf("crawl.navigation_retries must not be negative")
	}
	if c.Store.Table == "" {
		return fmt.Errorf("store.table is required")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}
	return c.Site.Validate()
}

// TelegramEnabled reports whether run summaries should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// RevalidateEnabled reports whether the web app should be asked to re-render after a run.
func (c *Config) RevalidateEnabled() bool {
	return c.RevalidateURL != "" && c.RevalidateToken != ""
}

// Dump renders the effective config as YAML followed by the env-only settings with
// secrets masked.
func (c *Config) Dump() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	var b strings.Builder
	b.Write(data)
	fmt.Fprintf(&b, "# env\n")
	fmt.Fprintf(&b, "# SUPABASE_URL: %s\n", c.SupabaseURL)
	fmt.Fprintf(&b, "# SUPABASE_ANON_KEY: %s\n", mask(c.SupabaseAnonKey))
	fmt.Fprintf(&b, "# DATABASE_URL: %s\n", mask(c.DatabaseURL))
	fmt.Fprintf(&b, "# TELEGRAM_BOT_TOKEN: %s\n", mask(c.TelegramToken))
	fmt.Fprintf(&b, "# TELEGRAM_CHAT_ID: %d\n", c.TelegramChatID)
	fmt.Fprintf(&b, "# REVALIDATE_URL: %s\n", c.RevalidateURL)
	fmt.Fprintf(&b, "# REVALIDATE_TOKEN: %s\n", mask(c.RevalidateToken))
	return b.String(), nil
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}
