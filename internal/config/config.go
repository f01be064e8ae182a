// Package config loads dlt-draws settings.
//
// Values start from Default, are overlaid by an optional YAML file and then by
// DLT_-prefixed environment variables. Command-line flags are applied last by the cli package.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "https://www.zhcw.com/kjxx/dlt/"
	DefaultDeepLinkURL = "https://www.zhcw.com/kjxx/dlt/?kjData=100"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	DriverChrome = "chrome"
	DriverHTTP   = "http"

	PolicySecondToLast = "second-to-last"
	PolicyLastNumeric  = "last-numeric"

	EnvPrefix = "DLT_"
)

// Config holds all runtime configuration.
type Config struct {
	BaseURL     string `yaml:"base_url" env:"BASE_URL"`
	DeepLinkURL string `yaml:"deep_link_url" env:"DEEP_LINK_URL"`

	// Driver selects the session binding: "chrome" or "http".
	Driver  string  `yaml:"driver" env:"DRIVER"`
	Browser Browser `yaml:"browser" envPrefix:"BROWSER_"`

	Timeouts  Timeouts  `yaml:"timeouts" envPrefix:"TIMEOUT_"`
	Selectors Selectors `yaml:"selectors" envPrefix:"SELECTOR_"`

	// MinCells is the structural guard for table rows.
	MinCells       int    `yaml:"min_cells" env:"MIN_CELLS"`
	LastPagePolicy string `yaml:"last_page_policy" env:"LAST_PAGE_POLICY"`

	DiagnosticsDir string `yaml:"diagnostics_dir" env:"DIAGNOSTICS_DIR"`
	DataDir        string `yaml:"data_dir" env:"DATA_DIR"`
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Browser configures the chrome binding.
type Browser struct {
	ExecPath     string `yaml:"exec_path" env:"EXEC_PATH"`
	Headless     bool   `yaml:"headless" env:"HEADLESS"`
	UserAgent    string `yaml:"user_agent" env:"USER_AGENT"`
	WindowWidth  int    `yaml:"window_width" env:"WINDOW_WIDTH"`
	WindowHeight int    `yaml:"window_height" env:"WINDOW_HEIGHT"`
}

// Timeouts holds the bounded waits and the fixed settle delays.
type Timeouts struct {
	PageLoad     time.Duration `yaml:"page_load" env:"PAGE_LOAD"`
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
	ScrollSettle time.Duration `yaml:"scroll_settle" env:"SCROLL_SETTLE"`
	ClickSettle  time.Duration `yaml:"click_settle" env:"CLICK_SETTLE"`
	PageSettle   time.Duration `yaml:"page_settle" env:"PAGE_SETTLE"`
	HTTPRequest  time.Duration `yaml:"http_request" env:"HTTP_REQUEST"`
}

// Selectors locate elements on the listing page. XPath values are used for waits
// and interactions; CSS values are used when reading a page's HTML.
type Selectors struct {
	ContentXPath    string `yaml:"content_xpath" env:"CONTENT_XPATH"`
	RecentXPath     string `yaml:"recent_xpath" env:"RECENT_XPATH"`
	PaginationXPath string `yaml:"pagination_xpath" env:"PAGINATION_XPATH"`
	// PageLinkXPath and ActivePageXPath contain one %d verb for the page number.
	PageLinkXPath   string `yaml:"page_link_xpath" env:"PAGE_LINK_XPATH"`
	ActivePageXPath string `yaml:"active_page_xpath" env:"ACTIVE_PAGE_XPATH"`

	ContentCSS         string `yaml:"content_css" env:"CONTENT_CSS"`
	RowsCSS            string `yaml:"rows_css" env:"ROWS_CSS"`
	PaginationLinksCSS string `yaml:"pagination_links_css" env:"PAGINATION_LINKS_CSS"`
	FrontBallCSS       string `yaml:"front_ball_css" env:"FRONT_BALL_CSS"`
	BackBallCSS        string `yaml:"back_ball_css" env:"BACK_BALL_CSS"`
}

// Default returns the configuration for the zhcw.com draw listing.
func Default() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		DeepLinkURL: DefaultDeepLinkURL,
		Driver:      DriverChrome,
		Browser: Browser{
			Headless:     true,
			UserAgent:    DefaultUserAgent,
			WindowWidth:  1366,
			WindowHeight: 900,
		},
		Timeouts: Timeouts{
			PageLoad:     30 * time.Second,
			PollInterval: 250 * time.Millisecond,
			ScrollSettle: 1 * time.Second,
			ClickSettle:  3 * time.Second,
			PageSettle:   2 * time.Second,
			HTTPRequest:  30 * time.Second,
		},
		Selectors: Selectors{
			ContentXPath:    `//div[contains(concat(" ", normalize-space(@class), " "), " flcp ")]`,
			RecentXPath:     `//span[contains(@class, "annq") and contains(text(), "近100期")]`,
			PaginationXPath: `//*[contains(concat(" ", normalize-space(@class), " "), " pagination ")]`,
			PageLinkXPath:   `//li/a[text()="%d"]`,
			ActivePageXPath: `//li[@class="active"]/a[text()="%d"]`,

			ContentCSS:         "div.flcp",
			RowsCSS:            "table tbody tr",
			PaginationLinksCSS: ".pagination a",
			FrontBallCSS:       ".jqh",
			BackBallCSS:        ".jql",
		},
		MinCells:       14,
		LastPagePolicy: PolicySecondToLast,
		DiagnosticsDir: ".",
		DataDir:        "~/.local/share/dlt-draws",
		LogLevel:       "info",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config file: %w", err)
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("config: base_url is required")
	}
	if strings.TrimSpace(c.DeepLinkURL) == "" {
		return errors.New("config: deep_link_url is required")
	}
	switch c.Driver {
	case DriverChrome, DriverHTTP:
	default:
		return fmt.Errorf("config: unknown driver %q (must be %q or %q)", c.Driver, DriverChrome, DriverHTTP)
	}
	switch c.LastPagePolicy {
	case PolicySecondToLast, PolicyLastNumeric:
	default:
		return fmt.Errorf("config: unknown last_page_policy %q", c.LastPagePolicy)
	}
	if c.Timeouts.PageLoad <= 0 {
		return errors.New("config: timeouts.page_load must be positive")
	}
	if c.Timeouts.PollInterval <= 0 {
		return errors.New("config: timeouts.poll_interval must be positive")
	}
	if c.Timeouts.ScrollSettle < 0 || c.Timeouts.ClickSettle < 0 || c.Timeouts.PageSettle < 0 {
		return errors.New("config: settle delays cannot be negative")
	}
	if c.MinCells < 14 {
		return fmt.Errorf("config: min_cells must be at least 14, got %d", c.MinCells)
	}
	for name, v := range map[string]string{
		"page_link_xpath":   c.Selectors.PageLinkXPath,
		"active_page_xpath": c.Selectors.ActivePageXPath,
	} {
		if strings.Count(v, "%d") != 1 {
			return fmt.Errorf("config: selectors.%s must contain exactly one %%d", name)
		}
	}
	return nil
}
