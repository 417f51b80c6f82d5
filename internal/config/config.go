package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "BULLETIN_SCRAPER_CONFIG"
	addrEnv       = "BULLETIN_SCRAPER_ADDR"
	staticDirEnv  = "BULLETIN_SCRAPER_STATIC_DIR"
	logLevelEnv   = "LOG_LEVEL"
	logFormatEnv  = "LOG_FORMAT"
	userAgentEnv  = "SINA_USER_AGENT"
)

const (
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	defaultAcceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	PdfLink  PdfLinkConfig  `yaml:"pdfLink"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr              string        `yaml:"addr" validate:"required"`
	StaticDir         string        `yaml:"staticDir"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout" validate:"gt=0"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// UpstreamConfig holds the Sina Finance endpoints and request identity.
type UpstreamConfig struct {
	SuggestURL     string `yaml:"suggestUrl" validate:"required,url"`
	ListBaseURL    string `yaml:"listBaseUrl" validate:"required,url"`
	DetailBaseURL  string `yaml:"detailBaseUrl" validate:"required,url"`
	UserAgent      string `yaml:"userAgent" validate:"required"`
	AcceptLanguage string `yaml:"acceptLanguage"`
}

// TimeoutConfig bounds each outbound call. PDF bounds the wait for headers only.
type TimeoutConfig struct {
	Suggest time.Duration `yaml:"suggest" validate:"gt=0"`
	Listing time.Duration `yaml:"listing" validate:"gt=0"`
	Detail  time.Duration `yaml:"detail" validate:"gt=0"`
	PDF     time.Duration `yaml:"pdf" validate:"gt=0"`
}

// PdfLinkConfig tunes the download-anchor heuristic on detail pages.
type PdfLinkConfig struct {
	TextKeywords  []string `yaml:"textKeywords" validate:"min=1,dive,required"`
	HrefMarkers   []string `yaml:"hrefMarkers" validate:"min=1,dive,required"`
	MaxTextLength int      `yaml:"maxTextLength" validate:"gt=0"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An invalid result is reported and replaced by the defaults.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		log.Printf("config: %v (falling back to defaults)", err)
		return defaultConfig()
	}
	return cfg
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(staticDirEnv); v != "" {
		c.Server.StaticDir = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(userAgentEnv); v != "" {
		c.Upstream.UserAgent = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.StaticDir != "" {
		base.Server.StaticDir = override.Server.StaticDir
	}
	if override.Server.ReadHeaderTimeout != 0 {
		base.Server.ReadHeaderTimeout = override.Server.ReadHeaderTimeout
	}
	if override.Server.ShutdownTimeout != 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Upstream.SuggestURL != "" {
		base.Upstream.SuggestURL = override.Upstream.SuggestURL
	}
	if override.Upstream.ListBaseURL != "" {
		base.Upstream.ListBaseURL = override.Upstream.ListBaseURL
	}
	if override.Upstream.DetailBaseURL != "" {
		base.Upstream.DetailBaseURL = override.Upstream.DetailBaseURL
	}
	if override.Upstream.UserAgent != "" {
		base.Upstream.UserAgent = override.Upstream.UserAgent
	}
	if override.Upstream.AcceptLanguage != "" {
		base.Upstream.AcceptLanguage = override.Upstream.AcceptLanguage
	}

	if override.Timeouts.Suggest != 0 {
		base.Timeouts.Suggest = override.Timeouts.Suggest
	}
	if override.Timeouts.Listing != 0 {
		base.Timeouts.Listing = override.Timeouts.Listing
	}
	if override.Timeouts.Detail != 0 {
		base.Timeouts.Detail = override.Timeouts.Detail
	}
	if override.Timeouts.PDF != 0 {
		base.Timeouts.PDF = override.Timeouts.PDF
	}

	if len(override.PdfLink.TextKeywords) > 0 {
		base.PdfLink.TextKeywords = override.PdfLink.TextKeywords
	}
	if len(override.PdfLink.HrefMarkers) > 0 {
		base.PdfLink.HrefMarkers = override.PdfLink.HrefMarkers
	}
	if override.PdfLink.MaxTextLength != 0 {
		base.PdfLink.MaxTextLength = override.PdfLink.MaxTextLength
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:              "127.0.0.1:8000",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Upstream: UpstreamConfig{
			SuggestURL:     "https://suggest3.sinajs.cn/suggest",
			ListBaseURL:    "https://money.finance.sina.com.cn",
			DetailBaseURL:  "https://vip.stock.finance.sina.com.cn",
			UserAgent:      defaultUserAgent,
			AcceptLanguage: defaultAcceptLanguage,
		},
		Timeouts: TimeoutConfig{
			Suggest: 15 * time.Second,
			Listing: 20 * time.Second,
			Detail:  20 * time.Second,
			PDF:     30 * time.Second,
		},
		PdfLink: PdfLinkConfig{
			TextKeywords:  []string{"下载", "PDF"},
			HrefMarkers:   []string{".pdf", "download"},
			MaxTextLength: 30,
		},
	}
}
