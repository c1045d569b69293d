// Package config loads runtime configuration from defaults, an optional file and LEGALWEB_*
// environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. LEGALWEB_CMS_BASE_URL.
const EnvPrefix = "LEGALWEB"

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	CMS         CMSConfig         `mapstructure:"cms"`
	Content     ContentConfig     `mapstructure:"content"`
	Subscribers SubscribersConfig `mapstructure:"subscribers"`
	Log         LogConfig         `mapstructure:"log"`
	Site        SiteConfig        `mapstructure:"site"`
	Analytics   AnalyticsConfig   `mapstructure:"analytics"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// Env is "dev" or "prod"; prod marks cookies secure and requires a session key.
	Env        string `mapstructure:"env"`
	Dev        bool   `mapstructure:"dev"`
	SessionKey string `mapstructure:"session_key"`
}

// CMSConfig points at the headless CMS. An empty BaseURL serves the fallback catalog only.
type CMSConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Attempts int           `mapstructure:"attempts"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ContentConfig configures locale and asset sources.
type ContentConfig struct {
	// LocalesDir overrides the embedded locale files when set.
	LocalesDir  string `mapstructure:"locales_dir"`
	DefaultLang string `mapstructure:"default_lang"`
	AssetsDir   string `mapstructure:"assets_dir"`
}

// SubscribersConfig configures the local subscriber list.
type SubscribersConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SiteConfig carries public site identity used by SEO metadata.
type SiteConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string `mapstructure:"ga4_measurement_id"`
	GTMContainerID   string `mapstructure:"gtm_container_id"`
	Debug            bool   `mapstructure:"debug"`
}

var defaults = map[string]any{
	"server.port":                  "8080",
	"server.read_timeout":          15 * time.Second,
	"server.write_timeout":         30 * time.Second,
	"server.idle_timeout":          120 * time.Second,
	"server.request_timeout":       30 * time.Second,
	"server.env":                   "dev",
	"server.dev":                   false,
	"server.session_key":           "",
	"cms.base_url":                 "",
	"cms.timeout":                  8 * time.Second,
	"cms.attempts":                 1,
	"cms.cache_ttl":                time.Duration(0),
	"content.locales_dir":          "",
	"content.default_lang":         "en",
	"content.assets_dir":           "public",
	"subscribers.path":             ":memory:",
	"log.level":                    "info",
	"site.name":                    "Al Safar and Partners",
	"site.base_url":                "http://localhost:8080",
	"analytics.ga4_measurement_id": "",
	"analytics.gtm_container_id":   "",
	"analytics.debug":              false,
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	file      string
	overrides map[string]any
}

// WithFile reads the given YAML/TOML/JSON file. A missing file is ignored.
func WithFile(path string) Option {
	return func(o *loaderOptions) { o.file = strings.TrimSpace(path) }
}

// WithOverrides sets values with the highest precedence (flags, tests).
func WithOverrides(values map[string]any) Option {
	return func(o *loaderOptions) {
		if o.overrides == nil {
			o.overrides = map[string]any{}
		}
		for k, v := range values {
			o.overrides[k] = v
		}
	}
}

// Load resolves and validates configuration.
func Load(opts ...Option) (Config, error) {
	var lo loaderOptions
	for _, opt := range opts {
		opt(&lo)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if lo.file != "" {
		if _, err := os.Stat(lo.file); !errors.Is(err, fs.ErrNotExist) {
			v.SetConfigFile(lo.file)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("config: read %s: %w", lo.file, err)
			}
		}
	}
	for k, val := range lo.overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	c.Server.Env = strings.ToLower(strings.TrimSpace(c.Server.Env))
	c.CMS.BaseURL = strings.TrimRight(strings.TrimSpace(c.CMS.BaseURL), "/")
	c.Content.DefaultLang = strings.ToLower(strings.TrimSpace(c.Content.DefaultLang))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
}

// Validate checks field ranges and required values.
func (c Config) Validate() error {
	var bad []string
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		bad = append(bad, "server.port")
	}
	if c.Server.Env != "dev" && c.Server.Env != "prod" {
		bad = append(bad, "server.env")
	}
	if c.Server.Env == "prod" && len(c.Server.SessionKey) < 32 {
		bad = append(bad, "server.session_key")
	}
	if c.CMS.BaseURL != "" && !isAbsoluteHTTP(c.CMS.BaseURL) {
		bad = append(bad, "cms.base_url")
	}
	if c.CMS.Timeout <= 0 {
		bad = append(bad, "cms.timeout")
	}
	if c.CMS.Attempts < 1 {
		bad = append(bad, "cms.attempts")
	}
	if c.CMS.CacheTTL < 0 {
		bad = append(bad, "cms.cache_ttl")
	}
	if c.Content.DefaultLang != "en" && c.Content.DefaultLang != "ar" {
		bad = append(bad, "content.default_lang")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		bad = append(bad, "log.level")
	}
	if !isAbsoluteHTTP(c.Site.BaseURL) {
		bad = append(bad, "site.base_url")
	}
	if len(bad) > 0 {
		return &ValidationError{fields: bad}
	}
	return nil
}

// Secure reports whether cookies should carry the Secure flag.
func (s ServerConfig) Secure() bool { return s.Env == "prod" }

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return ":" + s.Port }

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
