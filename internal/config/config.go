package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the blog engine.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Blog   BlogConfig   `mapstructure:"blog"`
	Cache  CacheConfig  `mapstructure:"cache"`

	// Plugins holds the opaque per-plugin option blocks from plugins.yml,
	// keyed by plugin name. The engine never interprets these.
	Plugins map[string]map[string]any `mapstructure:"-"`

	// Locales holds the per-locale presentation config loaded from
	// config.<locale>.yml files in the data directory.
	Locales map[string]LocaleConfig `mapstructure:"-"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// BlogConfig holds the content-engine configuration.
type BlogConfig struct {
	// DataDir is the content root holding posts/, pages/ and the per-locale
	// config files.
	DataDir string `mapstructure:"datadir"`
	// CacheDir receives the rendered HTML mirror, one file per (id, locale).
	CacheDir      string `mapstructure:"cachedir"`
	DefaultLocale string `mapstructure:"defaultlocale"`
	// Locales maps locale tags to display names, e.g. {"en": "English"}.
	Locales map[string]string `mapstructure:"locales"`
	// Pages is the allow-list of page ids that may be served.
	Pages []string `mapstructure:"pages"`
}

// CacheConfig holds the render-cache configuration.
type CacheConfig struct {
	FilePath string `mapstructure:"filepath"`
}

// LocaleConfig is the presentation config for one locale.
type LocaleConfig struct {
	Locale     string            `mapstructure:"locale"`
	Name       string            `mapstructure:"name"`
	Title      string            `mapstructure:"blogtitle"`
	Tagline    string            `mapstructure:"blogtagline"`
	DateLayout string            `mapstructure:"datelayout"`
	Dictionary map[string]string `mapstructure:"dictionary"`
}

// LoadConfig reads configuration from file and environment variables, then
// pulls in the plugin options and per-locale config files from the data
// directory.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("blog.datadir", "./data")
	viper.SetDefault("blog.cachedir", "./cache")
	viper.SetDefault("blog.defaultlocale", "en")
	viper.SetDefault("blog.locales", map[string]string{"en": "English"})
	viper.SetDefault("blog.pages", []string{"404"})
	viper.SetDefault("cache.filepath", "./cache/render.db")

	// Set up viper to read from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/mudawanah/")
	viper.AddConfigPath("$HOME/.mudawanah")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	viper.SetEnvPrefix("MUDAWANAH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal the config into the Config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := cfg.loadPluginOptions(); err != nil {
		return nil, err
	}
	if err := cfg.loadLocaleConfigs(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Blog.Locales) == 0 {
		return fmt.Errorf("config: no locales configured")
	}
	if _, ok := c.Blog.Locales[c.Blog.DefaultLocale]; !ok {
		return fmt.Errorf("config: default locale %q is not in the locale set", c.Blog.DefaultLocale)
	}
	if !slices.Contains(c.Blog.Pages, "404") {
		// The not-found flow depends on the 404 page being servable.
		c.Blog.Pages = append(c.Blog.Pages, "404")
	}
	return nil
}

// loadPluginOptions reads plugins.yml from the data directory. The file is
// optional; a missing file yields an empty option set.
func (c *Config) loadPluginOptions() error {
	v := viper.New()
	v.SetConfigFile(filepath.Join(c.Blog.DataDir, "plugins.yml"))
	if err := v.ReadInConfig(); err != nil {
		if isNotFound(err) {
			c.Plugins = map[string]map[string]any{}
			return nil
		}
		return fmt.Errorf("config: reading plugins.yml: %w", err)
	}

	c.Plugins = make(map[string]map[string]any)
	for _, key := range v.AllKeys() {
		root := strings.SplitN(key, ".", 2)[0]
		if _, done := c.Plugins[root]; done {
			continue
		}
		c.Plugins[root] = v.GetStringMap(root)
	}
	return nil
}

// loadLocaleConfigs reads config.<locale>.yml for every configured locale.
// Missing files fall back to a minimal config derived from the locale set, so
// a blog can run without per-locale customization.
func (c *Config) loadLocaleConfigs() error {
	c.Locales = make(map[string]LocaleConfig, len(c.Blog.Locales))
	for tag, name := range c.Blog.Locales {
		lc := LocaleConfig{Locale: tag, Name: name}

		v := viper.New()
		v.SetConfigFile(filepath.Join(c.Blog.DataDir, fmt.Sprintf("config.%s.yml", tag)))
		err := v.ReadInConfig()
		switch {
		case err == nil:
			if err := v.Unmarshal(&lc); err != nil {
				return fmt.Errorf("config: parsing locale config for %q: %w", tag, err)
			}
			if lc.Locale == "" {
				lc.Locale = tag
			}
			if lc.Name == "" {
				lc.Name = name
			}
		case isNotFound(err):
			// keep the fallback
		default:
			return fmt.Errorf("config: reading locale config for %q: %w", tag, err)
		}

		if lc.DateLayout == "" {
			lc.DateLayout = "Monday, January 2, 2006"
		}
		if lc.Dictionary == nil {
			lc.Dictionary = map[string]string{}
		}
		c.Locales[tag] = lc
	}
	return nil
}

// HasLocale reports whether the given tag is a configured locale.
func (c *Config) HasLocale(tag string) bool {
	_, ok := c.Blog.Locales[tag]
	return ok
}

// PageAllowed reports whether the given page id is on the allow-list.
func (c *Config) PageAllowed(id string) bool {
	return slices.Contains(c.Blog.Pages, id)
}

// LocaleTags returns the configured locale tags in sorted order, so callers
// that build per-locale links get a deterministic order.
func (c *Config) LocaleTags() []string {
	tags := make([]string, 0, len(c.Blog.Locales))
	for tag := range c.Blog.Locales {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}
