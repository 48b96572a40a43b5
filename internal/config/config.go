package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pders01/reel/internal/validation"
)

type Config struct {
	TMDB   TMDBConfig   `mapstructure:"tmdb"`
	Search SearchConfig `mapstructure:"search"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	UI     UIConfig     `mapstructure:"ui"`
	Media  MediaConfig  `mapstructure:"media"`
	Log    LogConfig    `mapstructure:"log"`
}

type TMDBConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	WebURL       string        `mapstructure:"web_url"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
}

type SearchConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	TrendingLimit  int           `mapstructure:"trending_limit"`
	MaxQueryLength int           `mapstructure:"max_query_length"`
}

// Store backends.
const (
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type StoreConfig struct {
	Backend       string        `mapstructure:"backend"`
	Path          string        `mapstructure:"path"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
	PostgresDSN   string        `mapstructure:"postgres_dsn"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
}

type MediaConfig struct {
	DefaultOpener string `mapstructure:"default_opener"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			WebURL:       "https://www.themoviedb.org/movie",
			HTTPTimeout:  15 * time.Second,
		},
		Search: SearchConfig{
			Debounce:       750 * time.Millisecond,
			TrendingLimit:  5,
			MaxQueryLength: 256,
		},
		Store: StoreConfig{
			Backend:     BackendBolt,
			Path:        filepath.Join(homeDir, ".reel.db"),
			Timeout:     1 * time.Second,
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: "reel:",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#AB8BFF",
				Secondary: "#D6C7FF",
				Accent:    "#FFD166",
				Text:      "#EAEAEA",
				Muted:     "#A8B5DB",
				Error:     "#F87171",
			},
		},
		Media: MediaConfig{
			DefaultOpener: getDefaultOpener(),
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// Load reads defaults, then the TOML file, then REEL_* environment variables.
// A .env file in the working directory is loaded first if present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "reel")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.TMDB.APIKey == "" {
		config.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	}

	expandPaths(&config)

	return &config, nil
}

// setDefaults registers every leaf key so AutomaticEnv can resolve nested
// keys such as REEL_TMDB_API_KEY.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.web_url", cfg.TMDB.WebURL)
	v.SetDefault("tmdb.http_timeout", cfg.TMDB.HTTPTimeout)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.trending_limit", cfg.Search.TrendingLimit)
	v.SetDefault("search.max_query_length", cfg.Search.MaxQueryLength)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.timeout", cfg.Store.Timeout)
	v.SetDefault("store.redis_addr", cfg.Store.RedisAddr)
	v.SetDefault("store.redis_password", cfg.Store.RedisPassword)
	v.SetDefault("store.redis_db", cfg.Store.RedisDB)
	v.SetDefault("store.redis_prefix", cfg.Store.RedisPrefix)
	v.SetDefault("store.postgres_dsn", cfg.Store.PostgresDSN)

	v.SetDefault("server.addr", cfg.Server.Addr)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)

	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// Validate checks the values other packages rely on without further checks.
func (c *Config) Validate() error {
	urls := validation.NewBaseURLValidator()
	base, err := urls.ValidateAndNormalize(c.TMDB.BaseURL)
	if err != nil {
		return fmt.Errorf("tmdb.base_url: %w", err)
	}
	c.TMDB.BaseURL = base

	if c.TMDB.ImageBaseURL != "" {
		img, err := urls.ValidateAndNormalize(c.TMDB.ImageBaseURL)
		if err != nil {
			return fmt.Errorf("tmdb.image_base_url: %w", err)
		}
		c.TMDB.ImageBaseURL = img
	}

	// Pages are handed to the system opener, so only https is accepted.
	if c.TMDB.WebURL != "" {
		web, err := validation.NewStrictBaseURLValidator().ValidateAndNormalize(c.TMDB.WebURL)
		if err != nil {
			return fmt.Errorf("tmdb.web_url: %w", err)
		}
		c.TMDB.WebURL = web
	}

	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}
	if c.Search.TrendingLimit <= 0 {
		c.Search.TrendingLimit = 5
	}

	switch c.Store.Backend {
	case BackendBolt, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the %s backend", BackendRedis)
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	expanded, err := validation.ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPaths(cfg *Config) {
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings for TOML readability
	tmdbCfg := map[string]interface{}{
		"base_url":       config.TMDB.BaseURL,
		"api_key":        config.TMDB.APIKey,
		"image_base_url": config.TMDB.ImageBaseURL,
		"web_url":        config.TMDB.WebURL,
		"http_timeout":   config.TMDB.HTTPTimeout.String(),
	}

	searchCfg := map[string]interface{}{
		"debounce":         config.Search.Debounce.String(),
		"trending_limit":   config.Search.TrendingLimit,
		"max_query_length": config.Search.MaxQueryLength,
	}

	storeCfg := map[string]interface{}{
		"backend":        config.Store.Backend,
		"path":           config.Store.Path,
		"timeout":        config.Store.Timeout.String(),
		"redis_addr":     config.Store.RedisAddr,
		"redis_password": config.Store.RedisPassword,
		"redis_db":       config.Store.RedisDB,
		"redis_prefix":   config.Store.RedisPrefix,
		"postgres_dsn":   config.Store.PostgresDSN,
	}

	v.Set("tmdb", tmdbCfg)
	v.Set("search", searchCfg)
	v.Set("store", storeCfg)
	v.Set("server", map[string]interface{}{"addr": config.Server.Addr})
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
		},
	})
	v.Set("media", map[string]interface{}{"default_opener": config.Media.DefaultOpener})
	v.Set("log", map[string]interface{}{"level": config.Log.Level, "file": config.Log.File})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultConfigPath is where GenerateDefaultConfig writes when no path is given.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "reel", "config.toml")
}
