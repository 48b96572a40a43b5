package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "http://127.0.0.1:0/3",
			APIKey:       "test-key",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			WebURL:       "https://www.themoviedb.org/movie",
			HTTPTimeout:  5 * time.Second,
		},
		Search: SearchConfig{
			Debounce:       750 * time.Millisecond,
			TrendingLimit:  5,
			MaxQueryLength: 256,
		},
		Store: StoreConfig{
			Backend: BackendBolt,
			Timeout: 1 * time.Second,
		},
		Server: defaultConfig().Server,
		UI:     defaultConfig().UI,
		Media:  defaultConfig().Media,
		Log:    LogConfig{Level: "off"},
	}
}
