package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source struct {
		BaseURL        string  `yaml:"base_url"`
		Periods        []int   `yaml:"periods"`
		MaxIndex       int     `yaml:"max_index"`
		MaxMisses      int     `yaml:"max_misses"`
		RateLimit      float64 `yaml:"rate_limit"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		Retries        int     `yaml:"retries"`
	} `yaml:"source"`

	Store struct {
		Dir string `yaml:"dir"`
	} `yaml:"store"`

	Search struct {
		URL                string `yaml:"url"`
		Index              string `yaml:"index"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
		BatchSize          int    `yaml:"batch_size"`
	} `yaml:"search"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/plenum/config.yaml"),
			"/etc/plenum/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Source.BaseURL == "" {
		config.Source.BaseURL = "https://www.landtag.nrw.de/portal/WWW/dokumentenarchiv/Dokument/"
	}
	if len(config.Source.Periods) == 0 {
		config.Source.Periods = []int{14, 15, 16, 17}
	}
	if config.Source.MaxIndex == 0 {
		config.Source.MaxIndex = 300
	}
	if config.Source.MaxMisses == 0 {
		config.Source.MaxMisses = 20
	}
	if config.Source.RateLimit == 0 {
		config.Source.RateLimit = 2.0
	}
	if config.Source.TimeoutSeconds == 0 {
		config.Source.TimeoutSeconds = 30
	}
	if config.Source.Retries == 0 {
		config.Source.Retries = 2
	}

	if config.Store.Dir == "" {
		config.Store.Dir = "protocols"
	}

	if config.Search.URL == "" {
		config.Search.URL = "https://localhost:9200"
	}
	if config.Search.Index == "" {
		config.Search.Index = "landtag_protocols"
	}
	if config.Search.BatchSize == 0 {
		config.Search.BatchSize = 500
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("PLENUM_BASE_URL"); baseURL != "" {
		config.Source.BaseURL = baseURL
	}
	if dir := os.Getenv("PLENUM_STORE_DIR"); dir != "" {
		config.Store.Dir = dir
	}
	if searchURL := os.Getenv("SEARCH_URL"); searchURL != "" {
		config.Search.URL = searchURL
	}
	if auth := os.Getenv("SEARCH_AUTH"); auth != "" {
		user, pass, found := strings.Cut(auth, ":")
		if found {
			config.Search.Username = user
			config.Search.Password = pass
		}
	}
}

// SupportedPeriod reports whether the given legislative period is in the
// configured set.
func (c *Config) SupportedPeriod(period int) bool {
	for _, p := range c.Source.Periods {
		if p == period {
			return true
		}
	}
	return false
}
