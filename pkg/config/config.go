package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		BaseURL        string        `yaml:"base_url"`
		SubmitTimeout  time.Duration `yaml:"submit_timeout"`
		StatusTimeout  time.Duration `yaml:"status_timeout"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		DirectTimeout  time.Duration `yaml:"direct_timeout"`
		RateLimit      float64       `yaml:"rate_limit"`
	} `yaml:"server"`

	Polling struct {
		Interval time.Duration `yaml:"interval"`
		MaxWait  time.Duration `yaml:"max_wait"`
	} `yaml:"polling"`

	UI struct {
		MaxSources int  `yaml:"max_sources"`
		Spinner    bool `yaml:"spinner"`
		Color      bool `yaml:"color"`
	} `yaml:"ui"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/ragask/config.yaml"),
			"/etc/ragask/config.yaml",
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
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := newConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := mergeWithEnv(config); err != nil {
		return nil, err
	}
	applyDefaults(config)

	return config, nil
}

func getDefaultConfig() (*Config, error) {
	config := newConfig()
	applyDefaults(config)
	if err := mergeWithEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// newConfig returns a Config with the boolean UI switches on, so a file
// that omits them keeps the interactive defaults.
func newConfig() *Config {
	config := &Config{}
	config.UI.Spinner = true
	config.UI.Color = true
	config.UI.MaxSources = -1
	return config
}

func applyDefaults(config *Config) {
	if config.Server.BaseURL == "" {
		config.Server.BaseURL = "http://localhost:5000"
	}
	if config.Server.SubmitTimeout == 0 {
		config.Server.SubmitTimeout = 30 * time.Second
	}
	if config.Server.StatusTimeout == 0 {
		config.Server.StatusTimeout = 10 * time.Second
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 10 * time.Second
	}
	if config.Server.DirectTimeout == 0 {
		config.Server.DirectTimeout = 120 * time.Second
	}
	if config.Server.RateLimit == 0 {
		config.Server.RateLimit = 5
	}

	if config.Polling.Interval == 0 {
		config.Polling.Interval = 3 * time.Second
	}
	if config.Polling.MaxWait == 0 {
		config.Polling.MaxWait = 300 * time.Second
	}

	if config.UI.MaxSources == -1 {
		config.UI.MaxSources = 3
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

func mergeWithEnv(config *Config) error {
	if baseURL := os.Getenv("RAG_BASE_URL"); baseURL != "" {
		config.Server.BaseURL = baseURL
	}
	if maxWait := os.Getenv("RAG_MAX_WAIT"); maxWait != "" {
		d, err := time.ParseDuration(maxWait)
		if err != nil {
			return fmt.Errorf("invalid RAG_MAX_WAIT %q: %w", maxWait, err)
		}
		config.Polling.MaxWait = d
	}
	if level := os.Getenv("RAG_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	return nil
}
