package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWikiAPIURL  = "https://en.wikipedia.org/w/api.php"
	DefaultRESTAPIURL  = "https://wikimedia.org/api/rest_v1"
	DefaultServerAddr  = ":5000"
	DefaultCORSOrigin  = "http://localhost:5174"
	DefaultLogFileName = "wikify.log"

	// MaxSearchLimit is the srlimit cap for anonymous search requests.
	MaxSearchLimit = 500
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error, disabled
	Format string `yaml:"format"` // json or console
	File   string `yaml:"file"`   // TUI log file; defaults to <config dir>/wikify.log
}

// ServerConfig holds settings for `wikify serve`
type ServerConfig struct {
	Addr               string   `yaml:"addr"`
	CORSOrigins        []string `yaml:"cors_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
}

// Config holds application configuration
type Config struct {
	// BackendURL selects the backend strategy when set; otherwise the TUI
	// searches the wiki directly.
	BackendURL        string        `yaml:"backend_url"`
	WikiAPIURL        string        `yaml:"wiki_api_url"`
	RESTAPIURL        string        `yaml:"rest_api_url"`
	SearchLimit       int           `yaml:"search_limit"`
	CategoryLimit     int           `yaml:"category_limit"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RateLimit         float64       `yaml:"rate_limit"` // outbound requests per second
	EnrichConcurrency int           `yaml:"enrich_concurrency"`
	DonePolicy        string        `yaml:"done_policy"` // retain or purge
	Theme             string        `yaml:"theme"`
	Log               LogConfig     `yaml:"log"`
	Server            ServerConfig  `yaml:"server"`
}

// Default returns the configuration used when no file or env var says otherwise.
func Default() *Config {
	return &Config{
		WikiAPIURL:        DefaultWikiAPIURL,
		RESTAPIURL:        DefaultRESTAPIURL,
		SearchLimit:       10,
		CategoryLimit:     50,
		RequestTimeout:    10 * time.Second,
		RateLimit:         10,
		EnrichConcurrency: 8,
		DonePolicy:        "retain",
		Theme:             "default",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Addr:               DefaultServerAddr,
			CORSOrigins:        []string{DefaultCORSOrigin},
			RateLimitPerMinute: 60,
		},
	}
}

// Load loads configuration from config file and environment variables
// Environment variables take precedence over config file values
func Load() (*Config, error) {
	cfg := Default()

	// Load from config file first
	if err := cfg.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Environment variables override config file
	cfg.loadFromEnv()
	cfg.clampLimits()

	return cfg, nil
}

// clampLimits puts numeric settings back into the range the APIs accept.
func (c *Config) clampLimits() {
	switch {
	case c.SearchLimit <= 0:
		c.SearchLimit = Default().SearchLimit
	case c.SearchLimit > MaxSearchLimit:
		c.SearchLimit = MaxSearchLimit
	}
	if c.CategoryLimit <= 0 {
		c.CategoryLimit = Default().CategoryLimit
	}
	if c.EnrichConcurrency <= 0 {
		c.EnrichConcurrency = Default().EnrichConcurrency
	}
}

func (c *Config) loadFromFile() error {
	configPath := getConfigPath()
	if configPath == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("WIKIFY_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("WIKIFY_WIKI_API_URL"); v != "" {
		c.WikiAPIURL = v
	}
	if v := os.Getenv("WIKIFY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("WIKIFY_DONE_POLICY"); v != "" {
		c.DonePolicy = v
	}
	if v := os.Getenv("WIKIFY_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SearchLimit = n
		}
	}
}

// LogFilePath returns the file the TUI logs to.
func (c *Config) LogFilePath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultLogFileName), nil
}

// getConfigPath returns the path to the config file
// Priority: $WIKIFY_CONFIG > ~/.config/wikify/config.yaml
func getConfigPath() string {
	if configPath := os.Getenv("WIKIFY_CONFIG"); configPath != "" {
		return configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "wikify", "config.yaml")
}

func GetConfigDir() (string, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return "", fmt.Errorf("cannot determine config path")
	}
	return filepath.Dir(configPath), nil
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

// SaveExampleConfig creates an example config file
func SaveExampleConfig() error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath := getConfigPath()

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil // Already exists, don't overwrite
	}

	example := `# Wikify Configuration

# Optional: recommendation service. When empty, wikify searches Wikipedia
# directly and resolves categories itself.
backend_url: ""

# Optional: MediaWiki action API and Wikimedia REST API endpoints
wiki_api_url: "https://en.wikipedia.org/w/api.php"
rest_api_url: "https://wikimedia.org/api/rest_v1"

# Optional: articles per interest category (default: 10)
search_limit: 10

# Optional: categories read per article during enrichment (default: 50)
category_limit: 50

# Optional: per-call timeout, outbound requests per second, parallel lookups
request_timeout: 10s
rate_limit: 10
enrich_concurrency: 8

# Optional: what happens to done marks on refresh: retain or purge (default: retain)
done_policy: "retain"

# Optional: Color theme (default, catppuccin, dracula, nord, gruvbox)
theme: "default"

log:
  level: "info"
  format: "json"
  # file: ""            # defaults to wikify.log next to this file

server:
  addr: ":5000"
  cors_origins: ["http://localhost:5174"]
  rate_limit_per_minute: 60
`

	return os.WriteFile(configPath, []byte(example), 0600)
}

// Save persists the fields the TUI manages, keeping everything else in the
// existing file.
func (c *Config) Save() error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath := getConfigPath()

	existing := Default()
	if data, err := os.ReadFile(configPath); err == nil {
		_ = yaml.Unmarshal(data, existing)
	}

	existing.Theme = c.Theme

	data, err := yaml.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Wikify Configuration\n\n")
	return os.WriteFile(configPath, append(header, data...), 0600)
}
