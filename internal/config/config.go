package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Relaxation order values for ranking.relaxation_order.
const (
	RelaxBudgetFirst   = "budget_first"
	RelaxFeaturesFirst = "features_first"
)

// Config holds the cognicart API configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Logging       LoggingConfig       `yaml:"logging"`
	Understanding UnderstandingConfig `yaml:"understanding"`
	Ranking       RankingConfig       `yaml:"ranking"`
	Deals         DealsConfig         `yaml:"deals"`
	Cache         CacheConfig         `yaml:"cache"`
	Catalog       CatalogConfig       `yaml:"catalog"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// UnderstandingConfig holds text understanding provider settings.
type UnderstandingConfig struct {
	Provider   string `yaml:"provider"` // label for logs/metrics (default: openai)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"` // per-call budget; fallback path taken after
}

// RankingConfig holds scoring weights and result sizing.
type RankingConfig struct {
	Weights         WeightsConfig `yaml:"weights"`
	TopK            int           `yaml:"top_k"`
	MoreOptions     int           `yaml:"more_options"`
	RelaxationOrder string        `yaml:"relaxation_order"` // budget_first (default) | features_first
}

// WeightsConfig holds the linear scoring coefficients.
type WeightsConfig struct {
	FeatureOverlap  float64 `yaml:"feature_overlap"`
	Brand           float64 `yaml:"brand"`
	Rating          float64 `yaml:"rating"`
	TypeMatch       float64 `yaml:"type_match"`
	BudgetProximity float64 `yaml:"budget_proximity"`
}

// DealsConfig holds deal evaluation settings.
type DealsConfig struct {
	MinSavingsPct float64 `yaml:"min_savings_pct"` // below this, not reported as a deal
}

// CacheConfig holds the optional review-analysis cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLHours         int      `yaml:"ttl_hours"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds catalog load settings.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// streaming responses hold the connection open across model calls
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Understanding.Provider == "" {
		c.Understanding.Provider = "openai"
	}
	if c.Understanding.TimeoutSec <= 0 {
		c.Understanding.TimeoutSec = 8
	}
	if c.Ranking.TopK <= 0 {
		c.Ranking.TopK = 12
	}
	if c.Ranking.MoreOptions <= 0 {
		c.Ranking.MoreOptions = 8
	}
	if c.Ranking.RelaxationOrder == "" {
		c.Ranking.RelaxationOrder = RelaxBudgetFirst
	}
	w := &c.Ranking.Weights
	if w.FeatureOverlap == 0 && w.Brand == 0 && w.Rating == 0 && w.TypeMatch == 0 && w.BudgetProximity == 0 {
		w.FeatureOverlap = 0.35
		w.Brand = 0.20
		w.Rating = 0.20
		w.TypeMatch = 0.15
		w.BudgetProximity = 0.10
	}
	if c.Deals.MinSavingsPct <= 0 {
		c.Deals.MinSavingsPct = 5
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = filepath.Join("config", "catalog.json")
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Ranking.RelaxationOrder {
	case RelaxBudgetFirst, RelaxFeaturesFirst:
	default:
		return fmt.Errorf(
			"ranking.relaxation_order must be %q or %q, got %q",
			RelaxBudgetFirst, RelaxFeaturesFirst, c.Ranking.RelaxationOrder,
		)
	}
	w := c.Ranking.Weights
	for name, v := range map[string]float64{
		"feature_overlap":  w.FeatureOverlap,
		"brand":            w.Brand,
		"rating":           w.Rating,
		"type_match":       w.TypeMatch,
		"budget_proximity": w.BudgetProximity,
	} {
		if v < 0 {
			return fmt.Errorf("ranking.weights.%s must be non-negative, got %f", name, v)
		}
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache.enabled is true")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
