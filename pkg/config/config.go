package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TESTIMPACT_BACKEND_API_KEY.
const EnvPrefix = "TESTIMPACT"

type Config struct {
	Backend  BackendConfig  `mapstructure:"backend" json:"backend"`
	Analysis AnalysisConfig `mapstructure:"analysis" json:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
	Watch    WatchConfig    `mapstructure:"watch" json:"watch"`
}

type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url" json:"base_url" validate:"required,url"`
	APIKey         string `mapstructure:"api_key" json:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds" validate:"gte=1,lte=600"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type AnalysisConfig struct {
	Extensions   []string `mapstructure:"extensions" json:"extensions" validate:"dive,startswith=."`
	TestPatterns []string `mapstructure:"test_patterns" json:"test_patterns" validate:"dive,required"`
	TestDirs     []string `mapstructure:"test_dirs" json:"test_dirs" validate:"dive,required"`
	Extractor    string   `mapstructure:"extractor" json:"extractor" validate:"oneof=heuristic treesitter"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=text json"`
}

type WatchConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" json:"poll_interval_seconds" validate:"gte=1"`
	DebounceMillis      int `mapstructure:"debounce_millis" json:"debounce_millis" validate:"gte=0"`
}

func (w WatchConfig) PollInterval() time.Duration {
	return time.Duration(w.PollIntervalSeconds) * time.Second
}

func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}

var defaults = map[string]any{
	"backend.base_url":            "http://localhost:8000",
	"backend.api_key":             "",
	"backend.timeout_seconds":     30,
	"analysis.extensions":         []string{".py"},
	"analysis.test_patterns":      []string{"test_*.py", "*_test.py"},
	"analysis.test_dirs":          []string{"tests"},
	"analysis.extractor":          "heuristic",
	"logging.level":               "info",
	"logging.format":              "text",
	"watch.poll_interval_seconds": 5,
	"watch.debounce_millis":       500,
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads filename (JSON, YAML or TOML by extension), applies
// defaults and environment overrides, and validates the result.
func LoadConfig(filename string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filename)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to defaults and
// environment overrides when filename does not exist.
func LoadConfigOrDefault(filename string) (*Config, error) {
	cfg, err := LoadConfig(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return decode(newViper())
	}
	return cfg, err
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
