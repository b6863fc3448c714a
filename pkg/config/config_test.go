package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		configJSON  string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "full config",
			configJSON: `{
				"backend": {"base_url": "https://impact.example.com", "api_key": "k", "timeout_seconds": 10},
				"analysis": {"extensions": [".py", ".pyw"], "test_patterns": ["test_*.py"], "test_dirs": ["checks"], "extractor": "treesitter"},
				"logging": {"level": "debug", "format": "json"},
				"watch": {"poll_interval_seconds": 2, "debounce_millis": 100}
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://impact.example.com", cfg.Backend.BaseURL)
				assert.Equal(t, "k", cfg.Backend.APIKey)
				assert.Equal(t, 10*time.Second, cfg.Backend.Timeout())
				assert.Equal(t, []string{".py", ".pyw"}, cfg.Analysis.Extensions)
				assert.Equal(t, []string{"test_*.py"}, cfg.Analysis.TestPatterns)
				assert.Equal(t, []string{"checks"}, cfg.Analysis.TestDirs)
				assert.Equal(t, "treesitter", cfg.Analysis.Extractor)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 2*time.Second, cfg.Watch.PollInterval())
				assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce())
			},
		},
		{
			name:       "empty config uses defaults",
			configJSON: `{}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
				assert.Equal(t, 30*time.Second, cfg.Backend.Timeout())
				assert.Equal(t, []string{".py"}, cfg.Analysis.Extensions)
				assert.Equal(t, []string{"test_*.py", "*_test.py"}, cfg.Analysis.TestPatterns)
				assert.Equal(t, "heuristic", cfg.Analysis.Extractor)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, 5*time.Second, cfg.Watch.PollInterval())
			},
		},
		{
			name:        "invalid json",
			configJSON:  `{"invalid": json}`,
			expectError: true,
		},
		{
			name:        "unknown extractor",
			configJSON:  `{"analysis": {"extractor": "lsp"}}`,
			expectError: true,
		},
		{
			name:        "invalid base url",
			configJSON:  `{"backend": {"base_url": "not a url"}}`,
			expectError: true,
		},
		{
			name:        "timeout out of range",
			configJSON:  `{"backend": {"timeout_seconds": 0}}`,
			expectError: true,
		},
		{
			name:        "extension without dot",
			configJSON:  `{"analysis": {"extensions": ["py"]}}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.json", tt.configJSON)

			cfg, err := LoadConfig(path)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "backend:\n  base_url: http://impact:9000\nlogging:\n  format: json\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://impact:9000", cfg.Backend.BaseURL)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TESTIMPACT_BACKEND_API_KEY", "from-env")
	t.Setenv("TESTIMPACT_BACKEND_TIMEOUT_SECONDS", "45")
	path := writeConfig(t, "config.json", `{"backend": {"api_key": "from-file"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Backend.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Backend.Timeout())
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)

	path := writeConfig(t, "config.json", `{"invalid": json}`)
	_, err = LoadConfigOrDefault(path)
	assert.Error(t, err, "parse errors are not hidden by the fallback")
}
