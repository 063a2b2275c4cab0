package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
source:
  base_url: "https://archive.example.com/documents/"
  periods: [16, 17]
  max_index: 150
  max_misses: 5
  rate_limit: 1.5
  timeout_seconds: 10
  retries: 1

store:
  dir: "testdata/protocols"

search:
  url: "https://search.example.com:9200"
  index: "protocols"
  username: "admin"
  password: "admin"
  insecure_skip_verify: true
  batch_size: 100

log:
  level: "debug"
  format: "json"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://archive.example.com/documents/", config.Source.BaseURL)
	assert.Equal(t, []int{16, 17}, config.Source.Periods)
	assert.Equal(t, 150, config.Source.MaxIndex)
	assert.Equal(t, 5, config.Source.MaxMisses)
	assert.Equal(t, 1.5, config.Source.RateLimit)
	assert.Equal(t, "testdata/protocols", config.Store.Dir)
	assert.Equal(t, "https://search.example.com:9200", config.Search.URL)
	assert.Equal(t, "protocols", config.Search.Index)
	assert.True(t, config.Search.InsecureSkipVerify)
	assert.Equal(t, 100, config.Search.BatchSize)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
}

func TestConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("store:\n  dir: protocols\n"), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, []int{14, 15, 16, 17}, config.Source.Periods)
	assert.Equal(t, 300, config.Source.MaxIndex)
	assert.Equal(t, 20, config.Source.MaxMisses)
	assert.Equal(t, 2.0, config.Source.RateLimit)
	assert.Equal(t, 30, config.Source.TimeoutSeconds)
	assert.Equal(t, 2, config.Source.Retries)
	assert.Equal(t, "landtag_protocols", config.Search.Index)
	assert.Equal(t, 500, config.Search.BatchSize)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)

	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	valid, err := getDefaultConfig()
	require.NoError(t, err)
	assert.Empty(t, valid.Validate())

	invalid := &Config{}
	invalid.Source.Periods = []int{0}
	invalid.Source.MaxIndex = -1
	invalid.Source.RateLimit = 0
	invalid.Log.Level = "loud"
	invalid.Log.Format = "xml"

	errors := invalid.Validate()
	require.NotEmpty(t, errors)

	var fields []string
	for _, e := range errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "source.base_url")
	assert.Contains(t, fields, "source.periods")
	assert.Contains(t, fields, "source.max_index")
	assert.Contains(t, fields, "source.rate_limit")
	assert.Contains(t, fields, "store.dir")
	assert.Contains(t, fields, "search.index")
	assert.Contains(t, fields, "search.batch_size")
	assert.Contains(t, fields, "log.level")
	assert.Contains(t, fields, "log.format")
}

func TestSupportedPeriod(t *testing.T) {
	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.True(t, config.SupportedPeriod(14))
	assert.True(t, config.SupportedPeriod(17))
	assert.False(t, config.SupportedPeriod(13))
	assert.False(t, config.SupportedPeriod(18))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PLENUM_BASE_URL", "https://env-archive.example.com/")
	t.Setenv("PLENUM_STORE_DIR", "/var/lib/plenum")
	t.Setenv("SEARCH_URL", "https://env-search:9200")
	t.Setenv("SEARCH_AUTH", "admin:secret")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "https://env-archive.example.com/", config.Source.BaseURL)
	assert.Equal(t, "/var/lib/plenum", config.Store.Dir)
	assert.Equal(t, "https://env-search:9200", config.Search.URL)
	assert.Equal(t, "admin", config.Search.Username)
	assert.Equal(t, "secret", config.Search.Password)
}
