package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0600))
}

func TestLoadFrom_DefaultsWithoutFiles(t *testing.T) {
	cfg, err := LoadFrom("recipients_cli", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "CM", cfg.DefaultRegion)
	assert.False(t, cfg.StrictValidation)
	assert.Equal(t, int64(25), cfg.PricePerSegment)
	assert.Equal(t, "XAF", cfg.Currency)
	assert.Equal(t, int64(10<<20), cfg.MaxImportBytes)
}

func TestLoadFrom_ServiceFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.defaults.yaml", "LOG_LEVEL: warn\nCURRENCY: EUR\nPRICE_PER_SEGMENT: 7\n")
	writeConfig(t, dir, "recipients_cli.yaml", "PRICE_PER_SEGMENT: 9\nSTRICT_VALIDATION: true\n")

	cfg, err := LoadFrom("recipients_cli", dir)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, int64(9), cfg.PricePerSegment)
	assert.True(t, cfg.StrictValidation)
}

func TestLoadFrom_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.defaults.yaml", "LOG_FORMAT: json\nDEFAULT_REGION: CM\n")
	t.Setenv("APP_LOG_FORMAT", "TEXT")
	t.Setenv("APP_DEFAULT_REGION", "fr")
	t.Setenv("APP_MAX_IMPORT_BYTES", "1024")

	cfg, err := LoadFrom("", dir)

	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "FR", cfg.DefaultRegion)
	assert.Equal(t, int64(1024), cfg.MaxImportBytes)
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"log format":     "LOG_FORMAT: xml\n",
		"negative price": "PRICE_PER_SEGMENT: -1\n",
		"negative limit": "MAX_IMPORT_BYTES: -5\n",
		"broken yaml":    "LOG_LEVEL: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.defaults.yaml", body)
			_, err := LoadFrom("", dir)
			assert.Error(t, err)
		})
	}
}

func TestLoad_RepoDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "XAF", cfg.Currency)
	assert.Equal(t, "./exports", cfg.ExportPath)
}
