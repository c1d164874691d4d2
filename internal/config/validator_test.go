package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndSetDefaultsFillsZeroFields(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, 5678, cfg.Debug.Port)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.Equal(t, []string{"**/Kconfig*", "**/*.conf"}, cfg.Watch.Patterns)
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	cfg := defaultConfig()
	cfg.Debug.Port = 70000
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateRejectsNegativeDebounce(t *testing.T) {
	cfg := defaultConfig()
	cfg.Watch.DebounceMs = -1
	assert.Error(t, ValidateConfig(cfg))
}

func TestLoadAppliesValidationToDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 5678, cfg.Debug.Port)
}
