package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{EnvDebug, EnvDirectAddress, EnvKeepGoing, EnvVerify, EnvNoColor, EnvLogDir} {
		t.Setenv(name, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim8086.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keepGoing": true, "offsets": true, "debug": true}`), 0o644))

	t.Setenv(EnvDebug, "false")
	t.Setenv(EnvDirectAddress, "1")
	t.Setenv(EnvLogDir, "/tmp/logs")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.KeepGoing)
	assert.True(t, cfg.Offsets)
	assert.True(t, cfg.DirectAddress)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "/tmp/logs", cfg.LogDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	cfg := Default()
	err = cfg.ApplyEnv(func(name string) string {
		if name == EnvVerify {
			return "sometimes"
		}
		return ""
	})
	assert.ErrorContains(t, err, EnvVerify)
}
