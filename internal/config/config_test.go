package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "SIGMA: AI Hacker Protocol", viper.GetString("window.title"))
	assert.Equal(t, 800, viper.GetInt("window.width"))
	assert.Equal(t, 600, viper.GetInt("window.height"))
	assert.Equal(t, "./assets", viper.GetString("assets.dir"))
	assert.InDelta(t, 0.5, viper.GetFloat64("audio.musicVolume"), 1e-9)
	assert.Equal(t, 400, viper.GetInt("audio.fadeMs"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "sigma", viper.GetString("db.database"))
	assert.Equal(t, "./sigma.db", viper.GetString("db.localPath"))
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"window": { "width": 1280, "height": 720 },
		"audio": { "musicVolume": 0.2 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sigma.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 1280, viper.GetInt("window.width"))
	assert.Equal(t, 720, viper.GetInt("window.height"))
	assert.InDelta(t, 0.2, viper.GetFloat64("audio.musicVolume"), 1e-9)
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	// Unset keys still fall back to defaults.
	assert.InDelta(t, 0.5, viper.GetFloat64("audio.sfxVolume"), 1e-9)
	assert.Equal(t, "sigma", viper.GetString("db.database"))
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sigma.cfg.json"), []byte(`{not json`), 0644))

	err := Load(dir)
	assert.Error(t, err)
}
