// Package config loads game configuration from an optional JSON file,
// falling back to built-in defaults for every key.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const configName = "sigma.cfg.json"

// Load reads configuration from sigma.cfg.json in configDir and sets
// default values. A missing config file is not an error; the defaults
// cover a fully operational local game.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("window.title", "SIGMA: AI Hacker Protocol")
	viper.SetDefault("window.width", 800)
	viper.SetDefault("window.height", 600)

	viper.SetDefault("assets.dir", "./assets")

	viper.SetDefault("audio.musicVolume", 0.5)
	viper.SetDefault("audio.sfxVolume", 0.5)
	viper.SetDefault("audio.fadeMs", 400)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "sigma")
	viper.SetDefault("db.localPath", "./sigma.db")

	viper.SetConfigName(configName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
