// Package daemon holds the service configuration.
// Config is a TOML file under the scorewise home directory; every field has
// a production default so a missing file is not an error.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Model    ModelConfig    `toml:"model"`
	Scoring  ScoringConfig  `toml:"scoring"`
}

// APIConfig controls the HTTP server.
type APIConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	EnableMetrics bool   `toml:"enable_metrics"`
}

// DatabaseConfig locates the sqlite data directory.
type DatabaseConfig struct {
	Dir string `toml:"dir"`
}

// ModelConfig locates the fitted artifacts exported by the training
// pipeline.
type ModelConfig struct {
	ModelPath  string `toml:"model_path"`
	ScalerPath string `toml:"scaler_path"`
}

// ScoringConfig bounds the published score range. These pair with the
// trained model and change only alongside new artifacts.
type ScoringConfig struct {
	MinScore int `toml:"min_score"`
	MaxScore int `toml:"max_score"`
}

// DefaultConfig returns production defaults rooted at the scorewise home.
func DefaultConfig() Config {
	home := Home()
	return Config{
		API: APIConfig{
			Host:          "127.0.0.1",
			Port:          8090,
			EnableMetrics: false,
		},
		Database: DatabaseConfig{
			Dir: filepath.Join(home, "data"),
		},
		Model: ModelConfig{
			ModelPath:  filepath.Join(home, "artifacts", "credit_model.json"),
			ScalerPath: filepath.Join(home, "artifacts", "scaler.json"),
		},
		Scoring: ScoringConfig{
			MinScore: 550,
			MaxScore: 920,
		},
	}
}

// LoadConfig reads config.toml from path, overlaying the defaults.
// A missing file returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Scoring.MinScore >= cfg.Scoring.MaxScore {
		return Config{}, fmt.Errorf("config %s: min_score %d must be below max_score %d",
			path, cfg.Scoring.MinScore, cfg.Scoring.MaxScore)
	}
	return cfg, nil
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Home returns the scorewise home directory, honoring SCOREWISE_HOME.
func Home() string {
	if env := os.Getenv("SCOREWISE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".scorewise")
}

// Addr formats the HTTP listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
