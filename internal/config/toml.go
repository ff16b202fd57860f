// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Crack  CrackConfig  `toml:"crack"`
	Output OutputConfig `toml:"output"`
}

// CrackConfig maps analysis settings.
type CrackConfig struct {
	Lang       *string  `toml:"lang"`
	Tolerance  *float64 `toml:"tolerance"`
	ShowScores *bool    `toml:"show-scores"`
	Preview    *int     `toml:"preview"`
	Save       *bool    `toml:"save"`
}

// OutputConfig maps rendering settings.
type OutputConfig struct {
	PlotHeight *int  `toml:"plot-height"`
	Color      *bool `toml:"color"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
