package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// settings come from ~/.config/toolgate/config.toml and hold defaults the
// chat command would otherwise need flags for on every invocation.
type settings struct {
	Model struct {
		Provider string `toml:"provider"`
		Name     string `toml:"name"`
		APIKey   string `toml:"apiKey"`
		BaseURL  string `toml:"baseURL"`
	} `toml:"model"`
}

func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "toolgate", "config.toml"), nil
}

// loadSettings reads the settings file if one exists. A missing file is not
// an error; a malformed one is logged and ignored.
func loadSettings(logger *zap.Logger) settings {
	var cfg settings

	path, err := settingsPath()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("settings file unreadable", zap.String("path", path), zap.Error(err))
		}
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		logger.Warn("settings file malformed", zap.String("path", path), zap.Error(err))
		return settings{}
	}
	return cfg
}
