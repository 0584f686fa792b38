package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the configuration payload stored at $XDG_CONFIG_HOME/fetchr/config.json.
// It holds bearer tokens keyed by host and the default Content-Type.
type Config struct {
	Comment            string            `json:"// Note,omitempty"`
	DefaultContentType string            `json:"default_content_type,omitempty"`
	Tokens             map[string]string `json:"tokens"`
}

const (
	appName        = "fetchr"
	configFileName = "config.json"
)

// ConfigPath returns the config file path: $XDG_CONFIG_HOME/fetchr/config.json,
// or the same layout under os.UserConfigDir when XDG_CONFIG_HOME is unset.
func ConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = dir
	}
	return filepath.Join(base, appName, configFileName), nil
}

// LoadConfig loads the configuration, returning defaults if missing.
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Tokens: make(map[string]string)}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Tokens == nil {
		cfg.Tokens = make(map[string]string)
	}
	return cfg, nil
}

// SaveConfig persists the configuration to disk.
func SaveConfig(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	cfg.Comment = "This file stores bearer tokens. Do not share!"

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetToken returns the bearer token stored for host, or empty if not set.
func GetToken(host string) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Tokens[host], nil
}

// SetToken sets and persists the bearer token for host.
func SetToken(host, token string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.Tokens[host] = token
	return SaveConfig(cfg)
}

// DeleteToken removes the token for host. Removing a missing host is not an error.
func DeleteToken(host string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	delete(cfg.Tokens, host)
	return SaveConfig(cfg)
}

// GetDefaultContentType returns the stored default Content-Type, or empty.
func GetDefaultContentType() (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DefaultContentType, nil
}

// SetDefaultContentType sets and persists the default Content-Type.
// An empty value clears it.
func SetDefaultContentType(contentType string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.DefaultContentType = contentType
	return SaveConfig(cfg)
}

