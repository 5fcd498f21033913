package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/cbegin/midiviz-go/internal/audio"
)

const defaultConfigPath = "~/.config/midiviz/config.json"

// WindowConfig is the initial size of the play window.
type WindowConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Config is the user's saved defaults. Command-line flags win over it.
type Config struct {
	SoundFont  string         `json:"soundFont,omitempty"`
	SampleRate int            `json:"sampleRate"`
	Mode       string         `json:"mode"`
	Padding    int            `json:"padding"`
	Volume     float64        `json:"volume"`
	Window     WindowConfig   `json:"window"`
	Render     map[string]any `json:"render,omitempty"` // merged under the payload's userConfig
}

func DefaultConfig() *Config {
	return &Config{
		SampleRate: audio.DefaultSampleRate,
		Mode:       "horizontal",
		Padding:    2,
		Volume:     1,
		Window:     WindowConfig{Width: 1100, Height: 720},
	}
}

// ConfigPath expands path, or the default location when path is empty.
func ConfigPath(path string) (string, error) {
	if path == "" {
		path = defaultConfigPath
	}
	return homedir.Expand(path)
}

// LoadConfig reads the config at path over the defaults. A missing file is
// not an error.
func LoadConfig(path string) (*Config, error) {
	path, err := ConfigPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.SoundFont != "" {
		if cfg.SoundFont, err = homedir.Expand(cfg.SoundFont); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	path, err := ConfigPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
