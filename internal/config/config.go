// Package config loads chatsort settings from ~/.chatsort/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/chatsort/internal/wordfreq"
)

const (
	EnvDB     = "CHATSORT_DB"
	EnvConfig = "CHATSORT_CONFIG"
)

// BackupsConfig controls store snapshots.
type BackupsConfig struct {
	Keep int `yaml:"keep"`
}

// WordsConfig controls keyword mining.
type WordsConfig struct {
	Threshold int `yaml:"threshold"`
	Top       int `yaml:"top"`
}

// ClassifyConfig holds the batch classifier's default paths.
type ClassifyConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Config holds chatsort configuration.
type Config struct {
	DB       string         `yaml:"db,omitempty"`
	Backups  BackupsConfig  `yaml:"backups"`
	Words    WordsConfig    `yaml:"words"`
	Classify ClassifyConfig `yaml:"classify"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DB:      filepath.Join(Home(), "chatsort.db"),
		Backups: BackupsConfig{Keep: 10},
		Words: WordsConfig{
			Threshold: wordfreq.DefaultThreshold,
			Top:       wordfreq.DefaultTop,
		},
		Classify: ClassifyConfig{
			Input:  "chats.json",
			Output: "chats_updated.json",
		},
	}
}

// Home returns the chatsort home directory.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".chatsort")
	}
	return filepath.Join(home, ".chatsort")
}

// Path resolves the config file path: flag, then $CHATSORT_CONFIG, then the
// default under Home.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return filepath.Join(Home(), "config.yaml")
}

// Load reads the config file at path over the defaults. A missing file is not
// an error. Zero or negative numbers in the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if file.DB != "" {
		cfg.DB = file.DB
	}
	if file.Backups.Keep > 0 {
		cfg.Backups.Keep = file.Backups.Keep
	}
	if file.Words.Threshold > 0 {
		cfg.Words.Threshold = file.Words.Threshold
	}
	if file.Words.Top > 0 {
		cfg.Words.Top = file.Words.Top
	}
	if file.Classify.Input != "" {
		cfg.Classify.Input = file.Classify.Input
	}
	if file.Classify.Output != "" {
		cfg.Classify.Output = file.Classify.Output
	}
	return cfg, nil
}

// DBPath resolves the database path: flag, then $CHATSORT_DB, then the
// config value.
func (c Config) DBPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvDB); env != "" {
		return env
	}
	return c.DB
}

// Write saves cfg as YAML at path, creating its directory.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
