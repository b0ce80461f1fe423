package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	General GeneralConfig `toml:"general"`
	Batch   BatchConfig   `toml:"batch"`
	Web     WebConfig     `toml:"web"`
	TMDB    TMDBConfig    `toml:"tmdb"`
}

// GeneralConfig holds general settings
type GeneralConfig struct {
	HistoryPath string `toml:"history_path"`
	FieldsPath  string `toml:"fields_path"`
}

// BatchConfig holds batch engine settings
type BatchConfig struct {
	Workers        int    `toml:"workers"`
	MaxFiles       int    `toml:"max_files"`
	MaxScanDepth   int    `toml:"max_scan_depth"`
	TaskTTLMinutes int    `toml:"task_ttl_minutes"`
	SweepCron      string `toml:"sweep_cron"`
}

// WebConfig holds web API settings
type WebConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// TMDBConfig holds TMDB lookup settings
type TMDBConfig struct {
	APIKey string `toml:"api_key"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			HistoryPath: filepath.Join(home, ".nfoedit", "history.db"),
			FieldsPath:  filepath.Join(home, ".config", "nfoedit", "fields.yaml"),
		},
		Batch: BatchConfig{
			Workers:        10,
			MaxFiles:       2000,
			MaxScanDepth:   50,
			TaskTTLMinutes: 30,
			SweepCron:      "@every 1m",
		},
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 8480,
		},
		TMDB: TMDBConfig{
			APIKey: os.Getenv("TMDB_API_KEY"),
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.General.HistoryPath = ExpandPath(cfg.General.HistoryPath)
	cfg.General.FieldsPath = ExpandPath(cfg.General.FieldsPath)

	return cfg, nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nfoedit", "config.toml")
}
