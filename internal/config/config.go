package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"timecapsule/internal/view"
)

const (
	DefaultDatesFile      = "important_dates.json"
	DefaultCategoriesFile = "categories.json"
	DefaultExportFile     = "important_dates_export.csv"
	DefaultImportFile     = "important_dates_import.csv"
	DefaultBackupFile     = "important_dates_backup.yaml"
)

// Config holds the unified application configuration. File paths are
// absolute after Load.
type Config struct {
	DataDir        string `json:"data_dir"`
	DatesFile      string `json:"dates_file"`
	CategoriesFile string `json:"categories_file"`
	ExportFile     string `json:"export_file"`
	ImportFile     string `json:"import_file"`
	BackupFile     string `json:"backup_file"`
	SortMode       string `json:"sort_mode"`
	DefaultSort    string `json:"default_sort"`
}

// Settings represents the config file structure
type Settings struct {
	DataDir        string `json:"data_dir,omitempty"`
	DatesFile      string `json:"dates_file,omitempty"`
	CategoriesFile string `json:"categories_file,omitempty"`
	ExportFile     string `json:"export_file,omitempty"`
	ImportFile     string `json:"import_file,omitempty"`
	BackupFile     string `json:"backup_file,omitempty"`
	SortMode       string `json:"sort_mode,omitempty"`
	DefaultSort    string `json:"default_sort,omitempty"`
}

// envSettings are read from TIMECAPSULE_* variables.
type envSettings struct {
	DataDir        string `env:"TIMECAPSULE_DATA_DIR"`
	DatesFile      string `env:"TIMECAPSULE_DATES_FILE"`
	CategoriesFile string `env:"TIMECAPSULE_CATEGORIES_FILE"`
	SortMode       string `env:"TIMECAPSULE_SORT_MODE"`
	DefaultSort    string `env:"TIMECAPSULE_DEFAULT_SORT"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	DataDir        string
	DatesFile      string
	CategoriesFile string
}

var globalConfig *Config

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	cfg := &Config{
		DatesFile:      DefaultDatesFile,
		CategoriesFile: DefaultCategoriesFile,
		ExportFile:     DefaultExportFile,
		ImportFile:     DefaultImportFile,
		BackupFile:     DefaultBackupFile,
		SortMode:       string(view.SortText),
		DefaultSort:    "",
	}

	// Try loading config file first for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			overlay(&cfg.DataDir, fileConfig.DataDir)
			overlay(&cfg.DatesFile, fileConfig.DatesFile)
			overlay(&cfg.CategoriesFile, fileConfig.CategoriesFile)
			overlay(&cfg.ExportFile, fileConfig.ExportFile)
			overlay(&cfg.ImportFile, fileConfig.ImportFile)
			overlay(&cfg.BackupFile, fileConfig.BackupFile)
			overlay(&cfg.SortMode, fileConfig.SortMode)
			overlay(&cfg.DefaultSort, fileConfig.DefaultSort)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	}

	// Priority 2: Environment variables override config file
	var envCfg envSettings
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	overlay(&cfg.DataDir, envCfg.DataDir)
	overlay(&cfg.DatesFile, envCfg.DatesFile)
	overlay(&cfg.CategoriesFile, envCfg.CategoriesFile)
	overlay(&cfg.SortMode, envCfg.SortMode)
	overlay(&cfg.DefaultSort, envCfg.DefaultSort)

	// Priority 1: CLI flags override everything
	overlay(&cfg.DataDir, flags.DataDir)
	overlay(&cfg.DatesFile, flags.DatesFile)
	overlay(&cfg.CategoriesFile, flags.CategoriesFile)

	// Default directory if nothing configured
	if cfg.DataDir == "" {
		defaultDir, err := GetDefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = defaultDir
	}
	cfg.DataDir = expandPath(cfg.DataDir)

	cfg.DatesFile = cfg.resolve(cfg.DatesFile)
	cfg.CategoriesFile = cfg.resolve(cfg.CategoriesFile)
	cfg.ExportFile = cfg.resolve(cfg.ExportFile)
	cfg.ImportFile = cfg.resolve(cfg.ImportFile)
	cfg.BackupFile = cfg.resolve(cfg.BackupFile)

	if _, err := view.ParseSortMode(cfg.SortMode); err != nil {
		return nil, err
	}
	if cfg.DefaultSort != "" {
		if _, err := view.ParseColumn(cfg.DefaultSort); err != nil {
			return nil, fmt.Errorf("default_sort: %w", err)
		}
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the loaded config
func Get() *Config {
	return globalConfig
}

// GetDefaultDir returns the default data directory path
func GetDefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "timecapsule"), nil
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "timecapsule", "config.json"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureDataDir creates the data directory if missing
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// SortModeValue returns the parsed sort mode.
func (c *Config) SortModeValue() view.SortMode {
	mode, _ := view.ParseSortMode(c.SortMode)
	return mode
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	defaultDir, err := GetDefaultDir()
	if err != nil {
		return err
	}

	settings := Settings{
		DataDir:        defaultDir,
		DatesFile:      DefaultDatesFile,
		CategoriesFile: DefaultCategoriesFile,
		SortMode:       string(view.SortText),
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// resolve expands ~ and anchors relative paths at the data directory.
func (c *Config) resolve(path string) string {
	path = expandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

func overlay(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
