/*
Package config manages the TOML configuration for queryserve services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/avikoz/queryserve/internal/utils"
	"github.com/avikoz/queryserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Suggest SuggestConfig `toml:"suggest"`
	Corpus  CorpusConfig  `toml:"corpus"`
	CLI     CliConfig     `toml:"cli"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	DefaultK    int `toml:"default_k"`
	MaxK        int `toml:"max_k"`
	MaxQueryLen int `toml:"max_query_len"`
}

// SuggestConfig holds the suggestion pipeline policy. The damping factors
// and tail window are the tunables the core deliberately leaves to
// configuration; defaults mirror suggest.DefaultPolicy.
type SuggestConfig struct {
	StrategyLimit  int     `toml:"strategy_limit"`
	TrimDamping    float64 `toml:"trim_damping"`
	PerWordDamping float64 `toml:"per_word_damping"`
	TailWindow     int     `toml:"tail_window"`
}

// CorpusConfig holds query-log loading options.
type CorpusConfig struct {
	// MaxQueries caps how many distinct queries the loader indexes,
	// keeping the most popular ones. 0 loads everything.
	MaxQueries int `toml:"max_queries"`
}

// CliConfig holds interactive CLI options.
type CliConfig struct {
	DefaultK    int  `toml:"default_k"`
	ShowWeights bool `toml:"show_weights"`
}

// DefaultConfig returns a Config with built-in defaults.
func DefaultConfig() *Config {
	pol := suggest.DefaultPolicy()
	return &Config{
		Server: ServerConfig{
			DefaultK:    10,
			MaxK:        64,
			MaxQueryLen: 120,
		},
		Suggest: SuggestConfig{
			StrategyLimit:  pol.StrategyLimit,
			TrimDamping:    pol.TrimDamping,
			PerWordDamping: pol.PerWordDamping,
			TailWindow:     pol.TailWindow,
		},
		Corpus: CorpusConfig{
			MaxQueries: 0,
		},
		CLI: CliConfig{
			DefaultK:    10,
			ShowWeights: true,
		},
	}
}

// Policy converts the suggest section into the pipeline policy value.
func (c *Config) Policy() suggest.Policy {
	return suggest.Policy{
		StrategyLimit:  c.Suggest.StrategyLimit,
		TrimDamping:    c.Suggest.TrimDamping,
		PerWordDamping: c.Suggest.PerWordDamping,
		TailWindow:     c.Suggest.TailWindow,
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/queryserve
// 2. ~/Library/Application Support/queryserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "queryserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "queryserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	return utils.GetExecutableDir()
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/queryserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Fields missing from the file keep
// their built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
