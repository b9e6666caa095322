package config

import (
	"fmt"
	"os"
	"strings"

	"media-indexer/internal/logging"

	"gopkg.in/yaml.v3"
)

// defaultConfigFile is consulted when CONFIG_FILE is unset.
const defaultConfigFile = "media-indexer.yaml"

// Config holds all application configuration.
type Config struct {
	// Root is the directory indexed at startup. Empty means start Idle
	// and wait for a root over the API.
	Root string `yaml:"root"`

	// Port is the HTTP listen port.
	Port string `yaml:"port"`

	// AllowLabels are glob patterns for application/* category labels
	// that survive classification, e.g. "application/json".
	AllowLabels []string `yaml:"allow_labels"`

	// LogStaticFiles controls request logging for static asset paths.
	LogStaticFiles bool `yaml:"log_static_files"`
}

func defaults() *Config {
	return &Config{
		Port: "8080",
	}
}

// Load builds the effective configuration and logs it.
func Load() (*Config, error) {
	cfg := defaults()

	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	if err := loadFile(cfg, path, explicit); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  ROOT:             %s", valueOrNone(cfg.Root))
	logging.Info("  PORT:             %s", cfg.Port)
	logging.Info("  ALLOW_LABELS:     %s", valueOrNone(strings.Join(cfg.AllowLabels, ",")))
	logging.Info("  LOG_STATIC_FILES: %v", cfg.LogStaticFiles)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	return cfg, nil
}

// loadFile merges a YAML config file into cfg. A missing file is only an
// error when it was requested explicitly.
func loadFile(cfg *Config, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	logging.Debug("Loaded config file %s", path)
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MEDIA_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ALLOW_LABELS"); v != "" {
		cfg.AllowLabels = nil
		for _, label := range strings.Split(v, ",") {
			if label = strings.TrimSpace(label); label != "" {
				cfg.AllowLabels = append(cfg.AllowLabels, label)
			}
		}
	}
	if v := os.Getenv("LOG_STATIC_FILES"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			cfg.LogStaticFiles = true
		default:
			cfg.LogStaticFiles = false
		}
	}
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
