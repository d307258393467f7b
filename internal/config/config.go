package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultRefreshInterval = 2 * time.Second
	defaultGroupBy         = "batch"
	defaultSummaryType     = "totals"

	envRefreshInterval = "WATCHQ_REFRESH_INTERVAL"
	envGroupBy         = "WATCHQ_GROUPBY"
)

// Config aggregates tunable defaults for the watch loop. Command-line flags
// still override everything here.
type Config struct {
	RefreshInterval time.Duration
	GroupBy         string
	SummaryType     string
}

type fileConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
	GroupBy         string `yaml:"groupby"`
	SummaryType     string `yaml:"summary_type"`
}

// Load builds a Config from an optional YAML file path plus environment
// overrides. A missing file at the default location is not an error.
func Load(path string) (Config, error) {
	cfg := Config{
		RefreshInterval: defaultRefreshInterval,
		GroupBy:         defaultGroupBy,
		SummaryType:     defaultSummaryType,
	}

	explicit := path != ""
	if !explicit {
		path = defaultPath()
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "watchq", "config.yaml")
}

func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return err
	}

	if fc.RefreshInterval != "" {
		dur, err := time.ParseDuration(fc.RefreshInterval)
		if err != nil || dur <= 0 {
			return fmt.Errorf("invalid refresh_interval %q", fc.RefreshInterval)
		}
		cfg.RefreshInterval = dur
	}
	if fc.GroupBy != "" {
		cfg.GroupBy = fc.GroupBy
	}
	if fc.SummaryType != "" {
		cfg.SummaryType = fc.SummaryType
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envRefreshInterval); v != "" {
		if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
			cfg.RefreshInterval = dur
		} else {
			log.Printf("invalid %s value %q, keeping %s", envRefreshInterval, v, cfg.RefreshInterval)
		}
	}
	if v := os.Getenv(envGroupBy); v != "" {
		cfg.GroupBy = v
	}
}
