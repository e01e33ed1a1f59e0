// Package config provides YAML-based configuration loading for plantgen.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fabworks/plantgen/internal/models"
	"gopkg.in/yaml.v3"
)

// Config enumerates every recognized generation option. It is validated
// before any generation starts; an invalid field fails the run with
// models.ErrConfiguration.
type Config struct {
	MaterialCount   int          `yaml:"material_count"`
	PlantCount      int          `yaml:"plant_count"`
	WorkCenterCount int          `yaml:"work_center_count"`
	OperatorCount   int          `yaml:"operator_count"`
	OrderCount      int          `yaml:"order_count"`
	TimeHorizonDays int          `yaml:"time_horizon_days"`
	RandomSeed      int64        `yaml:"random_seed"`
	MissingnessRate float64      `yaml:"missingness_rate"`
	OutlierRate     float64      `yaml:"outlier_rate"`
	RetentionTarget float64      `yaml:"retention_target"`
	Output          OutputConfig `yaml:"output"`
}

// OutputConfig selects where the generated tables are persisted: a local
// SQLite file (default) or a MySQL-compatible server.
type OutputConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the validated default configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in unset values. Zero means "not set" for every numeric
// option, including random_seed; a literal zero seed is only reachable through
// the generate command's --seed flag.
func (c *Config) applyDefaults() {
	if c.MaterialCount == 0 {
		c.MaterialCount = 390
	}
	if c.PlantCount == 0 {
		c.PlantCount = 3
	}
	if c.WorkCenterCount == 0 {
		c.WorkCenterCount = 20
	}
	if c.OperatorCount == 0 {
		c.OperatorCount = 60
	}
	if c.OrderCount == 0 {
		c.OrderCount = 5000
	}
	if c.TimeHorizonDays == 0 {
		c.TimeHorizonDays = 365
	}
	if c.RandomSeed == 0 {
		c.RandomSeed = 42
	}
	if c.MissingnessRate == 0 {
		c.MissingnessRate = 0.03
	}
	if c.OutlierRate == 0 {
		c.OutlierRate = 0.01
	}
	if c.RetentionTarget == 0 {
		c.RetentionTarget = 0.97
	}
	if c.Output.Driver == "" {
		c.Output.Driver = "sqlite"
	}
	if c.Output.Path == "" {
		c.Output.Path = "plantgen.db"
	}
	if c.Output.Host == "" {
		c.Output.Host = "127.0.0.1"
	}
	if c.Output.Port == 0 {
		c.Output.Port = 3306
	}
	if c.Output.Database == "" {
		c.Output.Database = "plantgen"
	}
}

// TierCounts splits MaterialCount into FG/SFG/RAW sizes using the canonical
// 30/60/300 proportions, with the remainder going to RAW.
func (c *Config) TierCounts() (fg, sfg, raw int) {
	fg = c.MaterialCount * 30 / 390
	sfg = c.MaterialCount * 60 / 390
	raw = c.MaterialCount - fg - sfg
	return fg, sfg, raw
}

// Validate checks that all options are inside their legal ranges.
func (c *Config) Validate() error {
	var errs []string
	fg, sfg, raw := c.TierCounts()
	if fg < 1 {
		errs = append(errs, fmt.Sprintf("material_count %d yields %d finished goods, need at least 1", c.MaterialCount, fg))
	}
	if sfg < 4 {
		errs = append(errs, fmt.Sprintf("material_count %d yields %d semi-finished goods, need at least 4", c.MaterialCount, sfg))
	}
	if raw < 7 {
		errs = append(errs, fmt.Sprintf("material_count %d yields %d raw materials, need at least 7", c.MaterialCount, raw))
	}
	if c.PlantCount < 1 || c.PlantCount > 9 {
		errs = append(errs, fmt.Sprintf("plant_count %d outside [1, 9]", c.PlantCount))
	}
	if c.WorkCenterCount < 1 || c.WorkCenterCount > 99 {
		errs = append(errs, fmt.Sprintf("work_center_count %d outside [1, 99]", c.WorkCenterCount))
	}
	if c.OperatorCount < 1 || c.OperatorCount > 999 {
		errs = append(errs, fmt.Sprintf("operator_count %d outside [1, 999]", c.OperatorCount))
	}
	if c.OrderCount < 1 {
		errs = append(errs, fmt.Sprintf("order_count %d must be positive", c.OrderCount))
	}
	if c.TimeHorizonDays < 1 {
		errs = append(errs, fmt.Sprintf("time_horizon_days %d must be positive", c.TimeHorizonDays))
	}
	if c.MissingnessRate < 0 || c.MissingnessRate >= 1 {
		errs = append(errs, fmt.Sprintf("missingness_rate %v outside [0, 1)", c.MissingnessRate))
	}
	if c.OutlierRate < 0 || c.OutlierRate >= 1 {
		errs = append(errs, fmt.Sprintf("outlier_rate %v outside [0, 1)", c.OutlierRate))
	}
	if c.RetentionTarget <= 0.5 || c.RetentionTarget > 1 {
		errs = append(errs, fmt.Sprintf("retention_target %v outside (0.5, 1]", c.RetentionTarget))
	}
	switch c.Output.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("output.driver %q must be sqlite or mysql", c.Output.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w: %s", models.ErrConfiguration, strings.Join(errs, "; "))
	}
	return nil
}
