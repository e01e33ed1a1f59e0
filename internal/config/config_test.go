package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fabworks/plantgen/internal/models"
)

const fullYAML = `
material_count: 390
plant_count: 3
work_center_count: 20
operator_count: 60
order_count: 5000
time_horizon_days: 365
random_seed: 42
missingness_rate: 0.03
outlier_rate: 0.01
retention_target: 0.97

output:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  database: plant_history
`

const minimalYAML = `
order_count: 200
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MaterialCount != 390 {
		t.Errorf("MaterialCount = %d, want 390", cfg.MaterialCount)
	}
	if cfg.WorkCenterCount != 20 {
		t.Errorf("WorkCenterCount = %d, want 20", cfg.WorkCenterCount)
	}
	if cfg.RandomSeed != 42 {
		t.Errorf("RandomSeed = %d, want 42", cfg.RandomSeed)
	}
	if cfg.RetentionTarget != 0.97 {
		t.Errorf("RetentionTarget = %v, want 0.97", cfg.RetentionTarget)
	}
	if cfg.Output.Driver != "mysql" {
		t.Errorf("Output.Driver = %q, want %q", cfg.Output.Driver, "mysql")
	}
	if cfg.Output.Host != "10.0.0.5" {
		t.Errorf("Output.Host = %q, want %q", cfg.Output.Host, "10.0.0.5")
	}
	if cfg.Output.Port != 3307 {
		t.Errorf("Output.Port = %d, want 3307", cfg.Output.Port)
	}
	if cfg.Output.Database != "plant_history" {
		t.Errorf("Output.Database = %q, want %q", cfg.Output.Database, "plant_history")
	}
}

func TestParse_MinimalDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OrderCount != 200 {
		t.Errorf("OrderCount = %d, want 200", cfg.OrderCount)
	}
	if cfg.MaterialCount != 390 {
		t.Errorf("MaterialCount = %d, want default 390", cfg.MaterialCount)
	}
	if cfg.PlantCount != 3 {
		t.Errorf("PlantCount = %d, want default 3", cfg.PlantCount)
	}
	if cfg.OperatorCount != 60 {
		t.Errorf("OperatorCount = %d, want default 60", cfg.OperatorCount)
	}
	if cfg.MissingnessRate != 0.03 {
		t.Errorf("MissingnessRate = %v, want default 0.03", cfg.MissingnessRate)
	}
	if cfg.Output.Driver != "sqlite" {
		t.Errorf("Output.Driver = %q, want default sqlite", cfg.Output.Driver)
	}
	if cfg.Output.Path != "plantgen.db" {
		t.Errorf("Output.Path = %q, want default plantgen.db", cfg.Output.Path)
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	fg, sfg, raw := cfg.TierCounts()
	if fg != 30 || sfg != 60 || raw != 300 {
		t.Errorf("TierCounts() = (%d, %d, %d), want (30, 60, 300)", fg, sfg, raw)
	}
}

func TestTierCounts_SumsToTotal(t *testing.T) {
	for _, count := range []int{100, 390, 391, 1000} {
		cfg := Default()
		cfg.MaterialCount = count
		fg, sfg, raw := cfg.TierCounts()
		if fg+sfg+raw != count {
			t.Errorf("material_count %d: tiers sum to %d", count, fg+sfg+raw)
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "material count too small",
			mutate:  func(c *Config) { c.MaterialCount = 10 },
			wantMsg: "finished goods",
		},
		{
			name:    "zero work centers",
			mutate:  func(c *Config) { c.WorkCenterCount = -1 },
			wantMsg: "work_center_count",
		},
		{
			name:    "too many plants",
			mutate:  func(c *Config) { c.PlantCount = 12 },
			wantMsg: "plant_count",
		},
		{
			name:    "negative order count",
			mutate:  func(c *Config) { c.OrderCount = -5 },
			wantMsg: "order_count",
		},
		{
			name:    "missingness out of range",
			mutate:  func(c *Config) { c.MissingnessRate = 1.5 },
			wantMsg: "missingness_rate",
		},
		{
			name:    "outlier rate out of range",
			mutate:  func(c *Config) { c.OutlierRate = -0.2 },
			wantMsg: "outlier_rate",
		},
		{
			name:    "retention too low",
			mutate:  func(c *Config) { c.RetentionTarget = 0.4 },
			wantMsg: "retention_target",
		},
		{
			name:    "unknown output driver",
			mutate:  func(c *Config) { c.Output.Driver = "postgres" },
			wantMsg: "output.driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, models.ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("material_count: [not a number"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q, want config: parse prefix", err.Error())
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plantgen.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Database != "plant_history" {
		t.Errorf("Output.Database = %q, want plant_history", cfg.Output.Database)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/plantgen.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want config: read prefix", err.Error())
	}
}
