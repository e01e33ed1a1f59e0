package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"generate", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pipeline") {
		t.Errorf("expected help to mention 'pipeline', got: %s", out)
	}
	for _, flag := range []string{"--config", "--seed", "--out"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected help to mention %q flag, got: %s", flag, out)
		}
	}
}

func TestGenerateCmd_MissingConfig(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"generate", "--config", "/nonexistent/plantgen.yaml"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "load config")
	}
}

func TestGenerateCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "plantgen.yaml")
	if err := os.WriteFile(cfgPath, []byte("plant_count: 99\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"generate", "--config", cfgPath})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if !strings.Contains(err.Error(), "plant_count") {
		t.Errorf("error = %q, want to mention plant_count", err.Error())
	}
}

func testConfig(t *testing.T, dir string) string {
	t.Helper()
	dbPath := filepath.Join(dir, "plantgen.db")
	cfg := "order_count: 150\noutput:\n  driver: sqlite\n  path: " + dbPath + "\n"
	cfgPath := filepath.Join(dir, "plantgen.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func TestGenerateCmd_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"generate", "--config", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Orders:       150") {
		t.Errorf("expected 150 orders in summary, got: %s", out)
	}
	if !strings.Contains(out, "Utilization:") {
		t.Errorf("expected utilization in summary, got: %s", out)
	}

	dbPath := filepath.Join(dir, "plantgen.db")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("output database not written: %v", err)
	}
}

func TestGenerateCmd_SeedZeroHonored(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"generate", "--config", cfgPath, "--seed", "0"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Generated dataset (seed 0)") {
		t.Errorf("explicit zero seed not honored, got: %s", buf.String())
	}
}

func TestGenerateCmd_OutOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := testConfig(t, dir)
	override := filepath.Join(dir, "other.db")

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"generate", "--config", cfgPath, "--out", override})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := os.Stat(override); err != nil {
		t.Fatalf("override database not written: %v", err)
	}
}
