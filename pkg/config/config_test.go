package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

type validatedConfig struct {
	Port int `yaml:"port"`
}

func (c *validatedConfig) Validate() error {
	if c.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CFG_NAME", "muninn")

	var cfg testConfig
	if err := Load(writeFile(t, "name: ${TEST_CFG_NAME}\nport: 8080\n"), &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "muninn" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRunsValidation(t *testing.T) {
	var cfg validatedConfig
	err := Load(writeFile(t, "port: 0\n"), &cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadIfExists(t *testing.T) {
	var cfg testConfig
	found, err := LoadIfExists(writeFile(t, "name: muninn\n"), &cfg)
	if err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	if !found {
		t.Error("expected found = true")
	}
	if cfg.Name != "muninn" {
		t.Errorf("Name = %q", cfg.Name)
	}
}

func TestLoadIfExistsMissingFile(t *testing.T) {
	var cfg testConfig
	found, err := LoadIfExists(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if err != nil {
		t.Fatalf("LoadIfExists: %v", err)
	}
	if found {
		t.Error("expected found = false for missing file")
	}
}
