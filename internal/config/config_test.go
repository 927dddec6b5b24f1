package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bsconfig.yaml")
	if err := os.WriteFile(path, []byte("rootDir: ./src\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RootDir != "./src" {
		t.Fatalf("expected overridden rootDir, got %q", cfg.RootDir)
	}
	if cfg.OutFile != "out/app.zip" {
		t.Fatalf("expected default outFile to survive, got %q", cfg.OutFile)
	}
}

func TestLoadFollowsExtends(t *testing.T) {
	dir := t.TempDir()
	parentPath := filepath.Join(dir, "base.yaml")
	childPath := filepath.Join(dir, "bsconfig.yaml")
	if err := os.WriteFile(parentPath, []byte("host: example.local\nusername: admin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(childPath, []byte("extends: base.yaml\ndeploy: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(childPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "example.local" || cfg.Username != "admin" {
		t.Fatalf("expected inherited host/username, got %+v", cfg)
	}
	if !cfg.Deploy {
		t.Fatalf("expected deploy true from child")
	}
}

func TestValidateRejectsDeployWithoutHost(t *testing.T) {
	cfg := Default()
	cfg.Deploy = true
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for deploy without host")
	}
}
