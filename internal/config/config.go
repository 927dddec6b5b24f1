// Package config loads and validates the project manifest (conventionally
// bsconfig.yaml) that drives a compilation run: which files belong to the
// project, where output goes, and how a staging deploy should be packaged.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the on-disk project manifest shape.
type Config struct {
	RootDir           string   `yaml:"rootDir"`
	Files             []string `yaml:"files"`
	OutFile           string   `yaml:"outFile"`
	StagingFolderPath string   `yaml:"stagingFolderPath"`
	Watch             bool     `yaml:"watch"`
	CreatePackage     bool     `yaml:"createPackage"`
	Deploy            bool     `yaml:"deploy"`
	CopyToStaging     bool     `yaml:"copyToStaging"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	Host              string   `yaml:"host"`
	RetainStagingFolder bool   `yaml:"retainStagingFolder"`
	LogLevel          string   `yaml:"logLevel"`
	Extends           string   `yaml:"extends"`
	Plugins           []string `yaml:"plugins"`
	AutoImportComponentScript bool `yaml:"autoImportComponentScript"`
}

// Default returns the manifest's built-in defaults, applied before any file
// or CLI override is layered on top.
func Default() Config {
	return Config{
		RootDir:       ".",
		Files:         []string{"source/**/*.bs", "components/**/*.xml"},
		OutFile:       "out/app.zip",
		CreatePackage: true,
		LogLevel:      "log",
		AutoImportComponentScript: true,
	}
}

// Load reads and parses the manifest at path, following its "extends"
// chain: each parent manifest is merged underneath the file that names it,
// recursively, with relative paths resolved against the naming file.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := mergeFile(&cfg, path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if fileCfg.Extends != "" {
		parent := filepath.Join(filepath.Dir(path), fileCfg.Extends)
		if err := mergeFile(cfg, parent); err != nil {
			return err
		}
	}
	merge(cfg, fileCfg)
	return nil
}

// merge overlays the non-empty string and list fields of override onto
// base, ORs its Watch/Deploy/CopyToStaging/RetainStagingFolder flags in,
// and appends its Plugins. Extends, CreatePackage and
// AutoImportComponentScript are not merged.
func merge(base *Config, override Config) {
	if override.RootDir != "" {
		base.RootDir = override.RootDir
	}
	if len(override.Files) > 0 {
		base.Files = override.Files
	}
	if override.OutFile != "" {
		base.OutFile = override.OutFile
	}
	if override.StagingFolderPath != "" {
		base.StagingFolderPath = override.StagingFolderPath
	}
	base.Watch = base.Watch || override.Watch
	base.Deploy = base.Deploy || override.Deploy
	base.CopyToStaging = base.CopyToStaging || override.CopyToStaging
	base.RetainStagingFolder = base.RetainStagingFolder || override.RetainStagingFolder
	if override.Username != "" {
		base.Username = override.Username
	}
	if override.Password != "" {
		base.Password = override.Password
	}
	if override.Host != "" {
		base.Host = override.Host
	}
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if len(override.Plugins) > 0 {
		base.Plugins = append(base.Plugins, override.Plugins...)
	}
}

// Validate reports manifest problems that would otherwise surface as
// confusing errors deep inside program loading.
func (c Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("config: rootDir must not be empty")
	}
	if len(c.Files) == 0 {
		return fmt.Errorf("config: files must name at least one glob")
	}
	if c.Deploy && (c.Host == "" || c.Username == "") {
		return fmt.Errorf("config: deploy requires host and username")
	}
	return nil
}
