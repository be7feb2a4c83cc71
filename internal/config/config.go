// Package config loads the doxyfx configuration: where the extractor XML
// lives, where records are written, project naming conventions, and the
// static-analysis gate thresholds.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Project ProjectConfig `yaml:"project"`
	Gate    GateConfig    `yaml:"gate"`
}

// InputConfig locates the extractor XML tree.
type InputConfig struct {
	// Dir is the directory the extractor ran in; record paths are derived
	// relative to it.
	Dir string `yaml:"dir"`
	// Glob selects the XML files to convert, relative to Dir.
	Glob string `yaml:"glob,omitempty"`
}

// OutputConfig controls where records are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	// APIRoot is the fixed leading segment of every record path.
	APIRoot string `yaml:"api_root,omitempty"`
}

// ProjectConfig carries the project naming conventions baked into path
// translation.
type ProjectConfig struct {
	// Prefix is stripped from the leading path segment when present.
	Prefix string `yaml:"prefix,omitempty"`
	// NamespaceMatcher marks namespace files whose functions are split into
	// standalone records.
	NamespaceMatcher string `yaml:"namespace_matcher,omitempty"`
	// Suppressed lists translated record paths that are never written
	// (known generator artifacts).
	Suppressed []string `yaml:"suppressed,omitempty"`
}

// GateConfig configures the static-analysis quality gate.
type GateConfig struct {
	Report           string `yaml:"report,omitempty"`
	ErrorThreshold   int    `yaml:"error_threshold"`
	WarningThreshold int    `yaml:"warning_threshold"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Input.Dir == "" {
		c.Input.Dir = "."
	}
	if c.Input.Glob == "" {
		c.Input.Glob = "doxygen/xml/{class,struct,namespace}*.xml"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "."
	}
	if c.Output.APIRoot == "" {
		c.Output.APIRoot = "api"
	}
	if c.Project.Prefix == "" {
		c.Project.Prefix = "qiotoolkit"
	}
	if c.Project.NamespaceMatcher == "" {
		c.Project.NamespaceMatcher = "/namespacematcher"
	}
	if c.Project.Suppressed == nil {
		c.Project.Suppressed = []string{
			"api/std/optional.yml",
			"api/ValueSetter/3_01std_optional_3_01T_01_4_01_4.yml",
		}
	}
	if c.Gate.Report == "" {
		c.Gate.Report = "cppcheck.xml"
	}
	if c.Gate.ErrorThreshold == 0 {
		c.Gate.ErrorThreshold = 4
	}
	if c.Gate.WarningThreshold == 0 {
		c.Gate.WarningThreshold = 23
	}
}

// Load loads configuration from the specified file. Environment variables
// referenced in the YAML are expanded; a .env file next to the process is
// honored when present.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, doxyerrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, doxyerrors.NewConfigError("failed to read config file", err)
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, doxyerrors.NewConfigError("failed to unmarshal config", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadOrDefault loads the configuration file when it exists and falls back
// to defaults otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(configPath)
}
