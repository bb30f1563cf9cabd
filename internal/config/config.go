package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Config represents the mdsite configuration
type Config struct {
	ContentDir      string        `json:"content_dir"`
	PublicDir       string        `json:"public_dir"`
	StaticDir       string        `json:"static_dir,omitempty"`
	TemplateFile    string        `json:"template_file,omitempty"`
	LogFile         string        `json:"log_file,omitempty"`
	Interval        time.Duration `json:"-"` // Custom JSON handling below
	EscapeText      bool          `json:"escape_text,omitempty"`
	ExcludePatterns []string      `json:"exclude_patterns,omitempty"`
}

// rawConfig is the on-disk form, with the interval as a duration string
type rawConfig struct {
	ContentDir      string   `json:"content_dir"`
	PublicDir       string   `json:"public_dir"`
	StaticDir       string   `json:"static_dir,omitempty"`
	TemplateFile    string   `json:"template_file,omitempty"`
	LogFile         string   `json:"log_file,omitempty"`
	Interval        string   `json:"interval"`
	EscapeText      bool     `json:"escape_text,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
}

// DefaultConfig returns default configuration, relative to the working directory
func DefaultConfig() *Config {
	return &Config{
		ContentDir:      "content",
		PublicDir:       "public",
		StaticDir:       "static",
		TemplateFile:    "template.html",
		LogFile:         "",
		Interval:        2 * time.Second,
		ExcludePatterns: []string{}, // No exclusions by default
	}
}

// LocalConfigFile is the per-site config file in the working directory
const LocalConfigFile = "mdsite.json"

// ConfigPath returns the path to the config file.
// A mdsite.json in the working directory wins over the XDG config file.
// Can be overridden for testing
var ConfigPath = func() string {
	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}
	return filepath.Join(xdg.ConfigHome, "mdsite", "config.json")
}

// StateFilePath returns the path to the build manifest
// Uses platform-specific XDG state directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.StateHome, "mdsite", "manifest.json")
}

// Load reads configuration from ConfigPath
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.ExpandPaths(); err != nil {
				return nil, fmt.Errorf("failed to expand paths: %w", err)
			}
			return cfg, nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.ContentDir != "" {
		cfg.ContentDir = raw.ContentDir
	}
	if raw.PublicDir != "" {
		cfg.PublicDir = raw.PublicDir
	}
	cfg.StaticDir = raw.StaticDir
	cfg.TemplateFile = raw.TemplateFile
	cfg.LogFile = raw.LogFile
	cfg.EscapeText = raw.EscapeText

	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}
		cfg.Interval = interval
	}

	// Keep the default empty slice when none are configured
	if raw.ExcludePatterns != nil {
		cfg.ExcludePatterns = raw.ExcludePatterns
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to ConfigPath
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes configuration to configPath
func (c *Config) SaveTo(configPath string) error {
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := rawConfig{
		ContentDir:      c.ContentDir,
		PublicDir:       c.PublicDir,
		StaticDir:       c.StaticDir,
		TemplateFile:    c.TemplateFile,
		LogFile:         c.LogFile,
		Interval:        c.Interval.String(),
		EscapeText:      c.EscapeText,
		ExcludePatterns: c.ExcludePatterns,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir cannot be empty")
	}
	if c.PublicDir == "" {
		return fmt.Errorf("public_dir cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	// Building into the sources would overwrite them on the next run
	content, _ := filepath.Abs(c.ContentDir)
	public, _ := filepath.Abs(c.PublicDir)
	if content == public {
		return fmt.Errorf("public_dir must differ from content_dir")
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.ContentDir, err = expandPath(c.ContentDir)
	if err != nil {
		return fmt.Errorf("failed to expand content_dir: %w", err)
	}

	c.PublicDir, err = expandPath(c.PublicDir)
	if err != nil {
		return fmt.Errorf("failed to expand public_dir: %w", err)
	}

	c.StaticDir, err = expandPath(c.StaticDir)
	if err != nil {
		return fmt.Errorf("failed to expand static_dir: %w", err)
	}

	c.TemplateFile, err = expandPath(c.TemplateFile)
	if err != nil {
		return fmt.Errorf("failed to expand template_file: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
