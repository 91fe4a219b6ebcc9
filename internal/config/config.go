// Package config provides persistent configuration storage for bridgesim,
// remembering the parameters of the last simulation run. The saved values
// are recorded only; nothing reads them back into a later run's flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the persistent configuration.
type Config struct {
	// LastFrameFile is the path to the last frame.rmp used.
	LastFrameFile string `json:"last_frame_file,omitempty"`
	// LastAddrSegFile is the path to the last addr_seg.rmp used.
	LastAddrSegFile string `json:"last_addr_seg_file,omitempty"`
	// LastElapseSec is the replay duration, in seconds, of the last run.
	LastElapseSec float64 `json:"last_elapse_sec,omitempty"`
	// LastOutputDir is the directory the last run wrote its scatter exports to.
	LastOutputDir string `json:"last_output_dir,omitempty"`
}

// DefaultConfigDir returns the default configuration directory.
// Returns ~/.bridgesim on Unix-like systems, %USERPROFILE%\.bridgesim on Windows.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".bridgesim"), nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from the default config file.
// Returns an empty Config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from the specified file path.
// Returns an empty Config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet, return empty config
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the default config file.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to the specified file path.
func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// RememberRun records the parameters of a completed simulation run.
func (c *Config) RememberRun(frameFile, addrSegFile, outputDir string, elapseSec float64) {
	c.LastFrameFile = frameFile
	c.LastAddrSegFile = addrSegFile
	c.LastOutputDir = outputDir
	c.LastElapseSec = elapseSec
}
