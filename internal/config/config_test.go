package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_SaveAndLoad(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// Test saving config
	cfg := &Config{}
	cfg.RememberRun("frame.rmp", "addr_seg.rmp", "out/", 120.5)

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	// Test loading config
	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.LastFrameFile != cfg.LastFrameFile {
		t.Errorf("Expected LastFrameFile %q, got %q", cfg.LastFrameFile, loaded.LastFrameFile)
	}
	if loaded.LastAddrSegFile != cfg.LastAddrSegFile {
		t.Errorf("Expected LastAddrSegFile %q, got %q", cfg.LastAddrSegFile, loaded.LastAddrSegFile)
	}
	if loaded.LastOutputDir != cfg.LastOutputDir {
		t.Errorf("Expected LastOutputDir %q, got %q", cfg.LastOutputDir, loaded.LastOutputDir)
	}
	if loaded.LastElapseSec != cfg.LastElapseSec {
		t.Errorf("Expected LastElapseSec %v, got %v", cfg.LastElapseSec, loaded.LastElapseSec)
	}
}

func TestConfig_LoadNonExistent(t *testing.T) {
	// Test loading from non-existent file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent.json")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Expected no error when loading non-existent file, got: %v", err)
	}

	if cfg.LastFrameFile != "" {
		t.Errorf("Expected empty config, got LastFrameFile=%q", cfg.LastFrameFile)
	}
}

func TestConfig_RememberRun(t *testing.T) {
	cfg := &Config{}
	cfg.RememberRun("a/frame.rmp", "a/addr_seg.rmp", "a/out", 60)

	if cfg.LastFrameFile != "a/frame.rmp" {
		t.Errorf("LastFrameFile = %q, want %q", cfg.LastFrameFile, "a/frame.rmp")
	}
	if cfg.LastAddrSegFile != "a/addr_seg.rmp" {
		t.Errorf("LastAddrSegFile = %q, want %q", cfg.LastAddrSegFile, "a/addr_seg.rmp")
	}
	if cfg.LastOutputDir != "a/out" {
		t.Errorf("LastOutputDir = %q, want %q", cfg.LastOutputDir, "a/out")
	}
	if cfg.LastElapseSec != 60 {
		t.Errorf("LastElapseSec = %v, want 60", cfg.LastElapseSec)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("Failed to get default config path: %v", err)
	}

	if path == "" {
		t.Error("Expected non-empty config path")
	}

	// Verify it ends with .bridgesim/config.json
	if filepath.Base(path) != "config.json" {
		t.Errorf("Expected config filename to be config.json, got %q", filepath.Base(path))
	}

	dir := filepath.Dir(path)
	if filepath.Base(dir) != ".bridgesim" {
		t.Errorf("Expected config directory to be .bridgesim, got %q", filepath.Base(dir))
	}
}
