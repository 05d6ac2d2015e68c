package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupTestConfig(t *testing.T) string {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("APPDATA", tempDir)
	t.Setenv("HOME", tempDir)
	return tempDir
}

func TestGetAppDir(t *testing.T) {
	setupTestConfig(t)

	dir := GetAppDir()
	if dir == "" {
		t.Fatal("GetAppDir returned empty string")
	}
	if !strings.Contains(dir, appDirName) {
		t.Errorf("GetAppDir() = %s, want path containing %q", dir, appDirName)
	}
}

func TestEnsureDirs(t *testing.T) {
	setupTestConfig(t)

	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	for _, dir := range []string{GetAppDir(), GetStateDir(), GetLogsDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	setupTestConfig(t)

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	want := DefaultSettings()
	if s != want {
		t.Errorf("LoadSettings() = %+v, want defaults %+v", s, want)
	}
	if s.PollInterval() != 100*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 100ms", s.PollInterval())
	}
}

func TestSaveLoadSettings_RoundTrip(t *testing.T) {
	setupTestConfig(t)

	s := Settings{
		FeedPath:       "/feeds/show.rss",
		OutputDir:      "/downloads",
		PollIntervalMs: 250,
	}
	if err := SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded != s {
		t.Errorf("round trip = %+v, want %+v", loaded, s)
	}
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	setupTestConfig(t)

	if err := EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(GetAppDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("feed: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings()
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if s != DefaultSettings() {
		t.Errorf("invalid YAML should fall back to defaults, got %+v", s)
	}
}

func TestLoadSettings_ZeroPollInterval(t *testing.T) {
	setupTestConfig(t)

	if err := SaveSettings(Settings{FeedPath: "f.rss", OutputDir: ".", PollIntervalMs: 0}); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.PollIntervalMs != DefaultSettings().PollIntervalMs {
		t.Errorf("PollIntervalMs = %d, want default %d", s.PollIntervalMs, DefaultSettings().PollIntervalMs)
	}
}
