package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const appDirName = "podcastdl"

// GetAppDir returns the base config directory (~/.config/podcastdl on Linux).
func GetAppDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "." + appDirName
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDirName)
}

// GetStateDir returns the directory holding the history database.
func GetStateDir() string {
	return filepath.Join(GetAppDir(), "state")
}

// GetLogsDir returns the directory holding debug logs.
func GetLogsDir() string {
	return filepath.Join(GetAppDir(), "logs")
}

// EnsureDirs creates the config, state and logs directories if missing.
func EnsureDirs() error {
	for _, dir := range []string{GetAppDir(), GetStateDir(), GetLogsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Settings holds user preferences loaded from settings.yaml.
type Settings struct {
	// FeedPath is the local feed document consumed at startup.
	FeedPath string `yaml:"feed"`
	// OutputDir is where completed downloads are written.
	OutputDir string `yaml:"output_dir"`
	// PollIntervalMs bounds how long the UI waits between progress redraws.
	PollIntervalMs int `yaml:"poll_interval_ms"`
}

func DefaultSettings() Settings {
	return Settings{
		FeedPath:       "techmeme-ridehome.rss",
		OutputDir:      ".",
		PollIntervalMs: 100,
	}
}

func settingsPath() string {
	return filepath.Join(GetAppDir(), "settings.yaml")
}

// LoadSettings reads settings.yaml, falling back to defaults for a
// missing file or missing fields.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(settingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.PollIntervalMs <= 0 {
		s.PollIntervalMs = DefaultSettings().PollIntervalMs
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	return s, nil
}

// SaveSettings writes settings.yaml, creating directories as needed.
func SaveSettings(s Settings) error {
	if err := EnsureDirs(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(settingsPath(), data, 0644)
}

// PollInterval returns the configured poll interval as a duration.
func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}
