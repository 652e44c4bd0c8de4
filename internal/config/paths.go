// Package config provides settings loading and path management.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths contains the standard paths for projactions data.
type Paths struct {
	Config string // ~/.config/projactions
	State  string // ~/.local/state/projactions
}

// GetPaths returns the standard paths for projactions data.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "projactions"),
		State:  filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), "projactions"),
	}
}

// EnsurePaths creates all required directories.
func (p *Paths) EnsurePaths() error {
	for _, dir := range []string{p.Config, p.State} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// UserSettingsPath returns the user settings file. An existing settings.jsonc
// takes precedence over settings.json.
func (p *Paths) UserSettingsPath() string {
	return preferExisting(filepath.Join(p.Config, "settings.jsonc"), filepath.Join(p.Config, "settings.json"))
}

// LogPath returns the path of the log file.
func (p *Paths) LogPath() string {
	return filepath.Join(p.State, "projactions.log")
}

// WorkspaceSettingsPath returns the workspace-level settings file for root.
func WorkspaceSettingsPath(root string) string {
	dir := filepath.Join(root, ".projactions")
	return preferExisting(filepath.Join(dir, "settings.jsonc"), filepath.Join(dir, "settings.json"))
}

func preferExisting(preferred, fallback string) string {
	if _, err := os.Stat(preferred); err == nil {
		return preferred
	}
	return fallback
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}

// SettingsCandidates lists every file Load may read for root, existing or not.
func SettingsCandidates(root string) []string {
	p := GetPaths()
	files := []string{
		filepath.Join(p.Config, "settings.jsonc"),
		filepath.Join(p.Config, "settings.json"),
	}
	if root != "" {
		dir := filepath.Join(root, ".projactions")
		files = append(files, filepath.Join(dir, "settings.jsonc"), filepath.Join(dir, "settings.json"))
	}
	if path := os.Getenv(EnvSettingsFile); path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			files = append(files, abs)
		}
	}
	return files
}
