package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/telnet2/projactions/internal/logging"
	"github.com/telnet2/projactions/pkg/types"
	"github.com/tidwall/jsonc"
)

// Environment variables read by Load.
const (
	EnvSettingsFile   = "PROJACTIONS_SETTINGS"
	EnvConfigFileName = "PROJACTIONS_CONFIG_FILE_NAME"
)

var envPattern = regexp.MustCompile(`\{env:([^}]+)\}`)

// Load loads settings from multiple sources (later sources win per key):
// 1. User settings ($XDG_CONFIG_HOME/projactions/settings.json[c])
// 2. Workspace settings (<root>/.projactions/settings.json[c])
// 3. PROJACTIONS_SETTINGS file
// 4. Environment variables
//
// Missing files are skipped. Malformed files are logged and skipped so one
// broken file never hides the others. The returned slice lists the files
// that were applied.
func Load(root string) (types.Settings, []string) {
	var settings types.Settings
	var loaded []string
	seen := make(map[string]bool)

	loadOnce := func(path string) {
		absPath, err := filepath.Abs(path)
		if err != nil || seen[absPath] {
			return
		}
		seen[absPath] = true

		fileSettings, err := LoadFile(absPath)
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Warn().Err(err).Str("path", absPath).Msg("skipping settings file")
			}
			return
		}
		merge(&settings, fileSettings)
		loaded = append(loaded, absPath)
	}

	loadOnce(GetPaths().UserSettingsPath())
	if root != "" {
		loadOnce(WorkspaceSettingsPath(root))
	}
	if path := os.Getenv(EnvSettingsFile); path != "" {
		loadOnce(path)
	}

	if name := os.Getenv(EnvConfigFileName); name != "" {
		settings.ConfigFileName = name
	}
	return settings, loaded
}

// LoadFile reads a single JSONC settings file. {env:VAR} placeholders are
// expanded before decoding.
func LoadFile(path string) (types.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Settings{}, err
	}

	data = jsonc.ToJSON(data)
	data = envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})

	var s types.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return types.Settings{}, &types.LoadError{Kind: types.ErrParse, Path: path, Err: err}
	}
	return s, nil
}

// merge merges source settings into target; keys present in source win.
func merge(target *types.Settings, source types.Settings) {
	if len(source.GlobalActions) > 0 {
		target.GlobalActions = source.GlobalActions
	}
	if len(source.ActiveFileActions) > 0 {
		target.ActiveFileActions = source.ActiveFileActions
	}
	if source.ConfigFileName != "" {
		target.ConfigFileName = source.ConfigFileName
	}
}

// Store caches the merged settings for a workspace. Reload re-reads all
// sources; Current is cheap and safe for concurrent use.
type Store struct {
	root string

	mu       sync.RWMutex
	settings types.Settings
	files    []string
}

// NewStore creates a store and performs the initial load.
func NewStore(root string) *Store {
	s := &Store{root: root}
	s.Reload()
	return s
}

// Current returns the last loaded settings.
func (s *Store) Current() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Files returns the settings files applied by the last load.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.files...)
}

// Reload re-reads every settings source and reports whether the local
// config file name changed.
func (s *Store) Reload() (fileNameChanged bool) {
	s.mu.RLock()
	root := s.root
	s.mu.RUnlock()
	settings, files := Load(root)

	s.mu.Lock()
	defer s.mu.Unlock()
	fileNameChanged = s.settings.LocalFileName() != settings.LocalFileName()
	s.settings = settings
	s.files = files
	return fileNameChanged
}

// SetRoot points the store at another workspace root and reloads.
func (s *Store) SetRoot(root string) (fileNameChanged bool) {
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()
	return s.Reload()
}

// Root returns the workspace root the store loads for.
func (s *Store) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// SettingsScope selects the settings key a host command targets.
type SettingsScope string

const (
	ScopeGlobal     SettingsScope = "globalActions"
	ScopeActiveFile SettingsScope = "activeFileActions"
)

// EnsureUserSettings makes sure the user settings file exists and returns
// its path. A new file is seeded with an empty list for scope.
func EnsureUserSettings(scope SettingsScope) (string, error) {
	paths := GetPaths()
	path := paths.UserSettingsPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := paths.EnsurePaths(); err != nil {
		return "", &types.LoadError{Kind: types.ErrWrite, Path: path, Err: err}
	}
	seed := fmt.Sprintf("{\n  // %s: [{\"text\": \"...\", \"command\": \"...\", \"filter\": \"**/*\"}]\n  %q: []\n}\n", scope, string(scope))
	if err := writeNew(path, []byte(seed)); err != nil && !os.IsExist(err) {
		return "", &types.LoadError{Kind: types.ErrWrite, Path: path, Err: err}
	}
	return path, nil
}

// writeNew creates path with data, failing if it already exists.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
