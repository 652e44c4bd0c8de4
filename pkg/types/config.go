package types

import "encoding/json"

// DefaultConfigFileName is the local config file looked up in the workspace root.
const DefaultConfigFileName = ".project-actions.json"

// Settings holds the user-level settings the engine reads.
// Action lists are kept raw so each entry is validated individually.
type Settings struct {
	// GlobalActions are shown when their filter matches any path in the workspace.
	GlobalActions json.RawMessage `json:"globalActions,omitempty"`

	// ActiveFileActions are shown when their filter matches the active file.
	ActiveFileActions json.RawMessage `json:"activeFileActions,omitempty"`

	// ConfigFileName overrides the local config file name.
	ConfigFileName string `json:"configFileName,omitempty"`
}

// LocalFileName returns the configured local file name or the default.
func (s Settings) LocalFileName() string {
	if s.ConfigFileName != "" {
		return s.ConfigFileName
	}
	return DefaultConfigFileName
}

// LocalConfig is the document stored in the local config file.
type LocalConfig struct {
	Actions json.RawMessage `json:"actions"`
}
