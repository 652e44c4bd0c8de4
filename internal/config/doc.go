// Package config provides settings loading, the local config template and path
// management for projactions.
//
// # Settings Loading
//
// Load merges settings from several sources, later sources overriding earlier
// ones key by key:
//
//  1. User settings ($XDG_CONFIG_HOME/projactions/settings.json or .jsonc)
//  2. Workspace settings (<root>/.projactions/settings.json or .jsonc)
//  3. The file named by PROJACTIONS_SETTINGS
//  4. PROJACTIONS_CONFIG_FILE_NAME, overriding configFileName
//
// Every file is JSONC (comments and trailing commas allowed, processed with
// tidwall/jsonc) and may use {env:VAR_NAME} placeholders.
//
// Recognized keys:
//
//	{
//	  // shown when the filter matches any path in the workspace
//	  "globalActions": [
//	    {"text": "$(beaker) Test", "command": "go test ./...", "filter": "go.mod"}
//	  ],
//	  // shown when the filter matches the active file
//	  "activeFileActions": [
//	    {"text": "Run file", "command": "python ${file}", "filter": "**/*.py"}
//	  ],
//	  // name of the per-project file, default .project-actions.json
//	  "configFileName": ".project-actions.json"
//	}
//
// A malformed settings file is logged and skipped; the action lists are kept
// as raw JSON so each entry is validated individually by the loaders.
//
// # Local Config Template
//
// CreateLocalConfig writes LocalTemplate (a Pull and a Push action) to the
// local config path only when no file exists there yet.
//
// # Path Management
//
// Paths follows the XDG Base Directory layout:
//   - Config: ~/.config/projactions (XDG_CONFIG_HOME)
//   - State: ~/.local/state/projactions (XDG_STATE_HOME), holds the log file
//
// On Windows both resolve under APPDATA.
package config
