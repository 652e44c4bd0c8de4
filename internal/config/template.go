package config

import (
	"os"
	"path/filepath"

	"github.com/telnet2/projactions/pkg/types"
)

// LocalTemplate is written by CreateLocalConfig when no local config exists.
const LocalTemplate = `{
  // Buttons shown for this project. Commands may use ${file},
  // ${workspaceFolder}, ${selectedText}, ${lineNumber} and friends.
  "actions": [
    {
      "text": "$(repo-pull) Pull",
      "command": "git pull",
      "tooltip": "git pull"
    },
    {
      "text": "$(repo-push) Push",
      "command": "git push",
      "tooltip": "git push"
    }
  ]
}
`

// LocalConfigPath returns the local config file path for a workspace root.
func LocalConfigPath(root string, settings types.Settings) string {
	return filepath.Join(root, settings.LocalFileName())
}

// CreateLocalConfig writes LocalTemplate to path unless the file already
// exists. It reports whether the file was created.
func CreateLocalConfig(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, &types.LoadError{Kind: types.ErrWrite, Path: path, Err: err}
	}
	if err := writeNew(path, []byte(LocalTemplate)); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, &types.LoadError{Kind: types.ErrWrite, Path: path, Err: err}
	}
	return true, nil
}
