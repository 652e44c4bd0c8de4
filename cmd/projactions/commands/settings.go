package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/telnet2/projactions/internal/config"
	"github.com/telnet2/projactions/internal/host"
)

var settingsCmd = &cobra.Command{
	Use:       "settings [global|active-file]",
	Short:     "Open the user settings file",
	Long:      `Create the user settings file if needed and open it in $VISUAL or $EDITOR.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"global", "active-file"},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		scope, err := host.ParseScope(name)
		if err != nil {
			return err
		}
		path, err := config.EnsureUserSettings(scope)
		if err != nil {
			return err
		}
		if err := openInEditor(path); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		return nil
	},
}
