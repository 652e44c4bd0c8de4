package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/telnet2/projactions/internal/terminal"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the local config file",
	Long: `Create the project's local config file from a template, unless it
already exists, and open it in $VISUAL or $EDITOR.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := startApp(ctx, terminal.NewWriter(io.Discard), false, editorFlags{})
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.CreateLocalConfig(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "local config:", path)
		return nil
	},
}
