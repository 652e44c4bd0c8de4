package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/telnet2/projactions/internal/statusbar"
	"github.com/telnet2/projactions/internal/terminal"
)

var (
	listEditor editorFlags
	listBar    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the action bar for a workspace",
	Long: `Show the buttons the bar would display for the workspace folder, in
order, with the index 'projactions run' accepts.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listEditor.file, "file", "f", "", "Active file")
	listCmd.Flags().BoolVar(&listBar, "bar", false, "Draw the bar on one line")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := startApp(ctx, terminal.NewWriter(io.Discard), false, listEditor)
	if err != nil {
		return err
	}
	defer a.Close()

	if listBar {
		fmt.Println(a.Bar().Render())
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("#", "Button", "Command")
	for i, item := range a.Bar().Items() {
		if item.Separator {
			tbl.AddRow("", item.Text, "")
			continue
		}
		tbl.AddRow(i, statusbar.DisplayText(item.Text), item.Tooltip)
	}
	fmt.Println(tbl)
	return nil
}
