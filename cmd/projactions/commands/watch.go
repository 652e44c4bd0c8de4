package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/telnet2/projactions/internal/host"
	"github.com/telnet2/projactions/internal/logging"
	"github.com/telnet2/projactions/internal/terminal"
)

var (
	watchDryRun  bool
	watchEnvFile string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Drive the bar from an editor over stdin/stdout",
	Long: `Watch the workspace and serve the editor protocol: one JSON request per
line on stdin, one JSON response per line on stdout. The bar is rebuilt when
the local config file or a settings file changes.

Requests:
  {"type": "focus", "path": "/abs/file.go", "selection": "...", "line": 3}
  {"type": "blur"}
  {"type": "tab", "resource": "file:///abs/file.go"}
  {"type": "folders", "folders": ["/abs/root"]}
  {"type": "click", "index": 0} or {"type": "click", "label": "Build"}
  {"type": "reload"}, {"type": "bar"}, {"type": "init"}
  {"type": "settings", "scope": "global|active-file"}`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchDryRun, "dry-run", "n", false, "Print commands to stderr instead of running them")
	watchCmd.Flags().StringVar(&watchEnvFile, "env-file", "", "Dotenv file to add to the shell environment")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, err := GetWorkDir()
	if err != nil {
		return err
	}

	var term terminal.Terminal
	if watchDryRun {
		term = terminal.NewWriter(os.Stderr)
	} else {
		// Commands write to stderr; stdout carries the protocol.
		shell, err := terminal.NewShell(terminal.ShellOptions{
			Dir:     dir,
			Stdout:  os.Stderr,
			Stderr:  os.Stderr,
			EnvFile: watchEnvFile,
		})
		if err != nil {
			return err
		}
		term = shell
	}

	a, err := startApp(ctx, term, true, editorFlags{})
	if err != nil {
		term.Close()
		return err
	}
	defer a.Close()

	logging.Info().Str("dir", dir).Msg("serving editor protocol")
	err = host.Serve(ctx, os.Stdin, os.Stdout, a)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
