package commands

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/telnet2/projactions/internal/terminal"
)

var (
	runEditor  editorFlags
	runDryRun  bool
	runEnvFile string
)

var runCmd = &cobra.Command{
	Use:   "run <label|index>",
	Short: "Click a button",
	Long: `Click a button of the bar by label or by the index shown by
'projactions list'. The command runs in a shell session rooted at the
workspace folder; --dry-run prints the resolved command instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runEditor.file, "file", "f", "", "Active file")
	runCmd.Flags().StringVar(&runEditor.selection, "selection", "", "Selected text")
	runCmd.Flags().IntVar(&runEditor.line, "line", 0, "Cursor line (1-based)")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "Print the command instead of running it")
	runCmd.Flags().StringVar(&runEnvFile, "env-file", "", "Dotenv file to add to the shell environment")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, err := GetWorkDir()
	if err != nil {
		return err
	}

	var term terminal.Terminal
	var shell *terminal.Shell
	if runDryRun {
		term = terminal.NewWriter(os.Stdout)
	} else {
		shell, err = terminal.NewShell(terminal.ShellOptions{Dir: dir, EnvFile: runEnvFile})
		if err != nil {
			return err
		}
		term = shell
	}

	a, err := startApp(ctx, term, false, runEditor)
	if err != nil {
		term.Close()
		return err
	}
	defer a.Close()

	if index, perr := strconv.Atoi(args[0]); perr == nil {
		err = a.Bar().Click(ctx, index)
	} else {
		err = a.Bar().ClickLabel(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if shell != nil {
		return shell.Drain(ctx)
	}
	return nil
}
