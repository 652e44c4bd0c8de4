// Package commands provides the CLI commands for projactions.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/telnet2/projactions/internal/config"
	"github.com/telnet2/projactions/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
	workDir   string
)

var logCloser io.Closer

var rootCmd = &cobra.Command{
	Use:   "projactions",
	Short: "Project action buttons for your editor's status bar",
	Long: `projactions turns labeled shell commands declared in a project's
.project-actions.json and in your settings into an ordered bar of buttons.
Clicking a button sends its command, with ${...} placeholders resolved, to a
terminal.

Run 'projactions list' to see the bar for a directory, 'projactions run' to
click a button, or 'projactions watch' to drive the bar from an editor.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Workspace folder (default: current directory)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("projactions %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(debugCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(logLevel)
	if printLogs {
		cfg.Pretty = true
	} else {
		cfg.File = config.GetPaths().LogPath()
	}

	closer, err := logging.Init(cfg)
	if err != nil {
		// Log to stderr instead.
		logging.Init(logging.Config{Level: cfg.Level, Output: os.Stderr, Pretty: true})
		logging.Warn().Err(err).Str("file", cfg.File).Msg("cannot open log file")
		return nil
	}
	logCloser = closer
	return nil
}

// GetWorkDir returns the absolute workspace folder from the flag or the
// current directory.
func GetWorkDir() (string, error) {
	dir := workDir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return filepath.Abs(dir)
}
