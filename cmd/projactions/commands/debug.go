package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/telnet2/projactions/internal/config"
	"github.com/telnet2/projactions/internal/variables"
	"gopkg.in/yaml.v3"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debug utilities",
	Long:  `Debug utilities for troubleshooting settings and placeholders.`,
}

var debugSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the merged settings",
	Args:  cobra.NoArgs,
	RunE:  runDebugSettings,
}

var debugPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show system paths",
	Args:  cobra.NoArgs,
	RunE:  runDebugPaths,
}

var debugVarsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List the ${...} placeholders commands may use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range variables.Names() {
			fmt.Printf("${%s}\n", name)
		}
	},
}

var debugResolveCmd = &cobra.Command{
	Use:   "resolve <command>",
	Short: "Resolve placeholders in a command",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebugResolve,
}

var (
	debugYAML   bool
	debugEditor editorFlags
)

func init() {
	debugSettingsCmd.Flags().BoolVar(&debugYAML, "yaml", false, "Output YAML instead of JSON")
	debugResolveCmd.Flags().StringVarP(&debugEditor.file, "file", "f", "", "Active file")
	debugResolveCmd.Flags().StringVar(&debugEditor.selection, "selection", "", "Selected text")
	debugResolveCmd.Flags().IntVar(&debugEditor.line, "line", 0, "Cursor line (1-based)")

	debugCmd.AddCommand(debugSettingsCmd)
	debugCmd.AddCommand(debugPathsCmd)
	debugCmd.AddCommand(debugVarsCmd)
	debugCmd.AddCommand(debugResolveCmd)
}

type settingsReport struct {
	Files             []string `json:"files" yaml:"files"`
	ConfigFileName    string   `json:"configFileName" yaml:"configFileName"`
	GlobalActions     any      `json:"globalActions,omitempty" yaml:"globalActions,omitempty"`
	ActiveFileActions any      `json:"activeFileActions,omitempty" yaml:"activeFileActions,omitempty"`
}

func runDebugSettings(cmd *cobra.Command, args []string) error {
	dir, err := GetWorkDir()
	if err != nil {
		return err
	}
	settings, files := config.Load(dir)

	report := settingsReport{
		Files:          files,
		ConfigFileName: settings.LocalFileName(),
	}
	if report.GlobalActions, err = decodeRaw(settings.GlobalActions); err != nil {
		return fmt.Errorf("globalActions: %w", err)
	}
	if report.ActiveFileActions, err = decodeRaw(settings.ActiveFileActions); err != nil {
		return fmt.Errorf("activeFileActions: %w", err)
	}

	if debugYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(report)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func decodeRaw(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func runDebugPaths(cmd *cobra.Command, args []string) error {
	paths := config.GetPaths()
	dir, err := GetWorkDir()
	if err != nil {
		return err
	}
	settings, _ := config.Load(dir)

	fmt.Println("projactions paths:")
	fmt.Println()
	fmt.Printf("  Config:     %s\n", paths.Config)
	fmt.Printf("  State:      %s\n", paths.State)
	fmt.Printf("  Settings:   %s\n", paths.UserSettingsPath())
	fmt.Printf("  Log:        %s\n", paths.LogPath())
	fmt.Println()
	fmt.Println("Workspace:")
	fmt.Printf("  Folder:     %s\n", dir)
	fmt.Printf("  Settings:   %s\n", config.WorkspaceSettingsPath(dir))
	fmt.Printf("  Local:      %s\n", config.LocalConfigPath(dir, settings))
	if env := os.Getenv(config.EnvSettingsFile); env != "" {
		fmt.Printf("  %s: %s\n", config.EnvSettingsFile, env)
	}
	return nil
}

func runDebugResolve(cmd *cobra.Command, args []string) error {
	dir, err := GetWorkDir()
	if err != nil {
		return err
	}
	cwd, _ := os.Getwd()

	ctx := variables.Context{WorkspaceRoot: dir, Cwd: cwd, Line: debugEditor.line, Selection: debugEditor.selection}
	if ed := debugEditor.state(); ed != nil {
		ctx.File = ed.Document.Path
	}
	fmt.Println(variables.Resolve(args[0], ctx))
	return nil
}
