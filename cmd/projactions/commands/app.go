package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/telnet2/projactions/internal/app"
	"github.com/telnet2/projactions/internal/editor"
	"github.com/telnet2/projactions/internal/terminal"
)

// editorFlags describe the editor state a command runs against.
type editorFlags struct {
	file      string
	selection string
	line      int
}

func (f editorFlags) state() *editor.EditorState {
	if f.file == "" {
		return nil
	}
	path, err := filepath.Abs(f.file)
	if err != nil {
		path = f.file
	}
	return &editor.EditorState{
		Document:  editor.Document{Path: path},
		Selection: f.selection,
		Line:      f.line,
	}
}

// startApp creates and starts an App for the workspace folder.
func startApp(ctx context.Context, term terminal.Terminal, watch bool, ef editorFlags) (*app.App, error) {
	dir, err := GetWorkDir()
	if err != nil {
		return nil, err
	}
	cwd, _ := os.Getwd()

	a, err := app.New(app.Options{
		Folders:  []string{dir},
		Terminal: term,
		Cwd:      cwd,
		Watch:    watch,
		OpenFile: openInEditor,
		OnError: func(err error) {
			fmt.Fprintln(os.Stderr, "projactions:", err)
		},
	})
	if err != nil {
		return nil, err
	}
	if err := a.Start(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if ed := ef.state(); ed != nil {
		if err := a.Focus(ctx, ed); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// openInEditor opens path in $VISUAL or $EDITOR, or prints it when neither
// is set.
func openInEditor(path string) error {
	editorCmd := os.Getenv("VISUAL")
	if editorCmd == "" {
		editorCmd = os.Getenv("EDITOR")
	}
	if editorCmd == "" {
		fmt.Println(path)
		return nil
	}

	fields := strings.Fields(editorCmd)
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with %d", fields[0], exitErr.ExitCode())
		}
		return err
	}
	return nil
}
