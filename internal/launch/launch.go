// Package launch runs a clicked action: it resolves the command against the
// editor state at click time and sends it to the terminal.
package launch

import (
	"context"
	"fmt"

	"github.com/telnet2/projactions/internal/editor"
	"github.com/telnet2/projactions/internal/logging"
	"github.com/telnet2/projactions/internal/terminal"
	"github.com/telnet2/projactions/internal/variables"
	"github.com/telnet2/projactions/pkg/types"
)

// Launcher sends resolved action commands to a terminal.
type Launcher struct {
	// State returns the editor state at the moment of the click.
	State    func() editor.State
	Terminal terminal.Terminal
	// Cwd backs ${cwd} when no workspace is open.
	Cwd string
}

// Resolve returns the command line the action would send now.
func (l *Launcher) Resolve(action types.Action) string {
	var state editor.State
	if l.State != nil {
		state = l.State()
	}
	return variables.Resolve(action.Command, state.ExecutionContext(l.Cwd))
}

// Run resolves the action and sends it. It does not wait for the command or
// retry a failed send.
func (l *Launcher) Run(ctx context.Context, action types.Action) error {
	line := l.Resolve(action)
	logging.Debug().Str("label", action.Label).Str("command", line).Msg("sending action to terminal")
	if err := l.Terminal.Send(ctx, line); err != nil {
		return fmt.Errorf("run %q: %w", action.Label, err)
	}
	return nil
}
