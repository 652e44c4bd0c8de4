// Package terminal provides the terminals clicked commands are sent to.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("terminal: closed")

// Terminal accepts command lines. Send returns once the line is handed over;
// it never waits for the command to finish or reports its exit status.
type Terminal interface {
	Send(ctx context.Context, text string) error
	Close() error
}

// Writer is a Terminal that writes each command line to an io.Writer,
// for dry runs and for hosts that read commands from a pipe.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (t *Writer) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if _, err := fmt.Fprintln(t.w, text); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

func (t *Writer) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}
