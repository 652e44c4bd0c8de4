package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/telnet2/projactions/internal/logging"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// queueSize bounds the commands waiting to run.
const queueSize = 64

// ShellOptions configures a Shell.
type ShellOptions struct {
	// Dir is the initial working directory, usually the workspace root.
	Dir string
	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
	// EnvFile is an optional dotenv file layered over the process environment.
	EnvFile string
}

type job struct {
	prog *syntax.File
	// barrier is closed when the job is reached, for Drain.
	barrier chan struct{}
}

// Shell is a persistent shell session. Commands run one at a time, in the
// order they were sent, on a background goroutine; state such as the working
// directory and variables carries over between commands like in a terminal.
type Shell struct {
	runner *interp.Runner
	queue  chan job
	quit   chan struct{}
	done   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewShell starts a shell session.
func NewShell(opts ShellOptions) (*Shell, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	env := os.Environ()
	if opts.EnvFile != "" {
		vars, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", opts.EnvFile, err)
		}
		for k, v := range vars {
			env = append(env, k+"="+v)
		}
	}

	runner, err := interp.New(
		interp.StdIO(nil, opts.Stdout, opts.Stderr),
		interp.Env(expand.ListEnviron(env...)),
		interp.Dir(opts.Dir),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Shell{
		runner: runner,
		queue:  make(chan job, queueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go s.loop()
	return s, nil
}

// Send parses text and queues it. Parse errors are returned; the outcome of
// running the command is not.
func (s *Shell) Send(ctx context.Context, text string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(text), "")
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return s.enqueue(ctx, job{prog: prog})
}

// Drain blocks until every command sent before it has finished.
func (s *Shell) Drain(ctx context.Context) error {
	barrier := make(chan struct{})
	if err := s.enqueue(ctx, job{barrier: barrier}); err != nil {
		return err
	}
	select {
	case <-barrier:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session. The running command is cancelled and queued
// commands are discarded.
func (s *Shell) Close() error {
	s.once.Do(func() {
		close(s.quit)
		s.cancel()
	})
	<-s.done
	return nil
}

func (s *Shell) enqueue(ctx context.Context, j job) error {
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}
	select {
	case s.queue <- j:
		return nil
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shell) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case j := <-s.queue:
			if j.barrier != nil {
				close(j.barrier)
				continue
			}
			s.run(j.prog)
		}
	}
}

func (s *Shell) run(prog *syntax.File) {
	if s.runner.Exited() {
		s.runner.Reset()
	}
	err := s.runner.Run(s.ctx, prog)

	var status interp.ExitStatus
	switch {
	case err == nil:
		logging.Debug().Int("status", 0).Msg("command finished")
	case errors.As(err, &status):
		logging.Debug().Int("status", int(status)).Msg("command finished")
	default:
		logging.Debug().Err(err).Msg("command failed")
	}
}
