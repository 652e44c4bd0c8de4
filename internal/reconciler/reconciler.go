// Package reconciler keeps the rendered bar in sync with the configured
// actions.
//
// The bar has three sections, left to right: active-file actions, local
// actions and global actions, with a separator between adjacent non-empty
// groups. A full reload rebuilds the local and global sections and then runs
// the active-file pass; the active-file pass also runs on its own whenever the
// active file changes. Each pass is latched: a trigger that arrives while the
// same pass is in flight is dropped with ErrBusy rather than queued.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/telnet2/projactions/internal/editor"
	"github.com/telnet2/projactions/internal/logging"
	"github.com/telnet2/projactions/internal/source"
	"github.com/telnet2/projactions/pkg/types"
	"golang.org/x/sync/errgroup"
)

// ErrBusy is returned when a pass is already in flight and the trigger was dropped.
var ErrBusy = errors.New("reconciler: pass already in flight")

// Priority bands. Items in a section count down from the band's base.
const (
	bandActiveFile        = 3_000_000
	priorityActiveFileSep = 2_500_000
	bandLocal             = 2_000_000
	priorityGlobalSep     = 1_500_000
	bandGlobal            = 1_000_000
)

// SeparatorText is the label of separator items.
const SeparatorText = "|"

type phase int32

const (
	phaseIdle phase = iota
	phaseReloading
	phaseUpdatingActiveFile
)

// Options configures a Reconciler.
type Options struct {
	Renderer Renderer
	// Settings returns the current settings; called once per pass.
	Settings func() types.Settings
	// State returns the current editor state; called once per pass.
	State func() editor.State
	// OnClick runs when a rendered action is clicked.
	OnClick func(ctx context.Context, action types.Action)
}

type rendered struct {
	action  types.Action
	item    Disposable
	command Disposable
}

func (r rendered) dispose() {
	r.item.Dispose()
	r.command.Dispose()
}

// Reconciler exclusively owns every rendered item and separator.
type Reconciler struct {
	opts Options

	reload atomic.Int32
	active atomic.Int32

	mu         sync.Mutex
	closed     bool
	local      []rendered
	global     []rendered
	activeFile []rendered
	globalSep  Disposable
	activeSep  Disposable
}

// New creates a reconciler. Nothing is rendered until Reload is called.
func New(opts Options) *Reconciler {
	if opts.Settings == nil {
		opts.Settings = func() types.Settings { return types.Settings{} }
	}
	if opts.State == nil {
		opts.State = func() editor.State { return editor.State{} }
	}
	if opts.OnClick == nil {
		opts.OnClick = func(context.Context, types.Action) {}
	}
	return &Reconciler{opts: opts}
}

// Reload rebuilds the local and global sections, then runs the active-file
// pass. It returns ErrBusy if a reload is already running, and otherwise the
// local config load error, if any, once the pass has completed.
func (r *Reconciler) Reload(ctx context.Context) error {
	if !r.reload.CompareAndSwap(int32(phaseIdle), int32(phaseReloading)) {
		logging.Debug().Msg("reload already in flight, dropping trigger")
		return ErrBusy
	}
	defer r.reload.Store(int32(phaseIdle))

	r.mu.Lock()
	disposeAll(r.local)
	disposeAll(r.global)
	r.local, r.global = nil, nil
	r.globalSep = disposeSeparator(r.globalSep)
	r.mu.Unlock()

	settings := r.opts.Settings()
	root := r.opts.State().Workspace.Root()

	var localActions, globalActions []types.Action
	var localErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		localActions, localErr = source.Local(root, settings.LocalFileName())
		return nil
	})
	g.Go(func() error {
		globalActions = source.Global(gctx, root, settings.GlobalActions)
		return nil
	})
	_ = g.Wait()

	if localErr != nil {
		logging.Warn().Err(localErr).Msg("local config could not be loaded")
	}

	r.mu.Lock()
	if !r.closed {
		r.local = r.build(localActions, bandLocal)
		r.global = r.build(globalActions, bandGlobal)
		if len(r.local) > 0 && len(r.global) > 0 {
			r.globalSep = r.separator(priorityGlobalSep)
		}
	}
	r.mu.Unlock()

	logging.Debug().
		Int("local", len(localActions)).
		Int("global", len(globalActions)).
		Msg("reloaded sections")

	if err := r.UpdateActiveFile(ctx); errors.Is(err, ErrBusy) {
		// The running active-file pass may have sized its separator before
		// this reload finished.
		r.mu.Lock()
		r.syncActiveSeparator()
		r.mu.Unlock()
	}
	return localErr
}

// UpdateActiveFile rebuilds the active-file section for the current active
// file. With no workspace or no active file the section is left empty.
//
// A call made while another active-file pass runs, including the one Reload
// starts, returns ErrBusy without waiting. The running pass may have read the
// editor state before the change that triggered the dropped call, so the
// section can show the previous file until the next trigger.
func (r *Reconciler) UpdateActiveFile(ctx context.Context) error {
	if !r.active.CompareAndSwap(int32(phaseIdle), int32(phaseUpdatingActiveFile)) {
		logging.Debug().Msg("active file update already in flight, dropping trigger")
		return ErrBusy
	}
	defer r.active.Store(int32(phaseIdle))

	r.mu.Lock()
	disposeAll(r.activeFile)
	r.activeFile = nil
	r.activeSep = disposeSeparator(r.activeSep)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	state := r.opts.State()
	if state.Workspace.Root() == "" {
		return nil
	}
	file, ok := state.ActiveFile()
	if !ok {
		return nil
	}
	actions := source.ActiveFile(file, r.opts.Settings().ActiveFileActions)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.activeFile = r.build(actions, bandActiveFile)
	r.syncActiveSeparator()
	return nil
}

// Close disposes every rendered item. Later passes render nothing.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	disposeAll(r.activeFile)
	disposeAll(r.local)
	disposeAll(r.global)
	r.activeFile, r.local, r.global = nil, nil, nil
	r.activeSep = disposeSeparator(r.activeSep)
	r.globalSep = disposeSeparator(r.globalSep)
}

// Sizes reports what is currently rendered.
type Sizes struct {
	ActiveFile      int
	Local           int
	Global          int
	ActiveSeparator bool
	GlobalSeparator bool
}

// Snapshot returns the current section sizes.
func (r *Reconciler) Snapshot() Sizes {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Sizes{
		ActiveFile:      len(r.activeFile),
		Local:           len(r.local),
		Global:          len(r.global),
		ActiveSeparator: r.activeSep != nil,
		GlobalSeparator: r.globalSep != nil,
	}
}

// syncActiveSeparator shows the active-file separator iff the active-file
// section and at least one other section are non-empty. Caller holds r.mu.
func (r *Reconciler) syncActiveSeparator() {
	if r.closed {
		return
	}
	want := len(r.activeFile) > 0 && (len(r.local) > 0 || len(r.global) > 0)
	switch {
	case want && r.activeSep == nil:
		r.activeSep = r.separator(priorityActiveFileSep)
	case !want && r.activeSep != nil:
		r.activeSep = disposeSeparator(r.activeSep)
	}
}

// build renders actions in declaration order with strictly decreasing
// priorities from base. Caller holds r.mu.
func (r *Reconciler) build(actions []types.Action, base int) []rendered {
	out := make([]rendered, 0, len(actions))
	for i, a := range actions {
		id := ulid.Make().String()
		commandID := "projactions.run." + id

		command, err := r.opts.Renderer.RegisterCommand(commandID, func(ctx context.Context) {
			r.opts.OnClick(ctx, a)
		})
		if err != nil {
			logging.Error().Err(err).Str("label", a.Label).Msg("failed to register action command")
			continue
		}
		item, err := r.opts.Renderer.CreateItem(Item{
			ID:       "projactions.item." + id,
			Text:     a.Label,
			Tooltip:  a.EffectiveTooltip(),
			Color:    a.Color,
			Command:  commandID,
			Priority: base - i,
		})
		if err != nil {
			command.Dispose()
			logging.Error().Err(err).Str("label", a.Label).Msg("failed to create bar item")
			continue
		}
		out = append(out, rendered{action: a, item: item, command: command})
	}
	return out
}

// separator renders a separator item. Caller holds r.mu.
func (r *Reconciler) separator(priority int) Disposable {
	item, err := r.opts.Renderer.CreateItem(Item{
		ID:        "projactions.separator." + ulid.Make().String(),
		Text:      SeparatorText,
		Priority:  priority,
		Separator: true,
	})
	if err != nil {
		logging.Error().Err(err).Msg("failed to create separator")
		return nil
	}
	return item
}

func disposeAll(items []rendered) {
	for _, it := range items {
		it.dispose()
	}
}

func disposeSeparator(d Disposable) Disposable {
	if d != nil {
		d.Dispose()
	}
	return nil
}
