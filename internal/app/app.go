// Package app wires the engine together: settings, editor state, the
// reconciler and status bar, the terminal, the file watcher and the event bus.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/telnet2/projactions/internal/config"
	"github.com/telnet2/projactions/internal/editor"
	"github.com/telnet2/projactions/internal/event"
	"github.com/telnet2/projactions/internal/launch"
	"github.com/telnet2/projactions/internal/logging"
	"github.com/telnet2/projactions/internal/reconciler"
	"github.com/telnet2/projactions/internal/statusbar"
	"github.com/telnet2/projactions/internal/terminal"
	"github.com/telnet2/projactions/internal/watcher"
	"github.com/telnet2/projactions/pkg/types"
)

// ErrNoWorkspace is returned by commands that need an open workspace.
var ErrNoWorkspace = errors.New("no workspace folder is open")

// Options configures an App.
type Options struct {
	// Folders are the initial workspace folders.
	Folders []string
	// Terminal receives clicked commands.
	Terminal terminal.Terminal
	// Bar is the status bar to draw on; a new one is created when nil.
	Bar *statusbar.Bar
	// Cwd backs ${cwd} when no workspace is open.
	Cwd string
	// Watch enables file watching of the local config and settings files.
	Watch bool
	// OpenFile shows a file to the user, for the config commands.
	OpenFile func(path string) error
	// OnError reports errors the user should see, such as a broken local
	// config file.
	OnError func(err error)
}

// App is a running projactions instance.
type App struct {
	opts Options

	bus      *event.Bus
	store    *config.Store
	tracker  *editor.Tracker
	bar      *statusbar.Bar
	rec      *reconciler.Reconciler
	launcher *launch.Launcher

	ctx    context.Context
	cancel context.CancelFunc

	// activeFile counts active-file events not yet handled.
	activeFile pending

	mu      sync.Mutex
	watcher *watcher.Watcher
	unsubs  []func()
	closed  bool
}

// New creates an App. Nothing is rendered until Start.
func New(opts Options) (*App, error) {
	if opts.Terminal == nil {
		return nil, errors.New("app: terminal is required")
	}
	if opts.Bar == nil {
		opts.Bar = statusbar.New()
	}
	if opts.OnError == nil {
		opts.OnError = func(err error) {
			logging.Error().Err(err).Msg("projactions")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		opts:    opts,
		bus:     event.NewBus(),
		tracker: editor.NewTracker(opts.Folders...),
		bar:     opts.Bar,
		ctx:     ctx,
		cancel:  cancel,
	}
	a.store = config.NewStore(a.tracker.Snapshot().Workspace.Root())
	a.launcher = &launch.Launcher{
		State:    a.tracker.Snapshot,
		Terminal: opts.Terminal,
		Cwd:      opts.Cwd,
	}
	a.rec = reconciler.New(reconciler.Options{
		Renderer: a.bar,
		Settings: a.store.Current,
		State:    a.tracker.Snapshot,
		OnClick:  a.run,
	})

	a.tracker.OnActiveFileChange(func(file editor.FileContext, _ bool) {
		a.activeFile.add()
		a.bus.Publish(event.Event{Type: event.ActiveFileChanged, Path: file.Path})
	})
	a.unsubs = append(a.unsubs,
		a.bus.Subscribe(event.LocalChanged, a.onLocalChanged),
		a.bus.Subscribe(event.SettingsChanged, a.onSettingsChanged),
		a.bus.Subscribe(event.ActiveFileChanged, a.onActiveFileChanged),
		a.bus.Subscribe(event.ReloadRequested, a.onReloadRequested),
	)
	return a, nil
}

// Start starts file watching, if enabled, and renders the bar.
func (a *App) Start(ctx context.Context) error {
	if a.opts.Watch {
		if err := a.restartWatcher(); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
	}
	a.report(a.rec.Reload(ctx))
	return nil
}

// Reload re-reads everything and rebuilds the bar now. A local config error
// is reported and returned.
func (a *App) Reload(ctx context.Context) error {
	err := a.rec.Reload(ctx)
	a.report(err)
	return err
}

// UpdateActiveFile rebuilds the active-file section now.
func (a *App) UpdateActiveFile(ctx context.Context) error {
	return a.rec.UpdateActiveFile(ctx)
}

// Focus records the focused editor, nil when none has focus, and waits
// until the bar has followed the active file.
func (a *App) Focus(ctx context.Context, ed *editor.EditorState) error {
	a.tracker.Focus(ed)
	return a.settle(ctx)
}

// SetTab records the active tab, nil when none is active, and waits until
// the bar has followed the active file.
func (a *App) SetTab(ctx context.Context, tab *editor.TabState) error {
	a.tracker.SetTab(tab)
	return a.settle(ctx)
}

// settle waits for every pending active-file event to be handled.
func (a *App) settle(ctx context.Context) error {
	select {
	case <-a.activeFile.wait():
		return nil
	case <-a.ctx.Done():
		return a.ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestReload asks for a reload through the event bus and returns at once.
func (a *App) RequestReload(reason string) {
	a.bus.Publish(event.Event{Type: event.ReloadRequested, Reason: reason})
}

// Tracker returns the editor state the host feeds.
func (a *App) Tracker() *editor.Tracker { return a.tracker }

// Bar returns the status bar.
func (a *App) Bar() *statusbar.Bar { return a.bar }

// Bus returns the event bus.
func (a *App) Bus() *event.Bus { return a.bus }

// Settings returns the current merged settings.
func (a *App) Settings() types.Settings { return a.store.Current() }

// SettingsFiles returns the settings files applied by the last load.
func (a *App) SettingsFiles() []string { return a.store.Files() }

// Snapshot returns the rendered section sizes.
func (a *App) Snapshot() reconciler.Sizes { return a.rec.Snapshot() }

// SetFolders replaces the workspace folders. Settings are re-read for the new
// root, the watcher is re-targeted and the bar is rebuilt.
func (a *App) SetFolders(ctx context.Context, folders []string) error {
	a.tracker.SetFolders(folders)
	a.store.SetRoot(a.tracker.Snapshot().Workspace.Root())
	if a.opts.Watch {
		if err := a.restartWatcher(); err != nil {
			return fmt.Errorf("restart watcher: %w", err)
		}
	}
	err := a.Reload(ctx)
	if serr := a.settle(ctx); err == nil {
		err = serr
	}
	return err
}

// CreateLocalConfig writes the template local config file if none exists,
// opens it and reloads. It returns the file path.
func (a *App) CreateLocalConfig(ctx context.Context) (string, error) {
	root := a.tracker.Snapshot().Workspace.Root()
	if root == "" {
		return "", ErrNoWorkspace
	}
	path := config.LocalConfigPath(root, a.store.Current())
	created, err := config.CreateLocalConfig(path)
	if err != nil {
		return "", err
	}
	if created {
		logging.Info().Str("path", path).Msg("created local config from template")
	}
	if err := a.open(path); err != nil {
		return path, err
	}
	if err := a.rec.Reload(ctx); err != nil && !errors.Is(err, reconciler.ErrBusy) {
		a.report(err)
	}
	return path, nil
}

// SettingsFile makes sure the user settings file exists, opens it and
// returns its path.
func (a *App) SettingsFile(scope config.SettingsScope) (string, error) {
	path, err := config.EnsureUserSettings(scope)
	if err != nil {
		return "", err
	}
	return path, a.open(path)
}

// Close disposes the bar, stops every background goroutine and closes the
// terminal.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	w := a.watcher
	a.watcher = nil
	unsubs := a.unsubs
	a.unsubs = nil
	a.mu.Unlock()

	a.cancel()
	for _, unsub := range unsubs {
		unsub()
	}
	var errs []error
	if w != nil {
		errs = append(errs, w.Stop())
	}
	errs = append(errs, a.bus.Close())
	a.rec.Close()
	errs = append(errs, a.opts.Terminal.Close())
	return errors.Join(errs...)
}

func (a *App) run(ctx context.Context, action types.Action) {
	if err := a.launcher.Run(ctx, action); err != nil {
		logging.Warn().Err(err).Msg("failed to send action")
	}
}

func (a *App) open(path string) error {
	if a.opts.OpenFile == nil {
		return nil
	}
	if err := a.opts.OpenFile(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// report passes user-visible errors to OnError. Dropped triggers are not
// errors.
func (a *App) report(err error) {
	if err == nil || errors.Is(err, reconciler.ErrBusy) || errors.Is(err, context.Canceled) {
		return
	}
	a.opts.OnError(err)
}

func (a *App) restartWatcher() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			logging.Warn().Err(err).Msg("failed to stop watcher")
		}
		a.watcher = nil
	}

	root := a.store.Root()
	w, err := watcher.New(watcher.Options{
		Root:          root,
		FileName:      a.store.Current().LocalFileName(),
		SettingsFiles: config.SettingsCandidates(root),
		Bus:           a.bus,
	})
	if err != nil {
		return err
	}
	w.Start()
	a.watcher = w
	return nil
}

func (a *App) onLocalChanged(e event.Event) {
	logging.Debug().Str("path", e.Path).Msg("reloading after local config change")
	a.report(a.rec.Reload(a.ctx))
}

func (a *App) onSettingsChanged(e event.Event) {
	if a.store.Reload() {
		a.mu.Lock()
		if a.watcher != nil {
			a.watcher.SetFileName(a.store.Current().LocalFileName())
		}
		a.mu.Unlock()
	}
	a.report(a.rec.Reload(a.ctx))
}

func (a *App) onActiveFileChanged(e event.Event) {
	defer a.activeFile.done()
	if err := a.rec.UpdateActiveFile(a.ctx); err != nil && !errors.Is(err, reconciler.ErrBusy) && !errors.Is(err, context.Canceled) {
		logging.Warn().Err(err).Msg("active file update failed")
	}
}

func (a *App) onReloadRequested(e event.Event) {
	logging.Debug().Str("reason", e.Reason).Msg("reload requested")
	a.report(a.rec.Reload(a.ctx))
}
