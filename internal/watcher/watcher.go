// Package watcher turns file system changes to the local config file and the
// settings files into bus events.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/telnet2/projactions/internal/event"
	"github.com/telnet2/projactions/internal/logging"
)

// Options configures a Watcher.
type Options struct {
	// Root is the workspace root; empty disables local config watching.
	Root string
	// FileName is the local config file name relative to Root.
	FileName string
	// SettingsFiles are settings files to watch; they need not exist yet.
	SettingsFiles []string
	Bus           *event.Bus
}

// Watcher watches the directories holding the local config file and the
// settings files. Directories are watched rather than files so that files
// created or replaced by editors are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	bus     *event.Bus
	root    string

	mu       sync.RWMutex
	fileName string
	settings map[string]bool
	dirs     map[string]bool

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// New creates a watcher. Directories that do not exist are skipped.
func New(opts Options) (*Watcher, error) {
	if opts.Bus == nil {
		return nil, errors.New("watcher: bus is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		bus:      opts.Bus,
		fileName: opts.FileName,
		settings: make(map[string]bool),
		dirs:     make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if opts.Root != "" {
		w.root = filepath.Clean(opts.Root)
		w.addDir(w.root)
		w.addLocalDir()
	}
	for _, f := range opts.SettingsFiles {
		f = filepath.Clean(f)
		w.settings[f] = true
		w.addDir(filepath.Dir(f))
	}
	logging.Debug().Str("root", w.root).Int("dirs", len(w.dirs)).Msg("file watcher initialized")
	return w, nil
}

// addLocalDir watches the directory of a nested local config file name.
func (w *Watcher) addLocalDir() {
	if w.root != "" && w.fileName != "" {
		w.addDir(filepath.Dir(filepath.Join(w.root, w.fileName)))
	}
}

func (w *Watcher) addDir(dir string) {
	if w.dirs[dir] {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		logging.Debug().Str("dir", dir).Msg("not watching missing directory")
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		logging.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
		return
	}
	w.dirs[dir] = true
}

// SetFileName re-targets local config watching to a new file name.
func (w *Watcher) SetFileName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if name != w.fileName {
		logging.Info().Str("from", w.fileName).Str("to", name).Msg("local config file name changed")
		w.fileName = name
		w.addLocalDir()
	}
}

// Start begins watching.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error().Err(err).Msg("file watcher error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	name := filepath.Clean(ev.Name)

	w.mu.RLock()
	isLocal := w.root != "" && w.fileName != "" && name == filepath.Join(w.root, w.fileName)
	isSettings := w.settings[name]
	w.mu.RUnlock()

	switch {
	case isLocal:
		logging.Debug().Str("path", name).Str("op", ev.Op.String()).Msg("local config changed")
		w.bus.Publish(event.Event{Type: event.LocalChanged, Path: name})
	case isSettings:
		logging.Debug().Str("path", name).Str("op", ev.Op.String()).Msg("settings changed")
		w.bus.Publish(event.Event{Type: event.SettingsChanged, Path: name})
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}

	return w.watcher.Close()
}
