package editor

import "sync"

// Tracker holds the live editor state fed by the host and notifies when the
// active file changes.
type Tracker struct {
	mu    sync.RWMutex
	state State

	onActiveFile func(FileContext, bool)
}

// NewTracker creates a tracker for the given workspace folders.
func NewTracker(folders ...string) *Tracker {
	return &Tracker{state: State{Workspace: Workspace{Folders: folders}}}
}

// OnActiveFileChange registers fn to be called after the active file changes.
func (t *Tracker) OnActiveFileChange(fn func(file FileContext, ok bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onActiveFile = fn
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := State{Workspace: Workspace{Folders: append([]string(nil), t.state.Workspace.Folders...)}}
	if t.state.Editor != nil {
		ed := *t.state.Editor
		s.Editor = &ed
	}
	if t.state.Tab != nil {
		tab := *t.state.Tab
		s.Tab = &tab
	}
	return s
}

// Focus records the focused editor; nil means no text editor has focus.
func (t *Tracker) Focus(ed *EditorState) {
	t.update(func(s *State) {
		if ed == nil {
			s.Editor = nil
			return
		}
		copied := *ed
		s.Editor = &copied
	})
}

// SetTab records the active tab; nil means no tab is active.
func (t *Tracker) SetTab(tab *TabState) {
	t.update(func(s *State) {
		if tab == nil {
			s.Tab = nil
			return
		}
		copied := *tab
		s.Tab = &copied
	})
}

// SetFolders replaces the workspace folders.
func (t *Tracker) SetFolders(folders []string) {
	t.update(func(s *State) {
		s.Workspace.Folders = append([]string(nil), folders...)
	})
}

func (t *Tracker) update(mutate func(*State)) {
	t.mu.Lock()
	before, hadBefore := t.state.ActiveFile()
	mutate(&t.state)
	after, hasAfter := t.state.ActiveFile()
	fn := t.onActiveFile
	t.mu.Unlock()

	if fn != nil && (before != after || hadBefore != hasAfter) {
		fn(after, hasAfter)
	}
}
