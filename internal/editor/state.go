// Package editor models the host editor state the engine depends on:
// workspace folders, the focused editor and the active tab.
package editor

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/telnet2/projactions/internal/variables"
)

// Workspace lists the open workspace folders as absolute paths.
type Workspace struct {
	Folders []string `json:"folders"`
}

// Root returns the first workspace folder, or "" when no workspace is open.
func (w Workspace) Root() string {
	if len(w.Folders) == 0 {
		return ""
	}
	return w.Folders[0]
}

// FolderFor returns the innermost folder containing path, or "".
func (w Workspace) FolderFor(path string) string {
	best := ""
	for _, folder := range w.Folders {
		if !within(folder, path) {
			continue
		}
		if len(folder) > len(best) {
			best = folder
		}
	}
	return best
}

func within(folder, path string) bool {
	rel, err := filepath.Rel(folder, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Document is the resource shown in an editor.
type Document struct {
	Path   string `json:"path"`
	Scheme string `json:"scheme,omitempty"`
}

// IsFile reports whether the document is backed by a file on disk.
func (d Document) IsFile() bool {
	return d.Path != "" && (d.Scheme == "" || d.Scheme == "file")
}

// EditorState is the focused text editor.
type EditorState struct {
	Document  Document `json:"document"`
	Selection string   `json:"selection,omitempty"`
	// Line is the 1-based cursor line, 0 when unknown.
	Line int `json:"line,omitempty"`
}

// TabState is the active tab. Resource is the URI or path of the tab's
// underlying file; empty for tabs that do not show a file.
type TabState struct {
	Resource string `json:"resource,omitempty"`
}

// FileContext is the resolved active file and the workspace folder owning it.
type FileContext struct {
	Path string
	Root string
}

// CurrentFileContext resolves the active file: the focused editor's document
// first, then the active tab's resource. It returns false when neither names
// a file.
func CurrentFileContext(ws Workspace, ed *EditorState, tab *TabState) (FileContext, bool) {
	path := ""
	switch {
	case ed != nil && ed.Document.IsFile():
		path = ed.Document.Path
	case tab != nil:
		path = resourcePath(tab.Resource)
	}
	if path == "" {
		return FileContext{}, false
	}

	path = filepath.Clean(path)
	root := ws.FolderFor(path)
	if root == "" {
		root = ws.Root()
	}
	return FileContext{Path: path, Root: root}, true
}

// resourcePath accepts a plain path or a file:// URI.
func resourcePath(resource string) string {
	if resource == "" {
		return ""
	}
	if !strings.Contains(resource, "://") {
		return resource
	}
	u, err := url.Parse(resource)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

// State is a snapshot of the editor.
type State struct {
	Workspace Workspace
	Editor    *EditorState
	Tab       *TabState
}

// ActiveFile resolves the snapshot's active file.
func (s State) ActiveFile() (FileContext, bool) {
	return CurrentFileContext(s.Workspace, s.Editor, s.Tab)
}

// ExecutionContext captures the variable context for resolving a command.
func (s State) ExecutionContext(cwd string) variables.Context {
	ctx := variables.Context{
		WorkspaceRoot: s.Workspace.Root(),
		Cwd:           cwd,
	}
	if file, ok := s.ActiveFile(); ok {
		ctx.File = file.Path
		if file.Root != "" {
			ctx.WorkspaceRoot = file.Root
		}
	}
	if s.Editor != nil {
		ctx.Selection = s.Editor.Selection
		ctx.Line = s.Editor.Line
	}
	return ctx
}
