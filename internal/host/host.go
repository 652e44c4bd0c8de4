// Package host speaks a JSON-lines protocol with an editor: the editor
// reports focus, tab and workspace changes and forwards clicks; every request
// is answered with one response line carrying the current bar.
package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/telnet2/projactions/internal/config"
	"github.com/telnet2/projactions/internal/editor"
	"github.com/telnet2/projactions/internal/logging"
	"github.com/telnet2/projactions/internal/reconciler"
	"github.com/telnet2/projactions/internal/statusbar"
)

// maxLine bounds a single request line.
const maxLine = 1 << 20

// App is what the protocol drives.
type App interface {
	Bar() *statusbar.Bar
	Focus(ctx context.Context, ed *editor.EditorState) error
	SetTab(ctx context.Context, tab *editor.TabState) error
	Reload(ctx context.Context) error
	SetFolders(ctx context.Context, folders []string) error
	CreateLocalConfig(ctx context.Context) (string, error)
	SettingsFile(scope config.SettingsScope) (string, error)
}

// Request is one line from the editor.
type Request struct {
	ID   int    `json:"id,omitempty"`
	Type string `json:"type"`

	// focus
	Path      string `json:"path,omitempty"`
	Scheme    string `json:"scheme,omitempty"`
	Selection string `json:"selection,omitempty"`
	Line      int    `json:"line,omitempty"`
	// tab
	Resource string `json:"resource,omitempty"`
	// folders
	Folders []string `json:"folders,omitempty"`
	// click
	Index *int   `json:"index,omitempty"`
	Label string `json:"label,omitempty"`
	// settings: "global" or "active-file"
	Scope string `json:"scope,omitempty"`
}

// Response answers one request.
type Response struct {
	ID    int    `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	// Path is the file a config command created or opened.
	Path string   `json:"path,omitempty"`
	Bar  []string `json:"bar"`
}

// Server handles requests for one App.
type Server struct {
	app App
	mu  sync.Mutex
	enc *json.Encoder
}

// NewServer creates a server writing responses to w.
func NewServer(app App, w io.Writer) *Server {
	return &Server{app: app, enc: json.NewEncoder(w)}
}

// Serve reads requests from r until EOF or ctx is done. Malformed lines are
// logged and skipped.
func Serve(ctx context.Context, r io.Reader, w io.Writer, app App) error {
	return NewServer(app, w).Serve(ctx, r)
}

// Serve reads requests from r until EOF or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			logging.Warn().Err(err).Msg("skipping malformed request")
			continue
		}
		if err := s.write(s.Handle(ctx, req)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Handle runs one request.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID}
	path, err := s.dispatch(ctx, req)
	if errors.Is(err, reconciler.ErrBusy) {
		err = nil
	}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.OK = true
	}
	resp.Path = path
	resp.Bar = s.app.Bar().Plain()
	return resp
}

func (s *Server) dispatch(ctx context.Context, req Request) (string, error) {
	switch req.Type {
	case "focus":
		return "", s.app.Focus(ctx, &editor.EditorState{
			Document:  editor.Document{Path: req.Path, Scheme: req.Scheme},
			Selection: req.Selection,
			Line:      req.Line,
		})
	case "blur":
		return "", s.app.Focus(ctx, nil)
	case "tab":
		if req.Resource == "" {
			return "", s.app.SetTab(ctx, nil)
		}
		return "", s.app.SetTab(ctx, &editor.TabState{Resource: req.Resource})
	case "folders":
		return "", s.app.SetFolders(ctx, req.Folders)
	case "reload":
		return "", s.app.Reload(ctx)
	case "bar":
		return "", nil
	case "click":
		bar := s.app.Bar()
		if req.Index != nil {
			return "", bar.Click(ctx, *req.Index)
		}
		if req.Label != "" {
			return "", bar.ClickLabel(ctx, req.Label)
		}
		return "", errors.New("click needs an index or a label")
	case "init":
		return s.app.CreateLocalConfig(ctx)
	case "settings":
		scope, err := ParseScope(req.Scope)
		if err != nil {
			return "", err
		}
		return s.app.SettingsFile(scope)
	default:
		return "", fmt.Errorf("unknown request type %q", req.Type)
	}
}

func (s *Server) write(resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(resp)
}

// ParseScope maps "global" and "active-file" to a settings scope.
func ParseScope(name string) (config.SettingsScope, error) {
	switch name {
	case "", "global", string(config.ScopeGlobal):
		return config.ScopeGlobal, nil
	case "active-file", "activeFile", string(config.ScopeActiveFile):
		return config.ScopeActiveFile, nil
	default:
		return "", fmt.Errorf("unknown settings scope %q", name)
	}
}
