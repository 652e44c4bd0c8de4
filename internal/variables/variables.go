// Package variables substitutes ${...} placeholders in action commands.
package variables

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Context is the editor state a command is resolved against. It is captured
// fresh for every resolution and never stored.
type Context struct {
	// WorkspaceRoot is the absolute path of the workspace folder, if any.
	WorkspaceRoot string
	// File is the absolute path of the active file, if any.
	File string
	// Selection is the selected text in the active editor.
	Selection string
	// Line is the 1-based line of the cursor; 0 when there is no cursor.
	Line int
	// Cwd is the process working directory, used by ${cwd} without a workspace.
	Cwd string
}

type lookup func(Context) (string, bool)

var vocabulary = map[string]lookup{
	"workspaceFolder": func(c Context) (string, bool) {
		return c.WorkspaceRoot, c.WorkspaceRoot != ""
	},
	"workspaceFolderBasename": func(c Context) (string, bool) {
		return filepath.Base(c.WorkspaceRoot), c.WorkspaceRoot != ""
	},
	"file": func(c Context) (string, bool) {
		return c.File, c.File != ""
	},
	"fileBasename": func(c Context) (string, bool) {
		return filepath.Base(c.File), c.File != ""
	},
	"fileBasenameNoExtension": func(c Context) (string, bool) {
		base := filepath.Base(c.File)
		return strings.TrimSuffix(base, extname(base)), c.File != ""
	},
	"fileExtname": func(c Context) (string, bool) {
		return extname(filepath.Base(c.File)), c.File != ""
	},
	"fileDirname": func(c Context) (string, bool) {
		return filepath.Dir(c.File), c.File != ""
	},
	"relativeFile": func(c Context) (string, bool) {
		return relative(c.WorkspaceRoot, c.File)
	},
	"relativeFileDirname": func(c Context) (string, bool) {
		rel, ok := relative(c.WorkspaceRoot, c.File)
		if !ok {
			return "", false
		}
		return filepath.Dir(rel), true
	},
	"selectedText": func(c Context) (string, bool) {
		return c.Selection, c.Selection != ""
	},
	"lineNumber": func(c Context) (string, bool) {
		return strconv.Itoa(c.Line), c.Line > 0
	},
	"cwd": func(c Context) (string, bool) {
		if c.WorkspaceRoot != "" {
			return c.WorkspaceRoot, true
		}
		return c.Cwd, c.Cwd != ""
	},
}

func relative(root, file string) (string, bool) {
	if root == "" || file == "" {
		return "", false
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// extname is the extension of a base name. A leading dot belongs to the
// name, so ".env" has none.
func extname(base string) string {
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[i:]
	}
	return ""
}

// Names returns the recognized placeholder names.
func Names() []string {
	return []string{
		"workspaceFolder",
		"workspaceFolderBasename",
		"file",
		"fileBasename",
		"fileBasenameNoExtension",
		"fileExtname",
		"fileDirname",
		"relativeFile",
		"relativeFileDirname",
		"selectedText",
		"lineNumber",
		"cwd",
	}
}

// Resolve replaces every recognized placeholder in command with its value.
//
// The command is scanned once, left to right. Unknown placeholders and
// placeholders whose context is missing are copied verbatim; substituted
// values are never scanned again.
func Resolve(command string, ctx Context) string {
	if !strings.Contains(command, "${") {
		return command
	}

	var sb strings.Builder
	sb.Grow(len(command))

	rest := command
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			sb.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			sb.WriteString(rest)
			break
		}
		end += start + 2
		// "${a${file}" resolves the innermost token.
		if inner := strings.LastIndex(rest[start+2:end], "${"); inner >= 0 {
			start += 2 + inner
		}

		sb.WriteString(rest[:start])
		token := rest[start : end+1]
		if fn, ok := vocabulary[rest[start+2:end]]; ok {
			if value, ok := fn(ctx); ok {
				token = value
			}
		}
		sb.WriteString(token)
		rest = rest[end+1:]
	}
	return sb.String()
}
