// Package glob decides whether an action's filter pattern matches the workspace
// or the active file.
package glob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// errFound stops a walk at the first match.
var errFound = errors.New("glob: match found")

// MatchWorkspace reports whether at least one entry under root matches pattern.
//
// The pattern is evaluated against the real filesystem, dotfiles and
// directories included, so patterns such as ".git" or ".github/**" work even
// when a host hides those paths. Any failure (bad pattern, I/O error,
// cancelled context) yields false together with the error; callers treat it
// as a non-match.
func MatchWorkspace(ctx context.Context, root, pattern string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	if root == "" {
		return false, errors.New("glob: no workspace root")
	}

	pattern = normalizePattern(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return false, fmt.Errorf("glob: %q: %w", pattern, doublestar.ErrBadPattern)
	}

	info, err := os.Stat(root)
	if err != nil {
		return false, fmt.Errorf("glob: stat root: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("glob: root %s is not a directory", root)
	}

	err = doublestar.GlobWalk(os.DirFS(root), pattern, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errFound
	}, doublestar.WithFailOnIOErrors())

	switch {
	case errors.Is(err, errFound):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("glob: walk %q: %w", pattern, err)
	}
	return false, ctx.Err()
}

// MatchFile reports whether relPath, a slash-separated path relative to its
// workspace folder, matches pattern. No filesystem access is performed.
func MatchFile(pattern, relPath string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	pattern = normalizePattern(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return false, fmt.Errorf("glob: %q: %w", pattern, doublestar.ErrBadPattern)
	}
	matched, err := doublestar.Match(pattern, relPath)
	if err != nil {
		return false, fmt.Errorf("glob: %q: %w", pattern, err)
	}
	return matched, nil
}

// RelativePath returns file relative to root using "/" separators.
// When root is empty or file lies outside it, the absolute path is returned
// with separators normalized.
func RelativePath(root, file string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, file); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return toSlash(rel, filepath.Separator)
		}
	}
	return toSlash(file, filepath.Separator)
}

// toSlash rewrites sep, and any backslash left by a foreign host, to "/".
func toSlash(p string, sep rune) string {
	if sep != '/' {
		p = strings.ReplaceAll(p, string(sep), "/")
	}
	return strings.ReplaceAll(p, `\`, "/")
}

// normalizePattern makes a pattern workspace-relative: "./src/*" and
// "/src/*" both become "src/*".
func normalizePattern(pattern string) string {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}
	return strings.TrimLeft(pattern, "/")
}
