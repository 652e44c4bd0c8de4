// Package source loads candidate actions for each section of the bar: the
// local config file, the global settings list and the active-file settings list.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/telnet2/projactions/internal/editor"
	"github.com/telnet2/projactions/internal/glob"
	"github.com/telnet2/projactions/internal/logging"
	"github.com/telnet2/projactions/pkg/types"
	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"
)

// maxParallelFilters bounds concurrent filesystem walks for global filters.
const maxParallelFilters = 8

// Local reads the local config file from the workspace root.
//
// A missing file (or no workspace) yields no actions and no error. A file
// that cannot be read or parsed, or whose "actions" value is not an array,
// yields no actions and a *types.LoadError.
func Local(root, fileName string) ([]types.Action, error) {
	if root == "" {
		return nil, nil
	}
	path := filepath.Join(root, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &types.LoadError{Kind: types.ErrRead, Path: path, Err: err}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &types.LoadError{Kind: types.ErrShape, Path: path, Err: fmt.Errorf("config must be an object")}
		}
		return nil, &types.LoadError{Kind: types.ErrParse, Path: path, Err: err}
	}

	raw, ok := doc["actions"]
	if !ok || string(raw) == "null" {
		return nil, &types.LoadError{Kind: types.ErrShape, Path: path, Err: fmt.Errorf(`"actions" must be an array`)}
	}

	actions, dropped, err := types.DecodeActions(raw)
	if err != nil {
		var loadErr *types.LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	logDropped("local", dropped)
	return actions, nil
}

// Global decodes the globalActions setting and keeps the entries whose filter
// matches at least one path in the workspace. Filters are evaluated
// concurrently; declaration order is preserved. A filter that fails to
// evaluate removes only its own entry. Without a workspace the section is
// empty.
func Global(ctx context.Context, root string, raw json.RawMessage) []types.Action {
	if root == "" {
		return nil
	}
	candidates := decode("global", raw)
	if len(candidates) == 0 {
		return nil
	}

	keep := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFilters)
	for i, a := range candidates {
		if a.Filter == "" {
			keep[i] = true
			continue
		}
		g.Go(func() error {
			matched, err := glob.MatchWorkspace(gctx, root, a.Filter)
			if err != nil {
				logging.Warn().Err(err).Str("label", a.Label).Str("filter", a.Filter).Msg("global filter failed")
				return nil
			}
			keep[i] = matched
			return nil
		})
	}
	_ = g.Wait()

	return selectKept(candidates, keep)
}

// ActiveFile decodes the activeFileActions setting and keeps the entries
// whose filter matches the active file's workspace-relative path.
func ActiveFile(file editor.FileContext, raw json.RawMessage) []types.Action {
	candidates := decode("activeFile", raw)
	if len(candidates) == 0 {
		return nil
	}

	rel := glob.RelativePath(file.Root, file.Path)
	keep := make([]bool, len(candidates))
	for i, a := range candidates {
		matched, err := glob.MatchFile(a.Filter, rel)
		if err != nil {
			logging.Warn().Err(err).Str("label", a.Label).Str("filter", a.Filter).Msg("active file filter failed")
			continue
		}
		keep[i] = matched
	}
	return selectKept(candidates, keep)
}

func decode(section string, raw json.RawMessage) []types.Action {
	actions, dropped, err := types.DecodeActions(raw)
	if err != nil {
		logging.Warn().Err(err).Str("section", section).Msg("ignoring settings value")
		return nil
	}
	logDropped(section, dropped)
	return actions
}

func selectKept(actions []types.Action, keep []bool) []types.Action {
	var out []types.Action
	for i, a := range actions {
		if keep[i] {
			out = append(out, a)
		}
	}
	return out
}

func logDropped(section string, dropped []error) {
	for _, err := range dropped {
		logging.Warn().Err(err).Str("section", section).Msg("dropping invalid action")
	}
}
