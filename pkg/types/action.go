package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is a single button definition: a label and the shell command it sends.
type Action struct {
	// Label is the display text. May embed icon tokens such as "$(play)".
	Label string `json:"label"`
	// Command is the raw command template; may contain ${...} placeholders.
	Command string `json:"command"`
	Tooltip string `json:"tooltip,omitempty"`
	Color   string `json:"color,omitempty"`
	// Filter is a glob. Only meaningful for global and active-file actions;
	// empty means always visible.
	Filter string `json:"filter,omitempty"`
}

// EffectiveTooltip returns the tooltip, falling back to the command.
func (a Action) EffectiveTooltip() string {
	if a.Tooltip != "" {
		return a.Tooltip
	}
	return a.Command
}

// IsValid reports whether the action has both a label and a command.
// Whitespace-only values count as empty.
func IsValid(a Action) bool {
	return strings.TrimSpace(a.Label) != "" && strings.TrimSpace(a.Command) != ""
}

// InvalidActionError describes an entry that was dropped while decoding.
type InvalidActionError struct {
	Index  int
	Reason string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("action %d: %s", e.Index, e.Reason)
}

// DecodeAction decodes a single loosely-typed entry. Both "text" and "label"
// name the label; "label" wins when both are present. Fields holding
// non-string values are treated as absent.
func DecodeAction(raw json.RawMessage) (Action, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Action{}, fmt.Errorf("entry is not an object: %w", err)
	}
	if fields == nil {
		return Action{}, fmt.Errorf("entry is null")
	}

	str := func(key string) string {
		if s, ok := fields[key].(string); ok {
			return s
		}
		return ""
	}

	a := Action{
		Label:   str("text"),
		Command: str("command"),
		Tooltip: str("tooltip"),
		Color:   str("color"),
		Filter:  str("filter"),
	}
	if label := str("label"); label != "" {
		a.Label = label
	}
	return a, nil
}

// DecodeActions decodes an array of action entries.
//
// Entries that are malformed or fail IsValid are skipped and reported in
// dropped; they never fail the whole list. A value that is not an array
// (or is absent) returns a *LoadError of kind ErrShape. An empty raw
// value decodes to an empty list.
func DecodeActions(raw json.RawMessage) (actions []Action, dropped []error, err error) {
	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, &LoadError{Kind: ErrShape, Err: fmt.Errorf("actions must be an array: %w", err)}
	}

	for i, entry := range entries {
		a, decodeErr := DecodeAction(entry)
		if decodeErr != nil {
			dropped = append(dropped, &InvalidActionError{Index: i, Reason: decodeErr.Error()})
			continue
		}
		if !IsValid(a) {
			dropped = append(dropped, &InvalidActionError{Index: i, Reason: "missing label or command"})
			continue
		}
		actions = append(actions, a)
	}
	return actions, dropped, nil
}
