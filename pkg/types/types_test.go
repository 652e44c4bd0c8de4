package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeAction_TextAndLabel(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		label string
	}{
		{"text only", `{"text":"Run","command":"make"}`, "Run"},
		{"label only", `{"label":"Build","command":"make"}`, "Build"},
		{"label wins", `{"text":"Run","label":"Build","command":"make"}`, "Build"},
		{"empty label falls back", `{"text":"Run","label":"","command":"make"}`, "Run"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeAction(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("DecodeAction failed: %v", err)
			}
			if a.Label != tt.label {
				t.Errorf("Label = %q, want %q", a.Label, tt.label)
			}
		})
	}
}

func TestDecodeAction_NonStringFields(t *testing.T) {
	a, err := DecodeAction(json.RawMessage(`{"text":5,"command":"ls","color":true,"filter":["x"]}`))
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}
	if a.Label != "" || a.Color != "" || a.Filter != "" {
		t.Errorf("expected non-string fields to be empty, got %+v", a)
	}
	if IsValid(a) {
		t.Error("action without a string label must be invalid")
	}
}

func TestDecodeAction_NotAnObject(t *testing.T) {
	for _, raw := range []string{`"run"`, `42`, `null`, `[1]`} {
		if _, err := DecodeAction(json.RawMessage(raw)); err == nil {
			t.Errorf("DecodeAction(%s) should fail", raw)
		}
	}
}

func TestEffectiveTooltip(t *testing.T) {
	a := Action{Label: "Test", Command: "go test ./..."}
	if got := a.EffectiveTooltip(); got != "go test ./..." {
		t.Errorf("EffectiveTooltip() = %q, want command", got)
	}
	a.Tooltip = "Run tests"
	if got := a.EffectiveTooltip(); got != "Run tests" {
		t.Errorf("EffectiveTooltip() = %q, want tooltip", got)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		action Action
		valid  bool
	}{
		{Action{Label: "Run", Command: "make run"}, true},
		{Action{Label: "▶ Run", Command: "ünïcode"}, true},
		{Action{Label: "", Command: "make"}, false},
		{Action{Label: "Run", Command: ""}, false},
		{Action{Label: "   ", Command: "make"}, false},
		{Action{Label: "Run", Command: "\t\n"}, false},
		{Action{}, false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.action); got != tt.valid {
			t.Errorf("IsValid(%+v) = %v, want %v", tt.action, got, tt.valid)
		}
	}
}

func TestDecodeActions(t *testing.T) {
	raw := json.RawMessage(`[
		{"text": "Run", "command": "make run"},
		{"text": "", "command": "make"},
		"not an object",
		{"label": "Test", "command": "make test", "tooltip": "tests", "color": "#ff0000"}
	]`)

	actions, dropped, err := DecodeActions(raw)
	if err != nil {
		t.Fatalf("DecodeActions failed: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 valid actions, got %d", len(actions))
	}
	if actions[0].Label != "Run" || actions[1].Label != "Test" {
		t.Errorf("unexpected order: %+v", actions)
	}
	if actions[1].Color != "#ff0000" || actions[1].Tooltip != "tests" {
		t.Errorf("optional fields not decoded: %+v", actions[1])
	}
	if len(dropped) != 2 {
		t.Fatalf("expected 2 dropped entries, got %d", len(dropped))
	}

	var invalid *InvalidActionError
	if !errors.As(dropped[0], &invalid) || invalid.Index != 1 {
		t.Errorf("expected entry 1 to be reported, got %v", dropped[0])
	}
}

func TestDecodeActions_NotArray(t *testing.T) {
	_, _, err := DecodeActions(json.RawMessage(`{"text":"Run"}`))

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Kind != ErrShape {
		t.Errorf("Kind = %s, want %s", loadErr.Kind, ErrShape)
	}
}

func TestDecodeActions_Empty(t *testing.T) {
	for _, raw := range []string{"", "null", "[]"} {
		actions, dropped, err := DecodeActions(json.RawMessage(raw))
		if err != nil || len(actions) != 0 || len(dropped) != 0 {
			t.Errorf("DecodeActions(%q) = %v, %v, %v", raw, actions, dropped, err)
		}
	}
}

func TestSettings_LocalFileName(t *testing.T) {
	if got := (Settings{}).LocalFileName(); got != DefaultConfigFileName {
		t.Errorf("LocalFileName() = %q, want default", got)
	}
	if got := (Settings{ConfigFileName: "actions.jsonc"}).LocalFileName(); got != "actions.jsonc" {
		t.Errorf("LocalFileName() = %q", got)
	}
}
