package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorFlags_State(t *testing.T) {
	assert.Nil(t, editorFlags{}.state())

	ed := editorFlags{file: filepath.Join("src", "a.go"), selection: "x", line: 4}.state()
	require.NotNil(t, ed)
	assert.True(t, filepath.IsAbs(ed.Document.Path))
	assert.Equal(t, "a.go", filepath.Base(ed.Document.Path))
	assert.Equal(t, "x", ed.Selection)
	assert.Equal(t, 4, ed.Line)
}

func TestDecodeRaw(t *testing.T) {
	v, err := decodeRaw(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = decodeRaw(json.RawMessage(`[{"text": "Build"}]`))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"text": "Build"}}, v)

	_, err = decodeRaw(json.RawMessage(`[`))
	assert.Error(t, err)
}

func TestGetWorkDir(t *testing.T) {
	dir := t.TempDir()
	workDir = dir
	t.Cleanup(func() { workDir = "" })

	got, err := GetWorkDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"list", "run", "watch", "init", "settings", "debug"} {
		assert.True(t, names[want], want)
	}
}
