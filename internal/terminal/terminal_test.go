package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newShell(t *testing.T, opts ShellOptions) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &out
	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	sh, err := NewShell(opts)
	require.NoError(t, err)
	t.Cleanup(func() { sh.Close() })
	return sh, &out
}

func drain(t *testing.T, sh *Shell) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, sh.Drain(ctx))
}

func TestShell_RunsInOrder(t *testing.T) {
	sh, out := newShell(t, ShellOptions{})
	ctx := context.Background()

	require.NoError(t, sh.Send(ctx, "echo one"))
	require.NoError(t, sh.Send(ctx, "echo two; echo three"))
	drain(t, sh)

	assert.Equal(t, "one\ntwo\nthree\n", out.String())
}

func TestShell_SessionStatePersists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	sh, out := newShell(t, ShellOptions{Dir: root})
	ctx := context.Background()

	require.NoError(t, sh.Send(ctx, "cd sub"))
	require.NoError(t, sh.Send(ctx, "GREETING=hi"))
	require.NoError(t, sh.Send(ctx, "pwd; echo $GREETING"))
	drain(t, sh)

	assert.Equal(t, filepath.Join(root, "sub")+"\nhi\n", out.String())
}

func TestShell_FailuresDoNotStopSession(t *testing.T) {
	sh, out := newShell(t, ShellOptions{})
	ctx := context.Background()

	require.NoError(t, sh.Send(ctx, "false"))
	require.NoError(t, sh.Send(ctx, "exit 3"))
	require.NoError(t, sh.Send(ctx, "echo after"))
	drain(t, sh)

	assert.Equal(t, "after\n", out.String())
}

func TestShell_ParseError(t *testing.T) {
	sh, _ := newShell(t, ShellOptions{})
	err := sh.Send(context.Background(), "echo 'unterminated")
	assert.Error(t, err)
}

func TestShell_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PROJACTIONS_TEST_VAR=from-dotenv\n"), 0644))

	sh, out := newShell(t, ShellOptions{EnvFile: envFile})
	require.NoError(t, sh.Send(context.Background(), "echo $PROJACTIONS_TEST_VAR"))
	drain(t, sh)

	assert.Equal(t, "from-dotenv\n", out.String())
}

func TestShell_MissingEnvFile(t *testing.T) {
	_, err := NewShell(ShellOptions{Dir: t.TempDir(), EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	assert.Error(t, err)
}

func TestShell_Closed(t *testing.T) {
	sh, _ := newShell(t, ShellOptions{})
	require.NoError(t, sh.Close())
	require.NoError(t, sh.Close())

	assert.ErrorIs(t, sh.Send(context.Background(), "echo late"), ErrClosed)
	assert.ErrorIs(t, sh.Drain(context.Background()), ErrClosed)
}

func TestWriter(t *testing.T) {
	var out strings.Builder
	w := NewWriter(&out)
	ctx := context.Background()

	require.NoError(t, w.Send(ctx, "make test"))
	require.NoError(t, w.Send(ctx, "git push"))
	assert.Equal(t, "make test\ngit push\n", out.String())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, w.Send(cancelled, "x"), context.Canceled)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Send(ctx, "x"), ErrClosed)
}
