package app_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestApp(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "App Suite")
}

// setenv sets an environment variable for the current test.
func setenv(key, value string) {
	old, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

// isolate points every settings location at a fresh temp directory and
// returns the user config directory.
func isolate() string {
	home := GinkgoT().TempDir()
	setenv("HOME", home)
	setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	setenv("PROJACTIONS_SETTINGS", "")
	setenv("PROJACTIONS_CONFIG_FILE_NAME", "")
	return filepath.Join(home, ".config", "projactions")
}

func writeFile(path, content string) {
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
}

// recorder is a Terminal that remembers what was sent.
type recorder struct {
	mu     sync.Mutex
	lines  []string
	closed bool
}

func (r *recorder) Send(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
