package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/telnet2/projactions/internal/app"
	"github.com/telnet2/projactions/internal/config"
	"github.com/telnet2/projactions/internal/editor"
	"github.com/telnet2/projactions/internal/reconciler"
	"github.com/telnet2/projactions/pkg/types"
)

const userSettings = `{
	"globalActions": [
		{"text": "Go test", "command": "go test ./...", "filter": "go.mod"},
		{"text": "npm test", "command": "npm test", "filter": "package.json"}
	],
	"activeFileActions": [
		{"text": "Run py", "command": "python ${relativeFile}", "filter": "**/*.py"}
	]
}`

var _ = Describe("App", func() {
	var (
		ctx       context.Context
		configDir string
		root      string
		term      *recorder
		a         *app.App

		errMu    sync.Mutex
		reported []error
		opened   []string
	)

	reportedErrors := func() []error {
		errMu.Lock()
		defer errMu.Unlock()
		return append([]error(nil), reported...)
	}

	start := func(watch bool, folders ...string) {
		var err error
		a, err = app.New(app.Options{
			Folders:  folders,
			Terminal: term,
			Watch:    watch,
			OpenFile: func(path string) error {
				opened = append(opened, path)
				return nil
			},
			OnError: func(err error) {
				errMu.Lock()
				reported = append(reported, err)
				errMu.Unlock()
			},
		})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(a.Close)
		Expect(a.Start(ctx)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		configDir = isolate()
		root = GinkgoT().TempDir()
		term = &recorder{}
		reported, opened = nil, nil

		writeFile(filepath.Join(configDir, "settings.json"), userSettings)
		writeFile(filepath.Join(root, "go.mod"), "module example.com/demo\n")
		writeFile(filepath.Join(root, types.DefaultConfigFileName), `{
			"actions": [
				{"text": "Build", "command": "make build"},
				{"text": "Lint", "command": "make lint", "color": "yellow"}
			]
		}`)
	})

	Describe("rendering", func() {
		It("lays out active-file, local and global sections with separators", func() {
			start(false, root)
			Expect(a.Focus(ctx, &editor.EditorState{Document: editor.Document{Path: filepath.Join(root, "tools", "gen.py")}})).To(Succeed())

			Expect(a.Bar().Plain()).To(Equal([]string{"Run py", "|", "Build", "Lint", "|", "Go test"}))
			Expect(a.Snapshot()).To(Equal(reconciler.Sizes{
				ActiveFile: 1, Local: 2, Global: 1, ActiveSeparator: true, GlobalSeparator: true,
			}))
		})

		It("follows the active file through the event bus", func() {
			start(false, root)
			Expect(a.Bar().Plain()).To(Equal([]string{"Build", "Lint", "|", "Go test"}))

			a.Tracker().Focus(&editor.EditorState{Document: editor.Document{Path: filepath.Join(root, "main.py")}})
			Eventually(a.Bar().Plain).Should(HaveLen(6))

			a.Tracker().Focus(&editor.EditorState{Document: editor.Document{Path: filepath.Join(root, "main.go")}})
			Eventually(a.Bar().Plain).Should(Equal([]string{"Build", "Lint", "|", "Go test"}))
		})

		It("renders nothing without a workspace", func() {
			start(false)
			Expect(a.Bar().Items()).To(BeEmpty())
		})
	})

	Describe("clicking", func() {
		It("sends the command resolved against the state at click time", func() {
			start(false, root)
			Expect(a.Focus(ctx, &editor.EditorState{Document: editor.Document{Path: filepath.Join(root, "src", "a.py")}})).To(Succeed())

			Expect(a.Bar().Click(ctx, 0)).To(Succeed())
			Expect(a.Bar().ClickLabel(ctx, "lint")).To(Succeed())
			Expect(term.Lines()).To(Equal([]string{
				"python " + filepath.Join("src", "a.py"),
				"make lint",
			}))
		})

		It("never reuses a click binding across reloads", func() {
			start(false, root)
			first := a.Bar().Items()[0].Command
			Expect(a.Reload(ctx)).To(Succeed())
			second := a.Bar().Items()[0].Command
			Expect(second).NotTo(Equal(first))
			Expect(a.Bar().Execute(ctx, first)).To(MatchError(ContainSubstring("no such item")))
		})
	})

	Describe("local config errors", func() {
		It("reports a broken local config and still shows global actions", func() {
			writeFile(filepath.Join(root, types.DefaultConfigFileName), `{"actions": "nope"}`)
			start(false, root)

			Expect(a.Bar().Plain()).To(Equal([]string{"Go test"}))
			errs := reportedErrors()
			Expect(errs).To(HaveLen(1))
			var loadErr *types.LoadError
			Expect(errors.As(errs[0], &loadErr)).To(BeTrue())
			Expect(loadErr.Kind).To(Equal(types.ErrShape))
		})
	})

	Describe("host commands", func() {
		It("creates the local config from the template only once", func() {
			Expect(os.Remove(filepath.Join(root, types.DefaultConfigFileName))).To(Succeed())
			start(false, root)
			Expect(a.Bar().Plain()).To(Equal([]string{"Go test"}))

			path, err := a.CreateLocalConfig(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(root, types.DefaultConfigFileName)))
			Expect(opened).To(Equal([]string{path}))
			Expect(a.Bar().Plain()).To(Equal([]string{"↓ Pull", "↑ Push", "|", "Go test"}))

			writeFile(path, `{"actions": [{"text": "Mine", "command": "x"}]}`)
			_, err = a.CreateLocalConfig(ctx)
			Expect(err).NotTo(HaveOccurred())
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("Mine"))
		})

		It("refuses to create a local config without a workspace", func() {
			start(false)
			_, err := a.CreateLocalConfig(ctx)
			Expect(err).To(MatchError(app.ErrNoWorkspace))
		})

		It("opens the user settings file", func() {
			start(false, root)
			path, err := a.SettingsFile(config.ScopeActiveFile)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(configDir, "settings.json")))
			Expect(opened).To(Equal([]string{path}))
		})

		It("re-reads settings for new workspace folders", func() {
			start(false)
			Expect(a.SetFolders(ctx, []string{root})).To(Succeed())
			Expect(a.Bar().Plain()).To(Equal([]string{"Build", "Lint", "|", "Go test"}))
		})
	})

	Describe("watching", func() {
		It("reloads when the local config file changes", func() {
			start(true, root)
			Expect(a.Bar().Plain()).To(Equal([]string{"Build", "Lint", "|", "Go test"}))

			writeFile(filepath.Join(root, types.DefaultConfigFileName), `{"actions": [{"text": "Deploy", "command": "make deploy"}]}`)
			Eventually(a.Bar().Plain, 5*time.Second).Should(Equal([]string{"Deploy", "|", "Go test"}))
		})

		It("reloads and re-targets when settings change the config file name", func() {
			start(true, root)
			writeFile(filepath.Join(root, "actions.json"), `{"actions": [{"text": "Renamed", "command": "r"}]}`)

			writeFile(filepath.Join(configDir, "settings.json"), `{"configFileName": "actions.json"}`)
			Eventually(a.Bar().Plain, 5*time.Second).Should(Equal([]string{"Renamed"}))

			writeFile(filepath.Join(root, "actions.json"), `{"actions": [{"text": "Edited", "command": "e"}]}`)
			Eventually(a.Bar().Plain, 5*time.Second).Should(Equal([]string{"Edited"}))
		})
	})

	It("closes the terminal on Close", func() {
		start(false, root)
		Expect(a.Close()).To(Succeed())
		Expect(term.Closed()).To(BeTrue())
		Expect(a.Bar().Items()).To(BeEmpty())
	})
})
