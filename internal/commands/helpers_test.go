package commands

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/diogo/codeassist/internal/chat"
	"github.com/diogo/codeassist/internal/config"
	"github.com/diogo/codeassist/internal/render"
)

type stubCompleter struct {
	mu        sync.Mutex
	reply     string
	err       error
	prompts   []string
	languages []string
}

func (s *stubCompleter) Complete(ctx context.Context, language, userMessage string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, userMessage)
	s.languages = append(s.languages, language)
	return s.reply, s.err
}

type stubClipboard struct {
	text string
	err  error
}

func (s *stubClipboard) WriteAll(text string) error {
	if s.err != nil {
		return s.err
	}
	s.text = text
	return nil
}

type stubTUI struct {
	chatCalls   int
	configCalls int
	ctrl        *chat.Controller
	modelName   string
	opts        render.Options
}

func (s *stubTUI) RunChat(ctx context.Context, ctrl *chat.Controller, modelName string, opts render.Options) error {
	s.chatCalls++
	s.ctrl = ctrl
	s.modelName = modelName
	s.opts = opts
	return nil
}

func (s *stubTUI) RunConfig() error {
	s.configCalls++
	return nil
}

// testEnv points the config directory at a temp HOME
func testEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvGroqAPIKey, "")
	t.Setenv(render.EnvStyle, "")
}

// saveTestConfig writes a config after applying edit to the defaults
func saveTestConfig(t *testing.T, edit func(*config.Config)) {
	t.Helper()
	cfg := config.DefaultConfig()
	edit(&cfg)
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
}

type testRun struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	deps   *Dependencies
}

func newTestDeps(completer chat.Completer) *testRun {
	r := &testRun{}
	r.deps = &Dependencies{
		Completer:     completer,
		Clipboard:     &stubClipboard{},
		TUI:           &stubTUI{},
		Stdin:         strings.NewReader(""),
		Stdout:        &r.stdout,
		Stderr:        &r.stderr,
		StdinIsPipe:   func() bool { return false },
		StdoutIsTTY:   func() bool { return false },
		TerminalWidth: func() int { return 80 },
	}
	return r
}

func (r *testRun) withStdin(s string) *testRun {
	r.deps.Stdin = io.NopCloser(strings.NewReader(s))
	r.deps.StdinIsPipe = func() bool { return true }
	return r
}

func (r *testRun) execute(args ...string) error {
	cmd := NewRootCmd(r.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}
