package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/codeassist/internal/config"
	apierrors "github.com/diogo/codeassist/internal/errors"
)

func TestQuery_PositionalPrompt(t *testing.T) {
	testEnv(t)
	comp := &stubCompleter{reply: "Use a map."}
	run := newTestDeps(comp)

	if err := run.execute("  how do I dedupe?  "); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	if got := run.stdout.String(); got != "Use a map.\n" {
		t.Errorf("stdout = %q", got)
	}
	if len(comp.prompts) != 1 || comp.prompts[0] != "how do I dedupe?" {
		t.Errorf("prompts = %q", comp.prompts)
	}
	if comp.languages[0] != config.DefaultLanguage {
		t.Errorf("language = %q, want default", comp.languages[0])
	}
	if run.stderr.Len() != 0 {
		t.Errorf("raw mode should keep stderr clean, got %q", run.stderr.String())
	}
}

func TestQuery_LanguageFlag(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"python", "python"},
		{"C#", "csharp"},
		{"Node.js", "nodejs"},
		{"rust", "rust"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			testEnv(t)
			comp := &stubCompleter{reply: "ok"}
			run := newTestDeps(comp)

			if err := run.execute("-l", tt.flag, "hello"); err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			if comp.languages[0] != tt.want {
				t.Errorf("language = %q, want %q", comp.languages[0], tt.want)
			}
		})
	}
}

func TestQuery_DefaultLanguageFromConfig(t *testing.T) {
	testEnv(t)
	saveTestConfig(t, func(c *config.Config) { c.DefaultLanguage = "typescript" })
	comp := &stubCompleter{reply: "ok"}

	if err := newTestDeps(comp).execute("hello"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if comp.languages[0] != "typescript" {
		t.Errorf("language = %q, want typescript", comp.languages[0])
	}
}

func TestQuery_Stdin(t *testing.T) {
	testEnv(t)
	comp := &stubCompleter{reply: "fixed"}
	run := newTestDeps(comp).withStdin("TypeError: x is undefined\n")

	if err := run.execute(); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if comp.prompts[0] != "TypeError: x is undefined" {
		t.Errorf("prompt = %q", comp.prompts[0])
	}
}

func TestQuery_ArgumentWinsOverStdin(t *testing.T) {
	testEnv(t)
	comp := &stubCompleter{reply: "ok"}
	run := newTestDeps(comp).withStdin("from stdin")

	if err := run.execute("from arg"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if comp.prompts[0] != "from arg" {
		t.Errorf("prompt = %q", comp.prompts[0])
	}
}

func TestQuery_File(t *testing.T) {
	testEnv(t)
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("explain this"), 0o600); err != nil {
		t.Fatal(err)
	}
	comp := &stubCompleter{reply: "ok"}

	if err := newTestDeps(comp).execute("-f", path); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if comp.prompts[0] != "explain this" {
		t.Errorf("prompt = %q", comp.prompts[0])
	}
}

func TestQuery_MissingFile(t *testing.T) {
	testEnv(t)
	err := newTestDeps(&stubCompleter{}).execute("-f", filepath.Join(t.TempDir(), "nope.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestQuery_EmptyPrompt(t *testing.T) {
	testEnv(t)
	comp := &stubCompleter{}
	run := newTestDeps(comp).withStdin("   \n\t")

	err := run.execute()
	if err == nil || err.Error() != "prompt cannot be empty" {
		t.Errorf("expected empty prompt error, got %v", err)
	}
	if len(comp.prompts) != 0 {
		t.Error("no request expected for a blank prompt")
	}
}

func TestQuery_FailureIsPrintedNotReturned(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing key", apierrors.ErrMissingAPIKey, apierrors.MissingKeyMessage},
		{"network", apierrors.NewNetworkError("chat completion", "", errors.New("refused")), apierrors.NetworkMessage},
		{"api", apierrors.NewAPIError(401, "", "Invalid API Key"), "❌ API Error: Invalid API Key"},
		{"parse", apierrors.NewParseError("no choices", 200, "{}"), apierrors.FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			run := newTestDeps(&stubCompleter{err: tt.err})

			if err := run.execute("hello"); err != nil {
				t.Fatalf("a failed completion must not fail the command: %v", err)
			}
			if got := strings.TrimSpace(run.stdout.String()); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuery_OutputFile(t *testing.T) {
	testEnv(t)
	out := filepath.Join(t.TempDir(), "answer.md")
	run := newTestDeps(&stubCompleter{reply: "# Answer"})

	if err := run.execute("question", "-o", out); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(data) != "# Answer" {
		t.Errorf("file = %q", data)
	}
	if run.stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", run.stdout.String())
	}
}

func TestQuery_RenderedOutput(t *testing.T) {
	testEnv(t)
	saveTestConfig(t, func(c *config.Config) { c.Verbose = true })
	run := newTestDeps(&stubCompleter{reply: "Try:\n```go\nfmt.Println(1)\n```"})
	run.deps.StdoutIsTTY = func() bool { return true }

	if err := run.execute("print one", "-m", "llama-3.1-8b-instant"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	stdout := run.stdout.String()
	for _, want := range []string{"Assistant", "[1] copy"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	stderr := run.stderr.String()
	for _, want := range []string{"[verbose] Model: llama-3.1-8b-instant", "[verbose] Language: JavaScript", "[verbose] Request took", "Done"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestQuery_CopyToClipboard(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"last code block", "A:\n```py\na = 1\n```\nB:\n```py\nb = 2\n```", "b = 2\n"},
		{"whole reply without blocks", "Just prose.", "Just prose."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			saveTestConfig(t, func(c *config.Config) { c.CopyToClipboard = true })
			run := newTestDeps(&stubCompleter{reply: tt.reply})
			cb := run.deps.Clipboard.(*stubClipboard)

			if err := run.execute("hello"); err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			if cb.text != tt.want {
				t.Errorf("clipboard = %q, want %q", cb.text, tt.want)
			}
		})
	}
}

func TestQuery_NoCopyOnFailure(t *testing.T) {
	testEnv(t)
	saveTestConfig(t, func(c *config.Config) { c.CopyToClipboard = true })
	run := newTestDeps(&stubCompleter{err: apierrors.ErrMissingAPIKey})
	cb := run.deps.Clipboard.(*stubClipboard)

	if err := run.execute("hello"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if cb.text != "" {
		t.Errorf("error text must not be copied, got %q", cb.text)
	}
}

func TestQuery_ClipboardFailureWarns(t *testing.T) {
	testEnv(t)
	saveTestConfig(t, func(c *config.Config) { c.CopyToClipboard = true })
	run := newTestDeps(&stubCompleter{reply: "ok"})
	run.deps.Clipboard = &stubClipboard{err: errors.New("no display")}

	if err := run.execute("hello"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(run.stderr.String(), "no display") {
		t.Errorf("expected a warning, got %q", run.stderr.String())
	}
	if strings.TrimSpace(run.stdout.String()) != "ok" {
		t.Errorf("reply must still be printed, got %q", run.stdout.String())
	}
}

func TestNewSession_Overrides(t *testing.T) {
	testEnv(t)
	run := newTestDeps(&stubCompleter{})

	s, err := newSession(context.Background(), run.deps, &globalOptions{model: "qwen/qwen3-32b", debug: true}, "Python")
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	defer s.Close(context.Background())

	if s.cfg.Model != "qwen/qwen3-32b" {
		t.Errorf("model = %q", s.cfg.Model)
	}
	if s.cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", s.cfg.LogLevel)
	}
	if s.ctrl.Language() != "python" {
		t.Errorf("language = %q", s.ctrl.Language())
	}
}

func TestNewSession_HTTPClient(t *testing.T) {
	testEnv(t)
	run := newTestDeps(nil)

	s, err := newSession(context.Background(), run.deps, &globalOptions{}, "")
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	defer s.Close(context.Background())

	// no key configured: the reply is the missing-key message and no request is made
	if !s.ctrl.Submit(context.Background(), "hello") {
		t.Fatal("Submit() rejected")
	}
	if got := s.ctrl.Last().Content; got != apierrors.MissingKeyMessage {
		t.Errorf("reply = %q", got)
	}
	if !errors.Is(s.completer.lastErr, apierrors.ErrMissingAPIKey) {
		t.Errorf("lastErr = %v", s.completer.lastErr)
	}
}

func TestNewSession_BrokenConfig(t *testing.T) {
	testEnv(t)
	dir, err := config.EnsureConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	err = newTestDeps(&stubCompleter{}).execute("hello")
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}
