package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/codeassist/internal/config"
)

func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd(&Dependencies{})

	if cmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", cmd.Use)
	}
	if cmd.Short != "Open configuration menu" {
		t.Errorf("expected Short 'Open configuration menu', got '%s'", cmd.Short)
	}
	if cmd.RunE == nil {
		t.Error("RunE should not be nil")
	}

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, name := range []string{"show", "set", "path"} {
		if !subs[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}

	// nil deps fall back to the defaults
	if NewConfigCmd(nil) == nil {
		t.Fatal("NewConfigCmd(nil) returned nil")
	}
}

func TestConfigCommand_OpensMenu(t *testing.T) {
	testEnv(t)
	run := newTestDeps(nil)

	if err := run.execute("config"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if calls := run.deps.TUI.(*stubTUI).configCalls; calls != 1 {
		t.Errorf("RunConfig calls = %d, want 1", calls)
	}
}

func TestConfigCommand_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(config.Config) bool
	}{
		{"model", "qwen/qwen3-32b", false, func(c config.Config) bool { return c.Model == "qwen/qwen3-32b" }},
		{"default_language", "python", false, func(c config.Config) bool { return c.DefaultLanguage == "python" }},
		{"copy_to_clipboard", "true", false, func(c config.Config) bool { return c.CopyToClipboard }},
		{"temperature", "0.2", false, func(c config.Config) bool { return c.Temperature == 0.2 }},
		{"temperature", "hot", true, nil},
		{"nope", "1", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			testEnv(t)
			run := newTestDeps(nil)

			err := run.execute("config", "set", tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s not applied: %+v", tt.key, cfg)
			}
			if !strings.Contains(run.stdout.String(), tt.key+" set to "+tt.value) {
				t.Errorf("stdout = %q", run.stdout.String())
			}
		})
	}
}

func TestConfigCommand_SetAPIKeyIsMasked(t *testing.T) {
	testEnv(t)
	run := newTestDeps(nil)

	if err := run.execute("config", "set", "api_key", "gsk_secret1234"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if strings.Contains(run.stdout.String(), "gsk_secret") {
		t.Errorf("key leaked: %q", run.stdout.String())
	}

	cfg, _ := config.LoadConfig()
	if cfg.ResolveAPIKey() != "gsk_secret1234" {
		t.Errorf("key not saved")
	}
}

func TestConfigCommand_Show(t *testing.T) {
	testEnv(t)
	saveTestConfig(t, func(c *config.Config) { c.APIKey = "gsk_abcdefgh9876" })
	run := newTestDeps(nil)

	if err := run.execute("config", "show"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	out := run.stdout.String()
	if strings.Contains(out, "gsk_abcdefgh") {
		t.Errorf("key leaked: %s", out)
	}
	for _, want := range []string{`"api_key": "********9876"`, `"model": "` + config.DefaultModel + `"`} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %s:\n%s", want, out)
		}
	}
}

func TestConfigCommand_Path(t *testing.T) {
	testEnv(t)
	run := newTestDeps(nil)

	if err := run.execute("config", "path"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	got := strings.TrimSpace(run.stdout.String())
	if filepath.Base(got) != "config.json" || !strings.Contains(got, ".codeassist") {
		t.Errorf("path = %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcd", "****"},
		{"gsk_123456789", "********6789"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
