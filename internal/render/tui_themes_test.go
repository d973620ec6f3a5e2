package render

import "testing"

func TestTUIThemes(t *testing.T) {
	names := TUIThemeNames()
	want := []string{"tokyonight", "catppuccin", "nord", "dracula"}
	if len(names) != len(want) {
		t.Fatalf("expected %d themes, got %d", len(want), len(names))
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("theme %d: expected %q, got %q", i, n, names[i])
		}
	}

	for _, theme := range AvailableTUIThemes() {
		if theme.Primary == "" || theme.Text == "" || theme.Border == "" {
			t.Errorf("theme %q has empty colors", theme.Name)
		}
	}
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme(TokyoNightTheme.Name)

	if !SetTUITheme("nord") {
		t.Fatal("expected nord to be accepted")
	}
	if got := GetTUITheme().Name; got != "nord" {
		t.Errorf("expected nord active, got %q", got)
	}

	if SetTUITheme("missing") {
		t.Error("expected unknown theme to be rejected")
	}
	if got := GetTUITheme().Name; got != "nord" {
		t.Errorf("rejected theme changed the active one to %q", got)
	}
}

func TestGetTUIThemeByName(t *testing.T) {
	if _, ok := GetTUIThemeByName("dracula"); !ok {
		t.Error("expected dracula")
	}
	if _, ok := GetTUIThemeByName(""); ok {
		t.Error("expected empty name to miss")
	}
}
