package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/codeassist/internal/config"
	"github.com/diogo/codeassist/internal/render"
)

// feedbackClearMsg clears the menu feedback line
type feedbackClearMsg struct {
	seq int
}

// settingKind decides what Enter does on a menu row
type settingKind int

const (
	settingChoice settingKind = iota
	settingToggle
	settingExit
)

// choice is one option of a choice setting
type choice struct {
	value string
	label string
}

// setting is one row of the config menu
type setting struct {
	label   string
	kind    settingKind
	get     func(config.Config) string
	choices func() []choice
	set     func(*config.Config, string)
	flip    func(*config.Config) bool
}

func settings() []setting {
	return []setting{
		{
			label: "Default Language",
			kind:  settingChoice,
			get:   func(c config.Config) string { return c.DefaultLanguage },
			choices: func() []choice {
				var out []choice
				for _, l := range config.Languages() {
					out = append(out, choice{value: l.Tag, label: l.Label})
				}
				return out
			},
			set: func(c *config.Config, v string) { c.DefaultLanguage = v },
		},
		{
			label:   "Model",
			kind:    settingChoice,
			get:     func(c config.Config) string { return c.Model },
			choices: func() []choice { return plainChoices(config.AvailableModels()) },
			set:     func(c *config.Config, v string) { c.Model = v },
		},
		{
			label: "Verbose Output",
			kind:  settingToggle,
			flip: func(c *config.Config) bool {
				c.Verbose = !c.Verbose
				return c.Verbose
			},
			get: func(c config.Config) string { return fmt.Sprint(c.Verbose) },
		},
		{
			label: "Copy to Clipboard",
			kind:  settingToggle,
			flip: func(c *config.Config) bool {
				c.CopyToClipboard = !c.CopyToClipboard
				return c.CopyToClipboard
			},
			get: func(c config.Config) string { return fmt.Sprint(c.CopyToClipboard) },
		},
		{
			label: "Telemetry",
			kind:  settingToggle,
			flip: func(c *config.Config) bool {
				c.Telemetry = !c.Telemetry
				return c.Telemetry
			},
			get: func(c config.Config) string { return fmt.Sprint(c.Telemetry) },
		},
		{
			label: "Markdown Theme",
			kind:  settingChoice,
			get: func(c config.Config) string {
				if c.Markdown.Style == "" {
					return render.StyleDark
				}
				return c.Markdown.Style
			},
			choices: func() []choice {
				var out []choice
				for _, s := range render.AvailableStyles() {
					out = append(out, choice{value: s.Name, label: s.Name + " - " + s.Description})
				}
				return out
			},
			set: func(c *config.Config, v string) { c.Markdown.Style = v },
		},
		{
			label: "TUI Theme",
			kind:  settingChoice,
			get: func(c config.Config) string {
				if c.TUITheme == "" {
					return render.TokyoNightTheme.Name
				}
				return c.TUITheme
			},
			choices: func() []choice {
				var out []choice
				for _, t := range render.AvailableTUIThemes() {
					out = append(out, choice{value: t.Name, label: t.Name + " - " + t.Description})
				}
				return out
			},
			set: func(c *config.Config, v string) {
				c.TUITheme = v
				render.SetTUITheme(v)
				UpdateTheme()
			},
		},
		{label: "Exit", kind: settingExit},
	}
}

func plainChoices(values []string) []choice {
	out := make([]choice, 0, len(values))
	for _, v := range values {
		out = append(out, choice{value: v, label: v})
	}
	return out
}

// ConfigModel is the interactive settings menu
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error
	items      []setting

	cursor int
	// editing is the index of the choice setting whose list is open, or -1
	editing      int
	choiceCursor int

	feedback    string
	feedbackSeq int
	feedbackTTL time.Duration

	width int
	ready bool
}

// NewConfigModel loads the config from disk and applies its TUI theme
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	path, _ := config.GetConfigPath()
	return newConfigModel(cfg, path, config.SaveConfig)
}

func newConfigModel(cfg config.Config, path string, save func(config.Config) error) ConfigModel {
	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}
	return ConfigModel{
		config:      cfg,
		configPath:  path,
		save:        save,
		items:       settings(),
		editing:     -1,
		feedbackTTL: 2 * time.Second,
	}
}

// Config returns the current, possibly edited, configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ready = true

	case feedbackClearMsg:
		if msg.seq == m.feedbackSeq {
			m.feedback = ""
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.editing >= 0 {
				m.editing = -1
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.activate()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	if m.editing >= 0 {
		n := len(m.items[m.editing].choices())
		m.choiceCursor = (m.choiceCursor + delta + n) % n
		return
	}
	n := len(m.items)
	m.cursor = (m.cursor + delta + n) % n
}

func (m ConfigModel) activate() (tea.Model, tea.Cmd) {
	if m.editing >= 0 {
		item := m.items[m.editing]
		picked := item.choices()[m.choiceCursor]
		item.set(&m.config, picked.value)
		m.editing = -1
		return m.persist(fmt.Sprintf("%s set to %s", item.label, picked.value))
	}

	item := m.items[m.cursor]
	switch item.kind {
	case settingExit:
		return m, tea.Quit

	case settingToggle:
		state := "disabled"
		if item.flip(&m.config) {
			state = "enabled"
		}
		return m.persist(fmt.Sprintf("%s %s", item.label, state))

	case settingChoice:
		m.editing = m.cursor
		m.choiceCursor = 0
		current := item.get(m.config)
		for i, c := range item.choices() {
			if c.value == current {
				m.choiceCursor = i
				break
			}
		}
	}
	return m, nil
}

func (m ConfigModel) persist(ok string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = ok
	}
	m.feedbackSeq++
	seq := m.feedbackSeq
	return m, tea.Tick(m.feedbackTTL, func(time.Time) tea.Msg {
		return feedbackClearMsg{seq: seq}
	})
}

func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}

	var sections []string
	sections = append(sections, menuTitleStyle.Render("</> codeassist configuration"))

	paths := lipgloss.JoinVertical(lipgloss.Left,
		menuSectionStyle.Render("Paths"),
		"  Config: "+menuPathStyle.Render(m.configPath),
		"  API key: "+m.renderKeyStatus(),
	)
	sections = append(sections, menuPanelStyle.Width(width).Render(paths))

	var body string
	if m.editing >= 0 {
		body = m.renderChoices()
	} else {
		body = m.renderMenu()
	}
	sections = append(sections, menuPanelStyle.Width(width).Render(body))

	if m.feedback != "" {
		sections = append(sections, menuFeedbackStyle.Render("✓ "+m.feedback))
	}

	back := "Exit"
	if m.editing >= 0 {
		back = "Back"
	}
	bar := renderShortcuts([]shortcut{{"↑↓", "Navigate"}, {"Enter", "Select"}, {"Esc", back}})
	sections = append(sections, menuStatusBarStyle.Width(width).Render(bar))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) renderKeyStatus() string {
	if m.config.ResolveAPIKey() != "" {
		return menuEnabledStyle.Render("✓ found")
	}
	return menuDisabledStyle.Render("✗ not set (GROQ_API_KEY or api_key)")
}

func (m ConfigModel) renderMenu() string {
	labelWidth := 0
	for _, it := range m.items {
		if w := lipgloss.Width(it.label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := []string{menuSectionStyle.Render("Settings"), ""}
	for i, it := range m.items {
		cursor := "  "
		style := menuItemStyle
		if i == m.cursor {
			cursor = menuCursorStyle.Render("▸ ")
			style = menuSelectedStyle
		}

		line := cursor + style.Render(it.label)
		switch it.kind {
		case settingToggle:
			pad := strings.Repeat(" ", labelWidth-lipgloss.Width(it.label)+3)
			line += pad + renderBool(it.get(m.config) == "true")
		case settingChoice:
			pad := strings.Repeat(" ", labelWidth-lipgloss.Width(it.label)+3)
			line += pad + menuValueStyle.Render(it.get(m.config))
		case settingExit:
			lines = append(lines, "")
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m ConfigModel) renderChoices() string {
	item := m.items[m.editing]
	current := item.get(m.config)

	lines := []string{menuSectionStyle.Render("Select " + item.label), ""}
	for i, c := range item.choices() {
		cursor := "  "
		style := menuItemStyle
		if i == m.choiceCursor {
			cursor = menuCursorStyle.Render("▸ ")
			style = menuSelectedStyle
		}
		line := cursor + style.Render(c.label)
		if c.value == current {
			line += menuCurrentStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderBool(v bool) string {
	if v {
		return menuEnabledStyle.Render("enabled")
	}
	return menuDisabledStyle.Render("disabled")
}

// RunConfig starts the config menu
func RunConfig() error {
	p := tea.NewProgram(NewConfigModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
