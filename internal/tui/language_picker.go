package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/codeassist/internal/config"
)

// languagePicker is the /lang overlay: a filterable list of the presets
type languagePicker struct {
	current string
	filter  string
	cursor  int
}

func newLanguagePicker(current string) languagePicker {
	p := languagePicker{current: current}
	for i, l := range p.filtered() {
		if l.Tag == current {
			p.cursor = i
			break
		}
	}
	return p
}

func (p languagePicker) filtered() []config.Language {
	all := config.Languages()
	if p.filter == "" {
		return all
	}
	f := strings.ToLower(p.filter)
	var out []config.Language
	for _, l := range all {
		if strings.Contains(l.Tag, f) || strings.Contains(strings.ToLower(l.Label), f) {
			out = append(out, l)
		}
	}
	return out
}

// selected returns the language under the cursor
func (p languagePicker) selected() (config.Language, bool) {
	list := p.filtered()
	if p.cursor < 0 || p.cursor >= len(list) {
		return config.Language{}, false
	}
	return list[p.cursor], true
}

func (p *languagePicker) move(delta int) {
	n := len(p.filtered())
	if n == 0 {
		return
	}
	p.cursor = (p.cursor + delta + n) % n
}

func (m Model) updateLanguagePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case replyMsg:
		m.updateViewport()
		m.viewport.GotoBottom()

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.pickingLang = false

		case "up", "ctrl+p":
			m.picker.move(-1)

		case "down", "ctrl+n":
			m.picker.move(1)

		case "enter":
			lang, ok := m.picker.selected()
			if !ok {
				return m, nil
			}
			m.pickingLang = false
			m.ctrl.SetLanguage(lang.Tag)
			return m.setNotice("Language: "+lang.Label, false)

		case "backspace":
			if m.picker.filter != "" {
				m.picker.filter = m.picker.filter[:len(m.picker.filter)-1]
				m.picker.cursor = 0
			}

		default:
			if s := msg.String(); len(s) == 1 && s[0] >= ' ' && s[0] <= '~' {
				m.picker.filter += s
				m.picker.cursor = 0
			}
		}
	}

	return m, nil
}

func (p languagePicker) View(width int) string {
	width -= 8
	if width < 40 {
		width = 40
	}

	var b strings.Builder
	b.WriteString(menuTitleStyle.Render("Select a language"))
	b.WriteString(hintStyle.Render("  (current: " + config.LanguageLabel(p.current) + ")"))
	b.WriteString("\n\n")

	if p.filter != "" {
		b.WriteString(inputLabelStyle.Render("filter:") + p.filter + "_\n\n")
	}

	list := p.filtered()
	if len(list) == 0 {
		b.WriteString(hintStyle.Render("  No languages match"))
		b.WriteString("\n")
	}
	for i, l := range list {
		cursor := "  "
		name := menuItemStyle.Render(l.Label)
		if i == p.cursor {
			cursor = menuCursorStyle.Render("▸ ")
			name = menuSelectedStyle.Render(l.Label)
		}
		line := cursor + name + menuValueStyle.Render("  "+l.Tag)
		if l.Tag == p.current {
			line += menuCurrentStyle.Render(" (current)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderShortcuts([]shortcut{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", "Cancel"},
	}))

	return pickerBoxStyle.Width(width).Render(b.String())
}
