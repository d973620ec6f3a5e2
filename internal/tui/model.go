package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/codeassist/internal/chat"
	"github.com/diogo/codeassist/internal/config"
	"github.com/diogo/codeassist/internal/render"
)

// noticeDuration is how long a copy acknowledgment or command error stays up
const noticeDuration = 2 * time.Second

type (
	animationTickMsg time.Time

	// replyMsg arrives once Finish has appended the reply to the transcript
	replyMsg struct {
		requestID string
	}

	noticeExpiredMsg struct {
		seq int
	}
)

// Model is the interactive chat. The transcript, the in-flight flag and the
// selected language live in the controller; the model only draws them.
type Model struct {
	ctx        context.Context
	ctrl       *chat.Controller
	modelName  string
	renderOpts render.Options

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int

	picker        languagePicker
	pickingLang   bool
	notice        string
	noticeIsError bool
	noticeSeq     int

	width  int
	height int
}

// NewChatModel creates the chat model around a controller
func NewChatModel(ctx context.Context, ctrl *chat.Controller, modelName string, opts render.Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste code or describe what you need..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	// Enter submits; alt+enter inserts a newline
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if ctx == nil {
		ctx = context.Background()
	}

	return Model{
		ctx:        ctx,
		ctrl:       ctrl,
		modelName:  modelName,
		renderOpts: opts,
		textarea:   ta,
		spinner:    s,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func animationTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pickingLang {
		return m.updateLanguagePicker(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			// a pending request is never cancelled
			if !m.ctrl.Loading() {
				return m, tea.Quit
			}
			return m, nil

		case "ctrl+l":
			return m.clear()

		case "ctrl+y":
			return m.copyBlock(0)

		case "enter":
			return m.submit()
		}

	case replyMsg:
		m.updateViewport()
		m.viewport.GotoBottom()

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeIsError = false
		}

	case spinner.TickMsg:
		if m.ctrl.Loading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.ctrl.Loading() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key messages reach the textarea so terminal replies do not leak in
	if !m.ctrl.Loading() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.ctrl.SetInput(m.textarea.Value())
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	const (
		headerHeight = 3
		inputHeight  = 6
		statusHeight = 2
	)
	vpHeight := height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.updateViewport()
	m.viewport.GotoBottom()
}

// submit handles Enter: exit words and slash commands first, then the
// controller's guarded Begin.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}

	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	}

	if name, arg, ok := parseCommand(input); ok {
		m.textarea.Reset()
		m.ctrl.SetInput("")
		return m.runCommand(name, arg)
	}

	req, ok := m.ctrl.Begin(input)
	if !ok {
		return m, nil
	}
	m.textarea.Reset()
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.finish(req), m.spinner.Tick, animationTick())
}

func (m Model) finish(req chat.Request) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Finish(ctx, req)
		return replyMsg{requestID: req.ID}
	}
}

// parseCommand recognizes the slash commands by their first word. Anything
// else, including text that merely starts with a slash, is sent to the model.
func parseCommand(input string) (name, arg string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	fields := strings.Fields(input)
	name = strings.ToLower(fields[0])
	switch name {
	case "/clear", "/lang", "/language", "/copy", "/help":
	default:
		return "", "", false
	}
	arg = strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
	return name, arg, true
}

func (m Model) runCommand(name, arg string) (tea.Model, tea.Cmd) {
	switch name {
	case "/clear":
		if arg != "" {
			return m.setNotice("Usage: /clear", true)
		}
		return m.clear()

	case "/lang", "/language":
		if arg == "" {
			m.picker = newLanguagePicker(m.ctrl.Language())
			m.pickingLang = true
			return m, nil
		}
		lang, ok := config.LookupLanguage(arg)
		if !ok {
			return m.setNotice(fmt.Sprintf("Unknown language %q", arg), true)
		}
		m.ctrl.SetLanguage(lang.Tag)
		return m.setNotice("Language: "+lang.Label, false)

	case "/copy":
		n := 0
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				return m.setNotice("Usage: /copy [block number]", true)
			}
			n = v
		}
		return m.copyBlock(n)

	case "/help":
		return m.setNotice("/clear  /lang [name]  /copy [n]  exit", false)
	}
	return m, nil
}

func (m Model) clear() (tea.Model, tea.Cmd) {
	m.ctrl.Clear()
	m.updateViewport()
	m.viewport.GotoTop()
	return m, nil
}

// copyBlock copies code block n (1-based), or the last one when n is 0
func (m Model) copyBlock(n int) (tea.Model, tea.Cmd) {
	blocks := m.ctrl.CodeBlocks()
	if len(blocks) == 0 {
		return m.setNotice("No code blocks to copy", true)
	}
	if n == 0 {
		n = len(blocks)
	}
	if n > len(blocks) {
		return m.setNotice(fmt.Sprintf("No code block [%d]", n), true)
	}

	ack, err := m.ctrl.Copy(blocks[n-1].Code)
	if err != nil {
		return m.setNotice(err.Error(), true)
	}
	return m.setNotice(ack, false)
}

func (m Model) setNotice(text string, isError bool) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	m.noticeIsError = isError
	seq := m.noticeSeq
	return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}
	if m.pickingLang {
		return m.picker.View(m.width)
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("</> Code Assistant"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
		hintStyle.Render("  •  "),
		menuValueStyle.Render(config.LanguageLabel(m.ctrl.Language())),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	var input string
	if m.ctrl.Loading() {
		input = m.renderLoadingAnimation()
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLoadingAnimation() string {
	return LoadingFrame(m.animationFrame, "Thinking")
}

func (m Model) renderStatusBar(width int) string {
	var line string
	switch {
	case m.notice != "" && m.noticeIsError:
		line = noticeErrorStyle.Render(m.notice)
	case m.notice != "":
		line = noticeStyle.Render(m.notice)
	default:
		line = renderShortcuts([]shortcut{
			{"Enter", "Send"},
			{"Ctrl+Y", "Copy code"},
			{"Ctrl+L", "Clear"},
			{"/lang", "Language"},
			{"Esc", "Quit"},
		})
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(line)
}

// updateViewport redraws the transcript. Code blocks are numbered across
// the whole transcript, matching chat.Controller.CodeBlocks.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := m.renderOpts.WithWidth(bubbleWidth - 4)
	next := 1

	for i, msg := range m.ctrl.Messages() {
		if i > 0 {
			b.WriteString("\n")
		}

		var body string
		body, next = render.Message(msg.Content, opts, next)

		if msg.Role == chat.RoleUser {
			b.WriteString(userLabelStyle.Render("● You"))
			b.WriteString("\n")
			b.WriteString(userBubbleStyle.Width(bubbleWidth).Render(body))
		} else {
			b.WriteString(assistantLabelStyle.Render("</> Assistant"))
			b.WriteString("\n")
			b.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(body))
		}
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, ctrl *chat.Controller, modelName string, opts render.Options) error {
	p := tea.NewProgram(
		NewChatModel(ctx, ctrl, modelName, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
