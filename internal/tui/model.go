package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Renderer turns markdown into terminal output.
// Implemented by *glamour.TermRenderer.
type Renderer interface {
	Render(in string) (string, error)
}

// entry is one executed command and its reply.
type entry struct {
	input  string
	output string
}

// Model is the Bubble Tea model for the interactive prompt.
type Model struct {
	exec     Executor
	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	markdown Renderer

	entries  []entry
	width    int
	height   int
	quitting bool
	exited   bool   // The executor ended the session.
	last     string // Most recent reply.
}

// ModelOption configures optional Model behavior.
type ModelOption func(*Model)

// WithMarkdown renders markdown replies (such as the help page) with r.
func WithMarkdown(r Renderer) ModelOption {
	return func(m *Model) { m.markdown = r }
}

// NewModel creates a Model that sends submitted lines to exec.
func NewModel(exec Executor, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Prompt = PromptStyle().Render(Prompt)
	ti.Placeholder = "help"
	ti.Focus()

	m := Model{
		exec:     exec,
		input:    ti,
		viewport: viewport.New(80, 20),
		help:     help.New(),
		keys:     KeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.viewport.SetContent(m.transcript())
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.ScrollUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, m.keys.ScrollDown):
			m.viewport.HalfViewDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the typed line and appends the reply to the transcript.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()

	out, exit := m.exec.Execute(line)
	m.last = out
	m.entries = append(m.entries, entry{input: line, output: m.render(out)})
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()

	if exit {
		m.exited = true
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// render passes markdown replies through the renderer; anything else and
// any render failure is shown verbatim.
func (m Model) render(out string) string {
	if m.markdown == nil || !strings.HasPrefix(out, "#") {
		return out
	}
	rendered, err := m.markdown.Render(out)
	if err != nil {
		return out
	}
	return strings.Trim(rendered, "\n")
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	border := TranscriptBorder()
	m.viewport.Width = max(width-border.GetHorizontalFrameSize(), 1)
	// One line each for the input and the help bar.
	m.viewport.Height = max(height-border.GetVerticalFrameSize()-2, 1)
	m.input.Width = max(width-lipgloss.Width(m.input.Prompt)-1, 1)
	m.help.Width = width
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

// transcript renders the banner and every command so far.
func (m Model) transcript() string {
	var b strings.Builder
	b.WriteString(TitleStyle().Render(Welcome))
	for _, e := range m.entries {
		b.WriteString("\n")
		b.WriteString(EchoStyle().Render("> " + e.input))
		if e.output != "" {
			b.WriteString("\n")
			b.WriteString(e.output)
		}
	}
	return b.String()
}

// View renders the transcript pane, the input line and the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		TranscriptBorder().Render(m.viewport.View()),
		m.input.View(),
		m.help.View(m.keys),
	)
}
