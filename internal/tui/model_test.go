package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

type upperRenderer struct{ err error }

func (r upperRenderer) Render(in string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "\n" + strings.ToUpper(in) + "\n", nil
}

func typeLine(m Model, line string) Model {
	m.input.SetValue(line)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestNewModel_ShowsWelcome(t *testing.T) {
	m := NewModel(&fakeExecutor{})

	if !strings.Contains(m.transcript(), Welcome) {
		t.Errorf("transcript should start with the welcome banner, got %q", m.transcript())
	}
	if m.quitting {
		t.Error("new model should not be quitting")
	}
	if m.Init() == nil {
		t.Error("Init() should return the blink command")
	}
}

func TestModel_SubmitExecutesLine(t *testing.T) {
	// Given a model over a scripted executor
	exec := &fakeExecutor{replies: map[string]string{"hello": "How can I help you?"}}
	m := NewModel(exec)

	// When a line is submitted
	m = typeLine(m, "hello")

	// Then the executor ran it and the transcript shows both sides
	if len(exec.lines) != 1 || exec.lines[0] != "hello" {
		t.Fatalf("executed %v, want [hello]", exec.lines)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	got := m.transcript()
	if !strings.Contains(got, "> hello") || !strings.Contains(got, "How can I help you?") {
		t.Errorf("transcript missing command or reply:\n%s", got)
	}
	if m.exited {
		t.Error("model should not exit after hello")
	}
}

func TestModel_ExitQuits(t *testing.T) {
	exec := &fakeExecutor{exitOn: "close"}
	m := NewModel(exec)
	m.input.SetValue("close")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated := next.(Model)

	if !updated.exited || !updated.quitting {
		t.Error("model should be exited and quitting")
	}
	if updated.last != "Good bye!" {
		t.Errorf("last = %q, want farewell", updated.last)
	}
	if cmd == nil {
		t.Fatal("exit should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit command should produce QuitMsg")
	}
	if updated.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "esc", msg: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			m := NewModel(exec)

			next, cmd := m.Update(tt.msg)
			updated := next.(Model)

			if !updated.quitting {
				t.Error("model should be quitting")
			}
			if updated.exited {
				t.Error("quit key should not count as an executed exit")
			}
			if cmd == nil {
				t.Error("quit key should return tea.Quit")
			}
			if len(exec.lines) != 0 {
				t.Errorf("quit key should not execute anything, got %v", exec.lines)
			}
		})
	}
}

func TestModel_MarkdownReplies(t *testing.T) {
	tests := []struct {
		name     string
		renderer Renderer
		reply    string
		want     string
	}{
		{name: "markdown is rendered", renderer: upperRenderer{}, reply: "# Commands", want: "# COMMANDS"},
		{name: "plain text is verbatim", renderer: upperRenderer{}, reply: "Contact added.", want: "Contact added."},
		{name: "render failure is verbatim", renderer: upperRenderer{err: errors.New("boom")}, reply: "# Commands", want: "# Commands"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{replies: map[string]string{"help": tt.reply}}
			m := typeLine(NewModel(exec, WithMarkdown(tt.renderer)), "help")

			if got := m.entries[0].output; got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_WindowSizeSetsLayout(t *testing.T) {
	m := NewModel(&fakeExecutor{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	updated := next.(Model)

	if updated.viewport.Width != 98 {
		t.Errorf("viewport width = %d, want 98", updated.viewport.Width)
	}
	if updated.viewport.Height != 26 {
		t.Errorf("viewport height = %d, want 26", updated.viewport.Height)
	}
	if updated.help.Width != 100 {
		t.Errorf("help width = %d, want 100", updated.help.Width)
	}
}

func TestModel_TinyWindowClampsSizes(t *testing.T) {
	m := NewModel(&fakeExecutor{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 1, Height: 1})
	updated := next.(Model)

	if updated.viewport.Width < 1 || updated.viewport.Height < 1 {
		t.Errorf("viewport = %dx%d, want at least 1x1", updated.viewport.Width, updated.viewport.Height)
	}
}

func TestModel_ViewShowsHelpBar(t *testing.T) {
	m := NewModel(&fakeExecutor{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})

	view := next.(Model).View()
	if !strings.Contains(view, "run command") {
		t.Errorf("view should include the help bar, got:\n%s", view)
	}
}

// TestModel_Teatest_Session types commands through a running program.
func TestModel_Teatest_Session(t *testing.T) {
	exec := &fakeExecutor{
		replies: map[string]string{"add John 1234567890": "Contact added."},
		exitOn:  "exit",
	}
	m := NewModel(exec)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Type("add John 1234567890")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Type("exit")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if !final.exited {
		t.Error("final model should have exited")
	}
	if len(final.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(final.entries))
	}
	if final.entries[0].output != "Contact added." {
		t.Errorf("first reply = %q, want %q", final.entries[0].output, "Contact added.")
	}
}
