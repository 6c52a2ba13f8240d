// Package tui runs the interactive command prompt, either as a plain line
// loop or as a Bubble Tea terminal UI.
package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// Banner and prompt shown by the interactive loop.
const (
	Welcome = "Welcome to the assistant bot!"
	Prompt  = "Enter a command: "
)

// Executor runs one input line. exit reports that the session is over.
// Implemented by command.Session.
type Executor interface {
	Execute(line string) (output string, exit bool)
}

// Display drives an Executor until the user exits or input ends.
type Display interface {
	Run(ctx context.Context, exec Executor) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Reader     io.Reader // Input source (default: os.Stdin).
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force the line loop even if TTY.
}

// NewDisplay returns a TUI display when the writer is a TTY, or a plain
// line loop otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Reader == nil {
		opts.Reader = os.Stdin
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{r: opts.Reader, w: opts.Writer}
	}

	return &TUIDisplay{r: opts.Reader, w: opts.Writer}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay prompts for one line at a time and prints each reply.
type PlainDisplay struct {
	r io.Reader
	w io.Writer
}

// NewPlainDisplay creates a PlainDisplay reading r and writing w.
func NewPlainDisplay(r io.Reader, w io.Writer) *PlainDisplay {
	return &PlainDisplay{r: r, w: w}
}

// Run prints the welcome banner and loops until exec reports exit, the
// input is exhausted, or ctx is cancelled.
func (d *PlainDisplay) Run(ctx context.Context, exec Executor) error {
	_, _ = fmt.Fprintln(d.w, Welcome)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(d.r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprint(d.w, Prompt)

		var line string
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(d.w)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				// EOF ends the session like "exit" without the farewell.
				_, _ = fmt.Fprintln(d.w)
				err := <-readErr
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err != nil {
					return fmt.Errorf("tui: reading input: %w", err)
				}
				return nil
			}
			line = l
		}

		out, exit := exec.Execute(line)
		if out != "" {
			_, _ = fmt.Fprintln(d.w, out)
		}
		if exit {
			return nil
		}
	}
}

// TUIDisplay runs the prompt as a Bubble Tea program.
// Falls back to PlainDisplay if the program fails to start.
type TUIDisplay struct {
	r io.Reader
	w io.Writer
}

// Run starts the Bubble Tea program. If the TUI fails for a reason other
// than cancellation, the session continues in the plain line loop.
func (d *TUIDisplay) Run(ctx context.Context, exec Executor) error {
	var opts []ModelOption
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80)); err == nil {
		opts = append(opts, WithMarkdown(r))
	}

	p := tea.NewProgram(NewModel(exec, opts...),
		tea.WithInput(d.r),
		tea.WithOutput(d.w),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err == nil {
		// The alt screen is gone; leave the farewell on the main screen.
		if m, ok := final.(Model); ok && m.exited {
			_, _ = fmt.Fprintln(d.w, m.last)
		}
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
		return ctx.Err()
	}

	plain := &PlainDisplay{r: d.r, w: d.w}
	return plain.Run(ctx, exec)
}
