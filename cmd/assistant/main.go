package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	assistant "github.com/goglerespect/personal-assistant"
	"github.com/goglerespect/personal-assistant/internal/command"
	"github.com/goglerespect/personal-assistant/internal/config"
	"github.com/goglerespect/personal-assistant/internal/contact"
	"github.com/goglerespect/personal-assistant/internal/help"
	"github.com/goglerespect/personal-assistant/internal/logging"
	"github.com/goglerespect/personal-assistant/internal/state"
	"github.com/goglerespect/personal-assistant/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	Config  string `help:"Config file to use instead of the user and project layers." type:"existingfile"`
	File    string `help:"Address book location (overrides storage.path)." short:"f"`
	Backend string `help:"Storage backend: file or sqlite (overrides storage.backend)."`
	NoTUI   bool   `help:"Force the plain prompt even if stdout is a TTY." default:"false"`
}

// CLI is the top-level command structure for assistant.
type CLI struct {
	Globals

	Version   kong.VersionFlag `help:"Show version." short:"V"`
	Shell     ShellCmd         `cmd:"" default:"1" help:"Start the interactive assistant (default)."`
	Exec      ExecCmd          `cmd:"" help:"Run one assistant command and save the address book."`
	Birthdays BirthdaysCmd     `cmd:"" help:"List upcoming birthdays."`
}

// ShellCmd runs the interactive prompt.
type ShellCmd struct{}

// ExecCmd runs a single command line, e.g. "assistant exec add John 0501234567".
type ExecCmd struct {
	Line []string `arg:"" passthrough:"" help:"Command and arguments."`
}

// BirthdaysCmd prints upcoming birthdays.
type BirthdaysCmd struct {
	Days int `help:"Window in days (default: birthdays.window_days)." default:"-1"`
}

// Exit codes.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// errCommandFailed marks an exec whose command reported an error.
var errCommandFailed = errors.New("command failed")

// setupError marks failures that happen before any command runs.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	store    state.Store
	now      func() time.Time
	pages    *help.Loader
}

// loadConfig loads the config file at path, or the layered user and project
// configs when path is empty, then applies env overrides.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadLayered(
			os.ExpandEnv("$HOME/.config/assistant/config.yaml"),
			".assistant/config.yaml",
		)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup applies flag overrides to cfg and opens logging and storage.
func setup(cfg *config.Config, g *Globals) (*app, error) {
	if g.File != "" {
		cfg.Storage.Path = g.File
	}
	if g.Backend != "" {
		cfg.Storage.Backend = g.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, &setupError{err}
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, &setupError{err}
	}

	store, err := state.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		_ = closeLog()
		return nil, &setupError{err}
	}
	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	return &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		store:    store,
		now:      time.Now,
		pages:    help.NewLoader(assistant.OverlayFS(".assistant/help", assistant.Help)),
	}, nil
}

func (a *app) close() {
	if a.store == nil {
		_ = a.closeLog()
		return
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing storage", "err", err)
	}
	_ = a.closeLog()
}

// load reads the address book. A book that cannot be read is moved aside
// and replaced by an empty one so the session can still start. If it cannot
// be moved, load fails and nothing gets saved over it.
func (a *app) load(ctx context.Context, errW io.Writer) (*contact.Book, error) {
	path := a.cfg.Storage.Path
	book, err := a.store.Load(ctx)
	if err == nil {
		a.logger.Info("address book loaded", "path", path, "contacts", book.Len())
		return book, nil
	}
	a.logger.Warn("load failed", "path", path, "err", err)

	// Release the file before renaming it, then reopen a fresh store.
	if cerr := a.store.Close(); cerr != nil {
		a.logger.Warn("closing storage", "err", cerr)
	}
	a.store = nil
	backup, serr := state.SetAside(path)
	if serr != nil {
		return nil, fmt.Errorf("loading %s: %w (kept in place: %w)", path, err, serr)
	}
	store, oerr := state.Open(a.cfg.Storage.Backend, path)
	if oerr != nil {
		return nil, fmt.Errorf("reopening %s: %w", path, oerr)
	}
	a.store = store

	if backup != "" {
		a.logger.Warn("unreadable address book moved", "path", path, "backup", backup)
		_, _ = fmt.Fprintf(errW, "warning: could not load %s: %v; moved it to %s and starting with an empty address book\n", path, err, backup)
	} else {
		_, _ = fmt.Fprintf(errW, "warning: could not load %s: %v; starting with an empty address book\n", path, err)
	}
	return contact.NewBook(), nil
}

// save writes the address book even if ctx was cancelled by an interrupt.
func (a *app) save(ctx context.Context, book *contact.Book) error {
	if err := a.store.Save(context.WithoutCancel(ctx), book); err != nil {
		a.logger.Error("save failed", "path", a.cfg.Storage.Path, "err", err)
		return fmt.Errorf("saving %s: %w", a.cfg.Storage.Path, err)
	}
	a.logger.Info("address book saved", "path", a.cfg.Storage.Path, "contacts", book.Len())
	return nil
}

// session builds a command session from the loaded config.
func (a *app) session(book *contact.Book) *command.Session {
	return command.NewSession(book,
		command.WithClock(a.now),
		command.WithWindowDays(a.cfg.Birthdays.WindowDays),
		command.WithLeapDayPolicy(a.cfg.LeapDayPolicy()),
		command.WithHelp(a.helpText()),
		command.WithLogger(a.logger),
	)
}

// helpText renders the commands help page; an unusable page disables help.
func (a *app) helpText() string {
	text, err := a.pages.Compose("commands", help.Context{
		WindowDays:  a.cfg.Birthdays.WindowDays,
		LeapDay:     leapDayLabel(a.cfg.LeapDayPolicy()),
		PhoneLength: contact.PhoneLength,
		StoragePath: a.cfg.Storage.Path,
	})
	if err != nil {
		a.logger.Warn("help unavailable", "err", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func leapDayLabel(p contact.LeapDayPolicy) string {
	if p == contact.LeapDayMar1 {
		return "1 March"
	}
	return "28 February"
}

// Run executes the shell command.
func (s *ShellCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return &setupError{fmt.Errorf("shell: %w", err)}
	}
	a, err := setup(cfg, g)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	display := tui.NewDisplay(tui.DisplayOptions{ForcePlain: g.NoTUI})
	return s.run(ctx, a, display, os.Stderr)
}

func (s *ShellCmd) run(ctx context.Context, a *app, display tui.Display, errW io.Writer) error {
	book, err := a.load(ctx, errW)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	runErr := display.Run(ctx, a.session(book))
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		a.logger.Error("prompt failed", "err", runErr)
	}

	if err := a.save(ctx, book); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("shell: %w", runErr)
	}
	return nil
}

// Run executes the exec command.
func (e *ExecCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return &setupError{fmt.Errorf("exec: %w", err)}
	}
	a, err := setup(cfg, g)
	if err != nil {
		return err
	}
	defer a.close()

	return e.run(context.Background(), a, os.Stdout, os.Stderr)
}

// run executes the line and saves only when the command succeeded.
func (e *ExecCmd) run(ctx context.Context, a *app, w, errW io.Writer) error {
	book, err := a.load(ctx, errW)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	sess := a.session(book)

	cmd, args := command.ParseInput(strings.Join(e.Line, " "))
	out, err := sess.Run(cmd, args)
	if err != nil {
		_, _ = fmt.Fprintln(errW, command.Message(err))
		return fmt.Errorf("exec: %s: %w", cmd, errCommandFailed)
	}
	if out != "" {
		_, _ = fmt.Fprintln(w, out)
	}

	if err := a.save(ctx, book); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Run executes the birthdays command.
func (b *BirthdaysCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return &setupError{fmt.Errorf("birthdays: %w", err)}
	}
	a, err := setup(cfg, g)
	if err != nil {
		return err
	}
	defer a.close()

	return b.run(context.Background(), a, os.Stdout, os.Stderr)
}

func (b *BirthdaysCmd) run(ctx context.Context, a *app, w, errW io.Writer) error {
	book, err := a.load(ctx, errW)
	if err != nil {
		return fmt.Errorf("birthdays: %w", err)
	}

	var args []string
	if b.Days >= 0 {
		args = []string{strconv.Itoa(b.Days)}
	}
	out, err := a.session(book).Run("birthdays", args)
	if err != nil {
		return fmt.Errorf("birthdays: %s", command.Message(err))
	}
	_, _ = fmt.Fprintln(w, out)
	return nil
}

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitRuntime
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("assistant"),
		kong.Description("A console contact manager with birthday reminders."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(exitCode(err))
	}
}
