package command

import (
	"errors"
	"log/slog"
	"time"

	"github.com/goglerespect/personal-assistant/internal/contact"
)

// Fixed replies of the conversational commands.
const (
	Greeting = "How can I help you?"
	Farewell = "Good bye!"
)

// Session executes input lines against one address book.
// It is not safe for concurrent use.
type Session struct {
	book     *contact.Book
	now      func() time.Time
	window   int
	leap     contact.LeapDayPolicy
	help     string
	logger   *slog.Logger
	handlers map[string]Handler
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for "today" in birthday queries.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithWindowDays sets the default upcoming-birthdays window.
func WithWindowDays(days int) Option {
	return func(s *Session) { s.window = days }
}

// WithLeapDayPolicy sets how 29 February birthdays are observed.
func WithLeapDayPolicy(p contact.LeapDayPolicy) Option {
	return func(s *Session) { s.leap = p }
}

// WithHelp sets the text returned by the help command.
func WithHelp(text string) Option {
	return func(s *Session) { s.help = text }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a Session operating on book.
func NewSession(book *contact.Book, opts ...Option) *Session {
	s := &Session{
		book:   book,
		now:    time.Now,
		window: contact.DefaultWindowDays,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handlers = map[string]Handler{
		"add":           AddContact,
		"change":        ChangeContact,
		"phone":         ShowPhone,
		"remove-phone":  RemovePhone,
		"delete":        DeleteContact,
		"all":           ShowAll,
		"add-birthday":  AddBirthday,
		"show-birthday": ShowBirthday,
		"birthdays":     s.birthdays,
		"hello":         reply(Greeting),
		"help":          s.showHelp,
	}
	return s
}

// Execute runs one input line and returns the text to show the user.
// exit is true when the user asked to end the session. Errors never escape:
// every failure is rendered through Message.
func (s *Session) Execute(line string) (output string, exit bool) {
	cmd, args := ParseInput(line)

	if cmd == "close" || cmd == "exit" {
		s.logger.Debug("session closing", "command", cmd)
		return Farewell, true
	}

	out, err := s.Run(cmd, args)
	if err != nil {
		s.logger.Info("command failed", "command", cmd, "err", err)
		return Message(err), false
	}
	s.logger.Debug("command executed", "command", cmd, "args", len(args))
	return out, false
}

// Run dispatches an already-parsed command. It returns ErrUnknownCommand for
// words without a handler, including "close" and "exit".
func (s *Session) Run(cmd string, args []string) (string, error) {
	h, ok := s.handlers[cmd]
	if !ok {
		return "", ErrUnknownCommand
	}
	return h(args, s.book)
}

func (s *Session) birthdays(args []string, book *contact.Book) (string, error) {
	return Birthdays(args, book, BirthdayQuery{
		Today:   s.now(),
		Days:    s.window,
		LeapDay: s.leap,
	})
}

func (s *Session) showHelp(_ []string, _ *contact.Book) (string, error) {
	if s.help == "" {
		return "", errors.New("command: help is not available")
	}
	return s.help, nil
}

func reply(text string) Handler {
	return func([]string, *contact.Book) (string, error) { return text, nil }
}
