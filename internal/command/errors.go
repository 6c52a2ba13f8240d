package command

import (
	"errors"
	"fmt"

	"github.com/goglerespect/personal-assistant/internal/contact"
)

var (
	// ErrContactNotFound indicates a command named a contact that does not exist.
	ErrContactNotFound = errors.New("command: contact not found")

	// ErrMissingArgument indicates fewer arguments than the command requires.
	ErrMissingArgument = errors.New("command: missing argument")

	// ErrInvalidArgument indicates an argument that is present but unusable.
	ErrInvalidArgument = errors.New("command: invalid argument")

	// ErrUnknownCommand indicates an unrecognized command word.
	ErrUnknownCommand = errors.New("command: unknown command")
)

// usageError carries the usage line of the command that failed.
type usageError struct {
	usage string
	err   error
}

func (e *usageError) Error() string { return fmt.Sprintf("%v (usage: %s)", e.err, e.usage) }
func (e *usageError) Unwrap() error { return e.err }

// Message converts a handler error into the one-line text shown to the user.
// It is the single place where domain errors become display strings.
func Message(err error) string {
	var pe *contact.PhoneError
	var ue *usageError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, contact.ErrPhoneNotFound) && errors.As(err, &pe):
		return fmt.Sprintf("Phone %s not found.", pe.Phone)
	case errors.Is(err, contact.ErrInvalidPhone):
		return "Phone number must contain exactly 10 digits."
	case errors.Is(err, contact.ErrInvalidFormat):
		return "Invalid date format. Use DD.MM.YYYY."
	case errors.Is(err, ErrContactNotFound):
		return "Contact not found."
	case errors.Is(err, ErrMissingArgument) && errors.As(err, &ue):
		return fmt.Sprintf("Enter the argument for the command. Usage: %s", ue.usage)
	case errors.Is(err, ErrMissingArgument):
		return "Enter the argument for the command."
	case errors.Is(err, ErrInvalidArgument) && errors.As(err, &ue):
		return fmt.Sprintf("Invalid argument. Usage: %s", ue.usage)
	case errors.Is(err, ErrInvalidArgument):
		return "Invalid argument."
	case errors.Is(err, ErrUnknownCommand):
		return "Invalid command."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
