package command

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goglerespect/personal-assistant/internal/contact"
)

// Handler runs one command against the book and returns its status line.
type Handler func(args []string, book *contact.Book) (string, error)

// requireArgs fails with ErrMissingArgument when args has fewer than n items.
func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return &usageError{usage: usage, err: ErrMissingArgument}
	}
	return nil
}

// findRecord looks up name, failing with ErrContactNotFound.
func findRecord(book *contact.Book, name string) (*contact.Record, error) {
	r, ok := book.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrContactNotFound, name)
	}
	return r, nil
}

// AddContact adds a phone to a contact, creating the contact if needed.
// Usage: add <name> <phone>.
func AddContact(args []string, book *contact.Book) (string, error) {
	if err := requireArgs(args, 2, "add <name> <phone>"); err != nil {
		return "", err
	}
	name, phone := args[0], args[1]

	// Snapshots are UTF-8 text; other bytes would not survive a save.
	if !utf8.ValidString(name) {
		return "", &usageError{usage: "add <name> <phone>", err: fmt.Errorf("%w: name %q is not valid UTF-8", ErrInvalidArgument, name)}
	}
	// Validate before touching the book so a bad phone never creates an empty contact.
	if !contact.ValidatePhone(phone) {
		return "", &contact.PhoneError{Phone: phone, Err: contact.ErrInvalidPhone}
	}

	message := "Contact updated."
	r, ok := book.Find(name)
	if !ok {
		r = contact.NewRecord(name)
		book.Add(r)
		message = "Contact added."
	}
	if err := r.AddPhone(phone); err != nil {
		return "", err
	}
	return message, nil
}

// ChangeContact replaces one of a contact's phones.
// Usage: change <name> <old phone> <new phone>.
func ChangeContact(args []string, book *contact.Book) (string, error) {
	if err := requireArgs(args, 3, "change <name> <old phone> <new phone>"); err != nil {
		return "", err
	}
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	if err := r.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return "Phone updated.", nil
}

// ShowPhone lists a contact's phones. Usage: phone <name>.
func ShowPhone(args []string, book *contact.Book) (string, error) {
	if err := requireArgs(args, 1, "phone <name>"); err != nil {
		return "", err
	}
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	phones := r.Phones()
	if len(phones) == 0 {
		return "No phones.", nil
	}
	parts := make([]string, len(phones))
	for i, p := range phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; "), nil
}

// RemovePhone drops one phone from a contact. Absent phones are not an error.
// Usage: remove-phone <name> <phone>.
func RemovePhone(args []string, book *contact.Book) (string, error) {
	if err := requireArgs(args, 2, "remove-phone <name> <phone>"); err != nil {
		return "", err
	}
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	r.RemovePhone(args[1])
	return "Phone removed.", nil
}

// DeleteContact removes a contact. Usage: delete <name>.
func DeleteContact(args []string, book *contact.Book) (string, error) {
	if err := requireArgs(args, 1, "delete <name>"); err != nil {
		return "", err
	}
	if _, err := findRecord(book, args[0]); err != nil {
		return "", err
	}
	book.Delete(args[0])
	return "Contact deleted.", nil
}

// ShowAll renders every contact, one per line.
func ShowAll(_ []string, book *contact.Book) (string, error) {
	if book.Len() == 0 {
		return "No contacts saved.", nil
	}
	lines := make([]string, 0, book.Len())
	for _, r := range book.Records() {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n"), nil
}

// AddBirthday sets a contact's birthday. Usage: add-birthday <name> <DD.MM.YYYY>.
func AddBirthday(args []string, book *contact.Book) (string, error) {
	if err := requireArgs(args, 2, "add-birthday <name> <DD.MM.YYYY>"); err != nil {
		return "", err
	}
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	if err := r.SetBirthday(args[1]); err != nil {
		return "", err
	}
	return "Birthday added.", nil
}

// ShowBirthday prints a contact's birthday. Usage: show-birthday <name>.
func ShowBirthday(args []string, book *contact.Book) (string, error) {
	if err := requireArgs(args, 1, "show-birthday <name>"); err != nil {
		return "", err
	}
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	b, ok := r.Birthday()
	if !ok {
		return "No birthday set.", nil
	}
	return b.String(), nil
}
