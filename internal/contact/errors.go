package contact

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPhone indicates a phone number is not exactly 10 decimal digits.
	ErrInvalidPhone = errors.New("contact: invalid phone number")

	// ErrInvalidFormat indicates a birthday is not a real date in DD.MM.YYYY form.
	ErrInvalidFormat = errors.New("contact: invalid date format")

	// ErrPhoneNotFound indicates an edit targeted a phone the record does not hold.
	ErrPhoneNotFound = errors.New("contact: phone not found")
)

// PhoneError reports a failed phone operation along with the offending number.
type PhoneError struct {
	Phone string
	Err   error
}

func (e *PhoneError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Phone)
}

func (e *PhoneError) Unwrap() error {
	return e.Err
}
