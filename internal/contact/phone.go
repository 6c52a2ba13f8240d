// Package contact holds the address book domain: validated phone and birthday
// values, contact records, and the book that indexes them by name.
package contact

// PhoneLength is the exact number of digits in a valid phone number.
const PhoneLength = 10

// Phone is a validated 10-digit phone number.
type Phone string

// ValidatePhone reports whether s consists of exactly PhoneLength decimal digits.
func ValidatePhone(s string) bool {
	if len(s) != PhoneLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NewPhone validates s and returns it as a Phone.
func NewPhone(s string) (Phone, error) {
	if !ValidatePhone(s) {
		return "", &PhoneError{Phone: s, Err: ErrInvalidPhone}
	}
	return Phone(s), nil
}

func (p Phone) String() string {
	return string(p)
}
