package contact

import (
	"fmt"
	"time"
)

// BirthdayLayout is the Go time layout for the DD.MM.YYYY birthday form.
const BirthdayLayout = "02.01.2006"

// Birthday is a validated calendar date. The zero value means "unset".
type Birthday struct {
	date  time.Time
	valid bool
}

// ParseBirthday parses s strictly as DD.MM.YYYY.
// Two-digit day, two-digit month and four-digit year are required, and the
// result must be a real calendar date (no 30.02).
func ParseBirthday(s string) (Birthday, error) {
	if !hasBirthdayShape(s) {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return Birthday{date: t, valid: true}, nil
}

// hasBirthdayShape checks the byte layout "dd.mm.yyyy" before calendar parsing,
// since time.Parse tolerates signs in the year field.
func hasBirthdayShape(s string) bool {
	if len(s) != len(BirthdayLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 2, 5:
			if s[i] != '.' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// IsZero reports whether the birthday is unset.
func (b Birthday) IsZero() bool {
	return !b.valid
}

// Month returns the birthday month.
func (b Birthday) Month() time.Month {
	return b.date.Month()
}

// Day returns the day of the month.
func (b Birthday) Day() int {
	return b.date.Day()
}

// String formats the birthday as DD.MM.YYYY.
func (b Birthday) String() string {
	if b.IsZero() {
		return ""
	}
	return b.date.Format(BirthdayLayout)
}
