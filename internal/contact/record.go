package contact

import (
	"fmt"
	"slices"
	"strings"
)

// Record is one contact: a fixed name, an ordered phone list and an optional birthday.
// Phones may repeat; order is insertion order.
type Record struct {
	name     string
	phones   []Phone
	birthday Birthday
}

// NewRecord creates an empty record for name.
func NewRecord(name string) *Record {
	return &Record{name: name}
}

// Name returns the record's identifying name.
func (r *Record) Name() string {
	return r.name
}

// Phones returns a copy of the record's phone list.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday returns the record's birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	return r.birthday, !r.birthday.IsZero()
}

// AddPhone validates number and appends it. Duplicates are kept.
func (r *Record) AddPhone(number string) error {
	p, err := NewPhone(number)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes the first phone equal to number. Absent numbers are ignored.
func (r *Record) RemovePhone(number string) {
	if i := r.indexOf(number); i >= 0 {
		r.phones = slices.Delete(r.phones, i, i+1)
	}
}

// EditPhone replaces old with new. The new number is appended at the end of
// the list and one occurrence of old is then removed, so the replacement does
// not keep old's position.
func (r *Record) EditPhone(old, new string) error {
	if r.indexOf(old) < 0 {
		return &PhoneError{Phone: old, Err: ErrPhoneNotFound}
	}
	if err := r.AddPhone(new); err != nil {
		return err
	}
	r.RemovePhone(old)
	return nil
}

// FindPhone returns the first phone equal to number.
func (r *Record) FindPhone(number string) (Phone, bool) {
	if i := r.indexOf(number); i >= 0 {
		return r.phones[i], true
	}
	return "", false
}

// SetBirthday parses value as DD.MM.YYYY and replaces any existing birthday.
func (r *Record) SetBirthday(value string) error {
	b, err := ParseBirthday(value)
	if err != nil {
		return err
	}
	r.birthday = b
	return nil
}

// String renders the record as a single human-readable line.
func (r *Record) String() string {
	phones := "no phones"
	if len(r.phones) > 0 {
		parts := make([]string, len(r.phones))
		for i, p := range r.phones {
			parts[i] = string(p)
		}
		phones = strings.Join(parts, "; ")
	}
	birthday := "no birthday"
	if b, ok := r.Birthday(); ok {
		birthday = b.String()
	}
	return fmt.Sprintf("Contact name: %s, phones: %s, birthday: %s", r.name, phones, birthday)
}

func (r *Record) indexOf(number string) int {
	return slices.Index(r.phones, Phone(number))
}
