package contact

import (
	"fmt"
	"slices"
	"time"
)

// DefaultWindowDays is the default horizon for UpcomingBirthdays.
const DefaultWindowDays = 7

// Book is a name-keyed collection of records that remembers insertion order.
// It is not safe for concurrent use.
type Book struct {
	index   map[string]int
	records []*Record
}

// NewBook creates a book holding records in the given order.
// A later record with the same name overwrites an earlier one.
func NewBook(records ...*Record) *Book {
	b := &Book{index: make(map[string]int, len(records))}
	for _, r := range records {
		b.Add(r)
	}
	return b
}

// Add inserts r under its name, replacing any record already stored under
// that name. A replaced record keeps its position in iteration order.
func (b *Book) Add(r *Record) {
	if i, ok := b.index[r.name]; ok {
		b.records[i] = r
		return
	}
	b.index[r.name] = len(b.records)
	b.records = append(b.records, r)
}

// Find returns the record stored under name. Matching is exact.
func (b *Book) Find(name string) (*Record, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}
	return b.records[i], true
}

// Delete removes the record stored under name, if any.
func (b *Book) Delete(name string) {
	i, ok := b.index[name]
	if !ok {
		return
	}
	delete(b.index, name)
	b.records = slices.Delete(b.records, i, i+1)
	for j := i; j < len(b.records); j++ {
		b.index[b.records[j].name] = j
	}
}

// Len returns the number of records.
func (b *Book) Len() int {
	return len(b.records)
}

// Records returns the records in insertion order.
func (b *Book) Records() []*Record {
	return slices.Clone(b.records)
}

// LeapDayPolicy decides where a 29 February birthday falls in non-leap years.
type LeapDayPolicy int

const (
	// LeapDayFeb28 observes 29 February birthdays on 28 February.
	LeapDayFeb28 LeapDayPolicy = iota
	// LeapDayMar1 observes 29 February birthdays on 1 March.
	LeapDayMar1
)

// ParseLeapDayPolicy maps a config value ("feb28" or "mar1") to a policy.
func ParseLeapDayPolicy(s string) (LeapDayPolicy, error) {
	switch s {
	case "", "feb28":
		return LeapDayFeb28, nil
	case "mar1":
		return LeapDayMar1, nil
	default:
		return 0, fmt.Errorf("contact: unknown leap day policy %q", s)
	}
}

func (p LeapDayPolicy) String() string {
	if p == LeapDayMar1 {
		return "mar1"
	}
	return "feb28"
}

// Upcoming is one birthday celebration returned by UpcomingBirthdays.
type Upcoming struct {
	Name string
	Date time.Time
}

// occurrence returns the date on which b is celebrated in year, ignoring weekends.
func occurrence(b Birthday, year int, leap LeapDayPolicy) time.Time {
	month, day := b.Month(), b.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		if leap == LeapDayMar1 {
			month, day = time.March, 1
		} else {
			day = 28
		}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// UpcomingBirthdays returns the records whose next celebration falls within
// days calendar days of today, inclusive on both ends.
//
// The next celebration is this year's occurrence, or next year's if this
// year's is already before today. Occurrences on a Saturday or Sunday move to
// the following Monday before the window is checked. Results follow the
// book's iteration order.
func (b *Book) UpcomingBirthdays(today time.Time, days int, leap LeapDayPolicy) []Upcoming {
	start := civilDate(today)

	var out []Upcoming
	for _, r := range b.records {
		bd, ok := r.Birthday()
		if !ok {
			continue
		}

		next := occurrence(bd, start.Year(), leap)
		if next.Before(start) {
			next = occurrence(bd, start.Year()+1, leap)
		}

		switch next.Weekday() {
		case time.Saturday:
			next = next.AddDate(0, 0, 2)
		case time.Sunday:
			next = next.AddDate(0, 0, 1)
		}

		diff := daysBetween(start, next)
		if diff >= 0 && diff <= days {
			out = append(out, Upcoming{Name: r.name, Date: next})
		}
	}
	return out
}

// civilDate drops the clock and zone from t, keeping its calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b. Both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
