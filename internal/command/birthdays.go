package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goglerespect/personal-assistant/internal/contact"
)

// BirthdayQuery holds the inputs of the upcoming-birthdays command that do
// not come from the user's arguments.
type BirthdayQuery struct {
	Today   time.Time
	Days    int
	LeapDay contact.LeapDayPolicy
}

// Birthdays lists upcoming birthdays grouped by celebration date.
// Usage: birthdays [days]; the optional argument overrides q.Days.
func Birthdays(args []string, book *contact.Book, q BirthdayQuery) (string, error) {
	days := q.Days
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", &usageError{usage: "birthdays [days]", err: fmt.Errorf("%w: %q", ErrInvalidArgument, args[0])}
		}
		days = n
	}

	upcoming := book.UpcomingBirthdays(q.Today, days, q.LeapDay)
	if len(upcoming) == 0 {
		return "No upcoming birthdays.", nil
	}
	return FormatUpcoming(upcoming), nil
}

// FormatUpcoming groups celebrations by date, one line per date in ascending
// calendar order. Names within a date keep the order they were given in.
func FormatUpcoming(upcoming []contact.Upcoming) string {
	type group struct {
		date  time.Time
		names []string
	}

	var groups []*group
	byDate := make(map[string]*group)
	for _, u := range upcoming {
		key := u.Date.Format(time.DateOnly)
		g, ok := byDate[key]
		if !ok {
			g = &group{date: u.Date}
			byDate[key] = g
			groups = append(groups, g)
		}
		g.names = append(g.names, u.Name)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].date.Before(groups[j].date)
	})

	lines := make([]string, len(groups))
	for i, g := range groups {
		lines[i] = fmt.Sprintf("%s: %s", g.date.Format(contact.BirthdayLayout), strings.Join(g.names, ", "))
	}
	return strings.Join(lines, "\n")
}
