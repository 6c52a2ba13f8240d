// Package command turns parsed user input into address book operations and
// renders every outcome, including failures, as a status string.
package command

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseInput splits a line on whitespace into a lower-cased command word and
// its arguments. Arguments keep their case. An empty line yields "".
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return cases.Lower(language.Und).String(fields[0]), fields[1:]
}
