// Package help loads and renders the assistant's help pages.
package help

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// ErrEmpty indicates a help page exists but contains no content.
var ErrEmpty = errors.New("help: empty help page")

// Context holds the values interpolated into help templates.
type Context struct {
	WindowDays  int
	LeapDay     string
	PhoneLength int
	StoragePath string
}

// Loader reads help pages from a filesystem.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a Loader that reads pages from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load reads the named page (<name>.md). It must exist and be non-empty.
func (l *Loader) Load(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("help: invalid page name %q", name)
	}

	data, err := fs.ReadFile(l.fsys, name+".md")
	if err != nil {
		return "", fmt.Errorf("help: loading %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmpty, name)
	}
	return string(data), nil
}

// Compose loads a page and interpolates ctx into it.
// Pages use Go text/template syntax (e.g. {{.WindowDays}}).
func (l *Loader) Compose(name string, ctx Context) (string, error) {
	raw, err := l.Load(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("help: parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("help: executing template %s: %w", name, err)
	}
	return buf.String(), nil
}
