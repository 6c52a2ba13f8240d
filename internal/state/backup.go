package state

import (
	"errors"
	"fmt"
	"os"
)

// maxBackups bounds the search for a free backup name.
const maxBackups = 100

// SetAside renames the file at path to the first unused name among
// "<path>.bak", "<path>.bak.1", "<path>.bak.2" and so on, so that a later Save
// cannot overwrite it. It returns the new name, or "" if path does not exist.
func SetAside(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("state: set aside %s: %w", path, err)
	}

	for i := range maxBackups {
		backup := path + ".bak"
		if i > 0 {
			backup = fmt.Sprintf("%s.bak.%d", path, i)
		}
		if _, err := os.Lstat(backup); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("state: set aside %s: %w", path, err)
		}
		if err := os.Rename(path, backup); err != nil {
			return "", fmt.Errorf("state: set aside %s: %w", path, err)
		}
		return backup, nil
	}
	return "", fmt.Errorf("state: set aside %s: no free backup name", path)
}
