package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetAside(t *testing.T) {
	// Given an unreadable book on disk
	dir := t.TempDir()
	path := filepath.Join(dir, "book.json")
	original := []byte(`{"version":99,"contacts":[{"name":"Alice"}]}`)
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	// When it is set aside twice in a row
	first, err := SetAside(path)
	if err != nil {
		t.Fatalf("SetAside() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := SetAside(path)
	if err != nil {
		t.Fatalf("SetAside() error = %v", err)
	}

	// Then each copy keeps its own bytes under a distinct name
	if first != path+".bak" {
		t.Errorf("first backup = %q, want %q", first, path+".bak")
	}
	if second != path+".bak.1" {
		t.Errorf("second backup = %q, want %q", second, path+".bak.1")
	}
	data, err := os.ReadFile(first)
	if err != nil || string(data) != string(original) {
		t.Errorf("first backup = %q, %v, want original bytes", data, err)
	}
	data, err = os.ReadFile(second)
	if err != nil || string(data) != "second" {
		t.Errorf("second backup = %q, %v", data, err)
	}
	// And the original path is free for a fresh save
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("path should no longer exist, stat err = %v", err)
	}
}

func TestSetAside_MissingFile(t *testing.T) {
	backup, err := SetAside(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || backup != "" {
		t.Errorf("SetAside(missing) = %q, %v, want empty and nil", backup, err)
	}
}
