package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/goglerespect/personal-assistant/internal/contact"
	"github.com/goglerespect/personal-assistant/internal/state/migrations"
)

// SQLiteStore persists the book in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state: sqlite path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return nil, fmt.Errorf("state: creating directory: %w", err)
	}

	dsn := clean + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("state: open sqlite db: %w", err)
	}
	// One connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads every contact and phone in book order.
func (s *SQLiteStore) Load(ctx context.Context) (*contact.Book, error) {
	snap := Snapshot{Version: SnapshotVersion}
	byName := make(map[string]int)

	rows, err := s.db.QueryContext(ctx, `SELECT name, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("state: query contacts: %w", err)
	}
	for rows.Next() {
		var e ContactEntry
		if err := rows.Scan(&e.Name, &e.Birthday); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("state: scan contact: %w", err)
		}
		byName[e.Name] = len(snap.Contacts)
		snap.Contacts = append(snap.Contacts, e)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("state: query contacts: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("state: query contacts: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT contact_name, number FROM phones ORDER BY contact_name, position`)
	if err != nil {
		return nil, fmt.Errorf("state: query phones: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, number string
		if err := rows.Scan(&name, &number); err != nil {
			return nil, fmt.Errorf("state: scan phone: %w", err)
		}
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("state: phone for unknown contact %q", name)
		}
		snap.Contacts[i].Phones = append(snap.Contacts[i].Phones, number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("state: query phones: %w", err)
	}

	return snap.Book()
}

// Save replaces the stored contacts with b inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, b *contact.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("state: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM phones`); err != nil {
		return fmt.Errorf("state: clear phones: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("state: clear contacts: %w", err)
	}

	for i, e := range SnapshotOf(b).Contacts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (name, position, birthday) VALUES (?, ?, ?)`,
			e.Name, i, e.Birthday,
		); err != nil {
			return fmt.Errorf("state: insert contact %q: %w", e.Name, err)
		}
		for j, number := range e.Phones {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO phones (contact_name, position, number) VALUES (?, ?, ?)`,
				e.Name, j, number,
			); err != nil {
				return fmt.Errorf("state: insert phone for %q: %w", e.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("state: commit save: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
