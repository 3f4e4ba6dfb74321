package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"idea/internal/log"
	"idea/internal/notes"
	"idea/internal/todo"
)

var ErrNoPath = errors.New("db path is empty")

type Store struct {
	db    *sql.DB
	notes *notes.Store
}

// Open opens (creating when missing) the todo database at dbPath and the
// notes directory next to it.
func Open(dbPath, notesDir string) (*Store, error) {
	if dbPath == "" {
		return nil, ErrNoPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}
	if notesDir != "" {
		s.notes, err = notes.Open(notesDir)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	log.Debug(log.CatDB, "opened store", "path", dbPath, "notes", notesDir)
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Notes returns the notes collaborator, or nil when none was configured.
func (s *Store) Notes() *notes.Store {
	return s.notes
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTodoColumns()
}

func (s *Store) ensureTodoColumns() error {
	required := map[string]string{
		"created_at": "ALTER TABLE todos ADD COLUMN created_at TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(todos);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the whole list in user order.
func (s *Store) Load() (*todo.List, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM todos ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	defer rows.Close()

	var items []*todo.Item
	for rows.Next() {
		var it todo.Item
		var createdStr string
		if err := rows.Scan(&it.ID, &it.Name, &createdStr); err != nil {
			return nil, fmt.Errorf("load todos: %w", err)
		}
		if created, err := time.Parse(time.RFC3339, createdStr); err == nil {
			it.CreatedAt = created
		}
		if s.notes != nil {
			it.Notes = s.notes.Has(it.ID)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	log.Debug(log.CatDB, "loaded todos", "count", len(items))
	return todo.NewList(items...), nil
}

// Save replaces the stored list with l in one transaction, then writes the
// staged note drafts and drops the notes of every item that no longer
// carries them.
func (s *Store) Save(l *todo.List) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM todos;`); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO todos (id, position, name, created_at) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	defer stmt.Close()

	keep := make(map[string]bool, l.Len())
	for i, it := range l.All() {
		created := it.CreatedAt.UTC().Format(time.RFC3339)
		if _, err := stmt.Exec(it.ID, i, it.Name, created); err != nil {
			return fmt.Errorf("save todo %q: %w", it.Name, err)
		}
		if it.Notes {
			keep[it.ID] = true
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	log.Debug(log.CatDB, "saved todos", "count", l.Len())

	if s.notes == nil {
		return nil
	}
	for _, it := range l.All() {
		if !it.Notes || it.Draft == "" {
			continue
		}
		if err := s.notes.Write(it.ID, it.Draft); err != nil {
			log.ErrorErr(log.CatNotes, "write draft failed", err, "id", it.ID)
			return fmt.Errorf("save notes of %q: %w", it.Name, err)
		}
		it.Draft = ""
	}
	return s.notes.Prune(context.Background(), keep)
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
