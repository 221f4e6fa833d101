// Package store provides the SQLite offline cache. The last
// successfully fetched copy of each collection is kept on disk so the
// browser can start in -offline mode, or fall back when the site is
// unreachable.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mbegonja/plusview/internal/model"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a Store at the given database path, creating tables if
// they don't exist. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		cached_at DATETIME NOT NULL,
		record_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS items (
		collection TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		title TEXT,
		content TEXT,
		image_url TEXT,
		link TEXT,
		date DATETIME,
		tags TEXT,
		creators TEXT,
		year INTEGER,
		PRIMARY KEY (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_items_position ON items(collection, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveCollection replaces the cached copy of the named collection,
// preserving item order.
func (s *Store) SaveCollection(collection string, items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items WHERE collection = ?", collection); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items (collection, position, id, title, content, image_url, link, date, tags, creators, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, item := range items {
		var date any
		if item.HasDate() {
			date = item.Date.UTC()
		}
		_, err := stmt.Exec(
			collection, i, item.ID, item.Title, item.Content, item.ImageURL,
			item.Link, date, encodeStrings(item.Tags), encodeStrings(item.Creators), item.Year,
		)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", item.ID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO collections (name, cached_at, record_count)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			cached_at = excluded.cached_at,
			record_count = excluded.record_count
	`, collection, time.Now().UTC(), len(items))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadCollection returns the cached items in their saved order, with
// the time the cache was written. A collection that was never cached
// returns an empty slice and a zero time.
func (s *Store) LoadCollection(collection string) ([]model.Item, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cachedAt time.Time
	err := s.db.QueryRow("SELECT cached_at FROM collections WHERE name = ?", collection).Scan(&cachedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := s.db.Query(`
		SELECT id, title, content, image_url, link, date, tags, creators, year
		FROM items
		WHERE collection = ?
		ORDER BY position
	`, collection)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var date sql.NullTime
		var tags, creators sql.NullString
		err := rows.Scan(
			&item.ID, &item.Title, &item.Content, &item.ImageURL,
			&item.Link, &date, &tags, &creators, &item.Year,
		)
		if err != nil {
			return nil, time.Time{}, err
		}
		if date.Valid {
			item.Date = date.Time.UTC()
		}
		item.Tags = decodeStrings(tags.String)
		item.Creators = decodeStrings(creators.String)
		items = append(items, item)
	}
	return items, cachedAt, rows.Err()
}

// DeleteItem removes one cached record, keeping the cache in step with
// a confirmed server-side delete.
func (s *Store) DeleteItem(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM items WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		_, err = s.db.Exec(
			"UPDATE collections SET record_count = record_count - 1 WHERE name = ?", collection)
	}
	return err
}

// Collections lists the cached collection names.
func (s *Store) Collections() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func encodeStrings(values []string) string {
	if len(values) == 0 {
		return ""
	}
	b, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeStrings(encoded string) []string {
	if encoded == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil
	}
	return values
}
