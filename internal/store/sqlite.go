package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/registry"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy io.Reader
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		name     TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS keywords (
		category TEXT NOT NULL REFERENCES categories(name) ON DELETE CASCADE ON UPDATE CASCADE,
		position INTEGER NOT NULL,
		keyword  TEXT NOT NULL,
		PRIMARY KEY (category, position)
	);

	CREATE TABLE IF NOT EXISTS chats (
		url        TEXT PRIMARY KEY,
		position   INTEGER NOT NULL,
		title      TEXT NOT NULL,
		messages   TEXT NOT NULL,
		categories TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chats_position ON chats(position);

	CREATE TABLE IF NOT EXISTS backups (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		reason     TEXT NOT NULL,
		chats      INTEGER NOT NULL,
		document   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_backups_created ON backups(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the stored document, categories and chats in their saved order.
func (s *SQLiteStore) Load(ctx context.Context) (model.Document, error) {
	var doc model.Document

	names, err := s.loadNames(ctx)
	if err != nil {
		return doc, fmt.Errorf("load categories: %w", err)
	}
	kw, err := s.loadKeywords(ctx)
	if err != nil {
		return doc, fmt.Errorf("load keywords: %w", err)
	}
	doc.Categories = registry.New(names, kw)

	chatRows, err := s.db.QueryContext(ctx,
		`SELECT url, title, messages, categories FROM chats ORDER BY position`)
	if err != nil {
		return doc, err
	}
	defer chatRows.Close()

	doc.Chats = []model.Chat{}
	for chatRows.Next() {
		c, err := scanChat(chatRows)
		if err != nil {
			return doc, err
		}
		doc.Chats = append(doc.Chats, c)
	}
	return doc, chatRows.Err()
}

func (s *SQLiteStore) loadNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) loadKeywords(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, keyword FROM keywords ORDER BY category, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kw := map[string][]string{}
	for rows.Next() {
		var cat, k string
		if err := rows.Scan(&cat, &k); err != nil {
			return nil, err
		}
		kw[cat] = append(kw[cat], k)
	}
	return kw, rows.Err()
}

// Save replaces the stored document in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, doc model.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM keywords`, `DELETE FROM categories`, `DELETE FROM chats`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	for i, name := range doc.Categories.Names() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, position) VALUES (?, ?)`, name, i); err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		for j, k := range doc.Categories.Keywords(name) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO keywords (category, position, keyword) VALUES (?, ?, ?)`, name, j, k); err != nil {
				return fmt.Errorf("insert keyword: %w", err)
			}
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for i, c := range doc.Chats {
		msgs, _ := json.Marshal(nonNil(c.Chats))
		cats, _ := json.Marshal(nonNil(c.Categories))
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chats (url, position, title, messages, categories, body, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(url) DO UPDATE SET position = excluded.position, title = excluded.title,
			   messages = excluded.messages, categories = excluded.categories,
			   body = excluded.body, updated_at = excluded.updated_at`,
			c.URL, i, c.Title, string(msgs), string(cats), c.Text(), now)
		if err != nil {
			return fmt.Errorf("insert chat: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(row scanner) (model.Chat, error) {
	var c model.Chat
	var msgs, cats string
	if err := row.Scan(&c.URL, &c.Title, &msgs, &cats); err != nil {
		return c, err
	}
	if err := json.Unmarshal([]byte(msgs), &c.Chats); err != nil {
		return c, fmt.Errorf("chat %s messages: %w", c.URL, err)
	}
	if err := json.Unmarshal([]byte(cats), &c.Categories); err != nil {
		return c, fmt.Errorf("chat %s categories: %w", c.URL, err)
	}
	return c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
