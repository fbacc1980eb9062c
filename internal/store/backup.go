package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/chatsort/internal/document"
	"github.com/rcliao/chatsort/internal/model"
)

// Backup describes a stored snapshot of the document.
type Backup struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Reason    string    `json:"reason"`
	Chats     int       `json:"chats"`
}

// Backup snapshots the stored document. reason is free text such as
// "import" or "merge".
func (s *SQLiteStore) Backup(ctx context.Context, reason string) (*Backup, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	var buf bytes.Buffer
	if err := document.Encode(&buf, doc); err != nil {
		return nil, err
	}

	b := &Backup{
		ID:        s.newID(),
		CreatedAt: time.Now().UTC(),
		Reason:    reason,
		Chats:     len(doc.Chats),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO backups (id, created_at, reason, chats, document) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.CreatedAt.Format(time.RFC3339Nano), b.Reason, b.Chats, buf.String())
	if err != nil {
		return nil, fmt.Errorf("insert backup: %w", err)
	}
	return b, nil
}

// ListBackups returns backups newest first.
func (s *SQLiteStore) ListBackups(ctx context.Context) ([]Backup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, reason, chats FROM backups ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		var b Backup
		var created string
		if err := rows.Scan(&b.ID, &created, &b.Reason, &b.Chats); err != nil {
			return nil, err
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// BackupDocument returns the document stored in backup id.
func (s *SQLiteStore) BackupDocument(ctx context.Context, id string) (model.Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM backups WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, fmt.Errorf("backup %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Document{}, err
	}
	return document.Decode(bytes.NewReader([]byte(raw)))
}

// Restore replaces the stored document with backup id, snapshotting the
// current contents first.
func (s *SQLiteStore) Restore(ctx context.Context, id string) (model.Document, error) {
	doc, err := s.BackupDocument(ctx, id)
	if err != nil {
		return doc, err
	}
	if _, err := s.Backup(ctx, "restore "+id); err != nil {
		return doc, err
	}
	if err := s.Save(ctx, doc); err != nil {
		return doc, fmt.Errorf("save: %w", err)
	}
	return doc, nil
}

// PruneBackups deletes all but the newest keep backups and returns how many
// were removed. keep <= 0 disables pruning.
func (s *SQLiteStore) PruneBackups(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM backups WHERE id NOT IN (SELECT id FROM backups ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
