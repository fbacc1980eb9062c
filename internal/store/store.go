// Package store provides the archive storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/chatsort/internal/model"
)

// ErrNotFound is returned when a backup or chat does not exist.
var ErrNotFound = errors.New("not found")

// SearchParams holds parameters for searching chats.
type SearchParams struct {
	Query    string
	Category string
	Limit    int
}

// Store defines the archive storage interface.
type Store interface {
	// Load returns the stored document. An empty store yields an empty document.
	Load(ctx context.Context) (model.Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc model.Document) error

	// Backup snapshots the stored document under a new ID.
	Backup(ctx context.Context, reason string) (*Backup, error)

	// Close closes the store.
	Close() error
}
