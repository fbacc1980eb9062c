package store

import (
	"context"
	"os"

	"github.com/rcliao/chatsort/internal/classify"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string          `json:"db_path"`
	DBSizeBytes int64           `json:"db_size_bytes"`
	Backups     int             `json:"backups"`
	Report      classify.Report `json:"report"`
}

// Stats returns database statistics and the category report for the stored
// document.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM backups`).Scan(&st.Backups)

	doc, err := s.Load(ctx)
	if err != nil {
		return st, err
	}
	st.Report = classify.Summarize(doc.Categories, doc.Chats)

	return st, nil
}
