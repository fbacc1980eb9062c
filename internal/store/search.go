package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/chatsort/internal/model"
)

// Search finds chats whose combined lowercase text contains the query
// substring, optionally restricted to one category.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Chat, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"body LIKE ? ESCAPE '\\'"}
	args := []interface{}{"%" + escapeLike(strings.ToLower(p.Query)) + "%"}

	if p.Category != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(chats.categories) WHERE json_each.value = ?)")
		args = append(args, p.Category)
	}

	query := fmt.Sprintf(`
		SELECT url, title, messages, categories
		FROM chats
		WHERE %s
		ORDER BY position
		LIMIT ?`, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}

	return results, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
