// Package merge folds a fresh export of chats into an existing archive.
package merge

import (
	"github.com/rcliao/chatsort/internal/model"
)

// Result lists what a merge did, by chat URL.
type Result struct {
	Added   []string `json:"added"`
	Updated []string `json:"updated"`
	Skipped int      `json:"skipped"`
}

// Changed reports whether the merge altered the archive.
func (r Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Updated) > 0
}

// Merge adds incoming chats to main by URL. A chat already present is
// updated only when the incoming copy has more messages; its title and
// categories are kept. Incoming chats without a URL are skipped. The
// registry of main is kept as is. Neither input is modified.
func Merge(main, incoming model.Document) (model.Document, Result) {
	out := main.Clone()
	idx := model.Index(out.Chats)

	var res Result
	for _, c := range incoming.Chats {
		if c.URL == "" {
			res.Skipped++
			continue
		}
		if i, ok := idx[c.URL]; ok {
			if len(c.Chats) > len(out.Chats[i].Chats) {
				out.Chats[i].Chats = append([]string(nil), c.Chats...)
				res.Updated = append(res.Updated, c.URL)
			}
			continue
		}
		c = c.Clone()
		if c.Categories == nil {
			c.Categories = []string{}
		}
		idx[c.URL] = len(out.Chats)
		out.Chats = append(out.Chats, c)
		res.Added = append(res.Added, c.URL)
	}
	return out, res
}
