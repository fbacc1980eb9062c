// Package session owns the in-memory state of one organizing session: the
// category registry, the chats, the two filter states and the current
// selection.
//
// Every mutation builds the next snapshot first and swaps it in as a whole,
// so a registry edit and the filter cascade it implies are never observed
// apart. After a mutation that changes the registry or any chat, the session
// hands the document to its Persister. Persistence failures are logged and
// otherwise ignored; the in-memory edit stands.
//
// A Session is not safe for concurrent use.
package session

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rcliao/chatsort/internal/classify"
	"github.com/rcliao/chatsort/internal/filter"
	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/pattern"
	"github.com/rcliao/chatsort/internal/registry"
)

// Persister stores a document snapshot.
type Persister interface {
	Persist(ctx context.Context, doc model.Document) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, doc model.Document) error

func (f PersistFunc) Persist(ctx context.Context, doc model.Document) error {
	return f(ctx, doc)
}

// Option configures a Session.
type Option func(*Session)

// WithPersister sets where snapshots go after each mutation.
func WithPersister(p Persister) Option {
	return func(s *Session) { s.persister = p }
}

// WithLogger sets the logger for persistence failures and regex warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session is the state of one organizing session.
type Session struct {
	reg       registry.Registry
	chats     []model.Chat
	catFilter filter.State
	kwFilter  filter.State
	selection Selection

	cache     *pattern.Cache
	persister Persister
	logger    *log.Logger
}

// New starts a session over doc. The document is copied.
func New(doc model.Document, opts ...Option) *Session {
	s := &Session{
		reg:       doc.Categories,
		chats:     doc.Clone().Chats,
		catFilter: filter.State{},
		kwFilter:  filter.State{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.cache = pattern.NewCache(func(err *pattern.RegexError) {
		s.logger.Warn("invalid regex keyword, using plain string", "keyword", err.Keyword, "err", err.Err)
	})
	return s
}

// Snapshot returns a copy of the current document.
func (s *Session) Snapshot() model.Document {
	return model.Document{Categories: s.reg, Chats: s.chats}.Clone()
}

// Registry returns the current registry.
func (s *Session) Registry() registry.Registry { return s.reg }

// Chats returns a copy of all chats.
func (s *Session) Chats() []model.Chat { return s.Snapshot().Chats }

// Chat returns the chat with url.
func (s *Session) Chat(url string) (model.Chat, bool) {
	for _, c := range s.chats {
		if c.URL == url {
			return c.Clone(), true
		}
	}
	return model.Chat{}, false
}

// CategoryFilter returns the category filter state.
func (s *Session) CategoryFilter() filter.State { return s.catFilter }

// KeywordFilter returns the keyword filter state.
func (s *Session) KeywordFilter() filter.State { return s.kwFilter }

func (s *Session) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Persist(ctx, s.Snapshot()); err != nil {
		s.logger.Error("persist failed; keeping in-memory state", "err", err)
	}
}

// applyRegistry swaps in next and the cascaded filter states together.
// It reports whether the registry changed.
func (s *Session) applyRegistry(ctx context.Context, next registry.Registry, c registry.Cascade) bool {
	cats, kws := filter.ApplyCascade(s.catFilter, s.kwFilter, c)
	changed := !next.Equal(s.reg)
	s.reg, s.catFilter, s.kwFilter = next, cats, kws
	if changed {
		s.persist(ctx)
	}
	return changed
}

// AddCategory adds an empty category.
func (s *Session) AddCategory(ctx context.Context, name string) bool {
	next, c := s.reg.AddCategory(name)
	return s.applyRegistry(ctx, next, c)
}

// RenameCategory renames a category; its filter flags follow it.
func (s *Session) RenameCategory(ctx context.Context, old, newName string) bool {
	next, c := s.reg.RenameCategory(old, newName)
	return s.applyRegistry(ctx, next, c)
}

// RemoveCategory removes a category and its filter entry. Chats keep the
// stale tag until the next reclassification.
func (s *Session) RemoveCategory(ctx context.Context, name string) bool {
	next, c := s.reg.RemoveCategory(name)
	return s.applyRegistry(ctx, next, c)
}

// AddKeyword adds a keyword to a category.
func (s *Session) AddKeyword(ctx context.Context, category, keyword string) bool {
	next, c := s.reg.AddKeyword(category, keyword)
	return s.applyRegistry(ctx, next, c)
}

// RenameKeyword renames a keyword; its keyword filter flags follow it.
func (s *Session) RenameKeyword(ctx context.Context, category, old, newKeyword string) bool {
	next, c := s.reg.RenameKeyword(category, old, newKeyword)
	return s.applyRegistry(ctx, next, c)
}

// RemoveKeyword removes a keyword and its keyword filter entry.
func (s *Session) RemoveKeyword(ctx context.Context, category, keyword string) bool {
	next, c := s.reg.RemoveKeyword(category, keyword)
	return s.applyRegistry(ctx, next, c)
}

// ToggleCategoryFilter flips one mode for a category term.
func (s *Session) ToggleCategoryFilter(category string, m filter.Mode) {
	s.catFilter = s.catFilter.Toggle(category, m)
}

// ToggleKeywordFilter flips one mode for a keyword term, keyed by
// registry.Term.
func (s *Session) ToggleKeywordFilter(keyword string, m filter.Mode) {
	s.kwFilter = s.kwFilter.Toggle(registry.Term(keyword), m)
}

// SetFilters replaces both filter states.
func (s *Session) SetFilters(categories, keywords filter.State) {
	if categories == nil {
		categories = filter.State{}
	}
	if keywords == nil {
		keywords = filter.State{}
	}
	s.catFilter, s.kwFilter = categories, keywords
}

// Visible returns the chats passing both filter dimensions.
func (s *Session) Visible() []model.Chat {
	return filter.Apply(s.Chats(), s.catFilter, s.kwFilter, s.cache)
}

// Search narrows the visible chats to those whose combined text contains
// query, case-insensitively. A blank query returns all visible chats.
func (s *Session) Search(query string) []model.Chat {
	visible := s.Visible()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return visible
	}
	var out []model.Chat
	for _, c := range visible {
		if strings.Contains(c.Text(), q) {
			out = append(out, c)
		}
	}
	return out
}

// Reclassify recomputes every chat's categories from the registry.
func (s *Session) Reclassify(ctx context.Context) classify.Report {
	s.chats = classify.Reclassify(s.reg, s.chats, s.cache)
	s.persist(ctx)
	return classify.Summarize(s.reg, s.chats)
}

// SetChatCategories replaces one chat's categories. It reports whether the
// chat exists.
func (s *Session) SetChatCategories(ctx context.Context, url string, categories []string) bool {
	idx, ok := model.Index(s.chats)[url]
	if !ok {
		return false
	}
	chats := s.Snapshot().Chats
	chats[idx].Categories = dedupe(categories)
	s.chats = chats
	s.persist(ctx)
	return true
}

// BulkSetCategory adds or removes category on the chats in urls.
func (s *Session) BulkSetCategory(ctx context.Context, urls []string, category string, add bool) {
	s.chats = classify.BulkSetCategory(s.chats, urls, category, add)
	s.persist(ctx)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
