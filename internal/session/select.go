package session

import (
	"context"
	"slices"

	"github.com/rcliao/chatsort/internal/classify"
	"github.com/rcliao/chatsort/internal/model"
)

// Selection returns the current selection.
func (s *Session) Selection() Selection { return s.selection }

// Select replaces the current selection.
func (s *Session) Select(sel Selection) { s.selection = sel }

// ToggleSelected adds or removes one chat from a bulk selection.
func (s *Session) ToggleSelected(url string) {
	s.selection = s.selection.Toggle(url)
}

// SelectAllVisible bulk-selects every visible chat matching query, or clears
// the selection when on is false.
func (s *Session) SelectAllVisible(query string, on bool) {
	if !on {
		s.selection = None()
		return
	}
	var urls []string
	for _, c := range s.Search(query) {
		urls = append(urls, c.URL)
	}
	s.selection = Bulk(urls)
}

// SharedCategories returns the categories every selected chat carries, in
// registry order followed by any orphan names in first-seen order. None
// selects nothing and yields nil.
func (s *Session) SharedCategories() []string {
	urls := s.selection.URLs()
	if len(urls) == 0 {
		return nil
	}

	var shared []string
	for i, url := range urls {
		c, ok := s.Chat(url)
		if !ok {
			return nil
		}
		if i == 0 {
			shared = slices.Clone(c.Categories)
			continue
		}
		shared = slices.DeleteFunc(shared, func(cat string) bool { return !c.HasCategory(cat) })
	}

	var out []string
	for _, n := range s.reg.Names() {
		if slices.Contains(shared, n) {
			out = append(out, n)
		}
	}
	for _, n := range shared {
		if !s.reg.Has(n) && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// ToggleForSelection flips category for the current selection:
//   - Single: toggles the category on that chat.
//   - Bulk: removes it from every selected chat if all of them carry it,
//     otherwise adds it to all of them.
//   - None: does nothing.
//
// It reports whether anything was applied.
func (s *Session) ToggleForSelection(ctx context.Context, category string) bool {
	switch s.selection.Kind() {
	case SelectSingle:
		url := s.selection.URLs()[0]
		idx := slices.IndexFunc(s.chats, func(c model.Chat) bool { return c.URL == url })
		if idx < 0 {
			return false
		}
		chats := s.Snapshot().Chats
		chats[idx] = classify.ToggleCategory(chats[idx], category)
		s.chats = chats
		s.persist(ctx)
		return true
	case SelectBulk:
		add := !slices.Contains(s.SharedCategories(), category)
		s.BulkSetCategory(ctx, s.selection.URLs(), category, add)
		return true
	}
	return false
}
