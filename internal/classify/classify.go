// Package classify assigns categories to chats from registry keywords and
// applies manual category overrides.
package classify

import (
	"slices"

	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/pattern"
	"github.com/rcliao/chatsort/internal/registry"
)

// Reclassify recomputes every chat's categories from scratch. Existing
// assignments, manual ones included, are discarded. Categories are tested in
// registry order and each category's keywords in list order; the first
// matching keyword assigns the category. A category with no keywords never
// matches. The input slice is not modified.
//
// cache may be nil; pass a shared cache to reuse compilations and to receive
// regex warnings.
func Reclassify(reg registry.Registry, chats []model.Chat, cache *pattern.Cache) []model.Chat {
	if cache == nil {
		cache = pattern.NewCache(nil)
	}

	names := reg.Names()
	compiled := make(map[string][]pattern.Pattern, len(names))
	for _, n := range names {
		for _, kw := range reg.Keywords(n) {
			compiled[n] = append(compiled[n], cache.Get(kw))
		}
	}

	out := make([]model.Chat, len(chats))
	for i, c := range chats {
		c = c.Clone()
		c.Categories = []string{}
		text := c.Text()
		for _, n := range names {
			for _, p := range compiled[n] {
				if p.Match(text) {
					c.Categories = append(c.Categories, n)
					break
				}
			}
		}
		out[i] = c
	}
	return out
}

// BulkSetCategory adds (add=true) or removes category on every chat whose URL
// is in urls. Chats outside urls, or already in the target state, are
// returned as they were.
func BulkSetCategory(chats []model.Chat, urls []string, category string, add bool) []model.Chat {
	targets := make(map[string]bool, len(urls))
	for _, u := range urls {
		targets[u] = true
	}

	out := make([]model.Chat, len(chats))
	for i, c := range chats {
		if targets[c.URL] {
			c = SetCategory(c, category, add)
		}
		out[i] = c
	}
	return out
}

// SetCategory returns c with category present (add=true) or absent.
func SetCategory(c model.Chat, category string, add bool) model.Chat {
	has := c.HasCategory(category)
	switch {
	case add && !has:
		c = c.Clone()
		c.Categories = append(c.Categories, category)
	case !add && has:
		c = c.Clone()
		c.Categories = slices.DeleteFunc(c.Categories, func(s string) bool { return s == category })
	}
	return c
}

// ToggleCategory flips category on a single chat.
func ToggleCategory(c model.Chat, category string) model.Chat {
	return SetCategory(c, category, !c.HasCategory(category))
}

// Count is the number of chats carrying one category.
type Count struct {
	Category string `json:"category"`
	Chats    int    `json:"chats"`
}

// Report summarizes category assignments.
type Report struct {
	Total    int     `json:"total"`
	Untagged int     `json:"untagged"`
	Counts   []Count `json:"counts"`
	Orphans  []Count `json:"orphans,omitempty"`
	Keywords int     `json:"keywords"`
	Regexes  int     `json:"regexes"`
}

// Summarize counts chats per registry category, in registry order, and lists
// references to categories missing from the registry.
func Summarize(reg registry.Registry, chats []model.Chat) Report {
	r := Report{Total: len(chats)}
	counts := map[string]int{}
	var orphanNames []string
	for _, c := range chats {
		if len(c.Categories) == 0 {
			r.Untagged++
		}
		for _, cat := range c.Categories {
			if !reg.Has(cat) && counts[cat] == 0 {
				orphanNames = append(orphanNames, cat)
			}
			counts[cat]++
		}
	}
	for _, n := range reg.Names() {
		r.Counts = append(r.Counts, Count{Category: n, Chats: counts[n]})
		for _, kw := range reg.Keywords(n) {
			r.Keywords++
			p, _ := pattern.Compile(kw)
			if p.IsRegex() {
				r.Regexes++
			}
		}
	}
	slices.Sort(orphanNames)
	for _, n := range orphanNames {
		r.Orphans = append(r.Orphans, Count{Category: n, Chats: counts[n]})
	}
	return r
}
