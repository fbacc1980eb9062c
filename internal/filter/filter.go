package filter

import (
	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/pattern"
)

// Passes runs the three gates for one dimension. satisfies reports whether
// the chat under evaluation matches a term.
func Passes(s State, satisfies func(term string) bool) bool {
	// Negative gate: any satisfied negative term excludes.
	for term, f := range s {
		if f.Negative() && satisfies(term) {
			return false
		}
	}

	// Conditional-positive gate: all required.
	for term, f := range s {
		if f.ConditionalPositive && !satisfies(term) {
			return false
		}
	}

	// Additive-positive gate: one of the set, if the set is non-empty.
	additive := false
	for term, f := range s {
		if !f.AdditivePositive {
			continue
		}
		if satisfies(term) {
			return true
		}
		additive = true
	}
	return !additive
}

// PassesCategories evaluates the category dimension. Terms naming categories
// that no longer exist simply never match.
func PassesCategories(c model.Chat, s State) bool {
	return Passes(s, c.HasCategory)
}

// PassesKeywords evaluates the keyword dimension against the chat's combined
// lowercase text. Terms are keys made by registry.Term and compile through
// cache, so a /regex/ term matches exactly as it does in classification.
func PassesKeywords(c model.Chat, s State, cache *pattern.Cache) bool {
	if len(s) == 0 {
		return true
	}
	if cache == nil {
		cache = pattern.NewCache(nil)
	}
	text := c.Text()
	return Passes(s, func(term string) bool {
		return cache.Get(term).Match(text)
	})
}

// Visible reports whether the chat passes both dimensions.
func Visible(c model.Chat, categories, keywords State, cache *pattern.Cache) bool {
	return PassesCategories(c, categories) && PassesKeywords(c, keywords, cache)
}

// Apply returns the visible chats in input order.
func Apply(chats []model.Chat, categories, keywords State, cache *pattern.Cache) []model.Chat {
	var out []model.Chat
	for _, c := range chats {
		if Visible(c, categories, keywords, cache) {
			out = append(out, c)
		}
	}
	return out
}
