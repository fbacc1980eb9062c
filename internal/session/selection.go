package session

import "slices"

// SelectionKind tags which variant a Selection holds.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectSingle
	SelectBulk
)

// Selection is the set of chats a category toggle targets: nothing, one
// chat, or several.
type Selection struct {
	kind SelectionKind
	urls []string
}

// None selects nothing.
func None() Selection { return Selection{} }

// Single selects one chat.
func Single(url string) Selection {
	return Selection{kind: SelectSingle, urls: []string{url}}
}

// Bulk selects several chats. An empty list is equivalent to None; a single
// URL stays a bulk selection.
func Bulk(urls []string) Selection {
	if len(urls) == 0 {
		return None()
	}
	return Selection{kind: SelectBulk, urls: slices.Clone(urls)}
}

// Kind reports the variant.
func (s Selection) Kind() SelectionKind { return s.kind }

// URLs returns the selected chat URLs.
func (s Selection) URLs() []string { return slices.Clone(s.urls) }

// Contains reports whether url is selected.
func (s Selection) Contains(url string) bool {
	return slices.Contains(s.urls, url)
}

// Toggle adds url to a bulk selection, or removes it if already present.
// Toggling on None or Single starts or extends a bulk selection.
func (s Selection) Toggle(url string) Selection {
	if s.Contains(url) {
		return Bulk(slices.DeleteFunc(slices.Clone(s.urls), func(u string) bool { return u == url }))
	}
	return Bulk(append(slices.Clone(s.urls), url))
}
