// Package model defines the core chat archive data types.
package model

import (
	"slices"
	"strings"

	"github.com/rcliao/chatsort/internal/registry"
)

// Chat represents one archived conversation.
type Chat struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Chats      []string `json:"chats"`
	Categories []string `json:"categories"`
}

// Text returns the title and all messages joined by spaces, lowercased.
// This is the haystack every keyword is matched against.
func (c Chat) Text() string {
	var b strings.Builder
	b.WriteString(c.Title)
	b.WriteString(" ")
	b.WriteString(strings.Join(c.Chats, " "))
	return strings.ToLower(b.String())
}

// HasCategory reports whether the chat is tagged with category.
func (c Chat) HasCategory(category string) bool {
	return slices.Contains(c.Categories, category)
}

// Clone returns a deep copy of the chat.
func (c Chat) Clone() Chat {
	c.Chats = slices.Clone(c.Chats)
	c.Categories = slices.Clone(c.Categories)
	return c
}

// Document is the persisted archive: the category registry plus every chat.
type Document struct {
	Categories registry.Registry `json:"categories"`
	Chats      []Chat            `json:"chats"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Categories: d.Categories, Chats: make([]Chat, len(d.Chats))}
	for i, c := range d.Chats {
		out.Chats[i] = c.Clone()
	}
	return out
}

// Index maps chat URLs to their position in chats.
func Index(chats []Chat) map[string]int {
	idx := make(map[string]int, len(chats))
	for i, c := range chats {
		idx[c.URL] = i
	}
	return idx
}
