// Package registry holds the category catalog: an ordered mapping from
// category name to the keyword patterns that assign it.
//
// A Registry is a value. Mutators never touch the receiver; they return the
// updated registry together with the Cascade the change implies for any
// filter state keyed by the affected term. Invalid mutations (unknown
// category, duplicate name, empty input) are no-ops that return the receiver
// unchanged and a zero Cascade.
package registry

import (
	"slices"
	"strings"

	"github.com/rcliao/chatsort/internal/pattern"
)

// Registry maps category names to ordered keyword lists. The zero value is an
// empty registry ready to use.
type Registry struct {
	names    []string
	keywords map[string][]string
}

// New builds a registry from names in order. Keywords for each name are taken
// from kw; names missing from kw get an empty list. Duplicate names keep their
// first position.
func New(names []string, kw map[string][]string) Registry {
	r := Registry{keywords: make(map[string][]string, len(names))}
	for _, n := range names {
		if _, ok := r.keywords[n]; ok {
			continue
		}
		r.names = append(r.names, n)
		r.keywords[n] = slices.Clone(kw[n])
		if r.keywords[n] == nil {
			r.keywords[n] = []string{}
		}
	}
	return r
}

// Names returns category names in registry order.
func (r Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of categories.
func (r Registry) Len() int {
	return len(r.names)
}

// Has reports whether the category exists.
func (r Registry) Has(name string) bool {
	_, ok := r.keywords[name]
	return ok
}

// Keywords returns a copy of the keyword list for name, or nil if absent.
func (r Registry) Keywords(name string) []string {
	kw, ok := r.keywords[name]
	if !ok {
		return nil
	}
	return slices.Clone(kw)
}

// HasKeyword reports whether keyword is in the category's list. The check is
// case-sensitive.
func (r Registry) HasKeyword(name, keyword string) bool {
	return slices.Contains(r.keywords[name], keyword)
}

// Equal reports whether two registries have the same categories, order and
// keyword lists.
func (r Registry) Equal(o Registry) bool {
	if !slices.Equal(r.names, o.names) {
		return false
	}
	for _, n := range r.names {
		if !slices.Equal(r.keywords[n], o.keywords[n]) {
			return false
		}
	}
	return true
}

func (r Registry) clone() Registry {
	c := Registry{
		names:    slices.Clone(r.names),
		keywords: make(map[string][]string, len(r.keywords)),
	}
	for n, kw := range r.keywords {
		c.keywords[n] = slices.Clone(kw)
	}
	return c
}

// AddCategory inserts name with no keywords at the end of the order.
func (r Registry) AddCategory(name string) (Registry, Cascade) {
	if name == "" || r.Has(name) {
		return r, Cascade{}
	}
	c := r.clone()
	c.names = append(c.names, name)
	c.keywords[name] = []string{}
	return c, Cascade{}
}

// RenameCategory moves old's keyword list to newName, keeping its position.
// The cascade moves any category filter entry from old to newName.
func (r Registry) RenameCategory(old, newName string) (Registry, Cascade) {
	if newName == "" || !r.Has(old) || r.Has(newName) {
		return r, Cascade{}
	}
	c := r.clone()
	c.names[slices.Index(c.names, old)] = newName
	c.keywords[newName] = c.keywords[old]
	delete(c.keywords, old)
	return c, Cascade{Dimension: Categories, Op: OpMove, From: old, To: newName}
}

// RemoveCategory deletes name. Chats still tagged with it are left alone; the
// cascade drops the category filter entry.
func (r Registry) RemoveCategory(name string) (Registry, Cascade) {
	if !r.Has(name) {
		return r, Cascade{}
	}
	c := r.clone()
	c.names = slices.DeleteFunc(c.names, func(n string) bool { return n == name })
	delete(c.keywords, name)
	return c, Cascade{Dimension: Categories, Op: OpDelete, From: name}
}

// AddKeyword appends keyword to the category's list.
func (r Registry) AddKeyword(category, keyword string) (Registry, Cascade) {
	if keyword == "" || !r.Has(category) || r.HasKeyword(category, keyword) {
		return r, Cascade{}
	}
	c := r.clone()
	c.keywords[category] = append(c.keywords[category], keyword)
	return c, Cascade{}
}

// RenameKeyword replaces old with newKeyword in place. The cascade moves the
// keyword filter entry from Term(old) to Term(newKeyword).
func (r Registry) RenameKeyword(category, old, newKeyword string) (Registry, Cascade) {
	if newKeyword == "" || !r.Has(category) {
		return r, Cascade{}
	}
	i := slices.Index(r.keywords[category], old)
	if i < 0 || r.HasKeyword(category, newKeyword) {
		return r, Cascade{}
	}
	c := r.clone()
	c.keywords[category][i] = newKeyword
	from, to := Term(old), Term(newKeyword)
	if from == to {
		return c, Cascade{}
	}
	return c, Cascade{Dimension: Keywords, Op: OpMove, From: from, To: to}
}

// RemoveKeyword drops every exact occurrence of keyword from the category.
// The cascade deletes the keyword filter entry for Term(keyword).
func (r Registry) RemoveKeyword(category, keyword string) (Registry, Cascade) {
	if !r.Has(category) {
		return r, Cascade{}
	}
	c := r.clone()
	c.keywords[category] = slices.DeleteFunc(c.keywords[category], func(k string) bool { return k == keyword })
	return c, Cascade{Dimension: Keywords, Op: OpDelete, From: Term(keyword)}
}

// Term normalizes a keyword into its filter-state key. Literal keywords are
// lowercased; /regex/ keywords are kept as written, since case changes their
// meaning (\S is not \s).
func Term(keyword string) string {
	if pattern.Delimited(keyword) {
		return keyword
	}
	return strings.ToLower(keyword)
}
