// Package filter evaluates chats against per-term mode flags.
//
// Each term (a category name, or a keyword keyed by registry.Term) carries four
// independent flags. Evaluation runs three gates in order: negative,
// conditional-positive, additive-positive. The category and keyword
// dimensions use the same gates and are ANDed.
package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rcliao/chatsort/internal/registry"
)

// ModeFlags are the four filter modes for one term.
type ModeFlags struct {
	// ConditionalNegative and SubtractiveNegative both exclude matching
	// chats. They are kept apart so callers can present them differently.
	ConditionalNegative bool `json:"conditionalNegative"`
	SubtractiveNegative bool `json:"subtractiveNegative"`
	// ConditionalPositive terms are all required.
	ConditionalPositive bool `json:"conditionalPositive"`
	// AdditivePositive terms form an OR set; at least one is required when
	// the set is non-empty.
	AdditivePositive bool `json:"additivePositive"`
}

// IsZero reports whether no flag is set.
func (f ModeFlags) IsZero() bool {
	return f == ModeFlags{}
}

// Negative reports whether either negative flag is set.
func (f ModeFlags) Negative() bool {
	return f.ConditionalNegative || f.SubtractiveNegative
}

// Has reports whether mode is set.
func (f ModeFlags) Has(m Mode) bool {
	switch m {
	case ConditionalNegative:
		return f.ConditionalNegative
	case SubtractiveNegative:
		return f.SubtractiveNegative
	case ConditionalPositive:
		return f.ConditionalPositive
	case AdditivePositive:
		return f.AdditivePositive
	}
	return false
}

// With returns f with mode set to on.
func (f ModeFlags) With(m Mode, on bool) ModeFlags {
	switch m {
	case ConditionalNegative:
		f.ConditionalNegative = on
	case SubtractiveNegative:
		f.SubtractiveNegative = on
	case ConditionalPositive:
		f.ConditionalPositive = on
	case AdditivePositive:
		f.AdditivePositive = on
	}
	return f
}

// Mode identifies one of the four flags.
type Mode int

const (
	ConditionalNegative Mode = iota + 1
	SubtractiveNegative
	ConditionalPositive
	AdditivePositive
)

// Modes lists every mode in display order.
var Modes = []Mode{ConditionalNegative, SubtractiveNegative, ConditionalPositive, AdditivePositive}

var modeNames = map[Mode]string{
	ConditionalNegative: "conditional-negative",
	SubtractiveNegative: "subtractive-negative",
	ConditionalPositive: "conditional-positive",
	AdditivePositive:    "additive-positive",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts a mode name as printed by String, or the short aliases
// exclude, exclude-always, require and any.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conditional-negative", "exclude":
		return ConditionalNegative, nil
	case "subtractive-negative", "exclude-always":
		return SubtractiveNegative, nil
	case "conditional-positive", "require":
		return ConditionalPositive, nil
	case "additive-positive", "any":
		return AdditivePositive, nil
	}
	return 0, fmt.Errorf("unknown filter mode %q", s)
}

// State maps terms to their flags. A missing term is all-false. Methods never
// modify the receiver.
type State map[string]ModeFlags

// Get returns the flags for term.
func (s State) Get(term string) ModeFlags {
	return s[term]
}

// Set returns a copy of s with term's flags replaced. All-false flags remove
// the entry.
func (s State) Set(term string, f ModeFlags) State {
	out := maps.Clone(s)
	if out == nil {
		out = State{}
	}
	if f.IsZero() {
		delete(out, term)
	} else {
		out[term] = f
	}
	return out
}

// Toggle returns a copy of s with one mode flipped for term.
func (s State) Toggle(term string, m Mode) State {
	f := s.Get(term)
	return s.Set(term, f.With(m, !f.Has(m)))
}

// Delete returns a copy of s without term.
func (s State) Delete(term string) State {
	if _, ok := s[term]; !ok {
		return s
	}
	out := maps.Clone(s)
	delete(out, term)
	return out
}

// Move returns a copy of s with from's flags placed under to. If from has no
// entry s is returned unchanged.
func (s State) Move(from, to string) State {
	f, ok := s[from]
	if !ok || from == to {
		return s
	}
	out := maps.Clone(s)
	delete(out, from)
	out[to] = f
	return out
}

// Terms returns the sorted terms that have mode set.
func (s State) Terms(m Mode) []string {
	var terms []string
	for t, f := range s {
		if f.Has(m) {
			terms = append(terms, t)
		}
	}
	slices.Sort(terms)
	return terms
}

// Active reports whether any term has any flag set.
func (s State) Active() bool {
	for _, f := range s {
		if !f.IsZero() {
			return true
		}
	}
	return false
}

// ApplyCascade applies a registry mutation's cascade to the category and
// keyword states and returns both, so a caller can swap them in together.
func ApplyCascade(categories, keywords State, c registry.Cascade) (State, State) {
	switch c.Dimension {
	case registry.Categories:
		categories = applyOp(categories, c)
	case registry.Keywords:
		keywords = applyOp(keywords, c)
	}
	return categories, keywords
}

func applyOp(s State, c registry.Cascade) State {
	switch c.Op {
	case registry.OpMove:
		return s.Move(c.From, c.To)
	case registry.OpDelete:
		return s.Delete(c.From)
	}
	return s
}
