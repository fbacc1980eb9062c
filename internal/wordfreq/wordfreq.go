// Package wordfreq mines word frequencies from categorized chats to help pick
// new keywords.
package wordfreq

import (
	"cmp"
	"regexp"
	"slices"
	"unicode"

	"github.com/rcliao/chatsort/internal/model"
)

const (
	DefaultThreshold = 6
	DefaultTop       = 50
)

// Options configures word mining.
type Options struct {
	// Threshold is the number of categories a word must appear in to count
	// as common.
	Threshold int
	// Top is the number of words kept per category.
	Top int
}

// DefaultOptions returns default mining options.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Top:       DefaultTop,
	}
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize returns the words of text, dropping purely numeric ones. Callers
// pass already lowercased text.
func Tokenize(text string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(text, -1) {
		if isNumeric(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Frequencies maps each registered category to the word counts of the chats
// tagged with it. Categories with no tagged chats are absent.
func Frequencies(doc model.Document) map[string]map[string]int {
	freq := make(map[string]map[string]int)
	for _, cat := range doc.Categories.Names() {
		for _, c := range doc.Chats {
			if !c.HasCategory(cat) {
				continue
			}
			counts := freq[cat]
			if counts == nil {
				counts = make(map[string]int)
				freq[cat] = counts
			}
			for _, w := range Tokenize(c.Text()) {
				counts[w]++
			}
		}
	}
	return freq
}

// CategoryCount is a word count within one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CommonWord is a word shared by many categories.
type CommonWord struct {
	Word   string          `json:"word"`
	Total  int             `json:"total"`
	Counts []CategoryCount `json:"counts"`
}

// Common returns the words present in at least threshold categories, sorted
// by total frequency descending then by word. Per-category counts follow
// registry order. A threshold below 1 uses DefaultThreshold.
func Common(doc model.Document, threshold int) []CommonWord {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	freq := Frequencies(doc)

	byWord := make(map[string]*CommonWord)
	var words []string
	for _, cat := range doc.Categories.Names() {
		for w, n := range freq[cat] {
			cw, ok := byWord[w]
			if !ok {
				cw = &CommonWord{Word: w}
				byWord[w] = cw
				words = append(words, w)
			}
			cw.Total += n
			cw.Counts = append(cw.Counts, CategoryCount{Category: cat, Count: n})
		}
	}

	var out []CommonWord
	for _, w := range words {
		if cw := byWord[w]; len(cw.Counts) >= threshold {
			out = append(out, *cw)
		}
	}
	slices.SortFunc(out, func(a, b CommonWord) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	return out
}

// WordCount is a word and how often it occurs.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// CategoryWords is the top word list of one category.
type CategoryWords struct {
	Category string      `json:"category"`
	Words    []WordCount `json:"words"`
}

// Top returns, per registered category in order, its n most frequent words
// excluding those in exclude. Ties break by word. Categories with no tagged
// chats are listed with no words. An n below 1 uses DefaultTop.
func Top(doc model.Document, exclude []string, n int) []CategoryWords {
	if n < 1 {
		n = DefaultTop
	}
	freq := Frequencies(doc)

	out := make([]CategoryWords, 0, doc.Categories.Len())
	for _, cat := range doc.Categories.Names() {
		cw := CategoryWords{Category: cat, Words: []WordCount{}}
		for w, c := range freq[cat] {
			if slices.Contains(exclude, w) {
				continue
			}
			cw.Words = append(cw.Words, WordCount{Word: w, Count: c})
		}
		slices.SortFunc(cw.Words, func(a, b WordCount) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Word, b.Word)
		})
		if len(cw.Words) > n {
			cw.Words = cw.Words[:n]
		}
		out = append(out, cw)
	}
	return out
}

// Words returns the words of common, for use as an exclude list.
func Words(common []CommonWord) []string {
	out := make([]string, len(common))
	for i, c := range common {
		out[i] = c.Word
	}
	return out
}
