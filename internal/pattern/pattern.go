// Package pattern compiles raw keyword strings into matchers.
//
// A keyword wrapped in slashes ("/^py.*/") is a case-insensitive regular
// expression; anything else is a case-insensitive literal substring.
// Haystacks passed to Match must already be lowercased.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a compiled keyword.
type Pattern struct {
	literal string
	re      *regexp.Regexp
}

// RegexError reports a slash-delimited keyword whose body did not compile.
// The Pattern returned alongside it falls back to literal matching and is
// safe to use.
type RegexError struct {
	Keyword string
	Err     error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("invalid regex keyword %q, using plain string instead: %v", e.Keyword, e.Err)
}

func (e *RegexError) Unwrap() error { return e.Err }

// Compile parses raw. A non-nil error is always a *RegexError and the
// returned Pattern is still usable.
func Compile(raw string) (Pattern, error) {
	if Delimited(raw) {
		trimmed := strings.TrimSpace(raw)
		body := trimmed[1 : len(trimmed)-1]
		re, err := regexp.Compile("(?i)" + body)
		if err != nil {
			return Pattern{literal: strings.ToLower(raw)}, &RegexError{Keyword: raw, Err: err}
		}
		return Pattern{re: re}, nil
	}
	return Pattern{literal: strings.ToLower(raw)}, nil
}

// Delimited reports whether raw is written as a /regex/ keyword.
func Delimited(raw string) bool {
	t := strings.TrimSpace(raw)
	return len(t) > 2 && strings.HasPrefix(t, "/") && strings.HasSuffix(t, "/")
}

// Match reports whether the pattern occurs in haystack, which is expected to
// be lowercase.
func (p Pattern) Match(haystack string) bool {
	if p.re != nil {
		return p.re.MatchString(haystack)
	}
	return strings.Contains(haystack, p.literal)
}

// IsRegex reports whether the pattern compiled as a regular expression.
func (p Pattern) IsRegex() bool {
	return p.re != nil
}

func (p Pattern) String() string {
	if p.re != nil {
		return "regex:" + p.re.String()
	}
	return "literal:" + p.literal
}
