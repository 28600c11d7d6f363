// Package input parses the TUI search line.
package input

import (
	"strings"

	"github.com/javiermolinar/slotboard/internal/slot"
)

// typePrefix introduces a category token, as in "type:repair boiler".
const typePrefix = "type:"

// ParseQuery splits a search line into a category filter and free text.
// When several type: tokens appear the last one wins. The returned error is
// slot.ErrInvalidCategory for an unknown category; the text part of the
// filter is still filled in.
func ParseQuery(line string) (slot.Filter, error) {
	var (
		f     slot.Filter
		words []string
		err   error
	)
	for _, tok := range strings.Fields(line) {
		name, ok := cutPrefixFold(tok, typePrefix)
		if !ok {
			words = append(words, tok)
			continue
		}
		if name == "" {
			continue
		}
		c, perr := slot.ParseCategory(name)
		if perr != nil {
			err = perr
			continue
		}
		f.Category = &c
	}
	f.Query = strings.Join(words, " ")
	return f, err
}

// FormatQuery renders f back into a search line.
func FormatQuery(f slot.Filter) string {
	var parts []string
	if f.Category != nil {
		parts = append(parts, typePrefix+string(*f.Category))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

// Suggestions returns the category tokens completing the last word of line.
func Suggestions(line string) []string {
	if line == "" || strings.HasSuffix(line, " ") {
		return nil
	}
	fields := strings.Fields(line)
	last := fields[len(fields)-1]

	var out []string
	for _, c := range slot.Categories() {
		candidate := typePrefix + string(c)
		if len(last) < len(candidate) && strings.HasPrefix(candidate, strings.ToLower(last)) {
			out = append(out, candidate)
		}
	}
	return out
}

// Autocomplete replaces the last word of line with its first suggestion.
func Autocomplete(line string) (string, bool) {
	matches := Suggestions(line)
	if len(matches) == 0 {
		return "", false
	}
	i := strings.LastIndexAny(line, " \t")
	return line[:i+1] + matches[0] + " ", true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
