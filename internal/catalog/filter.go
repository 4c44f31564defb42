// Package catalog filters the exercise and food reference lists and derives
// default values for entries built from catalog items.
package catalog

import (
	"iter"
	"strings"
)

// All is the category selector that matches every item.
const All = "all"

// Item is anything the trainer picks from a reference list.
type Item interface {
	DisplayName() string
	CategoryName() string
}

// Matches reports whether item passes the query/category pair. The query is
// a case-insensitive substring of the display name; an empty query matches.
func Matches[T Item](item T, query, category string) bool {
	if category != All && item.CategoryName() != category {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.DisplayName()), strings.ToLower(query))
}

// Filter yields the items of list that match, in input order.
func Filter[T Item](list []T, query, category string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range list {
			if !Matches(item, query, category) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Categories returns the distinct categories of list in first-seen order,
// preceded by All.
func Categories[T Item](list []T) []string {
	seen := map[string]bool{}
	out := []string{All}
	for _, item := range list {
		c := item.CategoryName()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
