// Package safety implements the keyword pre-filter that runs before any model call.
//
// Matching is a case-insensitive containment test against a fixed table of risk
// terms. It is deliberately simple: a term embedded in a longer word still
// matches ("diet" contains "die"), trading precision for never letting a risky
// message through.
package safety

import (
	"fmt"
	"strings"
)

// apostrophes folds typographic apostrophes so "can’t breathe" matches "can't breathe".
var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// Table is an immutable list of risk keywords.
type Table struct {
	keywords []Keyword
}

// NewTable builds a table from the given keywords. Terms are normalised the same
// way input text is; blank terms are dropped.
func NewTable(keywords ...Keyword) Table {
	normalized := make([]Keyword, 0, len(keywords))
	for _, k := range keywords {
		term := normalize(k.Term)
		if strings.TrimSpace(term) == "" {
			continue
		}
		normalized = append(normalized, Keyword{Term: term, Category: k.Category})
	}
	return Table{keywords: normalized}
}

// DefaultTable returns the built-in risk table.
func DefaultTable() Table {
	return NewTable(defaultKeywords...)
}

// Keywords returns a copy of the table's entries in match order.
func (t Table) Keywords() []Keyword {
	out := make([]Keyword, len(t.keywords))
	copy(out, t.keywords)
	return out
}

// Len returns the number of entries in the table.
func (t Table) Len() int {
	return len(t.keywords)
}

// Verdict is the result of evaluating one piece of user text.
type Verdict struct {
	Flagged  bool
	Reason   string
	Category Category
	Term     string
}

// Filter evaluates user input against a keyword table.
// A Filter is stateless and safe for concurrent use.
type Filter struct {
	table Table
}

// NewFilter creates a filter over the given table.
func NewFilter(table Table) *Filter {
	return &Filter{table: table}
}

// Evaluate reports whether text contains any risk term.
func (f *Filter) Evaluate(text string) Verdict {
	if text == "" {
		return Verdict{}
	}

	haystack := normalize(text)
	for _, k := range f.table.keywords {
		if strings.Contains(haystack, k.Term) {
			return Verdict{
				Flagged:  true,
				Reason:   fmt.Sprintf("matched %s term %q", k.Category, k.Term),
				Category: k.Category,
				Term:     k.Term,
			}
		}
	}
	return Verdict{}
}

func normalize(s string) string {
	return apostrophes.Replace(strings.ToLower(s))
}
