// SPDX-License-Identifier: MIT

// Package categorize assigns every channel to exactly one category.
package categorize

import "strings"

// DefaultCatchAll receives every channel nothing else claims.
const DefaultCatchAll = "其他"

// Category is a named set of canonical channel names.
type Category struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// KeywordRule claims a name for Category when it contains any keyword.
// With FoldCase the comparison is case-insensitive.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	FoldCase bool     `yaml:"foldCase"`
}

func (r KeywordRule) matches(name string) bool {
	subject := name
	if r.FoldCase {
		subject = strings.ToLower(name)
	}
	for _, kw := range r.Keywords {
		if kw == "" {
			continue
		}
		if r.FoldCase {
			kw = strings.ToLower(kw)
		}
		if strings.Contains(subject, kw) {
			return true
		}
	}
	return false
}

// Via records which step decided a category.
type Via int

const (
	ViaTable Via = iota
	ViaKeyword
	ViaFallback
)

func (v Via) String() string {
	switch v {
	case ViaTable:
		return "table"
	case ViaKeyword:
		return "keyword"
	default:
		return "fallback"
	}
}

// Table is the read-only categorization data: membership, ordered keyword
// rules and the catch-all. Build it once and share the pointer.
type Table struct {
	categories []Category
	members    map[string]string
	rules      []KeywordRule
	catchAll   string
	order      []string
}

// NewTable copies its inputs. A name listed under several categories belongs
// to the first one. An empty catchAll selects DefaultCatchAll.
func NewTable(categories []Category, rules []KeywordRule, catchAll string) *Table {
	if catchAll == "" {
		catchAll = DefaultCatchAll
	}
	t := &Table{
		members:  make(map[string]string),
		catchAll: catchAll,
	}
	seen := make(map[string]bool)
	addOrder := func(name string) {
		if !seen[name] {
			seen[name] = true
			t.order = append(t.order, name)
		}
	}

	for _, c := range categories {
		t.categories = append(t.categories, Category{Name: c.Name, Members: append([]string(nil), c.Members...)})
		for _, m := range c.Members {
			if _, ok := t.members[m]; !ok {
				t.members[m] = c.Name
			}
		}
		if c.Name != catchAll {
			addOrder(c.Name)
		}
	}
	for _, r := range rules {
		t.rules = append(t.rules, KeywordRule{
			Category: r.Category,
			Keywords: append([]string(nil), r.Keywords...),
			FoldCase: r.FoldCase,
		})
		if r.Category != catchAll {
			addOrder(r.Category)
		}
	}
	addOrder(catchAll)
	return t
}

// Categorize returns the category for a canonical name: exact table
// membership, then the first matching keyword rule, then the catch-all.
func (t *Table) Categorize(name string) (string, Via) {
	if c, ok := t.members[name]; ok {
		return c, ViaTable
	}
	for _, r := range t.rules {
		if r.matches(name) {
			return r.Category, ViaKeyword
		}
	}
	return t.catchAll, ViaFallback
}

// Order returns category names in output order: table categories, then rule
// categories the table does not define, then the catch-all.
func (t *Table) Order() []string {
	return append([]string(nil), t.order...)
}

// CatchAll returns the catch-all category name.
func (t *Table) CatchAll() string { return t.catchAll }

// Categories returns the number of membership categories.
func (t *Table) Categories() int { return len(t.categories) }

// Rules returns the number of keyword rules.
func (t *Table) Rules() int { return len(t.rules) }
