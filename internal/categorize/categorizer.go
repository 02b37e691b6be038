// SPDX-License-Identifier: MIT

package categorize

import (
	"github.com/Figoh-cpu/code/internal/channels"
	"github.com/Figoh-cpu/code/internal/normalize"
)

// Entry is one output line under a category.
type Entry struct {
	Name    string
	Address string
	// RawName and RawAddress are the values as they appeared in the directory.
	RawName    string
	RawAddress string
}

// Section is a category with its entries in input order.
type Section struct {
	Category string
	Entries  []Entry
}

// Output is the categorized channel list in table order. Empty categories are omitted.
type Output []Section

// Total returns the number of entries across all sections.
func (o Output) Total() int {
	n := 0
	for _, s := range o {
		n += len(s.Entries)
	}
	return n
}

// Counts returns entries per category.
func (o Output) Counts() map[string]int {
	m := make(map[string]int, len(o))
	for _, s := range o {
		m[s.Category] = len(s.Entries)
	}
	return m
}

// Stats counts how names were resolved during Build.
type Stats struct {
	Normalized map[normalize.MatchKind]int
	Via        map[Via]int
}

// Categorizer normalizes names and files each channel under one category.
type Categorizer struct {
	table      *Table
	normalizer *normalize.Normalizer
}

// New returns a Categorizer. Both dependencies are read-only and may be shared.
func New(t *Table, n *normalize.Normalizer) *Categorizer {
	if n == nil {
		n = normalize.New(nil)
	}
	return &Categorizer{table: t, normalizer: n}
}

// Categorize normalizes raw and returns its canonical name and category.
func (c *Categorizer) Categorize(raw string) (canonical, category string, kind normalize.MatchKind, via Via) {
	canonical, kind = c.normalizer.Match(raw)
	category, via = c.table.Categorize(canonical)
	return canonical, category, kind, via
}

// Build files every channel. Each input channel lands in exactly one section,
// so Output.Total() == len(flat).
func (c *Categorizer) Build(flat []channels.FlatChannel) (Output, Stats) {
	st := Stats{
		Normalized: make(map[normalize.MatchKind]int),
		Via:        make(map[Via]int),
	}
	buckets := make(map[string][]Entry)
	for _, ch := range flat {
		canonical, category, kind, via := c.Categorize(ch.Name)
		st.Normalized[kind]++
		st.Via[via]++
		buckets[category] = append(buckets[category], Entry{
			Name:       canonical,
			Address:    ch.Address,
			RawName:    ch.Name,
			RawAddress: ch.RawAddress,
		})
	}

	var out Output
	for _, name := range c.table.order {
		if entries := buckets[name]; len(entries) > 0 {
			out = append(out, Section{Category: name, Entries: entries})
		}
	}
	return out, st
}
