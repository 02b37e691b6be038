// SPDX-License-Identifier: MIT

// Package normalize maps observed channel-name spellings to canonical names.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Token normalizes a string token for matching:
// - trims Unicode whitespace + invisible edge characters
// - lowercases for case-insensitive comparisons
func Token(s string) string {
	return strings.ToLower(strings.TrimFunc(s, isEdge))
}

// Fold is Token applied after NFKC normalization, so full-width and
// compatibility spellings compare equal to their plain forms.
func Fold(s string) string {
	return Token(norm.NFKC.String(s))
}

func isEdge(r rune) bool {
	return unicode.IsSpace(r) ||
		r == '\u200B' || // Zero Width Space
		r == '\u200C' || // Zero Width Non-Joiner
		r == '\u200D' || // Zero Width Joiner
		r == '\uFEFF' // Zero Width Non-Breaking Space (BOM)
}

// MatchKind says how a name was resolved.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchFuzzy
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Normalizer resolves raw names against an AliasTable. It holds no mutable
// state and is safe for concurrent use.
type Normalizer struct {
	table *AliasTable
}

// New returns a Normalizer over t. A nil table resolves every name to itself.
func New(t *AliasTable) *Normalizer {
	if t == nil {
		t = NewAliasTable(nil)
	}
	return &Normalizer{table: t}
}

// Normalize returns the canonical name for raw.
func (n *Normalizer) Normalize(raw string) string {
	name, _ := n.Match(raw)
	return name
}

// Match resolves raw in three steps:
//  1. exact: the trimmed name equals an alias
//  2. fuzzy: first (canonical, alias) pair in table order where either folded
//     string contains the other
//  3. the trimmed name itself
//
// Fuzzy matching is order dependent and short aliases can claim unrelated
// names ("CCTV-1" is a substring of "CCTV-10科教").
func (n *Normalizer) Match(raw string) (string, MatchKind) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return name, MatchNone
	}

	if canonical, ok := n.table.exact[name]; ok {
		return canonical, MatchExact
	}

	folded := Fold(name)
	if folded == "" {
		return name, MatchNone
	}
	for _, p := range n.table.pairs {
		if strings.Contains(p.folded, folded) || strings.Contains(folded, p.folded) {
			return p.canonical, MatchFuzzy
		}
	}
	return name, MatchNone
}
