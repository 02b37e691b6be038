// SPDX-License-Identifier: MIT

package normalize

// Alias lists the known spellings of one canonical name.
type Alias struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

type pair struct {
	canonical string
	folded    string
}

// AliasTable is an ordered, read-only alias mapping. Build it once and share
// the pointer; nothing mutates it after NewAliasTable returns.
type AliasTable struct {
	entries []Alias
	exact   map[string]string
	pairs   []pair
}

// NewAliasTable copies entries into a lookup table. When an alias appears under
// more than one canonical name, the first definition wins for exact matches.
func NewAliasTable(entries []Alias) *AliasTable {
	t := &AliasTable{
		entries: make([]Alias, 0, len(entries)),
		exact:   make(map[string]string),
	}
	for _, e := range entries {
		t.entries = append(t.entries, Alias{
			Canonical: e.Canonical,
			Aliases:   append([]string(nil), e.Aliases...),
		})
		for _, a := range e.Aliases {
			if a == "" {
				continue
			}
			if _, ok := t.exact[a]; !ok {
				t.exact[a] = e.Canonical
			}
			// An empty folded alias would be a substring of every name.
			if f := Fold(a); f != "" {
				t.pairs = append(t.pairs, pair{canonical: e.Canonical, folded: f})
			}
		}
	}
	return t
}

// Len returns the number of canonical entries.
func (t *AliasTable) Len() int { return len(t.entries) }

// Entries returns a copy of the table in definition order.
func (t *AliasTable) Entries() []Alias {
	out := make([]Alias, len(t.entries))
	for i, e := range t.entries {
		out[i] = Alias{Canonical: e.Canonical, Aliases: append([]string(nil), e.Aliases...)}
	}
	return out
}
