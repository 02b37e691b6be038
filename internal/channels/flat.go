// SPDX-License-Identifier: MIT

// Package channels flattens live groups into a deduplicated channel list.
package channels

import (
	"github.com/Figoh-cpu/code/internal/directory"
	"github.com/Figoh-cpu/code/internal/liveness"
)

// GroupSeparator joins a raw address and its group name.
const GroupSeparator = "$"

// FlatChannel is a surviving channel with its group annotation attached to the address.
type FlatChannel struct {
	Name       string
	RawAddress string
	// Address is RawAddress + GroupSeparator + Group. It is opaque downstream.
	Address string
	Group   string
}

// NewFlatChannel annotates a parsed record with its group.
func NewFlatChannel(rec directory.ChannelRecord) FlatChannel {
	return FlatChannel{
		Name:       rec.Name,
		RawAddress: rec.Address,
		Address:    rec.Address + GroupSeparator + rec.Group,
		Group:      rec.Group,
	}
}

type key struct {
	name, address string
}

func (c FlatChannel) key() key { return key{c.Name, c.RawAddress} }

// Stats describes a Flatten call.
type Stats struct {
	LiveGroups int
	Records    int // records in live groups before dedupe
	Duplicates int
}

// Flatten walks live groups in declaration order and returns their channels,
// keeping only the first occurrence of each (name, raw address) pair.
func Flatten(groups []directory.Group, results []liveness.Result) ([]FlatChannel, Stats) {
	live := make(map[string]bool, len(results))
	for _, r := range results {
		if r.IsLive {
			live[r.Group] = true
		}
	}

	var st Stats
	seen := make(map[key]struct{})
	var out []FlatChannel
	for _, g := range groups {
		if !live[g.Name] {
			continue
		}
		st.LiveGroups++
		for _, rec := range g.Channels {
			st.Records++
			fc := NewFlatChannel(rec)
			if _, dup := seen[fc.key()]; dup {
				st.Duplicates++
				continue
			}
			seen[fc.key()] = struct{}{}
			out = append(out, fc)
		}
	}
	return out, st
}

// Dedupe drops repeated (name, raw address) pairs, keeping first occurrences in order.
// Dedupe(Dedupe(x)) equals Dedupe(x).
func Dedupe(in []FlatChannel) []FlatChannel {
	seen := make(map[key]struct{}, len(in))
	out := make([]FlatChannel, 0, len(in))
	for _, c := range in {
		if _, dup := seen[c.key()]; dup {
			continue
		}
		seen[c.key()] = struct{}{}
		out = append(out, c)
	}
	return out
}
