// SPDX-License-Identifier: MIT

// Package directory parses the plain-text channel directory into ordered groups.
package directory

// ChannelRecord is one channel line of the directory. Records are never mutated
// after parsing and duplicates are kept.
type ChannelRecord struct {
	Name    string
	Address string
	Group   string
}

// Group is a named, ordered list of channel records.
type Group struct {
	Name     string
	Channels []ChannelRecord
}

// First returns the first channel of the group.
func (g Group) First() (ChannelRecord, bool) {
	if len(g.Channels) == 0 {
		return ChannelRecord{}, false
	}
	return g.Channels[0], true
}

// Stats counts what the parser saw.
type Stats struct {
	Lines     int // non-blank lines after skipping
	Headers   int
	Channels  int
	Malformed int
	Skipped   int // channel-like lines outside any group
}

// Directory is the parse result: groups in declaration order.
type Directory struct {
	Format string
	Groups []Group
	Stats  Stats
}

// ChannelCount returns the total number of channel records across all groups.
func (d Directory) ChannelCount() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Channels)
	}
	return n
}
