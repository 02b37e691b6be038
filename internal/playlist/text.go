// SPDX-License-Identifier: MIT

// Package playlist serializes channel lists to the txt and M3U formats.
package playlist

import (
	"bufio"
	"io"

	"github.com/Figoh-cpu/code/internal/categorize"
	"github.com/Figoh-cpu/code/internal/channels"
)

// GenreMarker tags category header lines in the txt format.
const GenreMarker = "#genre#"

// WriteFlat writes one "name,address" line per channel, in order.
func WriteFlat(w io.Writer, flat []channels.FlatChannel) error {
	bw := bufio.NewWriter(w)
	for _, c := range flat {
		bw.WriteString(c.Name)
		bw.WriteByte(',')
		bw.WriteString(c.Address)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteCategorized writes each non-empty category as a "{category},#genre#"
// header followed by its "name,address" lines and a blank line.
func WriteCategorized(w io.Writer, out categorize.Output) error {
	bw := bufio.NewWriter(w)
	for _, s := range out {
		if len(s.Entries) == 0 {
			continue
		}
		bw.WriteString(s.Category)
		bw.WriteString("," + GenreMarker + "\n")
		for _, e := range s.Entries {
			bw.WriteString(e.Name)
			bw.WriteByte(',')
			bw.WriteString(e.Address)
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
