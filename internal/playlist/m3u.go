// SPDX-License-Identifier: MIT

package playlist

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Figoh-cpu/code/internal/categorize"
)

type Item struct {
	Name    string
	TvgID   string
	TvgChNo int
	Group   string
	URL     string
}

// ItemsFromOutput flattens categorized output into M3U items numbered from 1.
// Players cannot resolve the "$group" annotation, so items use the raw address.
func ItemsFromOutput(out categorize.Output) []Item {
	items := make([]Item, 0, out.Total())
	for _, s := range out {
		for _, e := range s.Entries {
			items = append(items, Item{
				Name:    e.Name,
				TvgID:   StableID(e.Name),
				TvgChNo: len(items) + 1,
				Group:   s.Category,
				URL:     e.RawAddress,
			})
		}
	}
	return items
}

// StableID derives a deterministic tvg-id from a channel name.
func StableID(name string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(name))) //nolint:gosec // identifier, not a security boundary
	return "ch-" + hex.EncodeToString(sum[:])[:12]
}

func WriteM3U(w io.Writer, items []Item) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for _, it := range items {
		fmt.Fprintf(buf,
			`#EXTINF:-1 tvg-chno="%d" tvg-id="%s" tvg-name="%s" group-title="%s",%s`+"\n",
			it.TvgChNo, it.TvgID, attr(it.Name), attr(it.Group), it.Name,
		)
		buf.WriteString(it.URL + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}

// attr keeps a value from breaking out of a quoted EXTINF attribute.
func attr(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}
