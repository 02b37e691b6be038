// SPDX-License-Identifier: MIT

package directory

import (
	"strings"
)

// Input variants.
const (
	FormatAuto   = "auto"
	FormatPlain  = "plain"
	FormatQuoted = "quoted"
)

// Options controls parsing.
type Options struct {
	Format       string
	SkipLines    int
	MulticastTag string
	GenreMarker  string
}

// DefaultOptions matches the upstream zubo_all.txt layout.
func DefaultOptions() Options {
	return Options{
		Format:       FormatAuto,
		SkipLines:    2,
		MulticastTag: "-组播",
		GenreMarker:  "#genre#",
	}
}

// quoted-variant channel addresses must mention one of these.
var streamSchemes = []string{"http", "rtmp", "rtsp", "m3u8"}

const minQuotedLineLen = 5

// Parse turns the raw document into a Directory. It never fails: malformed lines
// are counted in Stats and otherwise ignored.
func Parse(text string, opts Options) Directory {
	if opts.GenreMarker == "" {
		opts.GenreMarker = "#genre#"
	}

	lines := strings.Split(text, "\n")
	if opts.SkipLines > 0 {
		if opts.SkipLines >= len(lines) {
			lines = nil
		} else {
			lines = lines[opts.SkipLines:]
		}
	}
	if opts.MulticastTag != "" {
		for i := range lines {
			lines[i] = strings.ReplaceAll(lines[i], opts.MulticastTag, "")
		}
	}

	format := opts.Format
	if format != FormatPlain && format != FormatQuoted {
		format = detectFormat(lines)
	}

	p := &parser{
		format: format,
		marker: opts.GenreMarker,
		index:  make(map[string]int),
	}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		p.stats.Lines++
		p.line(line)
	}

	groups := make([]Group, 0, len(p.groups))
	for _, g := range p.groups {
		if len(g.Channels) > 0 {
			groups = append(groups, g)
		}
	}
	return Directory{Format: format, Groups: groups, Stats: p.stats}
}

// detectFormat picks the quoted variant when the first non-blank line starts with a quote.
func detectFormat(lines []string) string {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, `"`) {
			return FormatQuoted
		}
		return FormatPlain
	}
	return FormatPlain
}

type parser struct {
	format string
	marker string

	groups  []Group
	index   map[string]int
	current int
	active  bool // false before the first header and after a malformed one
	stats   Stats
}

func (p *parser) line(line string) {
	if p.isHeader(line) {
		p.stats.Headers++
		name := p.headerName(line)
		if name == "" {
			p.stats.Malformed++
			p.active = false
			return
		}
		p.open(name)
		return
	}

	if !p.active {
		p.stats.Skipped++
		return
	}

	var (
		name, addr string
		ok         bool
	)
	if p.format == FormatQuoted {
		name, addr, ok = p.quotedChannel(line)
	} else {
		name, addr, ok = plainChannel(line)
	}
	if !ok {
		p.stats.Malformed++
		return
	}

	g := &p.groups[p.current]
	g.Channels = append(g.Channels, ChannelRecord{Name: name, Address: addr, Group: g.Name})
	p.stats.Channels++
}

func (p *parser) isHeader(line string) bool {
	if p.format == FormatQuoted {
		return indexMarker(line, p.marker, true) >= 0
	}
	return strings.Contains(line, p.marker)
}

func (p *parser) headerName(line string) string {
	var name string
	if i := indexMarker(line, ","+p.marker, p.format == FormatQuoted); i >= 0 {
		name = line[:i]
	} else if i := strings.Index(line, ","); i >= 0 {
		name = line[:i]
	} else {
		name = line[:indexMarker(line, p.marker, p.format == FormatQuoted)]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(name), `"`))
}

// open activates the named group. A name declared twice keeps its first position.
func (p *parser) open(name string) {
	if i, ok := p.index[name]; ok {
		p.current = i
		p.active = true
		return
	}
	p.groups = append(p.groups, Group{Name: name})
	p.current = len(p.groups) - 1
	p.index[name] = p.current
	p.active = true
}

func plainChannel(line string) (name, addr string, ok bool) {
	name, addr, found := strings.Cut(line, ",")
	if !found {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	addr = strings.TrimSpace(addr)
	if name == "" || addr == "" {
		return "", "", false
	}
	return name, addr, true
}

func (p *parser) quotedChannel(line string) (name, addr string, ok bool) {
	if len(line) < minQuotedLineLen {
		return "", "", false
	}

	if strings.HasPrefix(line, `"`) && strings.Count(line, `"`) >= 4 {
		parts := strings.Split(line, `","`)
		if len(parts) < 2 {
			return "", "", false
		}
		name = strings.Trim(parts[0], `"`)
		addr = strings.Trim(parts[1], `"`)
	} else {
		var found bool
		name, addr, found = strings.Cut(line, ",")
		if !found {
			return "", "", false
		}
		name = strings.Trim(strings.TrimSpace(name), `"`)
		addr = strings.Trim(strings.TrimSpace(addr), `"`)
	}
	name = strings.TrimSpace(name)
	addr = strings.TrimSpace(addr)

	if name == "" || addr == "" {
		return "", "", false
	}
	if strings.HasSuffix(name, p.marker) || strings.HasSuffix(addr, p.marker) {
		return "", "", false
	}
	if !hasStreamScheme(addr) {
		return "", "", false
	}
	return name, addr, true
}

func hasStreamScheme(addr string) bool {
	lower := strings.ToLower(addr)
	for _, s := range streamSchemes {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func indexMarker(line, marker string, foldCase bool) int {
	if foldCase {
		return strings.Index(asciiLower(line), asciiLower(marker))
	}
	return strings.Index(line, marker)
}

// asciiLower lowercases ASCII letters only, so byte offsets stay valid for the input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
