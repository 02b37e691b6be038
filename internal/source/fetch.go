// SPDX-License-Identifier: MIT

// Package source downloads the channel directory document.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Figoh-cpu/code/internal/log"
	"github.com/Figoh-cpu/code/internal/platform/httpx"
)

// DefaultMaxBytes caps the downloaded document.
const DefaultMaxBytes int64 = 32 << 20

const errorBodyLimit = 512

// Fetcher downloads a text document over HTTP.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewFetcher returns a Fetcher with a hardened client bounded by timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client:   httpx.NewClient(timeout),
		MaxBytes: DefaultMaxBytes,
	}
}

// Fetch performs a single GET of rawURL and returns the body as text.
// There is no retry: any transport error or non-2xx status is returned to the caller.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	logger := log.WithComponentFromContext(ctx, "source")
	target := RawURL(rawURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, */*")
	req.Header.Set("User-Agent", "livesort")

	client := f.Client
	if client == nil {
		client = httpx.NewClient(0)
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Error().Err(err).
			Str(log.FieldEvent, "fetch.failed").
			Str(log.FieldSourceURL, target).
			Msg("source download failed")
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		serr := &StatusError{
			URL:    target,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
		logger.Error().
			Str(log.FieldEvent, "fetch.status").
			Str(log.FieldSourceURL, target).
			Int("status", resp.StatusCode).
			Msg("source returned non-success status")
		return "", serr
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return "", fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}

	text := decode(body)
	logger.Info().
		Str(log.FieldEvent, "fetch.success").
		Str(log.FieldSourceURL, target).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("source downloaded")
	return text, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode strips a UTF-8 byte-order mark and replaces invalid sequences.
func decode(b []byte) string {
	b = bytes.TrimPrefix(b, utf8BOM)
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

// RawURL rewrites a GitHub blob page URL to its raw.githubusercontent.com equivalent.
// Any other URL is returned unchanged.
func RawURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !strings.EqualFold(u.Host, "github.com") {
		return rawURL
	}
	// /{owner}/{repo}/blob/{ref}/{path...}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 4)
	if len(parts) < 4 || parts[2] != "blob" {
		return rawURL
	}
	u.Host = "raw.githubusercontent.com"
	u.Path = "/" + parts[0] + "/" + parts[1] + "/" + parts[3]
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
