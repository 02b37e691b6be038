// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("\xEF\xBB\xBFline1\nline2\n"))
	}))
	defer srv.Close()

	text, err := NewFetcher(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", text)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone fishing", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewFetcher(time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusServiceUnavailable, serr.Status)
	assert.Equal(t, "gone fishing", serr.Body)
	assert.True(t, errors.Is(err, ErrBadStatus))
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewFetcher(time.Second).Fetch(context.Background(), srv.URL)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Status)
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	f.MaxBytes = 16
	_, err := f.Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestFetch_ExactlyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 16)))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	f.MaxBytes = 16
	text, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, text, 16)
}

func TestFetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(time.Second).Fetch(context.Background(), url)
	require.Error(t, err)
	var serr *StatusError
	assert.False(t, errors.As(err, &serr))
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcher(time.Second).Fetch(ctx, srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRawURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://github.com/q1017673817/iptvz/blob/main/zubo_all.txt",
			"https://raw.githubusercontent.com/q1017673817/iptvz/main/zubo_all.txt",
		},
		{
			"https://github.com/owner/repo/blob/dev/lists/a.txt?plain=1",
			"https://raw.githubusercontent.com/owner/repo/dev/lists/a.txt",
		},
		{
			"https://raw.githubusercontent.com/q1017673817/iptvz/main/zubo_all.txt",
			"https://raw.githubusercontent.com/q1017673817/iptvz/main/zubo_all.txt",
		},
		{"https://github.com/owner/repo", "https://github.com/owner/repo"},
		{"https://example.com/owner/repo/blob/main/x.txt", "https://example.com/owner/repo/blob/main/x.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RawURL(tt.in), tt.in)
	}
}
