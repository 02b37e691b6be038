// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// FuncChecker adapts a function to the Checker interface.
type FuncChecker struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

func NewFuncChecker(name string, fn func(ctx context.Context) CheckResult) *FuncChecker {
	return &FuncChecker{name: name, fn: fn}
}

func (c *FuncChecker) Name() string                          { return c.name }
func (c *FuncChecker) Check(ctx context.Context) CheckResult { return c.fn(ctx) }

// FileChecker checks that an optional file exists and is readable.
type FileChecker struct {
	name string
	path string
}

// NewFileChecker creates a checker for file existence
func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{
		name: name,
		path: path,
	}
}

func (c *FileChecker) Name() string {
	return c.name
}

func (c *FileChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "file not found",
				Message: c.path,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	if info.IsDir() {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   "expected file, got directory",
			Message: c.path,
		}
	}

	if info.Size() == 0 {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "file is empty",
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: c.path,
	}
}

// DirChecker checks that a directory exists and accepts new files.
type DirChecker struct {
	name string
	path string
}

func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{name: name, path: path}
}

func (c *DirChecker) Name() string { return c.name }

func (c *DirChecker) Check(_ context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{Status: StatusUnhealthy, Error: "directory does not exist", Message: c.path}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "path is not a directory", Message: c.path}
	}

	f, err := os.CreateTemp(c.path, ".livesort-write-test-*")
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: fmt.Sprintf("directory is not writable: %v", err), Message: c.path}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return CheckResult{Status: StatusHealthy, Message: c.path}
}

// BinaryChecker resolves an external binary through lookup.
type BinaryChecker struct {
	name   string
	bin    string
	lookup func(ctx context.Context, bin string) (string, error)
}

func NewBinaryChecker(name, bin string, lookup func(ctx context.Context, bin string) (string, error)) *BinaryChecker {
	return &BinaryChecker{name: name, bin: bin, lookup: lookup}
}

func (c *BinaryChecker) Name() string { return c.name }

func (c *BinaryChecker) Check(ctx context.Context) CheckResult {
	path, err := c.lookup(ctx, c.bin)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: path}
}

// URLChecker issues a HEAD request. A remote failure only degrades the
// report since the source may recover before the next run.
type URLChecker struct {
	name    string
	url     string
	client  *http.Client
	timeout time.Duration
}

func NewURLChecker(name, url string, client *http.Client, timeout time.Duration) *URLChecker {
	return &URLChecker{name: name, url: url, client: client, timeout: timeout}
}

func (c *URLChecker) Name() string { return c.name }

func (c *URLChecker) Check(ctx context.Context) CheckResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CheckResult{Status: StatusDegraded, Error: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
}
