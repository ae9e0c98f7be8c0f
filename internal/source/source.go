// Package source implements one fetcher per external job board. Each
// fetcher speaks its provider's wire shape and normalizes records into the
// canonical job.Job before handing them to the aggregator.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"matchpoint/internal/domain/job"
)

// Per-source request limits. A slow provider must never stall the whole
// fan-out longer than DefaultTimeout.
const (
	DefaultTimeout  = 15 * time.Second
	maxResponseSize = 8 << 20
	fetchAttempts   = 3
)

// Query carries the user's search intent into a fetcher.
type Query struct {
	Text       string
	Category   string
	UserSkills []string // lower-cased scoring skill set
}

// Source is a job board fetcher. Fetch returns normalized listings; an
// error means "no results from this source", never a hard failure for the
// aggregate call.
type Source interface {
	Name() string
	SupportsCategory() bool
	Fetch(ctx context.Context, q Query) ([]job.Job, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getWithRetry issues a GET with bounded retries and a capped response read.
func getWithRetry(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i < fetchAttempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		body, err := doGet(ctx, client, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 300 * time.Millisecond):
		}
	}
	return nil, lastErr
}

func doGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "matchpoint/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return readAllLimit(resp.Body, maxResponseSize)
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: max}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if lr.N <= 0 {
		return nil, fmt.Errorf("response too large")
	}
	return b, nil
}

func pickNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
