package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const fetchAttempts = 3

// HTTPSource downloads artifacts relative to a base URL
type HTTPSource struct {
	client  *http.Client
	baseURL string
	backoff time.Duration
	maxSize int64
}

// NewHTTPSource creates a source for baseURL with the given per-request timeout
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	transport := &http.Transport{
		// A bundle is a handful of files from one host
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		baseURL: baseURL,
		backoff: time.Second,
		maxSize: DefaultMaxArtifactSize,
	}
}

// Describe names the base URL for log lines
func (s *HTTPSource) Describe() string {
	return "http:" + s.baseURL
}

// Fetch downloads name, retrying transport failures and 5xx responses
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	artifactURL, err := url.JoinPath(s.baseURL, name)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact URL: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			// Linear backoff: 1x, 2x
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.backoff):
			}
		}

		data, retry, err := s.fetchOnce(ctx, artifactURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", name, fetchAttempts, lastErr)
}

// fetchOnce performs a single GET and reports whether a failure is worth retrying
func (s *HTTPSource) fetchOnce(ctx context.Context, artifactURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("User-Agent", "Go-Color-Mood/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: client error: status code %d", ErrArtifactNotFound, resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body, s.maxSize)
	if err != nil {
		return nil, false, err
	}
	return data, false, nil
}

// readLimited reads at most limit bytes and fails if more remain
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrArtifactTooLarge, limit)
	}
	return data, nil
}
