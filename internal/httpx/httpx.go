// Package httpx issues the single-attempt JSON GETs both upstreams use.
package httpx

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/guarzo/pkmchase/internal/model"
)

const (
	userAgent   = "pkmchase/1.0"
	maxBodySize = 8 << 20
)

// Client wraps an http.Client for one named upstream. Requests are never
// retried.
type Client struct {
	source  string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a client whose requests time out after timeout. limiter may
// be nil.
func New(source string, timeout time.Duration, limiter *rate.Limiter) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		source:  source,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Source is the upstream name used in errors.
func (c *Client) Source() string { return c.source }

// Get performs a GET and returns the decoded body of a 2xx response.
// Transport failures, timeouts and non-2xx statuses become
// *model.UpstreamRequestError.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &model.UpstreamRequestError{Source: c.source, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.UpstreamRequestError{Source: c.source, Err: err}
	}
	defer resp.Body.Close()

	reader, err := bodyReader(resp)
	if err != nil {
		return nil, &model.UpstreamRequestError{Source: c.source, StatusCode: resp.StatusCode, Err: err}
	}
	defer reader.Close()
	body, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return nil, &model.UpstreamRequestError{Source: c.source, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode/100 != 2 {
		return nil, &model.UpstreamRequestError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncate(string(body), 200)),
		}
	}
	return body, nil
}

// bodyReader undoes Content-Encoding ourselves, since setting
// Accept-Encoding disables the transport's transparent gzip. Closing the
// result leaves resp.Body open.
func bodyReader(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
