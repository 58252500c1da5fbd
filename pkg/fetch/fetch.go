// Package fetch downloads result pages over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent mimics a desktop browser; some dictionary sites answer
// bare Go clients with 403.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// MaxBodySize caps a response body unless Options says otherwise.
const MaxBodySize = 10 * 1024 * 1024

// FetchError is returned for any failed page download. Status is 0 when no
// response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

type Options struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int64
	// Headers are added to every request after the defaults.
	Headers map[string]string
}

// Client fetches pages with browser-like headers.
type Client struct {
	http    *resty.Client
	maxBody int64
}

func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = MaxBodySize
	}

	r := resty.New().
		SetTimeout(opts.Timeout).
		SetHeaders(map[string]string{
			"User-Agent":      opts.UserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "ja,en-US;q=0.9,en;q=0.8",
		})
	if len(opts.Headers) > 0 {
		r.SetHeaders(opts.Headers)
	}
	return &Client{http: r, maxBody: opts.MaxBodySize}
}

// Fetch GETs url and returns the body. Any non-2xx status, transport error
// or oversized body is reported as a *FetchError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	raw := res.RawBody()
	defer raw.Close()

	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: url, Status: res.StatusCode()}
	}

	// Read one byte past the cap to tell a full body from an oversized one.
	body, err := io.ReadAll(io.LimitReader(raw, c.maxBody+1))
	if err != nil {
		return nil, &FetchError{URL: url, Status: res.StatusCode(), Err: err}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &FetchError{URL: url, Status: res.StatusCode(), Err: fmt.Errorf("body exceeds limit of %d bytes", c.maxBody)}
	}
	return body, nil
}
