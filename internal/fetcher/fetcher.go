package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// DefaultAccept is Accept header sent when request doesn't set its own.
const DefaultAccept = "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8"

var supportedTypes = map[string]struct{}{
	"text/html":             {},
	"application/xhtml+xml": {},
	"application/json":      {},
	"text/json":             {},
	"text/plain":            {},
	"text/javascript":       {},
}

// Request describes one http request.
type Request struct {
	// Method defaults to GET, or POST when Form or Body is set.
	Method string
	URL    string
	Header http.Header
	// Form is sent url-encoded as request body.
	Form url.Values
	// Body is sent as is. Content-Type should be set in Header.
	Body []byte
}

// Option is custom configuration of Fetcher.
type Option func(f *Fetcher)

// Fetcher builds http requests and fetches documents via http.
// It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// NewFetcher returns new Fetcher.
func NewFetcher(client *http.Client, userAgent string, ops ...Option) *Fetcher {
	f := &Fetcher{
		client:    client,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}

	for _, op := range ops {
		op(f)
	}

	return f
}

// Get fetches url with GET request.
func (f *Fetcher) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	return f.Fetch(ctx, Request{URL: url})
}

// Fetch returns ReadCloser with response body of the request or error.
// The caller is responsible for closing returned ReadCloser.
func (f *Fetcher) Fetch(ctx context.Context, r Request) (io.ReadCloser, error) {
	req, err := f.newRequest(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("can't wait for rate limiter: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't get http response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s: %d", ErrStatusNotOK, req.Method, req.URL.Path, resp.StatusCode)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if _, ok := supportedTypes[mediaType]; err != nil || !ok {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %q", ErrContentTypeNotSupported, resp.Header.Get("Content-Type"))
	}

	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return decompressResponse(resp.Body)
	}

	return resp.Body, nil
}

func (f *Fetcher) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	var body io.Reader

	switch {
	case r.Form != nil:
		body = strings.NewReader(r.Form.Encode())
		if method == "" {
			method = http.MethodPost
		}
	case r.Body != nil:
		body = bytes.NewReader(r.Body)
		if method == "" {
			method = http.MethodPost
		}
	case method == "":
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", DefaultAccept)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", f.userAgent)
	if r.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}

	for key, values := range r.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return req, nil
}

// decompressResponse returns io.ReadCloser with decompressed http response and error.
func decompressResponse(response io.ReadCloser) (io.ReadCloser, error) {
	decompressed, err := gzip.NewReader(response)
	if err != nil {
		_ = response.Close()
		return nil, fmt.Errorf("can't decompress response: %w", err)
	}

	return &decompressedReadCloser{
		compressed:   response,
		decompressed: decompressed,
	}, nil
}

// decompressedReadCloser wraps decompressed Reader and compressed ReadCloser.
// It reads from decompressed Reader, but closes compressed ReadCloser.
type decompressedReadCloser struct {
	compressed   io.ReadCloser
	decompressed io.Reader
}

// Read reads uncompressed bytes from underlying Reader into p.
func (r decompressedReadCloser) Read(p []byte) (n int, err error) {
	return r.decompressed.Read(p)
}

// Close closes underlying compressed ReadCloser.
func (r decompressedReadCloser) Close() error {
	return r.compressed.Close()
}

// WithRateLimit limits number of requests per second shared by all callers.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(f *Fetcher) {
		if perSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}
