package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/barstack/pkg/cache"
	errs "github.com/matzehuels/barstack/pkg/errors"
	"github.com/matzehuels/barstack/pkg/observability"
)

const (
	// DefaultMaxBytes caps the size of a fetched figure.
	DefaultMaxBytes = 32 << 20
	// DefaultTimeout is the per-request timeout of the default client.
	DefaultTimeout = 30 * time.Second
)

// Fetcher downloads figure documents with caching and retry.
type Fetcher struct {
	Client   *http.Client
	Cache    cache.Cache
	Keyer    cache.Keyer
	TTL      time.Duration
	Attempts int
	Delay    time.Duration
	MaxBytes int64
}

// NewFetcher returns a Fetcher with default settings. A nil cache disables
// caching.
func NewFetcher(c cache.Cache) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: DefaultTimeout},
		Cache:    c,
		Keyer:    cache.NewDefaultKeyer(),
		TTL:      cache.TTLFigure,
		Attempts: 3,
		Delay:    time.Second,
		MaxBytes: DefaultMaxBytes,
	}
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns the body at rawURL and whether it came from the cache.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	if !IsURL(rawURL) {
		return nil, false, errs.New(errs.ErrCodeInvalidInput, "not an http(s) url: %q", rawURL)
	}

	key := f.Keyer.FigureKey(rawURL)
	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "figure")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "figure")

	var body []byte
	err := Retry(ctx, f.Attempts, f.Delay, func() error {
		var err error
		body, err = f.get(ctx, rawURL)
		return err
	})
	if err != nil {
		if re, ok := err.(*RetryableError); ok {
			err = re.Err
		}
		return nil, false, err
	}

	if err := f.Cache.Set(ctx, key, body, f.TTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "figure", len(body))
	}
	return body, false, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json, application/toml;q=0.9, */*;q=0.1")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errs.Wrap(errs.ErrCodeTimeout, err, "fetch %s", rawURL)
		}
		return nil, Retryable(errs.Wrap(errs.ErrCodeFetchFailed, err, "fetch %s", rawURL))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.New(errs.ErrCodeNotFound, "figure not found: %s", rawURL)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, Retryable(errs.New(errs.ErrCodeFetchFailed, "fetch %s: %s", rawURL, resp.Status))
	case resp.StatusCode >= 300:
		return nil, errs.New(errs.ErrCodeFetchFailed, "fetch %s: %s", rawURL, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, Retryable(errs.Wrap(errs.ErrCodeFetchFailed, err, "read %s", rawURL))
	}
	if int64(len(body)) > limit {
		return nil, errs.New(errs.ErrCodeInvalidInput, "figure exceeds %d bytes", limit)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFigure, "empty figure document at %s", rawURL)
	}
	return body, nil
}
