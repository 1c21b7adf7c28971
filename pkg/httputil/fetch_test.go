package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/barstack/pkg/cache"
	errs "github.com/matzehuels/barstack/pkg/errors"
)

const figureJSON = `{"data":[{"type":"bar","x":["a"],"y":[1]}]}`

func testFetcher(t *testing.T) *Fetcher {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(c)
	f.Delay = time.Millisecond
	return f
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/fig.json", true},
		{"http://localhost:8080/f", true},
		{"fig.json", false},
		{"-", false},
		{"file:///tmp/fig.json", false},
		{"https://", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFetchCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(figureJSON))
	}))
	defer srv.Close()

	f := testFetcher(t)
	ctx := context.Background()

	data, hit, err := f.Fetch(ctx, srv.URL+"/fig.json")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if hit || string(data) != figureJSON {
		t.Errorf("first Fetch = %q, hit=%v", data, hit)
	}

	data, hit, err = f.Fetch(ctx, srv.URL+"/fig.json")
	if err != nil || !hit || string(data) != figureJSON {
		t.Errorf("second Fetch = %q, hit=%v, err=%v; want cached", data, hit, err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(figureJSON))
	}))
	defer srv.Close()

	f := testFetcher(t)
	if _, _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("server called %d times, want 3", n)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errs.Code
		calls  int32
	}{
		{"not found", http.StatusNotFound, "", errs.ErrCodeNotFound, 1},
		{"forbidden", http.StatusForbidden, "", errs.ErrCodeFetchFailed, 1},
		{"server error", http.StatusInternalServerError, "", errs.ErrCodeFetchFailed, 3},
		{"empty body", http.StatusOK, "  \n", errs.ErrCodeInvalidFigure, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, _, err := testFetcher(t).Fetch(context.Background(), srv.URL)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
			if IsRetryable(err) {
				t.Error("returned error should be unwrapped from RetryableError")
			}
			if n := calls.Load(); n != tt.calls {
				t.Errorf("server called %d times, want %d", n, tt.calls)
			}
		})
	}
}

func TestFetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(figureJSON))
	}))
	defer srv.Close()

	f := testFetcher(t)
	f.MaxBytes = 8
	if _, _, err := f.Fetch(context.Background(), srv.URL); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestFetchInvalidURL(t *testing.T) {
	if _, _, err := testFetcher(t).Fetch(context.Background(), "fig.json"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	transient := errors.New("transient")
	permanent := errors.New("permanent")

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(transient)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("Retry = %v after %d calls, want success after 2", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if err != permanent || calls != 1 {
		t.Errorf("Retry = %v after %d calls, want permanent after 1", err, calls)
	}

	calls = 0
	err = Retry(ctx, 0, time.Millisecond, func() error {
		calls++
		return Retryable(transient)
	})
	if !errors.Is(err, transient) || calls != 1 {
		t.Errorf("Retry(attempts=0) = %v after %d calls, want one attempt", err, calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error { return Retryable(errors.New("x")) })
	if err != context.Canceled {
		t.Errorf("Retry = %v, want context.Canceled", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
