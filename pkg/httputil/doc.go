// Package httputil loads figure documents over HTTP.
//
// # Fetching
//
// [Fetcher] downloads a figure by URL. Responses are cached through a
// [cache.Cache] under [cache.Keyer.FigureKey], so repeated renders of the same
// remote figure do not hit the network:
//
//	f := httputil.NewFetcher(c)
//	data, hit, err := f.Fetch(ctx, "https://example.com/figure.json")
//
// # Retry
//
// Transient failures (network errors, 429 and 5xx responses) are retried with
// exponential backoff via [Retry]. Other failures are returned immediately as
// FETCH_FAILED or NOT_FOUND errors.
//
// [cache.Cache]: github.com/matzehuels/barstack/pkg/cache.Cache
// [cache.Keyer.FigureKey]: github.com/matzehuels/barstack/pkg/cache.Keyer
package httputil
