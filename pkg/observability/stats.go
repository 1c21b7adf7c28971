package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Stats counts pipeline and cache events in memory.
type Stats struct {
	layouts       atomic.Int64
	layoutErrors  atomic.Int64
	renders       atomic.Int64
	renderErrors  atomic.Int64
	layoutNanos   atomic.Int64
	renderNanos   atomic.Int64
	mu            sync.Mutex
	hits, misses  map[string]int64
	cachedBytes   atomic.Int64
	fetches       atomic.Int64
	fetchFailures atomic.Int64
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Layouts       int64            `json:"layouts"`
	LayoutErrors  int64            `json:"layout_errors"`
	LayoutTime    time.Duration    `json:"layout_time_ns"`
	Renders       int64            `json:"renders"`
	RenderErrors  int64            `json:"render_errors"`
	RenderTime    time.Duration    `json:"render_time_ns"`
	CacheHits     map[string]int64 `json:"cache_hits"`
	CacheMisses   map[string]int64 `json:"cache_misses"`
	CachedBytes   int64            `json:"cached_bytes"`
	Fetches       int64            `json:"fetches"`
	FetchFailures int64            `json:"fetch_failures"`
}

// NewStats returns zeroed counters.
func NewStats() *Stats {
	return &Stats{hits: map[string]int64{}, misses: map[string]int64{}}
}

func (s *Stats) OnLayoutStart(context.Context, int) {}

func (s *Stats) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	s.layouts.Add(1)
	s.layoutNanos.Add(int64(d))
	if err != nil {
		s.layoutErrors.Add(1)
	}
}

func (s *Stats) OnRenderStart(context.Context, []string) {}

func (s *Stats) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	s.renders.Add(1)
	s.renderNanos.Add(int64(d))
	if err != nil {
		s.renderErrors.Add(1)
	}
}

func (s *Stats) OnCacheHit(_ context.Context, keyType string) {
	s.mu.Lock()
	s.hits[keyType]++
	s.mu.Unlock()
}

func (s *Stats) OnCacheMiss(_ context.Context, keyType string) {
	s.mu.Lock()
	s.misses[keyType]++
	s.mu.Unlock()
}

func (s *Stats) OnCacheSet(_ context.Context, _ string, size int) {
	s.cachedBytes.Add(int64(size))
}

func (s *Stats) OnRequest(context.Context, string, string, string) {
	s.fetches.Add(1)
}

func (s *Stats) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	if status >= 400 {
		s.fetchFailures.Add(1)
	}
}

func (s *Stats) OnError(context.Context, string, string, string, error) {
	s.fetchFailures.Add(1)
}

// Snapshot copies the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	hits := make(map[string]int64, len(s.hits))
	for k, v := range s.hits {
		hits[k] = v
	}
	misses := make(map[string]int64, len(s.misses))
	for k, v := range s.misses {
		misses[k] = v
	}
	s.mu.Unlock()

	return Snapshot{
		Layouts:       s.layouts.Load(),
		LayoutErrors:  s.layoutErrors.Load(),
		LayoutTime:    time.Duration(s.layoutNanos.Load()),
		Renders:       s.renders.Load(),
		RenderErrors:  s.renderErrors.Load(),
		RenderTime:    time.Duration(s.renderNanos.Load()),
		CacheHits:     hits,
		CacheMisses:   misses,
		CachedBytes:   s.cachedBytes.Load(),
		Fetches:       s.fetches.Load(),
		FetchFailures: s.fetchFailures.Load(),
	}
}

var (
	_ PipelineHooks = (*Stats)(nil)
	_ CacheHooks    = (*Stats)(nil)
	_ HTTPHooks     = (*Stats)(nil)
)
