package observability

import (
	"context"
	"time"
)

// Hooks implements every hook interface.
type Hooks interface {
	PipelineHooks
	CacheHooks
	HTTPHooks
}

// Tee forwards every event to each of hs in order.
func Tee(hs ...Hooks) Hooks { return tee(hs) }

type tee []Hooks

func (t tee) OnLayoutStart(ctx context.Context, n int) {
	for _, h := range t {
		h.OnLayoutStart(ctx, n)
	}
}

func (t tee) OnLayoutComplete(ctx context.Context, n int, d time.Duration, err error) {
	for _, h := range t {
		h.OnLayoutComplete(ctx, n, d, err)
	}
}

func (t tee) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range t {
		h.OnRenderStart(ctx, formats)
	}
}

func (t tee) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range t {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

func (t tee) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheHit(ctx, keyType)
	}
}

func (t tee) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (t tee) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range t {
		h.OnCacheSet(ctx, keyType, size)
	}
}

func (t tee) OnRequest(ctx context.Context, method, host, path string) {
	for _, h := range t {
		h.OnRequest(ctx, method, host, path)
	}
}

func (t tee) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	for _, h := range t {
		h.OnResponse(ctx, method, host, path, status, d)
	}
}

func (t tee) OnError(ctx context.Context, method, host, path string, err error) {
	for _, h := range t {
		h.OnError(ctx, method, host, path, err)
	}
}

// Install registers h for pipeline, cache and HTTP events.
func Install(h Hooks) {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}
