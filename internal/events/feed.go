package events

import (
	"context"
	"sync"
)

// Feed owns at most one Subscription at a time. Binding a new handler closes
// the previous subscription before the next one is opened, so a handler
// change never leaves a stale or duplicate stream behind.
type Feed struct {
	opts Options

	mu  sync.Mutex
	sub *Subscription
}

func NewFeed(opts Options) *Feed {
	return &Feed{opts: opts}
}

// Bind subscribes h, closing any previous subscription first. The returned
// subscription lets the caller watch for the stream ending.
func (f *Feed) Bind(ctx context.Context, h Handler) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sub != nil {
		f.sub.Close()
	}
	f.sub = Subscribe(ctx, f.opts, h)
	return f.sub
}

// Close releases the current subscription, if any.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sub != nil {
		f.sub.Close()
		f.sub = nil
	}
}

// Active reports whether a subscription is bound and still streaming.
func (f *Feed) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sub == nil {
		return false
	}
	select {
	case <-f.sub.Done():
		return false
	default:
		return true
	}
}
