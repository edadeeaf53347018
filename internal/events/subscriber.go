// Package events subscribes to a queue server's live document feed over
// server-sent events and hands each decoded JSON payload to a handler.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
)

// ErrStreamEnded is reported when the server closes the stream.
var ErrStreamEnded = errors.New("events: stream ended")

// Message is one decoded push payload.
type Message struct {
	Event string
	ID    string
	Raw   []byte
	Data  any
}

// Object returns the payload as a JSON object, if it is one.
func (m Message) Object() (map[string]any, bool) {
	obj, ok := m.Data.(map[string]any)
	return obj, ok
}

type Handler func(Message)

type Options struct {
	URL string
	// Client must not set a Timeout; the stream is long-lived.
	Client *http.Client
}

// Subscription is one open event stream. Close it to release the connection.
type Subscription struct {
	handler Handler
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once

	mu     sync.Mutex
	closed bool
	err    error
}

// Subscribe opens the stream in the background and returns immediately.
// When no URL is configured, or a request cannot be built for it, setup is
// skipped: the returned subscription is already closed and never calls h.
func Subscribe(ctx context.Context, opts Options, h Handler) *Subscription {
	if opts.URL == "" {
		log.Printf("events: no server configured, live updates disabled")
		return closedSubscription(nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		cancel()
		log.Printf("events: live updates unavailable: %v", err)
		return closedSubscription(err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	s := &Subscription{
		handler: h,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go s.run(ctx, client, req)
	return s
}

func closedSubscription(err error) *Subscription {
	s := &Subscription{
		cancel: func() {},
		done:   make(chan struct{}),
		closed: true,
		err:    err,
	}
	close(s.done)
	return s
}

func (s *Subscription) run(ctx context.Context, client *http.Client, req *http.Request) {
	defer close(s.done)

	resp, err := client.Do(req)
	if err != nil {
		s.fail(ctx, fmt.Errorf("events: connect %s: %w", req.URL, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		s.fail(ctx, fmt.Errorf("events: %s returned %d: %s", req.URL, resp.StatusCode, body))
		return
	}

	err = readFrames(resp.Body, s.dispatch)
	if err == nil {
		err = ErrStreamEnded
	}
	s.fail(ctx, err)
}

// fail records the terminal error. Errors caused by Close are not logged.
func (s *Subscription) fail(ctx context.Context, err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	if ctx.Err() == nil {
		log.Printf("events: %v", err)
	}
}

func (s *Subscription) dispatch(f frame) {
	raw := []byte(f.payload())
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return
	}

	// The lock is held across the handler so Close cannot return while a
	// delivery is in progress.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.handler(Message{Event: f.Event, ID: f.ID, Raw: raw, Data: data})
}

// Close tears the stream down. It is idempotent, must not be called from
// the handler, and after it returns the handler is never invoked again.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.cancel()
	})
	<-s.done
}

// Done is closed once the stream has ended for any reason.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err reports why the stream ended, or nil while it is still open.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
