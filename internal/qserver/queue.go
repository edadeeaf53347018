// Package qserver is an in-memory stand-in for a bluesky queue server. It
// keeps a plan queue, simulates execution and streams the documents each run
// produces to event subscribers.
package qserver

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Item is a plan as the queue server reports it.
type Item struct {
	UID       string   `json:"uid"`
	Name      string   `json:"name"`
	Plan      string   `json:"plan"`
	State     string   `json:"state"`
	Progress  *int     `json:"progress,omitempty"`
	Result    string   `json:"result,omitempty"`
	TimeStart *float64 `json:"time_start,omitempty"`
	TimeStop  *float64 `json:"time_stop,omitempty"`
}

const (
	StateQueued   = "queued"
	StateRunning  = "running"
	StateFinished = "finished"
	StateStopped  = "stopped"
)

// QueueStatus is the body of GET /queue/status.
type QueueStatus struct {
	Running *Item  `json:"running"`
	Queue   []Item `json:"queue"`
	History []Item `json:"history"`
}

type Doc = map[string]any

// Queue is the mock server's state. All methods are safe for concurrent use.
type Queue struct {
	steps    int
	interval time.Duration
	newID    func() string
	now      func() time.Time

	mu          sync.Mutex
	queue       []Item
	running     *Item
	history     []Item
	plans       map[string]string
	planOrder   []string
	destroy     bool
	documents   map[string][]Doc
	descriptors map[string]string
	used        map[string]struct{}
	subscribers map[chan Doc]struct{}
	quit        chan struct{}
	wg          sync.WaitGroup
	closed      bool
}

func newQueue(steps int, interval time.Duration, newID func() string, now func() time.Time) *Queue {
	return &Queue{
		steps:       steps,
		interval:    interval,
		newID:       newID,
		now:         now,
		plans:       make(map[string]string),
		documents:   make(map[string][]Doc),
		descriptors: make(map[string]string),
		used:        make(map[string]struct{}),
		subscribers: make(map[chan Doc]struct{}),
		quit:        make(chan struct{}),
	}
}

// NewQueue builds a standalone queue with uuid ids and the wall clock.
func NewQueue(steps int, interval time.Duration) *Queue {
	return newQueue(steps, interval, uuid.NewString, time.Now)
}

// Add appends a plan. A missing uid, or one this queue has already handed
// out, is replaced with a generated one so every run uid stays unique. A
// missing name defaults to "plan".
func (q *Queue) Add(uid, name, plan string) Item {
	if name == "" {
		name = "plan"
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if _, taken := q.used[uid]; uid != "" && !taken {
			break
		}
		uid = q.newID()
	}
	q.used[uid] = struct{}{}
	item := Item{UID: uid, Name: name, Plan: plan, State: StateQueued}
	q.queue = append(q.queue, item)
	return item
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = nil
}

// Start runs the head of the queue. It reports false when a plan is already
// running or the queue is empty.
func (q *Queue) Start() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.running != nil || len(q.queue) == 0 {
		return false
	}
	item := q.queue[0]
	q.queue = q.queue[1:]
	q.beginLocked(item)
	return true
}

// beginLocked promotes item to running, emits its opening documents and
// starts the simulation.
func (q *Queue) beginLocked(item Item) {
	zero := 0
	item.State = StateRunning
	item.Progress = &zero
	q.running = &item

	now := q.now()
	q.documents[item.UID] = nil
	q.recordLocked(item.UID, startDoc(item, now))

	descUID := q.newID()
	q.descriptors[item.UID] = descUID
	q.recordLocked(item.UID, descriptorDoc(descUID, item.UID, now))

	resUID := q.newID()
	q.recordLocked(item.UID, resourceDoc(resUID, item.UID))
	q.recordLocked(item.UID, datumDoc(resUID))

	q.wg.Add(1)
	go q.simulate(item.UID)
}

// Stop moves the running plan to history as stopped.
func (q *Queue) Stop() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running == nil {
		return false
	}
	item := *q.running
	item.State = StateStopped
	item.Result = StateStopped
	q.history = append([]Item{item}, q.history...)
	q.running = nil
	return true
}

func (q *Queue) ToggleDestroy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.destroy = !q.destroy
	return q.destroy
}

func (q *Queue) SavePlan(name, code string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.plans[name]; !ok {
		q.planOrder = append(q.planOrder, name)
	}
	q.plans[name] = code
}

func (q *Queue) Plans() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string{}, q.planOrder...)
}

func (q *Queue) Status() QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	st := QueueStatus{
		Queue:   append([]Item{}, q.queue...),
		History: append([]Item{}, q.history...),
	}
	if q.running != nil {
		r := *q.running
		p := *r.Progress
		r.Progress = &p
		st.Running = &r
	}
	return st
}

// Runs lists run uids, the running one first, then history newest first.
func (q *Queue) Runs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	runs := make([]string, 0, len(q.history)+1)
	if q.running != nil {
		runs = append(runs, q.running.UID)
	}
	for _, h := range q.history {
		runs = append(runs, h.UID)
	}
	return runs
}

// Documents returns the stored documents for run uid, or an empty slice.
func (q *Queue) Documents(uid string) []Doc {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Doc{}, q.documents[uid]...)
}

// Subscribe registers a live document subscriber. The returned cancel
// function must be called to release it.
func (q *Queue) Subscribe() (<-chan Doc, func()) {
	ch := make(chan Doc, 256)
	q.mu.Lock()
	q.subscribers[ch] = struct{}{}
	q.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			q.mu.Lock()
			delete(q.subscribers, ch)
			q.mu.Unlock()
		})
	}
}

func (q *Queue) recordLocked(runUID string, doc Doc) {
	q.documents[runUID] = append(q.documents[runUID], doc)
	for ch := range q.subscribers {
		select {
		case ch <- doc:
		default:
			// slow subscriber; drop
		}
	}
}

func (q *Queue) simulate(runUID string) {
	defer q.wg.Done()
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for i := 0; i < q.steps; i++ {
		select {
		case <-q.quit:
			return
		case <-ticker.C:
		}

		q.mu.Lock()
		if q.running == nil || q.running.UID != runUID {
			q.mu.Unlock()
			return
		}
		progress := min(100, (i+1)*100/q.steps)
		*q.running.Progress = progress
		q.recordLocked(runUID, eventPageDoc(q.newID(), q.descriptors[runUID], i+1, progress, q.now()))
		q.mu.Unlock()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running == nil || q.running.UID != runUID {
		return
	}
	q.finishLocked()
}

func (q *Queue) finishLocked() {
	now := q.now()
	finished := *q.running
	hundred := 100
	finished.State = StateFinished
	finished.Result = "success"
	finished.Progress = &hundred
	stop := epoch(now)
	finished.TimeStop = &stop
	if docs := q.documents[finished.UID]; len(docs) > 0 {
		if t, ok := docs[0]["time"].(float64); ok {
			finished.TimeStart = &t
		}
	}
	q.history = append([]Item{finished}, q.history...)
	q.running = nil
	q.recordLocked(finished.UID, stopDoc(q.newID(), finished.UID, q.steps, now))

	if len(q.queue) > 0 && !q.closed {
		next := q.queue[0]
		q.queue = q.queue[1:]
		q.beginLocked(next)
	}
}

// Close stops all simulations and disconnects subscribers.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.quit)
	q.mu.Unlock()
	q.wg.Wait()
}

// Done is closed once the queue is shut down.
func (q *Queue) Done() <-chan struct{} {
	return q.quit
}
