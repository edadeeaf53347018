package qserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// Server serves the queue over HTTP.
type Server struct {
	addr    string
	version string
	queue   *Queue

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Option customizes server construction.
type Option func(*settings)

type settings struct {
	steps    int
	interval time.Duration
	version  string
	newID    func() string
	now      func() time.Time
}

// WithSteps sets how many progress steps a simulated run takes.
func WithSteps(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.steps = n
		}
	}
}

// WithStepInterval sets the delay between progress steps.
func WithStepInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithVersion(v string) Option {
	return func(s *settings) {
		if v != "" {
			s.version = v
		}
	}
}

// WithIDFunc overrides uid generation for tests.
func WithIDFunc(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock allows tests to control document timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *settings) {
		if fn != nil {
			s.now = fn
		}
	}
}

// New prepares a server that will listen on addr (host:port).
func New(addr string, opts ...Option) *Server {
	st := settings{
		steps:    20,
		interval: 250 * time.Millisecond,
		version:  "mock-0.1",
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&st)
		}
	}
	return &Server{
		addr:    addr,
		version: st.version,
		queue:   newQueue(st.steps, st.interval, st.newID, st.now),
	}
}

// Queue exposes the server's state.
func (s *Server) Queue() *Queue {
	return s.queue
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /queue/status", s.handleQueueStatus)
	mux.HandleFunc("POST /queue/add", s.handleQueueAdd)
	mux.HandleFunc("POST /queue/clear", s.handleQueueClear)
	mux.HandleFunc("POST /queue/start", s.handleQueueStart)
	mux.HandleFunc("POST /queue/stop", s.handleQueueStop)
	mux.HandleFunc("POST /environment/destroy", s.handleEnvironmentDestroy)
	mux.HandleFunc("GET /plans", s.handlePlansList)
	mux.HandleFunc("POST /plans", s.handlePlansSave)
	mux.HandleFunc("GET /runs", s.handleRuns)
	mux.HandleFunc("GET /runs/{uid}/documents", s.handleRunDocuments)
	mux.HandleFunc("GET /events", s.handleEvents)
	return withCORS(mux)
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("qserver: already started")
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("qserver: listen %s: %w", s.addr, err)
	}
	s.listener = listener
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("qserver: serve error: %v", err)
		}
	}()
	log.Printf("qserver: listening on %s", listener.Addr())
	return nil
}

// Shutdown stops the simulation, ends event streams and drains requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.queue.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.server = nil
	s.listener = nil
	return err
}

// BaseURL returns http://host:port once started.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return "http://" + s.addr
	}
	return "http://" + s.listener.Addr().String()
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "online", "version": s.version})
}

func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.queue.Status())
}

type addRequest struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	Plan string `json:"plan"`
}

func (s *Server) handleQueueAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	readJSON(w, r, &req)
	item := s.queue.Add(req.UID, req.Name, req.Plan)
	writeJSON(w, http.StatusOK, map[string]any{"result": "ok", "item": item})
}

func (s *Server) handleQueueClear(w http.ResponseWriter, r *http.Request) {
	s.queue.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

func (s *Server) handleQueueStart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"result": result(s.queue.Start())})
}

func (s *Server) handleQueueStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"result": result(s.queue.Stop())})
}

func (s *Server) handleEnvironmentDestroy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"environment_destroy": s.queue.ToggleDestroy()})
}

func (s *Server) handlePlansList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"plans": s.queue.Plans()})
}

type savePlanRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (s *Server) handlePlansSave(w http.ResponseWriter, r *http.Request) {
	var req savePlanRequest
	readJSON(w, r, &req)
	name := req.Name
	if name == "" {
		id := s.queue.newID()
		if len(id) > 8 {
			id = id[:8]
		}
		name = "plan-" + id
	}
	s.queue.SavePlan(name, req.Code)
	writeJSON(w, http.StatusOK, map[string]string{"result": "ok", "name": name})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"runs": s.queue.Runs()})
}

func (s *Server) handleRunDocuments(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	writeJSON(w, http.StatusOK, map[string]any{"uid": uid, "documents": s.queue.Documents(uid)})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	docs, cancel := s.queue.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.queue.Done():
			return
		case doc := <-docs:
			data, err := json.Marshal(doc)
			if err != nil {
				log.Printf("qserver: encoding event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "no-op"
}

// readJSON decodes an optional JSON body into v. Empty or malformed bodies
// leave v untouched.
func readJSON(w http.ResponseWriter, r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		return
	}
	_ = json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
