// Package queue holds the dashboard's local view of the run queue: the plan
// queue, the running plan, the run history and the console log. Every user
// action is a pure transition from one State to the next.
package queue

import (
	"fmt"
	"time"
)

type Connection string

const (
	Disconnected Connection = "disconnected"
	Connected    Connection = "connected"
)

type Environment string

const (
	EnvClosed Environment = "closed"
	EnvOpen   Environment = "open"
)

type Execution string

const (
	Idle    Execution = "idle"
	Running Execution = "running"
)

const (
	StatusQueued  = "Queued"
	StatusRunning = "Running"
	StatusUnknown = "Unknown"
)

// CompletedAtLayout formats HistoryItem.CompletedAt.
const CompletedAtLayout = "2006-01-02 15:04:05"

type QueuedPlan struct {
	ID     string
	Name   string
	Status string
}

type RunningPlan struct {
	ID       string
	Name     string
	Progress int
	Status   string
}

type HistoryItem struct {
	ID          string
	Name        string
	CompletedAt string
	Success     bool
}

// State is an immutable snapshot. Transitions never modify the receiver's
// slices; they copy before appending or removing.
type State struct {
	Connection  Connection
	Status      string
	Environment Environment
	EnvDestroy  bool
	Execution   Execution
	Queue       []QueuedPlan
	Running     *RunningPlan
	History     []HistoryItem
	Logs        []string
}

func New() State {
	return State{
		Connection:  Disconnected,
		Status:      StatusUnknown,
		Environment: EnvClosed,
		Execution:   Idle,
	}
}

func (s State) IsConnected() bool { return s.Connection == Connected }
func (s State) EnvOpen() bool     { return s.Environment == EnvOpen }
func (s State) IsRunning() bool   { return s.Execution == Running }

// CanStart reports whether the start control is enabled.
func (s State) CanStart() bool { return !s.IsRunning() && s.EnvOpen() }

func (s State) Connect() State {
	if s.IsConnected() {
		return s
	}
	s.Connection = Connected
	s.Status = "Connected"
	return s.log("Connected to queue server")
}

func (s State) Disconnect() State {
	if !s.IsConnected() {
		return s
	}
	s.Connection = Disconnected
	s.Status = "Disconnected"
	return s.log("Disconnected from queue server")
}

func (s State) OpenEnvironment() State {
	if s.EnvOpen() {
		return s
	}
	s.Environment = EnvOpen
	return s.log("Environment opened")
}

func (s State) CloseEnvironment() State {
	if !s.EnvOpen() {
		return s
	}
	s.Environment = EnvClosed
	return s.log("Environment closed")
}

func (s State) ToggleEnvDestroy() State {
	s.EnvDestroy = !s.EnvDestroy
	return s
}

// AddPlan appends a plan named after its queue position.
func (s State) AddPlan(id string) State {
	plan := QueuedPlan{
		ID:     id,
		Name:   fmt.Sprintf("Plan %d", len(s.Queue)+1),
		Status: StatusQueued,
	}
	s.Queue = append(cloneQueue(s.Queue), plan)
	return s
}

func (s State) RemovePlan(id string) State {
	next := make([]QueuedPlan, 0, len(s.Queue))
	for _, p := range s.Queue {
		if p.ID != id {
			next = append(next, p)
		}
	}
	s.Queue = next
	return s
}

func (s State) ClearQueue() State {
	s.Queue = nil
	return s
}

// Rerun queues a fresh plan carrying the history item's name.
func (s State) Rerun(item HistoryItem, id string) State {
	s.Queue = append(cloneQueue(s.Queue), QueuedPlan{ID: id, Name: item.Name, Status: StatusQueued})
	return s.log("Requeued plan from history: " + item.Name)
}

// Start begins queue execution. It is rejected with a console line while the
// environment is closed, and is a no-op while already running. With an empty
// queue the execution state still becomes Running, with no running plan.
func (s State) Start() State {
	if !s.EnvOpen() {
		return s.log("Cannot start: environment is closed")
	}
	if s.IsRunning() {
		return s
	}
	s.Execution = Running
	if len(s.Queue) == 0 {
		return s
	}
	head := s.Queue[0]
	s.Running = &RunningPlan{ID: head.ID, Name: head.Name, Progress: 0, Status: StatusRunning}
	s.Queue = cloneQueue(s.Queue[1:])
	return s.log("Started plan: " + head.Name)
}

// Stop demotes the running plan to history. Stopped plans are always
// recorded as unsuccessful.
func (s State) Stop(now time.Time) State {
	if !s.IsRunning() {
		return s
	}
	s.Execution = Idle
	if s.Running != nil {
		item := HistoryItem{
			ID:          s.Running.ID,
			Name:        s.Running.Name,
			CompletedAt: now.Format(CompletedAtLayout),
			Success:     false,
		}
		s.History = append(cloneHistory(s.History), item)
		s.Running = nil
	}
	return s
}

// AppendLog adds an operator-facing console line.
func (s State) AppendLog(line string) State {
	return s.log(line)
}

func (s State) log(line string) State {
	logs := make([]string, len(s.Logs), len(s.Logs)+1)
	copy(logs, s.Logs)
	s.Logs = append(logs, line)
	return s
}

// HistoryByID looks up a history item.
func (s State) HistoryByID(id string) (HistoryItem, bool) {
	for _, h := range s.History {
		if h.ID == id {
			return h, true
		}
	}
	return HistoryItem{}, false
}

func cloneQueue(q []QueuedPlan) []QueuedPlan {
	out := make([]QueuedPlan, len(q), len(q)+1)
	copy(out, q)
	return out
}

func cloneHistory(h []HistoryItem) []HistoryItem {
	out := make([]HistoryItem, len(h), len(h)+1)
	copy(out, h)
	return out
}
