// Package client implements a Go client for the task list service that
// keeps a local view consistent with the server. It merges an initial
// snapshot fetch with the live push stream, deduplicating by task id, and
// reconnects with backoff on transient network loss. Missed events are
// never replayed by the server; the client repairs its view with a fresh
// snapshot fetch on every (re)connect.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/taskwire/taskwire/internal/domain"
	"github.com/taskwire/taskwire/internal/events"
)

// State is the reconciler's connection state.
type State int

// Connection states. Closed is terminal.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Backoff bounds for reconnect attempts.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// nextBackoff doubles the delay up to the cap.
func nextBackoff(current time.Duration) time.Duration {
	if current <= 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

// pushFrame mirrors the server's wire shape for pushed events.
type pushFrame struct {
	Type string      `json:"type"`
	Task domain.Task `json:"task"`
}

// Reconciler maintains a local, id-keyed view of the server's task list.
type Reconciler struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger

	mu    sync.Mutex
	state State
	tasks map[int64]domain.Task
	conn  *websocket.Conn

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a Reconciler for the service at baseURL (e.g.
// "http://localhost:5000"). Call Start to begin syncing and Close to tear
// down. If logger is nil, the default logger is used.
func New(baseURL string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Reconciler{
		baseURL:    baseURL,
		wsURL:      "ws" + strings.TrimPrefix(baseURL, "http") + "/ws/tasks",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dialer:     websocket.DefaultDialer,
		logger:     logger.With("component", "reconciler"),
		state:      StateDisconnected,
		tasks:      make(map[int64]domain.Task),
		done:       make(chan struct{}),
	}
}

// Start launches the connection loop in the background. It is not safe to
// call Start more than once.
func (r *Reconciler) Start() {
	r.wg.Add(1)
	go r.run()
}

// Close tears the reconciler down. The state becomes Closed permanently and
// the background loop exits. Safe to call more than once.
func (r *Reconciler) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
		r.mu.Lock()
		r.state = StateClosed
		if r.conn != nil {
			_ = r.conn.Close()
		}
		r.mu.Unlock()
	})
	r.wg.Wait()
}

// State returns the current connection state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// View returns a copy of the merged task list ordered by id ascending.
func (r *Reconciler) View() []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}

// Merge inserts the task into the local view if its id is absent.
// Both the snapshot fetch and the push stream funnel through this one
// operation, so duplicated or out-of-order arrival collapses to a single
// entry per id. Reports whether the task was newly inserted.
func (r *Reconciler) Merge(task domain.Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return false
	}
	r.tasks[task.ID] = task
	return true
}

// run is the connection loop: dial, snapshot, stream, and on failure back
// off and try again until Close.
func (r *Reconciler) run() {
	defer r.wg.Done()

	backoff := time.Duration(0)
	everConnected := false

	for {
		select {
		case <-r.done:
			return
		default:
		}

		if everConnected {
			r.setState(StateReconnecting)
		} else {
			r.setState(StateConnecting)
		}

		conn, _, err := r.dialer.Dial(r.wsURL, nil)
		if err != nil {
			backoff = nextBackoff(backoff)
			r.logger.Debug("dial failed, backing off",
				"error", err,
				"backoff", backoff)
			select {
			case <-r.done:
				return
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		everConnected = true

		r.mu.Lock()
		if r.state == StateClosed {
			r.mu.Unlock()
			_ = conn.Close()
			return
		}
		r.conn = conn
		r.state = StateConnected
		r.mu.Unlock()

		// Catch up on anything missed while disconnected. The server
		// replays nothing, so the snapshot is the only repair mechanism.
		if err := r.fetchSnapshot(); err != nil {
			r.logger.Warn("snapshot fetch failed", "error", err)
		}

		r.readLoop(conn)

		r.mu.Lock()
		r.conn = nil
		closed := r.state == StateClosed
		r.mu.Unlock()
		if closed {
			return
		}
	}
}

// readLoop merges pushed frames until the connection dies.
func (r *Reconciler) readLoop(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	for {
		var frame pushFrame
		if err := conn.ReadJSON(&frame); err != nil {
			r.logger.Debug("push stream ended", "error", err)
			return
		}
		if frame.Type != events.KindTaskAdded {
			continue
		}
		r.Merge(frame.Task)
	}
}

// fetchSnapshot loads the full list and merges every record.
func (r *Reconciler) fetchSnapshot() error {
	resp, err := r.httpClient.Get(r.baseURL + "/tasks")
	if err != nil {
		return fmt.Errorf("snapshot request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.New("snapshot request returned " + resp.Status)
	}

	var tasks []domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return fmt.Errorf("snapshot decode failed: %w", err)
	}

	for _, task := range tasks {
		r.Merge(task)
	}
	return nil
}

// setState transitions to the given state unless already Closed.
func (r *Reconciler) setState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateClosed {
		return
	}
	r.state = s
}
