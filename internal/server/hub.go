package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
	"github.com/nguyentantai21042004/transcript-flow/internal/worker"
)

// Event types sent over the websocket
const (
	EventHello     = "hello"
	EventStarted   = "started"
	EventCompleted = "completed"
	EventFailed    = "failed"
	EventBroadcast = "broadcast"
)

const writeTimeout = 5 * time.Second

// Event is one websocket message
type Event struct {
	Type        string            `json:"type"`
	JobID       string            `json:"job_id,omitempty"`
	SubmitterID string            `json:"submitter_id,omitempty"`
	Title       string            `json:"title,omitempty"`
	SourceURL   string            `json:"source_url,omitempty"`
	Message     string            `json:"message,omitempty"`
	Language    string            `json:"language,omitempty"`
	Links       map[string]string `json:"links,omitempty"`
	Truncated   []string          `json:"truncated,omitempty"`
	Files       []string          `json:"files,omitempty"`
	Failure     *worker.Failure   `json:"failure,omitempty"`
	Stats       *queue.Stats      `json:"stats,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Hub delivers job events to websocket clients. A client registered without a
// submitter id is a channel subscriber and receives broadcasts only.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	logger  logger.Logger
}

// client serializes writes to one connection; a websocket allows one writer at a time
type client struct {
	conn        *websocket.Conn
	submitterID string
	writeMu     sync.Mutex
}

// NewHub creates an empty Hub
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		logger:  log,
	}
}

// Register adds conn for submitterID and sends it hello
func (h *Hub) Register(conn *websocket.Conn, submitterID string, hello Event) error {
	c := &client{conn: conn, submitterID: submitterID}

	h.mu.Lock()
	h.clients[conn] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug(context.Background(), "WebSocket client connected (%q). Total clients: %d", submitterID, total)
	return c.write(hello)
}

// Unregister removes and closes conn
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		h.logger.Debug(context.Background(), "WebSocket client disconnected. Remaining clients: %d", len(h.clients))
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// Send delivers ev to the connections of one submitter
func (h *Hub) Send(submitterID string, ev Event) error {
	return h.deliver(ev, func(id string) bool { return id == submitterID })
}

// Broadcast delivers ev to every channel subscriber
func (h *Hub) Broadcast(ev Event) error {
	return h.deliver(ev, func(id string) bool { return id == "" })
}

// deliver writes outside h.mu so one slow connection only stalls its own writers
func (h *Hub) deliver(ev Event, match func(submitterID string) bool) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		if match(c.submitterID) {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	var errs []error
	for _, c := range targets {
		if err := c.write(ev); err != nil {
			errs = append(errs, fmt.Errorf("send %s event: %w", ev.Type, err))
			h.Unregister(c.conn)
		}
	}
	return errors.Join(errs...)
}

func (c *client) write(ev Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(ev)
}

// Started implements worker.Reporter
func (h *Hub) Started(ctx context.Context, job queue.Job) error {
	return h.Send(job.SubmitterID, Event{
		Type:        EventStarted,
		JobID:       job.ID.String(),
		SubmitterID: job.SubmitterID,
		Title:       job.Title,
		Message:     "Your transcript is in process",
	})
}

// Completed implements worker.Reporter. The submitter gets the full outcome and
// channel subscribers get the document links.
func (h *Hub) Completed(ctx context.Context, out worker.Outcome) error {
	links := make(map[string]string, len(out.Links))
	for _, l := range out.Links {
		links[l.Variant] = l.Document.URL
	}

	ev := Event{
		Type:        EventCompleted,
		JobID:       out.Job.ID.String(),
		SubmitterID: out.Job.SubmitterID,
		Title:       out.Job.Title,
		SourceURL:   out.Job.SourceURL,
		Language:    out.Result.DetectedLanguage,
		Links:       links,
		Truncated:   out.Truncated,
		Files:       out.Files,
	}
	sendErr := h.Send(out.Job.SubmitterID, ev)

	var broadcastErr error
	if len(links) > 0 {
		broadcastErr = h.Broadcast(Event{
			Type:      EventBroadcast,
			JobID:     ev.JobID,
			Title:     ev.Title,
			SourceURL: ev.SourceURL,
			Links:     links,
		})
	}
	return errors.Join(sendErr, broadcastErr)
}

// Failed implements worker.Reporter
func (h *Hub) Failed(ctx context.Context, job queue.Job, f worker.Failure) error {
	return h.Send(job.SubmitterID, Event{
		Type:        EventFailed,
		JobID:       job.ID.String(),
		SubmitterID: job.SubmitterID,
		Title:       job.Title,
		Message:     f.Message,
		Failure:     &f,
	})
}
