package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/transcript-flow/internal/intake"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/queue"
)

// requestOverhead is the room left for JSON framing around the text limit
const requestOverhead = 64 << 10

// Server accepts job submissions over HTTP and streams job events over websockets
type Server struct {
	addr     string
	queue    *queue.Queue
	hub      *Hub
	limits   intake.Limits
	logger   logger.Logger
	upgrader websocket.Upgrader
}

// New creates a Server listening on addr
func New(addr string, q *queue.Queue, hub *Hub, limits intake.Limits, log logger.Logger) *Server {
	return &Server{
		addr:   addr,
		queue:  q,
		hub:    hub,
		limits: limits,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", s.handleSubmit)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Run serves until ctx is done, then shuts down and disconnects websocket clients
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.hub.Close()
		s.logger.Info(ctx, "HTTP server stopped")
		return err
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}

type submitRequest struct {
	SubmitterID string `json:"submitter_id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	URL         string `json:"url"`
}

type submitResponse struct {
	JobID    string `json:"job_id"`
	Position int    `json:"position"`
	Message  string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.limits.MaxTextBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.limits.MaxTextBytes+requestOverhead)
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Submission is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	hasText, hasURL := strings.TrimSpace(req.Text) != "", strings.TrimSpace(req.URL) != ""
	if hasText == hasURL {
		writeError(w, http.StatusBadRequest, "Exactly one of text or url is required")
		return
	}

	var (
		job queue.Job
		err error
	)
	if hasText {
		if err := s.limits.CheckText(req.Text); err != nil {
			if errors.Is(err, intake.ErrTooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, err.Error())
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		job, err = queue.NewTextJob(req.SubmitterID, req.Title, req.Text)
	} else {
		job, err = queue.NewSourceJob(req.SubmitterID, req.Title, req.URL)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	position, err := s.queue.Submit(job)
	switch {
	case errors.Is(err, queue.ErrDuplicateSubmitter):
		writeError(w, http.StatusConflict, "You already have a task in queue. Please wait.")
		return
	case errors.Is(err, queue.ErrQueueFull):
		writeError(w, http.StatusServiceUnavailable, "Queue is full right now, please try again later.")
		return
	case errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "Service is shutting down.")
		return
	case err != nil:
		s.logger.Error(r.Context(), "Submit failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	s.logger.Info(r.Context(), "Enqueued job %s from %s at position %d", job.ID, job.SubmitterID, position)

	msg := "Your transcript is in process"
	if position > 0 {
		msg = fmt.Sprintf("Please wait in queue, %d more in line", position)
	}
	writeJSON(w, http.StatusAccepted, submitResponse{JobID: job.ID.String(), Position: position, Message: msg})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.queue.Stats())
}

// handleWebSocket registers the client for ?submitter_id= events, or for
// broadcasts when no submitter id is given
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "Failed to upgrade to WebSocket: %v", err)
		return
	}

	submitterID := r.URL.Query().Get("submitter_id")
	stats := s.queue.Stats()
	if err := s.hub.Register(conn, submitterID, Event{Type: EventHello, SubmitterID: submitterID, Stats: &stats}); err != nil {
		s.hub.Unregister(conn)
		return
	}

	// Read until the client goes away; incoming messages are ignored
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.hub.Unregister(conn)
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
