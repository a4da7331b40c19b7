// Package server exposes the conversation over HTTP: message
// submission, rendered snapshots, and a WebSocket feed that pushes a
// snapshot on every reveal advance.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finderbot/chatcore/internal/conversation"
	"github.com/finderbot/chatcore/internal/logger"
	"github.com/finderbot/chatcore/internal/markup"
	"github.com/finderbot/chatcore/internal/reveal"
	"github.com/finderbot/chatcore/internal/transport"
)

// ErrorFallback is the fixed assistant message shown when the backend
// call fails. No partial or garbled responses are ever surfaced.
const ErrorFallback = "Sorry, I encountered an error. Please make sure the backend server is running and try again."

var upgrader = websocket.Upgrader{
	// The service sits behind the reverse proxy, which is the only
	// public surface; browser clients arrive same-origin through it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server wires the conversation store, the markup renderer and the
// backend transport into an HTTP handler.
type Server struct {
	store  *conversation.Store
	client transport.Client

	// busy blocks overlapping submissions while a backend call is in
	// flight. Reveals in progress do not hold it: a user may submit
	// again while a prior reply is still typing out.
	busy atomic.Bool
}

func New(store *conversation.Store, client transport.Client) *Server {
	return &Server{store: store, client: client}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/send", s.handleSend)
	mux.HandleFunc("GET /api/messages", s.handleMessages)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

type sendRequest struct {
	Text string `json:"text"`
}

type sendResponse struct {
	OK bool `json:"ok"`
}

// messageView is one message as the renderer consumes it: the visible
// prefix, its segments, and the opaque product attachments.
type messageView struct {
	ID        string                 `json:"id"`
	Role      conversation.Role      `json:"role"`
	Text      string                 `json:"text"`
	State     string                 `json:"state"`
	Segments  []markup.Segment       `json:"segments"`
	Products  []conversation.Product `json:"products,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type snapshotView struct {
	Busy     bool          `json:"busy"`
	Messages []messageView `json:"messages"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty message"})
		return
	}
	if !s.busy.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a message is already being processed"})
		return
	}
	defer s.busy.Store(false)

	s.store.AppendUser(text)
	// History as of submission time: the pair for this exchange is
	// appended only after the backend responds.
	history := s.store.History()

	reply, err := s.client.Send(r.Context(), text, history)
	if err != nil {
		logger.L.Error("backend chat call failed", "error", err)
		s.store.AppendAssistantError(ErrorFallback)
		writeJSON(w, http.StatusOK, sendResponse{OK: false})
		return
	}

	s.store.BeginAssistantReveal(reply.Response, reply.Products)
	s.store.RecordHistory(text, reply.Response)
	logger.L.Info("exchange completed", "sources", reply.SourceCount, "products", len(reply.Products))
	writeJSON(w, http.StatusOK, sendResponse{OK: true})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

// handleWS upgrades the connection and pushes a fresh snapshot
// whenever it changes, sampled at the reveal cadence, so a client
// observes every visible-text state without polling.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain the read side so client closes are noticed.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	var lastSent []byte
	push := func() bool {
		payload, err := json.Marshal(s.snapshot())
		if err != nil {
			logger.L.Error("snapshot marshal failed", "error", err)
			return false
		}
		if bytes.Equal(payload, lastSent) {
			return true
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return false
		}
		lastSent = payload
		return true
	}

	if !push() {
		return
	}
	ticker := time.NewTicker(reveal.Cadence)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}

func (s *Server) snapshot() snapshotView {
	messages := s.store.Snapshot()
	views := make([]messageView, len(messages))
	for i, m := range messages {
		views[i] = messageView{
			ID:        m.ID,
			Role:      m.Role,
			Text:      m.VisibleText,
			State:     string(m.RevealState),
			Segments:  markup.Segments(m.VisibleText),
			Products:  m.Products,
			CreatedAt: m.CreatedAt,
		}
	}
	return snapshotView{Busy: s.busy.Load(), Messages: views}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("response encode failed", "error", err)
	}
}
