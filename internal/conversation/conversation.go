// Package conversation holds the ordered message log of one chat
// session: user turns, assistant turns in their reveal lifecycle, and
// the paired history sent back to the backend as context.
package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finderbot/chatcore/internal/logger"
	"github.com/finderbot/chatcore/internal/reveal"
	"github.com/finderbot/chatcore/internal/transcript"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// RevealState describes how much of a message is on screen.
type RevealState string

const (
	RevealNone      RevealState = "none" // user messages: shown in full from the start
	RevealRevealing RevealState = "revealing"
	RevealSettled   RevealState = "settled"
)

// Greeting is the canned assistant message a fresh conversation opens with.
const Greeting = "How can I help?"

// Message is one turn in the conversation. VisibleText is always a
// prefix of FullText and only ever grows; once settled the two are
// equal permanently.
type Message struct {
	ID          string
	Role        Role
	FullText    string
	VisibleText string
	RevealState RevealState
	Products    []Product
	CreatedAt   time.Time
}

// message pairs the public Message with the reveal bookkeeping that
// only the owning schedule touches.
type message struct {
	Message
	lifecycle *reveal.Lifecycle
	runes     []rune
	shown     int
}

// Store is the append-only message log plus the paired history. All
// mutation happens under one mutex, so no partial writes are ever
// observable from Snapshot.
type Store struct {
	mu       sync.Mutex
	messages []*message
	history  [][2]string
	closed   bool

	interval time.Duration
	sink     *transcript.Sink
}

// New creates a store seeded with the greeting. sink may be nil.
func New(sink *transcript.Sink) *Store {
	return newStore(sink, reveal.Cadence)
}

// newStore exists so tests can drive reveals at a faster cadence.
func newStore(sink *transcript.Sink, interval time.Duration) *Store {
	s := &Store{interval: interval, sink: sink}
	greeting := &message{Message: Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		FullText:    Greeting,
		VisibleText: Greeting,
		RevealState: RevealSettled,
		CreatedAt:   time.Now(),
	}}
	s.messages = append(s.messages, greeting)
	return s
}

// AppendUser appends a user turn, visible in full immediately.
func (s *Store) AppendUser(text string) Message {
	s.mu.Lock()
	m := &message{Message: Message{
		ID:          uuid.NewString(),
		Role:        RoleUser,
		FullText:    text,
		VisibleText: text,
		RevealState: RevealNone,
		CreatedAt:   time.Now(),
	}}
	s.messages = append(s.messages, m)
	out := m.Message
	s.mu.Unlock()

	s.sink.Save(string(RoleUser), text)
	return out
}

// BeginAssistantReveal appends an assistant turn with empty visible
// text and starts its reveal schedule. Callers must only invoke this
// once the transport call for the triggering user turn has succeeded.
// An empty fullText settles immediately.
func (s *Store) BeginAssistantReveal(fullText string, products []Product) Message {
	s.mu.Lock()
	m := &message{
		Message: Message{
			ID:          uuid.NewString(),
			Role:        RoleAssistant,
			FullText:    fullText,
			VisibleText: "",
			RevealState: RevealRevealing,
			Products:    products,
			CreatedAt:   time.Now(),
		},
		lifecycle: reveal.NewLifecycle(),
		runes:     []rune(fullText),
	}
	if len(m.runes) == 0 {
		m.RevealState = RevealSettled
		if err := m.lifecycle.Settle(); err != nil {
			logger.L.Warn("lifecycle settle rejected", "id", m.ID, "error", err)
		}
	}
	s.messages = append(s.messages, m)
	out := m.Message
	s.mu.Unlock()

	if out.RevealState == RevealSettled {
		s.sink.Save(string(RoleAssistant), fullText)
		return out
	}
	reveal.Run(context.Background(), s.interval, s.stepFor(m))
	return out
}

// stepFor returns the tick handler owning message m. It checks store
// liveness before every mutation and reports done once m settles, so a
// schedule can never outlive the store or touch a settled message.
func (s *Store) stepFor(m *message) func() bool {
	return func() bool {
		s.mu.Lock()
		if s.closed || m.lifecycle.Settled() {
			s.mu.Unlock()
			return false
		}
		m.shown++
		m.VisibleText = string(m.runes[:m.shown])
		settledNow := m.shown >= len(m.runes)
		if settledNow {
			m.RevealState = RevealSettled
			if err := m.lifecycle.Settle(); err != nil {
				logger.L.Warn("lifecycle settle rejected", "id", m.ID, "error", err)
			}
		} else if err := m.lifecycle.Tick(); err != nil {
			logger.L.Warn("lifecycle tick rejected", "id", m.ID, "error", err)
			s.mu.Unlock()
			return false
		}
		full := m.FullText
		s.mu.Unlock()

		if settledNow {
			s.sink.Save(string(RoleAssistant), full)
			return false
		}
		return true
	}
}

// AppendAssistantError appends a settled assistant turn carrying the
// error fallback text. No reveal schedule starts: error text appears
// immediately, and no history entry is recorded for the exchange.
func (s *Store) AppendAssistantError(text string) Message {
	s.mu.Lock()
	m := &message{Message: Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		FullText:    text,
		VisibleText: text,
		RevealState: RevealSettled,
		CreatedAt:   time.Now(),
	}}
	s.messages = append(s.messages, m)
	out := m.Message
	s.mu.Unlock()

	s.sink.Save(string(RoleAssistant), text)
	return out
}

// RecordHistory appends one completed (user, assistant) exchange. The
// assistant text must be the full response, regardless of how far its
// reveal has progressed.
func (s *Store) RecordHistory(userText, assistantFullText string) {
	s.mu.Lock()
	s.history = append(s.history, [2]string{userText, assistantFullText})
	s.mu.Unlock()
}

// History returns a copy of the paired history, in exchange order.
func (s *Store) History() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]string, len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot returns copies of all messages in append order, reflecting
// the latest reveal progress.
func (s *Store) Snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Message
	}
	return out
}

// Close tears the store down. Live reveal schedules observe the closed
// flag on their next tick and stop without further mutation.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
