// Package transcript provides an append-only SQLite log of everything
// the conversation showed the user. The database is opened lazily and
// created on first use. If opening the DB or executing queries fails,
// the sink falls back to in-memory storage. Nothing in the serving path
// ever reads the log back: a restarted process starts a fresh
// conversation regardless.
package transcript

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/finderbot/chatcore/internal/logger"
)

// Entry is one logged line of conversation output.
type Entry struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink writes entries to SQLite, keeping an in-memory copy as fallback.
// A nil *Sink is valid and discards everything.
type Sink struct {
	path string

	mu  sync.Mutex
	mem []Entry

	once    sync.Once
	db      *sql.DB
	initErr error
}

// NewSink returns a sink backed by the SQLite database at path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// initDB lazily opens the database and creates the transcript table.
func (s *Sink) initDB() {
	db, err := sql.Open("sqlite", "file:"+s.path+"?_busy_timeout=10000")
	if err != nil {
		s.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory transcript", "path", s.path, "error", err)
		return
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS transcript (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT,
		content TEXT,
		created_at DATETIME
	);`); err != nil {
		s.initErr = err
		logger.L.Warn("sqlite table creation failed; using in-memory transcript", "path", s.path, "error", err)
		return
	}
	s.db = db
	logger.L.Info("transcript DB initialized", "path", s.path)
}

// Save appends one entry. Failures are logged, never surfaced: the
// transcript must not interfere with the conversation.
func (s *Sink) Save(role, content string) {
	if s == nil {
		return
	}
	s.once.Do(s.initDB)

	entry := Entry{Role: role, Content: content, CreatedAt: time.Now()}
	if s.initErr == nil && s.db != nil {
		if _, err := s.db.Exec(`INSERT INTO transcript (role, content, created_at) VALUES (?,?,?);`,
			entry.Role, entry.Content, entry.CreatedAt); err != nil {
			logger.L.Error("failed to store transcript entry; falling back to memory", "error", err)
		}
	}

	s.mu.Lock()
	s.mem = append(s.mem, entry)
	s.mu.Unlock()
}

// List returns all entries in append order.
func (s *Sink) List() []Entry {
	if s == nil {
		return nil
	}
	s.once.Do(s.initDB)

	if s.initErr == nil && s.db != nil {
		rows, err := s.db.Query(`SELECT id, role, content, created_at FROM transcript ORDER BY id ASC;`)
		if err == nil {
			defer rows.Close()
			var out []Entry
			for rows.Next() {
				var e Entry
				if err := rows.Scan(&e.ID, &e.Role, &e.Content, &e.CreatedAt); err == nil {
					out = append(out, e)
				}
			}
			return out
		}
		logger.L.Warn("transcript query failed; serving in-memory copy", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.mem))
	copy(out, s.mem)
	return out
}

// Close releases the underlying database, if one was opened.
func (s *Sink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
