package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-catalog/internal/metrics"
)

// RatingsAlias is the schema name the ratings store is attached under.
const RatingsAlias = "ratings_db"

// AttachError reports a failed ATTACH of the ratings store.
type AttachError struct {
	Path string
	Err  error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("store: attach %s: %v", e.Path, e.Err)
}

func (e *AttachError) Unwrap() error { return e.Err }

// Session pins a single connection of the movie store. SQLite attachments are
// connection state, so the ratings store is attached to this connection at most
// once for its lifetime, and every joined query must run through Conn.
type Session struct {
	db          *sql.DB
	ratingsPath string
	logger      zerolog.Logger

	mu       sync.Mutex
	conn     *sql.Conn
	attached bool
}

// NewSession creates a session over db that attaches the database at ratingsPath.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSession(db *sql.DB, ratingsPath string, logger zerolog.Logger) *Session {
	return &Session{db: db, ratingsPath: ratingsPath, logger: logger}
}

// EnsureAttached attaches the ratings store on first use and returns the pinned
// connection. Concurrent callers are serialised; the attached flag is set only
// after a successful ATTACH and is cleared only by Close.
func (s *Session) EnsureAttached(ctx context.Context) (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return s.conn, nil
	}

	if s.conn == nil {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			metrics.RecordStoreAttach(false)
			return nil, &AttachError{Path: s.ratingsPath, Err: err}
		}
		s.conn = conn
	}

	dsn, err := ReadOnlyDSN(s.ratingsPath)
	if err != nil {
		metrics.RecordStoreAttach(false)
		return nil, &AttachError{Path: s.ratingsPath, Err: err}
	}
	if _, err := s.conn.ExecContext(ctx, "ATTACH DATABASE ? AS "+RatingsAlias, dsn); err != nil {
		metrics.RecordStoreAttach(false)
		return nil, &AttachError{Path: s.ratingsPath, Err: err}
	}

	s.attached = true
	metrics.RecordStoreAttach(true)
	s.logger.Info().Str("path", s.ratingsPath).Msg("store: ratings database attached")
	return s.conn, nil
}

// Attached reports whether the ratings store has been attached.
func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Close releases the pinned connection. The attachment dies with it.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.attached = false
	return err
}
