package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Options controls connection-pool behaviour.
type Options struct {
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
	ConnTimeout     time.Duration
	Logger          zerolog.Logger
}

// Store owns the two read-only SQLite databases: the movie store and the ratings store.
type Store struct {
	movies      *sql.DB
	ratings     *sql.DB
	ratingsPath string
	logger      zerolog.Logger
	opts        Options
}

// New opens both stores read-only and validates connectivity with Ping.
func New(ctx context.Context, moviesPath, ratingsPath string, opts Options) (*Store, error) {
	logger := opts.Logger
	logger.Info().
		Str("movies", moviesPath).
		Str("ratings", ratingsPath).
		Int("max_open_conns", opts.MaxOpenConns).
		Msg("store: opening databases")

	connCtx := ctx
	if opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, opts.ConnTimeout)
		defer cancel()
	}

	movies, err := open(connCtx, moviesPath, opts)
	if err != nil {
		return nil, fmt.Errorf("open movies db: %w", err)
	}
	ratings, err := open(connCtx, ratingsPath, opts)
	if err != nil {
		movies.Close()
		return nil, fmt.Errorf("open ratings db: %w", err)
	}

	logger.Info().Msg("store: database connections established")

	return &Store{
		movies:      movies,
		ratings:     ratings,
		ratingsPath: ratingsPath,
		logger:      logger,
		opts:        opts,
	}, nil
}

func open(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	dsn, err := ReadOnlyDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	return db, nil
}

// ReadOnlyDSN builds a file URI that opens path in read-only mode.
func ReadOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.logger.Info().Msg("store: closing databases")
	if s.movies != nil {
		s.movies.Close()
	}
	if s.ratings != nil {
		s.ratings.Close()
	}
}

// HealthCheck verifies both stores are reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s == nil || s.movies == nil || s.ratings == nil {
		return fmt.Errorf("store not initialized")
	}
	checkCtx := ctx
	if s.opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, s.opts.ConnTimeout)
		defer cancel()
	}
	if err := s.movies.PingContext(checkCtx); err != nil {
		return fmt.Errorf("movies db: %w", err)
	}
	if err := s.ratings.PingContext(checkCtx); err != nil {
		return fmt.Errorf("ratings db: %w", err)
	}
	return nil
}

// Movies exposes the movie store handle for repositories.
func (s *Store) Movies() *sql.DB {
	return s.movies
}

// Ratings exposes the ratings store handle for repositories.
func (s *Store) Ratings() *sql.DB {
	return s.ratings
}

// NewSession returns a query session over the movie store that can attach the
// ratings store for cross-store joins.
func (s *Store) NewSession() *Session {
	return NewSession(s.movies, s.ratingsPath, s.logger)
}
