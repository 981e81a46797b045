package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Clark-Hu/movie-catalog/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// QueryError wraps a failure reported by the underlying store.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func queryErr(op string, err error) error {
	return &QueryError{Op: op, Err: err}
}

// Querier is satisfied by *sql.DB and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies  *MoviesRepository
	Ratings *RatingsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithDB(st.Movies(), st.Ratings())
}

// NewWithDB allows constructing repositories directly from database handles.
func NewWithDB(movies, ratings *sql.DB) *Repository {
	return &Repository{
		Movies:  &MoviesRepository{db: movies},
		Ratings: &RatingsRepository{db: ratings},
	}
}
