// Package storetest builds throwaway SQLite movie and ratings stores for tests.
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/Clark-Hu/movie-catalog/internal/logging"
	"github.com/Clark-Hu/movie-catalog/internal/store"
)

const moviesSchema = `
CREATE TABLE movies (
    movieId INTEGER PRIMARY KEY,
    imdbId TEXT NOT NULL,
    title TEXT NOT NULL,
    overview TEXT,
    productionCompanies TEXT,
    releaseDate TEXT,
    budget INTEGER,
    revenue INTEGER,
    runtime REAL,
    language TEXT,
    genres TEXT,
    status TEXT
)`

const ratingsSchema = `
CREATE TABLE ratings (
    ratingId INTEGER PRIMARY KEY,
    userId INTEGER NOT NULL,
    movieId INTEGER NOT NULL,
    rating REAL NOT NULL,
    timestamp INTEGER NOT NULL
)`

// Movie is a row of the movies table. Budget is stored as given so tests can
// place non-numeric values in the column.
type Movie struct {
	MovieID             int64
	IMDbID              string
	Title               string
	Overview            string
	ProductionCompanies string
	ReleaseDate         string
	Budget              any
	Runtime             any
	Language            string
	Genres              string
}

// Rating is a row of the ratings table.
type Rating struct {
	UserID    int64
	MovieID   int64
	Value     float64
	Timestamp int64
}

// Fixture points at a pair of populated database files.
type Fixture struct {
	MoviesPath  string
	RatingsPath string
}

// New writes movies and ratings into fresh files under tb.TempDir().
func New(tb testing.TB, movies []Movie, ratings []Rating) Fixture {
	tb.Helper()

	dir := tb.TempDir()
	fx := Fixture{
		MoviesPath:  filepath.Join(dir, "movies.db"),
		RatingsPath: filepath.Join(dir, "ratings.db"),
	}

	seed(tb, fx.MoviesPath, moviesSchema, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO movies
            (movieId, imdbId, title, overview, productionCompanies, releaseDate, budget, runtime, language, genres, status)
            VALUES (?,?,?,?,?,?,?,?,?,?,'Released')`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range movies {
			if _, err := stmt.Exec(m.MovieID, m.IMDbID, m.Title, m.Overview, m.ProductionCompanies,
				m.ReleaseDate, m.Budget, m.Runtime, m.Language, m.Genres); err != nil {
				return err
			}
		}
		return nil
	})

	seed(tb, fx.RatingsPath, ratingsSchema, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO ratings (userId, movieId, rating, timestamp) VALUES (?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range ratings {
			if _, err := stmt.Exec(r.UserID, r.MovieID, r.Value, r.Timestamp); err != nil {
				return err
			}
		}
		return nil
	})

	return fx
}

// Open opens the fixture through store.New and closes it on cleanup.
func (fx Fixture) Open(tb testing.TB) *store.Store {
	tb.Helper()
	st, err := store.New(context.Background(), fx.MoviesPath, fx.RatingsPath, store.Options{
		MaxOpenConns: 4,
		Logger:       logging.Discard(),
	})
	if err != nil {
		tb.Fatalf("open fixture store: %v", err)
	}
	tb.Cleanup(st.Close)
	return st
}

// Movies generates n sequential movies with ids starting at 1. genres returns the
// serialized genre list for the i-th movie (1-based).
func Movies(n int, genres func(i int) string) []Movie {
	movies := make([]Movie, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, Movie{
			MovieID:     int64(i),
			IMDbID:      fmt.Sprintf("tt%07d", i),
			Title:       fmt.Sprintf("Movie %d", i),
			ReleaseDate: fmt.Sprintf("%d-01-%02d", 1990+i%20, 1+i%28),
			Budget:      int64(i) * 1000,
			Runtime:     float64(90 + i%60),
			Language:    "en",
			Genres:      genres(i),
		})
	}
	return movies
}

func seed(tb testing.TB, path, schema string, insert func(*sql.Tx) error) {
	tb.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		tb.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		tb.Fatalf("create schema in %s: %v", path, err)
	}
	tx, err := db.Begin()
	if err != nil {
		tb.Fatalf("begin %s: %v", path, err)
	}
	if err := insert(tx); err != nil {
		_ = tx.Rollback()
		tb.Fatalf("seed %s: %v", path, err)
	}
	if err := tx.Commit(); err != nil {
		tb.Fatalf("commit %s: %v", path, err)
	}
}
