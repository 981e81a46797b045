package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
	"github.com/Clark-Hu/movie-catalog/internal/store"
)

// MoviesRepository provides read helpers over the movie store.
type MoviesRepository struct {
	db *sql.DB
}

const summaryColumns = `imdbId, title, genres, releaseDate, budget`

const movieColumns = `
    movieId,
    imdbId,
    title,
    overview,
    productionCompanies,
    releaseDate,
    budget,
    runtime,
    language,
    genres
`

// movieRow keeps the raw budget until the row is known to be part of the response.
type movieRow struct {
	movie  domain.Movie
	budget any
}

func (r movieRow) toMovie() (domain.Movie, error) {
	budget, err := domain.FormatBudget(r.budget)
	if err != nil {
		return domain.Movie{}, err
	}
	movie := r.movie
	movie.Budget = budget
	return movie, nil
}

// List returns one page of movies ordered by id.
func (r *MoviesRepository) List(ctx context.Context, page int) ([]domain.Movie, error) {
	rows, err := r.listPage(ctx, page)
	if err != nil {
		return nil, err
	}
	return formatRows(rows)
}

// ListByYear returns one page of movies released in year, newest first.
func (r *MoviesRepository) ListByYear(ctx context.Context, year, page int) ([]domain.Movie, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM movies
        WHERE strftime('%%Y', releaseDate) = ?
        ORDER BY releaseDate DESC
        LIMIT ? OFFSET ?
    `, summaryColumns)

	rows, err := r.querySummaries(ctx, "list movies by year", query, fmt.Sprintf("%04d", year), PageSize, Offset(page))
	if err != nil {
		return nil, err
	}
	return formatRows(rows)
}

// ListByGenre loads the requested page and keeps the movies tagged with genre.
// Filtering happens after pagination, so a page may hold fewer than PageSize
// matches, or none, while later pages still contain matching movies.
func (r *MoviesRepository) ListByGenre(ctx context.Context, genre string, page int) ([]domain.Movie, error) {
	rows, err := r.listPage(ctx, page)
	if err != nil {
		return nil, err
	}

	matched := rows[:0]
	for _, row := range rows {
		if domain.HasGenre(row.movie.Genres, genre) {
			matched = append(matched, row)
		}
	}
	return formatRows(matched)
}

// AllGenres scans every movie and returns the distinct genres in first-seen order.
// Rows with malformed genre data contribute nothing.
func (r *MoviesRepository) AllGenres(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT genres FROM movies ORDER BY movieId`)
	if err != nil {
		return nil, queryErr("list genres", err)
	}
	defer rows.Close()

	set := domain.NewGenreSet()
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, queryErr("list genres", err)
		}
		genres, err := domain.ParseGenres(raw.String)
		if err != nil {
			continue
		}
		set.Add(genres...)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list genres", err)
	}
	return set.Items(), nil
}

// GetByID fetches a movie by its internal identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE movieId = ?`, movieColumns)
	row, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, queryErr("get movie", err)
	}
	return row.toMovie()
}

// GetWithRating joins a movie with the attached ratings store and returns the
// movie plus its internal rating. The join is expected to yield one row per
// movie; when it yields more, the first row is used. q must be a connection the
// ratings store is attached to.
func (r *MoviesRepository) GetWithRating(ctx context.Context, q Querier, id int64) (domain.Movie, float64, error) {
	query := fmt.Sprintf(`
        SELECT
            m.movieId,
            m.imdbId,
            m.title,
            m.overview,
            m.productionCompanies,
            m.releaseDate,
            m.budget,
            m.runtime,
            m.language,
            m.genres,
            r.rating
        FROM movies AS m
        JOIN %s.ratings AS r ON m.movieId = r.movieId
        WHERE m.movieId = ?
    `, store.RatingsAlias)

	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return domain.Movie{}, 0, queryErr("get movie detail", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Movie{}, 0, queryErr("get movie detail", err)
		}
		return domain.Movie{}, 0, ErrNotFound
	}

	var rating float64
	row, err := scanMovie(rows, &rating)
	if err != nil {
		return domain.Movie{}, 0, queryErr("get movie detail", err)
	}
	movie, err := row.toMovie()
	if err != nil {
		return domain.Movie{}, 0, err
	}
	return movie, rating, nil
}

func (r *MoviesRepository) listPage(ctx context.Context, page int) ([]movieRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY movieId LIMIT ? OFFSET ?`, summaryColumns)
	return r.querySummaries(ctx, "list movies", query, PageSize, Offset(page))
}

func (r *MoviesRepository) querySummaries(ctx context.Context, op, query string, args ...any) ([]movieRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryErr(op, err)
	}
	defer rows.Close()

	results := make([]movieRow, 0)
	for rows.Next() {
		var (
			row         movieRow
			genres      sql.NullString
			releaseDate sql.NullString
		)
		if err := rows.Scan(&row.movie.IMDbID, &row.movie.Title, &genres, &releaseDate, &row.budget); err != nil {
			return nil, queryErr(op, err)
		}
		row.movie.ReleaseDate = releaseDate.String
		row.movie.Genres = parseGenresLenient(genres.String)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr(op, err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(row scanner, extra ...any) (movieRow, error) {
	var (
		result              movieRow
		overview            sql.NullString
		productionCompanies sql.NullString
		releaseDate         sql.NullString
		runtime             sql.NullFloat64
		language            sql.NullString
		genres              sql.NullString
	)

	dest := []any{
		&result.movie.MovieID,
		&result.movie.IMDbID,
		&result.movie.Title,
		&overview,
		&productionCompanies,
		&releaseDate,
		&result.budget,
		&runtime,
		&language,
		&genres,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return movieRow{}, err
	}

	result.movie.Overview = overview.String
	result.movie.ProductionCompanies = productionCompanies.String
	result.movie.ReleaseDate = releaseDate.String
	result.movie.Language = language.String
	result.movie.Genres = parseGenresLenient(genres.String)
	if runtime.Valid {
		minutes := runtime.Float64
		result.movie.Runtime = &minutes
	}
	return result, nil
}

func parseGenresLenient(raw string) []domain.Genre {
	genres, err := domain.ParseGenres(raw)
	if err != nil {
		return []domain.Genre{}
	}
	return genres
}

func formatRows(rows []movieRow) ([]domain.Movie, error) {
	movies := make([]domain.Movie, 0, len(rows))
	for _, row := range rows {
		movie, err := row.toMovie()
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	return movies, nil
}
