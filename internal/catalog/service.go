// Package catalog composes the movie store, the attached ratings store and the
// external rating provider into the responses served by the API.
package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
	"github.com/Clark-Hu/movie-catalog/internal/omdb"
	"github.com/Clark-Hu/movie-catalog/internal/repository"
	"github.com/Clark-Hu/movie-catalog/internal/store"
)

// Service is the single entry point the HTTP handlers depend on.
type Service struct {
	repo     *repository.Repository
	session  *store.Session
	external omdb.Client
	logger   zerolog.Logger
}

// New constructs a Service. session must belong to the same movie store as repo.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(repo *repository.Repository, session *store.Session, external omdb.Client, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		session:  session,
		external: external,
		logger:   logger,
	}
}

// GetMovieDetail joins a movie with its internal rating, then looks up the
// external rating. The steps run strictly in order: the external lookup needs
// the IMDb id from the joined row.
//
// Errors: *store.AttachError when the ratings store cannot be attached,
// *repository.QueryError on store failure, *domain.FormatError on an
// unrenderable budget and repository.ErrNotFound when the join is empty. The
// external lookup never fails.
func (s *Service) GetMovieDetail(ctx context.Context, id int64) (domain.MovieDetail, error) {
	conn, err := s.session.EnsureAttached(ctx)
	if err != nil {
		return domain.MovieDetail{}, err
	}

	movie, internal, err := s.repo.Movies.GetWithRating(ctx, conn, id)
	if err != nil {
		return domain.MovieDetail{}, err
	}

	external := s.external.Fetch(ctx, movie.IMDbID)
	s.logger.Debug().
		Int64("movie_id", id).
		Str("imdb_id", movie.IMDbID).
		Str("external_score", external.Score.String()).
		Msg("catalog: movie detail assembled")

	return domain.NewMovieDetail(movie, internal, external), nil
}

// ListMovies returns one page of movies.
func (s *Service) ListMovies(ctx context.Context, page int) ([]domain.Movie, error) {
	return s.repo.Movies.List(ctx, page)
}

// GetMovie returns a single movie.
func (s *Service) GetMovie(ctx context.Context, id int64) (domain.Movie, error) {
	return s.repo.Movies.GetByID(ctx, id)
}

// ListMoviesByYear returns one page of movies released in year.
func (s *Service) ListMoviesByYear(ctx context.Context, year, page int) ([]domain.Movie, error) {
	return s.repo.Movies.ListByYear(ctx, year, page)
}

// ListMoviesByGenre returns the movies of the requested page tagged with genre.
func (s *Service) ListMoviesByGenre(ctx context.Context, genre string, page int) ([]domain.Movie, error) {
	return s.repo.Movies.ListByGenre(ctx, genre, page)
}

// ListGenres returns every distinct genre in first-seen order.
func (s *Service) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.repo.Movies.AllGenres(ctx)
}

// ListRatings returns the rating rows of a movie.
func (s *Service) ListRatings(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	return s.repo.Ratings.ListByMovie(ctx, movieID)
}
