package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
	"github.com/Clark-Hu/movie-catalog/internal/repository"
)

type movieSummaryResponse struct {
	IMDbID      string         `json:"imdbId"`
	Title       string         `json:"title"`
	Genres      []domain.Genre `json:"genres"`
	ReleaseDate string         `json:"releaseDate"`
	Budget      string         `json:"budget"`
}

type movieResponse struct {
	MovieID             int64          `json:"movieId"`
	IMDbID              string         `json:"imdbId"`
	Title               string         `json:"title"`
	Overview            string         `json:"overview"`
	ProductionCompanies string         `json:"productionCompanies"`
	ReleaseDate         string         `json:"releaseDate"`
	Budget              string         `json:"budget"`
	Runtime             *float64       `json:"runtime"`
	Language            string         `json:"language"`
	Genres              []domain.Genre `json:"genres"`
}

type movieDetailResponse struct {
	movieResponse
	Ratings []domain.RatingSource `json:"ratings"`
}

type ratingResponse struct {
	UserID    int64   `json:"userId"`
	MovieID   int64   `json:"movieId"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	page := repository.ParsePage(r.URL.Query().Get("page"))

	movies, err := s.catalog.ListMovies(r.Context(), page)
	if err != nil {
		s.respondStoreError(w, err, "Failed to list movies")
		return
	}
	s.respondMovieList(w, movies)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseMovieID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	movie, err := s.catalog.GetMovie(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "Failed to fetch movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (s *Server) handleGetMovieDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseMovieID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	detail, err := s.catalog.GetMovieDetail(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "Failed to fetch movie details")
		return
	}
	s.respondJSON(w, http.StatusOK, movieDetailResponse{
		movieResponse: toMovieResponse(detail.Movie),
		Ratings:       detail.Ratings,
	})
}

func (s *Server) handleListMoviesByYear(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	page := repository.ParsePage(r.URL.Query().Get("page"))

	movies, err := s.catalog.ListMoviesByYear(r.Context(), year, page)
	if err != nil {
		s.respondStoreError(w, err, "Failed to list movies")
		return
	}
	s.respondMovieList(w, movies)
}

func (s *Server) handleListMoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := decodePathParam(r, "genre", "Genre")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	page := repository.ParsePage(r.URL.Query().Get("page"))

	movies, err := s.catalog.ListMoviesByGenre(r.Context(), genre, page)
	if err != nil {
		s.respondStoreError(w, err, "Failed to list movies")
		return
	}
	s.respondMovieList(w, movies)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.catalog.ListGenres(r.Context())
	if err != nil {
		s.respondStoreError(w, err, "Failed to list genres")
		return
	}
	if len(genres) == 0 {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No genres found")
		return
	}
	s.respondJSON(w, http.StatusOK, genres)
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	id, err := parseMovieID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	ratings, err := s.catalog.ListRatings(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "Failed to list ratings")
		return
	}

	items := make([]ratingResponse, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, ratingResponse{
			UserID:    rating.UserID,
			MovieID:   rating.MovieID,
			Rating:    rating.Value,
			Timestamp: rating.Timestamp,
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) respondMovieList(w http.ResponseWriter, movies []domain.Movie) {
	if len(movies) == 0 {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No movies found")
		return
	}
	items := make([]movieSummaryResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieSummaryResponse{
			IMDbID:      movie.IMDbID,
			Title:       movie.Title,
			Genres:      movie.Genres,
			ReleaseDate: movie.ReleaseDate,
			Budget:      movie.Budget,
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

func toMovieResponse(movie domain.Movie) movieResponse {
	genres := movie.Genres
	if genres == nil {
		genres = []domain.Genre{}
	}
	return movieResponse{
		MovieID:             movie.MovieID,
		IMDbID:              movie.IMDbID,
		Title:               movie.Title,
		Overview:            movie.Overview,
		ProductionCompanies: movie.ProductionCompanies,
		ReleaseDate:         movie.ReleaseDate,
		Budget:              movie.Budget,
		Runtime:             movie.Runtime,
		Language:            movie.Language,
		Genres:              genres,
	}
}

func parseMovieID(r *http.Request) (int64, error) {
	raw, err := decodePathParam(r, "movieId", "Movie ID")
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("Movie ID must be an integer")
	}
	return id, nil
}

func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("Year parameter is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return 0, errors.New("Year must be a number between 1 and 9999")
	}
	return year, nil
}

var errMissingParam = errors.New("parameter is required")

func decodePathParam(r *http.Request, key, label string) (string, error) {
	raw := chi.URLParam(r, key)
	if raw == "" {
		return "", fmt.Errorf("%s %w", label, errMissingParam)
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s parameter", strings.ToLower(label))
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s %w", label, errMissingParam)
	}
	return value, nil
}
