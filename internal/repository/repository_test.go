package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
	"github.com/Clark-Hu/movie-catalog/internal/store"
	"github.com/Clark-Hu/movie-catalog/internal/store/storetest"
)

type testEnv struct {
	ctx        context.Context
	store      *store.Store
	repository *Repository
}

func newTestEnv(t testing.TB, movies []storetest.Movie, ratings []storetest.Rating) *testEnv {
	t.Helper()
	st := storetest.New(t, movies, ratings).Open(t)
	return &testEnv{
		ctx:        context.Background(),
		store:      st,
		repository: New(st),
	}
}

func dramaGenres(int) string {
	return `[{"id": 18, "name": "Drama"}]`
}

func TestMoviesRepository_ListPagination(t *testing.T) {
	env := newTestEnv(t, storetest.Movies(1000, dramaGenres), nil)

	first, err := env.repository.Movies.List(env.ctx, 1)
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(first) != PageSize {
		t.Fatalf("page 1 size = %d, want %d", len(first), PageSize)
	}
	if first[0].IMDbID != "tt0000001" || first[0].Budget != "$1,000" {
		t.Fatalf("first movie = %+v", first[0])
	}

	last, err := env.repository.Movies.List(env.ctx, 20)
	if err != nil {
		t.Fatalf("List page 20: %v", err)
	}
	if len(last) != PageSize || last[len(last)-1].Title != "Movie 1000" {
		t.Fatalf("page 20 = %d items, last %q", len(last), last[len(last)-1].Title)
	}

	beyond, err := env.repository.Movies.List(env.ctx, 21)
	if err != nil {
		t.Fatalf("List page 21: %v", err)
	}
	if beyond == nil || len(beyond) != 0 {
		t.Fatalf("page 21 = %+v, want empty non-nil slice", beyond)
	}
}

func TestMoviesRepository_ListByYear(t *testing.T) {
	movies := []storetest.Movie{
		{MovieID: 1, IMDbID: "tt1", Title: "Early", ReleaseDate: "2010-01-05", Budget: int64(1)},
		{MovieID: 2, IMDbID: "tt2", Title: "Late", ReleaseDate: "2010-11-20", Budget: int64(2)},
		{MovieID: 3, IMDbID: "tt3", Title: "Other", ReleaseDate: "2011-03-01", Budget: int64(3)},
	}
	env := newTestEnv(t, movies, nil)

	got, err := env.repository.Movies.ListByYear(env.ctx, 2010, 1)
	if err != nil {
		t.Fatalf("ListByYear: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Late" || got[1].Title != "Early" {
		t.Fatalf("ListByYear = %+v, want Late, Early", got)
	}

	none, err := env.repository.Movies.ListByYear(env.ctx, 1999, 1)
	if err != nil || len(none) != 0 {
		t.Fatalf("ListByYear(1999) = %+v, %v", none, err)
	}
}

func TestMoviesRepository_ListByGenre_FiltersAfterPagination(t *testing.T) {
	movies := storetest.Movies(60, func(i int) string {
		if i == 51 {
			return `[{"id": 27, "name": "Horror"}]`
		}
		return dramaGenres(i)
	})
	env := newTestEnv(t, movies, nil)

	pageOne, err := env.repository.Movies.ListByGenre(env.ctx, "Horror", 1)
	if err != nil {
		t.Fatalf("ListByGenre page 1: %v", err)
	}
	if len(pageOne) != 0 {
		t.Fatalf("page 1 = %+v, want no matches outside the page window", pageOne)
	}

	pageTwo, err := env.repository.Movies.ListByGenre(env.ctx, "horror", 2)
	if err != nil {
		t.Fatalf("ListByGenre page 2: %v", err)
	}
	if len(pageTwo) != 1 || pageTwo[0].Title != "Movie 51" {
		t.Fatalf("page 2 = %+v, want Movie 51", pageTwo)
	}
}

func TestMoviesRepository_ListByGenre_SkipsMalformedRows(t *testing.T) {
	movies := []storetest.Movie{
		{MovieID: 1, IMDbID: "tt1", Title: "Broken", Budget: int64(1), Genres: `not json`},
		{MovieID: 2, IMDbID: "tt2", Title: "Fine", Budget: int64(2), Genres: `[{"id": 35, "name": "Comedy"}]`},
		// Never part of the response, so its budget is not formatted.
		{MovieID: 3, IMDbID: "tt3", Title: "Odd Budget", Budget: "unknown", Genres: `[{"id": 18, "name": "Drama"}]`},
	}
	env := newTestEnv(t, movies, nil)

	got, err := env.repository.Movies.ListByGenre(env.ctx, "COMEDY", 1)
	if err != nil {
		t.Fatalf("ListByGenre: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Fine" {
		t.Fatalf("ListByGenre = %+v, want Fine", got)
	}
}

func TestMoviesRepository_AllGenres(t *testing.T) {
	movies := []storetest.Movie{
		{MovieID: 1, IMDbID: "tt1", Title: "A", Budget: int64(1), Genres: `[{"id": 18, "name": "Drama"}, {"id": 35, "name": "Comedy"}]`},
		{MovieID: 2, IMDbID: "tt2", Title: "B", Budget: int64(1), Genres: `broken`},
		{MovieID: 3, IMDbID: "tt3", Title: "C", Budget: int64(1), Genres: `[{"id": 999, "name": "Drama"}, {"id": 27, "name": "Horror"}]`},
		{MovieID: 4, IMDbID: "tt4", Title: "D", Budget: int64(1)},
	}
	env := newTestEnv(t, movies, nil)

	got, err := env.repository.Movies.AllGenres(env.ctx)
	if err != nil {
		t.Fatalf("AllGenres: %v", err)
	}
	want := []domain.Genre{{ID: 18, Name: "Drama"}, {ID: 35, Name: "Comedy"}, {ID: 27, Name: "Horror"}}
	if len(got) != len(want) {
		t.Fatalf("AllGenres = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllGenres[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMoviesRepository_GetByID(t *testing.T) {
	movies := []storetest.Movie{{
		MovieID:             862,
		IMDbID:              "tt0114709",
		Title:               "Toy Story",
		Overview:            "Toys come alive.",
		ProductionCompanies: `[{"name": "Pixar Animation Studios", "id": 3}]`,
		ReleaseDate:         "1995-10-30",
		Budget:              int64(30000000),
		Runtime:             float64(81),
		Language:            "en",
		Genres:              `[{"id": 16, "name": "Animation"}]`,
	}}
	env := newTestEnv(t, movies, nil)

	movie, err := env.repository.Movies.GetByID(env.ctx, 862)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if movie.Title != "Toy Story" || movie.Budget != "$30,000,000" || movie.Language != "en" {
		t.Fatalf("GetByID = %+v", movie)
	}
	if movie.Runtime == nil || *movie.Runtime != 81 {
		t.Fatalf("Runtime = %v, want 81", movie.Runtime)
	}
	if len(movie.Genres) != 1 || movie.Genres[0].Name != "Animation" {
		t.Fatalf("Genres = %+v", movie.Genres)
	}

	if _, err := env.repository.Movies.GetByID(env.ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMoviesRepository_GetByID_BudgetFormatError(t *testing.T) {
	env := newTestEnv(t, []storetest.Movie{{MovieID: 1, IMDbID: "tt1", Title: "A", Budget: "lots"}}, nil)

	_, err := env.repository.Movies.GetByID(env.ctx, 1)
	var formatErr *domain.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("GetByID error = %v, want FormatError", err)
	}
}

func TestMoviesRepository_GetWithRating(t *testing.T) {
	movies := storetest.Movies(3, dramaGenres)
	ratings := []storetest.Rating{
		{UserID: 1, MovieID: 2, Value: 3.5, Timestamp: 100},
		{UserID: 2, MovieID: 2, Value: 5, Timestamp: 200},
	}
	env := newTestEnv(t, movies, ratings)
	session := env.store.NewSession()
	t.Cleanup(func() { _ = session.Close() })

	conn, err := session.EnsureAttached(env.ctx)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	movie, rating, err := env.repository.Movies.GetWithRating(env.ctx, conn, 2)
	if err != nil {
		t.Fatalf("GetWithRating: %v", err)
	}
	if movie.IMDbID != "tt0000002" || rating != 3.5 {
		t.Fatalf("GetWithRating = %+v, %v; want tt0000002 with first rating 3.5", movie, rating)
	}

	if _, _, err := env.repository.Movies.GetWithRating(env.ctx, conn, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("movie without ratings: error = %v, want ErrNotFound", err)
	}
}

func TestMoviesRepository_QueryError(t *testing.T) {
	env := newTestEnv(t, storetest.Movies(1, dramaGenres), nil)
	env.store.Close()

	_, err := env.repository.Movies.List(env.ctx, 1)
	var queryErr *QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("List on closed store error = %v, want QueryError", err)
	}
}

func TestRatingsRepository_ListByMovie(t *testing.T) {
	ratings := []storetest.Rating{
		{UserID: 1, MovieID: 10, Value: 4, Timestamp: 1260759144},
		{UserID: 2, MovieID: 10, Value: 2.5, Timestamp: 1260759179},
		{UserID: 3, MovieID: 11, Value: 1, Timestamp: 1260759182},
	}
	env := newTestEnv(t, nil, ratings)

	got, err := env.repository.Ratings.ListByMovie(env.ctx, 10)
	if err != nil {
		t.Fatalf("ListByMovie: %v", err)
	}
	if len(got) != 2 || got[1].Value != 2.5 || got[1].Timestamp != 1260759179 {
		t.Fatalf("ListByMovie = %+v", got)
	}

	if _, err := env.repository.Ratings.ListByMovie(env.ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListByMovie(99) error = %v, want ErrNotFound", err)
	}
}

func TestPagination(t *testing.T) {
	cases := []struct {
		raw    string
		page   int
		offset int
	}{
		{"", 1, 0},
		{"abc", 1, 0},
		{"0", 1, 0},
		{"-3", 1, 0},
		{"2", 2, 50},
		{" 21 ", 21, 1000},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("page=%q", c.raw), func(t *testing.T) {
			page := ParsePage(c.raw)
			if page != c.page {
				t.Fatalf("ParsePage(%q) = %d, want %d", c.raw, page, c.page)
			}
			if got := Offset(page); got != c.offset {
				t.Fatalf("Offset(%d) = %d, want %d", page, got, c.offset)
			}
		})
	}
}

func BenchmarkMoviesRepositoryList(b *testing.B) {
	env := newTestEnv(b, storetest.Movies(500, dramaGenres), nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.repository.Movies.List(env.ctx, 1+i%10); err != nil {
			b.Fatalf("List: %v", err)
		}
	}
}
