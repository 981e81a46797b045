package domain

// DefaultLanguage is the language reported when the external provider has none.
const DefaultLanguage = "None"

// Rating source labels, in the order they appear on a MovieDetail.
const (
	SourceInternal = "Rating API"
	SourceExternal = "Rotten Tomatoes (via OMDB)"
)

// Movie represents a single row of the movie store.
type Movie struct {
	MovieID             int64
	IMDbID              string
	Title               string
	Overview            string
	ProductionCompanies string
	ReleaseDate         string
	Budget              string
	Runtime             *float64
	Language            string
	Genres              []Genre
}

// RatingSource is one named entry in MovieDetail.Ratings.
type RatingSource struct {
	Source string `json:"source"`
	Score  Score  `json:"score"`
}

// MovieDetail joins a movie with its internal and external ratings.
// Ratings always holds exactly two entries: SourceInternal then SourceExternal.
type MovieDetail struct {
	Movie
	Ratings []RatingSource
}

// NewMovieDetail assembles a MovieDetail from the stored movie, the internal rating
// value and the external provider lookup. The external language replaces the stored
// one only when the provider actually returned one.
func NewMovieDetail(movie Movie, internal float64, external ExternalRating) MovieDetail {
	if external.Language != "" && external.Language != DefaultLanguage {
		movie.Language = external.Language
	}
	return MovieDetail{
		Movie: movie,
		Ratings: []RatingSource{
			{Source: SourceInternal, Score: NumericScore(internal)},
			{Source: SourceExternal, Score: external.Score},
		},
	}
}
