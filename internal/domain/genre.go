package domain

import (
	"strings"

	"github.com/goccy/go-json"
)

// Genre is one {id, name} entry of a movie's serialized genre list.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ParseGenres decodes the genres column. Empty text yields no genres.
func ParseGenres(raw string) ([]Genre, error) {
	if strings.TrimSpace(raw) == "" {
		return []Genre{}, nil
	}
	var genres []Genre
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []Genre{}
	}
	return genres, nil
}

// HasGenre reports whether any genre matches name, ignoring case.
func HasGenre(genres []Genre, name string) bool {
	for _, g := range genres {
		if strings.EqualFold(g.Name, name) {
			return true
		}
	}
	return false
}

// GenreSet accumulates genres keyed by name. The first record seen for a name
// wins and insertion order is preserved.
type GenreSet struct {
	seen  map[string]struct{}
	items []Genre
}

// NewGenreSet returns an empty set.
func NewGenreSet() *GenreSet {
	return &GenreSet{seen: make(map[string]struct{})}
}

// Add merges genres into the set.
func (s *GenreSet) Add(genres ...Genre) {
	for _, g := range genres {
		if _, ok := s.seen[g.Name]; ok {
			continue
		}
		s.seen[g.Name] = struct{}{}
		s.items = append(s.items, g)
	}
}

// Len returns the number of distinct genres.
func (s *GenreSet) Len() int { return len(s.items) }

// Items returns the genres in first-seen order.
func (s *GenreSet) Items() []Genre {
	out := make([]Genre, len(s.items))
	copy(out, s.items)
	return out
}
