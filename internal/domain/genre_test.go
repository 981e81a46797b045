package domain

import "testing"

func TestParseGenres(t *testing.T) {
	genres, err := ParseGenres(`[{"id": 18, "name": "Drama"}, {"id": 27, "name": "Horror"}]`)
	if err != nil {
		t.Fatalf("ParseGenres unexpected error: %v", err)
	}
	if len(genres) != 2 || genres[0].Name != "Drama" || genres[1].ID != 27 {
		t.Fatalf("ParseGenres = %+v", genres)
	}

	empty, err := ParseGenres("  ")
	if err != nil || len(empty) != 0 {
		t.Fatalf("ParseGenres(blank) = %+v, %v", empty, err)
	}

	if _, err := ParseGenres(`{"id":1}`); err == nil {
		t.Fatalf("expected error for malformed genres")
	}
}

func TestHasGenre(t *testing.T) {
	genres := []Genre{{ID: 35, Name: "Comedy"}, {ID: 27, Name: "Horror"}}
	if !HasGenre(genres, "horror") {
		t.Fatalf("expected case-insensitive match")
	}
	if HasGenre(genres, "Drama") {
		t.Fatalf("unexpected match for Drama")
	}
	if HasGenre(nil, "Drama") {
		t.Fatalf("unexpected match on empty list")
	}
}

func TestGenreSet_FirstSeenWins(t *testing.T) {
	set := NewGenreSet()
	set.Add(Genre{ID: 18, Name: "Drama"}, Genre{ID: 35, Name: "Comedy"})
	set.Add(Genre{ID: 99, Name: "Drama"}, Genre{ID: 27, Name: "Horror"})

	items := set.Items()
	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
	want := []Genre{{18, "Drama"}, {35, "Comedy"}, {27, "Horror"}}
	for i, g := range want {
		if items[i] != g {
			t.Fatalf("items[%d] = %+v, want %+v", i, items[i], g)
		}
	}
}

func FuzzParseGenres(f *testing.F) {
	f.Add(`[{"id":1,"name":"Action"}]`)
	f.Add(`[]`)
	f.Add(`not json`)
	f.Fuzz(func(t *testing.T, raw string) {
		genres, err := ParseGenres(raw)
		if err == nil && genres == nil {
			t.Fatalf("ParseGenres(%q) returned nil slice without error", raw)
		}
	})
}
