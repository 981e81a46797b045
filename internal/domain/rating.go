package domain

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Rating represents a single user's rating row from the ratings store.
type Rating struct {
	UserID    int64
	MovieID   int64
	Value     float64
	Timestamp int64
}

// ExternalRating is the normalized result of an external provider lookup.
type ExternalRating struct {
	Score    Score
	Language string
}

// DefaultExternalRating is returned whenever the provider cannot be consulted.
func DefaultExternalRating() ExternalRating {
	return ExternalRating{Score: NumericScore(0), Language: DefaultLanguage}
}

// Score holds a rating value that is either numeric or the provider's raw text
// (for example "87%"). It marshals to a JSON number or string accordingly.
type Score struct {
	text    string
	num     float64
	textual bool
}

// NumericScore wraps a number.
func NumericScore(v float64) Score {
	return Score{num: v}
}

// TextScore wraps a provider value verbatim.
func TextScore(v string) Score {
	return Score{text: v, textual: true}
}

// IsText reports whether the score carries provider text.
func (s Score) IsText() bool { return s.textual }

// String renders the score the way it is serialized.
func (s Score) String() string {
	if s.textual {
		return s.text
	}
	return strconv.FormatFloat(s.num, 'f', -1, 64)
}

// Float returns the numeric value; textual scores report 0.
func (s Score) Float() float64 {
	if s.textual {
		return 0
	}
	return s.num
}

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	if s.textual {
		return json.Marshal(s.text)
	}
	return json.Marshal(s.num)
}

// UnmarshalJSON accepts either a JSON string or number.
func (s *Score) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = TextScore(text)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = NumericScore(num)
	return nil
}
