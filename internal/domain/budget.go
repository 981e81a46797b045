package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatError reports a stored value that cannot be rendered for output.
type FormatError struct {
	Field string
	Value any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %s: unsupported value %v", e.Field, e.Value)
}

// FormatBudget renders a stored budget as "$" followed by comma grouped digits.
// It accepts the shapes SQLite may hand back for a numeric column.
func FormatBudget(value any) (string, error) {
	n, ok := budgetInt(value)
	if !ok {
		return "", &FormatError{Field: "budget", Value: value}
	}
	return "$" + humanize.Comma(n), nil
}

func budgetInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	case []byte:
		return parseBudgetText(string(v))
	case string:
		return parseBudgetText(v)
	default:
		return 0, false
	}
}

func parseBudgetText(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return budgetInt(f)
}
