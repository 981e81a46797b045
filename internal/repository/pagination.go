package repository

import (
	"strconv"
	"strings"
)

// PageSize is the fixed number of rows per listing page.
const PageSize = 50

// NormalizePage clamps page numbers below 1 to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the row offset of page.
func Offset(page int) int {
	return (NormalizePage(page) - 1) * PageSize
}

// ParsePage reads a page query value. Missing or unparsable values mean page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return NormalizePage(page)
}
