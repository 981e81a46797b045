package repository

import (
	"context"
	"database/sql"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

// RatingsRepository provides read helpers over the ratings store.
type RatingsRepository struct {
	db *sql.DB
}

// ListByMovie returns every rating row recorded for a movie.
func (r *RatingsRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	const query = `
        SELECT userId, movieId, rating, timestamp
        FROM ratings
        WHERE movieId = ?
    `

	rows, err := r.db.QueryContext(ctx, query, movieID)
	if err != nil {
		return nil, queryErr("list ratings", err)
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(&rating.UserID, &rating.MovieID, &rating.Value, &rating.Timestamp); err != nil {
			return nil, queryErr("list ratings", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list ratings", err)
	}
	if len(ratings) == 0 {
		return nil, ErrNotFound
	}
	return ratings, nil
}
