package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Review is a persisted generated review.
type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveReview stores a finished review for the user.
func (db *DB) SaveReview(ctx context.Context, userID uuid.UUID, placeName, text string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO reviews (user_id, place_name, text)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		userID, placeName, text,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save review: %w", err)
	}
	return id, nil
}

// ListReviews returns the user's reviews, newest first.
func (db *DB) ListReviews(ctx context.Context, userID uuid.UUID, limit int) ([]Review, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, place_name, text, created_at
		 FROM reviews
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.PlaceName, &r.Text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
