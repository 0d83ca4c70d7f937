package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/voicereview/internal/types"
)

// StoredProfile is a persisted style profile row. Rows are immutable; a new
// analysis run inserts a new row and readers take the latest.
type StoredProfile struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Profile   *types.StyleProfile `json:"profile"`
	CreatedAt time.Time           `json:"created_at"`
}

// SaveProfile inserts a new profile row for the user.
func (db *DB) SaveProfile(ctx context.Context, userID uuid.UUID, profile *types.StyleProfile) (uuid.UUID, error) {
	payload, err := json.Marshal(profile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO style_profiles (user_id, profile)
		 VALUES ($1, $2)
		 RETURNING id`,
		userID, payload,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return id, nil
}

// GetLatestProfile returns the user's most recent style profile, or nil
// when no analysis has run yet.
func (db *DB) GetLatestProfile(ctx context.Context, userID uuid.UUID) (*types.StyleProfile, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT profile FROM style_profiles
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile types.StyleProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}
