package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StoredDocuments is a user's ingested corpus row.
type StoredDocuments struct {
	UserID     uuid.UUID `json:"user_id"`
	MergedText string    `json:"merged_text"`
	Samples    []string  `json:"samples"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetDocuments returns the stored corpus text for a user, or "" when the
// user has not run an ingestion yet.
func (db *DB) GetDocuments(ctx context.Context, userID uuid.UUID) (string, error) {
	var merged string
	err := db.pool.QueryRow(ctx,
		`SELECT merged_text FROM user_documents WHERE user_id = $1`,
		userID,
	).Scan(&merged)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read documents: %w", err)
	}
	return merged, nil
}

// GetDocumentSamples returns the retained verbatim sample posts for a user.
func (db *DB) GetDocumentSamples(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var samplesJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT samples FROM user_documents WHERE user_id = $1`,
		userID,
	).Scan(&samplesJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document samples: %w", err)
	}

	var samples []string
	if err := json.Unmarshal(samplesJSON, &samples); err != nil {
		return nil, fmt.Errorf("failed to decode samples: %w", err)
	}
	return samples, nil
}

// AppendDocuments merges newly ingested text into the user's corpus row,
// creating it on first ingestion. Samples replace the previous set.
func (db *DB) AppendDocuments(ctx context.Context, userID uuid.UUID, text string, samples []string) error {
	samplesJSON, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("failed to encode samples: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_documents (user_id, merged_text, samples, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET merged_text = CASE
		       WHEN user_documents.merged_text = '' THEN EXCLUDED.merged_text
		       ELSE user_documents.merged_text || E'\n\n---\n\n' || EXCLUDED.merged_text
		     END,
		     samples = EXCLUDED.samples,
		     updated_at = NOW()`,
		userID, text, samplesJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append documents: %w", err)
	}
	return nil
}
