package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/voicereview/internal/review"
	"github.com/jonathan/voicereview/internal/types"
)

// fileStore backs the pipeline and review services with local JSON files,
// so CLI runs work without a database.
type fileStore struct {
	profilePath string
	samplesPath string
	reviewsDir  string
}

func (s *fileStore) AppendDocuments(ctx context.Context, userID uuid.UUID, text string, samples []string) error {
	if s.samplesPath == "" {
		return nil
	}
	if err := ensureDir(s.samplesPath); err != nil {
		return err
	}
	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal samples: %w", err)
	}
	return os.WriteFile(s.samplesPath, data, 0o644)
}

func (s *fileStore) SaveProfile(ctx context.Context, userID uuid.UUID, profile *types.StyleProfile) (uuid.UUID, error) {
	if s.profilePath == "" {
		return uuid.New(), nil
	}
	if err := ensureDir(s.profilePath); err != nil {
		return uuid.Nil, err
	}
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(s.profilePath, data, 0o644); err != nil {
		return uuid.Nil, fmt.Errorf("failed to write profile: %w", err)
	}
	return uuid.New(), nil
}

func (s *fileStore) GetLatestProfile(ctx context.Context, userID uuid.UUID) (*types.StyleProfile, error) {
	if s.profilePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.profilePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile types.StyleProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

func (s *fileStore) GetDocumentSamples(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if s.samplesPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.samplesPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	var samples []string
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("failed to parse samples: %w", err)
	}
	return samples, nil
}

func (s *fileStore) SaveReview(ctx context.Context, userID uuid.UUID, placeName, text string) (uuid.UUID, error) {
	id := uuid.New()
	if s.reviewsDir == "" {
		return id, nil
	}
	if err := os.MkdirAll(s.reviewsDir, 0o755); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create reviews dir: %w", err)
	}
	path := filepath.Join(s.reviewsDir, id.String()+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return uuid.Nil, fmt.Errorf("failed to write review: %w", err)
	}
	return id, nil
}

var _ review.Store = (*fileStore)(nil)

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
