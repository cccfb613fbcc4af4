package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/acrispino/gemini-vision/internal/domain"
)

type AnalysisStore struct {
	db *sql.DB
}

func NewAnalysisStore(db *sql.DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

// Record inserts one completed operation, successful or failed, and returns
// the stored row.
func (s *AnalysisStore) Record(ctx context.Context, mode, images, prompt, response string, failed bool) (*domain.Analysis, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (mode, images, prompt, response, failed) VALUES (?, ?, ?, ?, ?)
	`, mode, images, prompt, response, failed)
	if err != nil {
		return nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AnalysisStore) GetByID(ctx context.Context, id int64) (*domain.Analysis, error) {
	a := &domain.Analysis{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, mode, images, prompt, response, failed, created_at FROM analyses WHERE id = ?
	`, id).Scan(&a.ID, &a.Mode, &a.Images, &a.Prompt, &a.Response, &a.Failed, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return a, nil
}

// ListRecent returns up to limit analyses, newest first.
func (s *AnalysisStore) ListRecent(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, images, prompt, response, failed, created_at FROM analyses
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*domain.Analysis
	for rows.Next() {
		a := &domain.Analysis{}
		if err := rows.Scan(&a.ID, &a.Mode, &a.Images, &a.Prompt, &a.Response, &a.Failed, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}

	return analyses, nil
}
