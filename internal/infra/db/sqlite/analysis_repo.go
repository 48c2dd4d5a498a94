package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/symptom-assist/internal/domain/analysis"
)

// AnalysisRepository implements analysis.Repository on SQLite. Timestamps are
// stored as unix nanoseconds.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts a and sets its generated id.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
		INSERT INTO analyses (created_at, symptoms, result_md, confidence_json)
		VALUES (?, ?, ?, ?)`

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, q, a.CreatedAt.UnixNano(), a.Symptoms, a.ResultMD, a.Confidence)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert analysis id: %w", err)
	}
	a.ID = domain.AnalysisID(id)
	return nil
}

// Latest returns up to limit records, newest first.
func (r *AnalysisRepository) Latest(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = domain.MaxRecent
	}
	const q = `
		SELECT id, created_at, symptoms, result_md, confidence_json
		FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	out := []*domain.Analysis{}
	for rows.Next() {
		var a domain.Analysis
		var created int64
		if err := rows.Scan(&a.ID, &created, &a.Symptoms, &a.ResultMD, &a.Confidence); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		a.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, &a)
	}
	return out, rows.Err()
}
