package mysql

import (
    "context"
    "database/sql"
    "time"

    domain "github.com/bryanwahyu/symptom-assist/internal/domain/analysis"
)

type AnalysisRepository struct {
    db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
    return &AnalysisRepository{db: db}
}

// Save inserts an analysis record and sets its generated id
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
    const q = `
INSERT INTO analyses
  (created_at, symptoms, result_md, confidence_json)
VALUES (?,?,?,?);
`
    if a.CreatedAt.IsZero() {
        a.CreatedAt = time.Now().UTC()
    }

    res, err := r.db.ExecContext(ctx, q, a.CreatedAt, a.Symptoms, a.ResultMD, a.Confidence)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = domain.AnalysisID(id)
    return nil
}

// Latest returns the newest analysis records ordered by created_at desc
func (r *AnalysisRepository) Latest(ctx context.Context, limit int) ([]*domain.Analysis, error) {
    const q = `
SELECT id, created_at, symptoms, result_md, confidence_json
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
    rows, err := r.db.QueryContext(ctx, q, limitOrDefault(limit))
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := []*domain.Analysis{}
    for rows.Next() {
        var a domain.Analysis
        var created time.Time
        if err := rows.Scan(&a.ID, &created, &a.Symptoms, &a.ResultMD, &a.Confidence); err != nil {
            return nil, err
        }
        a.CreatedAt = created.UTC()
        out = append(out, &a)
    }
    return out, rows.Err()
}
