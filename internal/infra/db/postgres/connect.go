package postgres

import (
    "context"
    "database/sql"
    "time"

    _ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
    db, err := sql.Open("postgres", dsn)
    if err != nil {
        return nil, err
    }
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(10)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx2); err != nil {
        db.Close()
        return nil, err
    }
    return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
  id BIGSERIAL PRIMARY KEY,
  created_at TIMESTAMPTZ NOT NULL,
  symptoms TEXT NOT NULL,
  result_md TEXT NOT NULL,
  confidence_json JSONB NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses (created_at DESC);`

// EnsureSchema creates the analyses table if it is missing
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    _, err := db.ExecContext(ctx, schema)
    return err
}
