package analysis

import "context"

// Repository port for persisting and querying analyses
type Repository interface {
    // Save inserts a, assigning a.ID and a.CreatedAt when it is zero.
    Save(ctx context.Context, a *Analysis) error
    // Latest returns up to limit records, newest first.
    Latest(ctx context.Context, limit int) ([]*Analysis, error)
}

// Archive port for keeping a read-only copy of each result outside the database.
type Archive interface {
    Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
