// Package queue updates the deferred storage-deletion queue consumed by an
// out-of-process sweeper. Rows are created elsewhere; this service only flips
// their processed flag once it has attempted the storage delete itself.
package queue

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository marks rows of the queue_storage_deletes table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new queue Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// MarkProcessed sets processed = true on the row named by the object key.
// A missing row is a silent no-op: the sweeper simply has nothing to skip.
func (r *Repository) MarkProcessed(ctx context.Context, objectKey string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE queue_storage_deletes SET processed = true WHERE name = $1`,
		objectKey,
	)
	if err != nil {
		return fmt.Errorf("mark queue row processed: %w", err)
	}
	return nil
}
