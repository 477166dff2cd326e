package show

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a show does not exist.
var ErrNotFound = errors.New("show not found")

// Repository handles all show database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const showColumns = `id, artista,
	to_char(data_inicio, 'YYYY-MM-DD'),
	to_char(data_fim, 'YYYY-MM-DD'),
	local, cidade, flyer`

// List returns all shows ordered ascending by start date. The slice is never
// nil.
func (r *Repository) List(ctx context.Context) ([]Show, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+showColumns+` FROM shows ORDER BY data_inicio ASC`)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	shows := []Show{}
	for rows.Next() {
		var s Show
		if err := rows.Scan(&s.ID, &s.Artista, &s.DataInicio, &s.DataFim, &s.Local, &s.Cidade, &s.Flyer); err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	return shows, nil
}

// Create inserts a new show and returns the created record with its
// server-assigned id.
func (r *Repository) Create(ctx context.Context, f Fields) (*Show, error) {
	s := &Show{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO shows (artista, data_inicio, data_fim, local, cidade, flyer)
		 VALUES ($1, $2::date, $3::date, $4, $5, $6)
		 RETURNING `+showColumns,
		f.Artista, f.DataInicio, f.DataFim, f.Local, f.Cidade, f.Flyer,
	).Scan(&s.ID, &s.Artista, &s.DataInicio, &s.DataFim, &s.Local, &s.Cidade, &s.Flyer)
	if err != nil {
		return nil, fmt.Errorf("create show: %w", err)
	}
	return s, nil
}

// Get fetches a show by its id.
func (r *Repository) Get(ctx context.Context, id string) (*Show, error) {
	s := &Show{}
	err := r.db.QueryRow(ctx,
		`SELECT `+showColumns+` FROM shows WHERE id = $1`, id,
	).Scan(&s.ID, &s.Artista, &s.DataInicio, &s.DataFim, &s.Local, &s.Cidade, &s.Flyer)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get show by id: %w", err)
	}
	return s, nil
}

// Update rewrites the mutable fields of a show by id.
func (r *Repository) Update(ctx context.Context, id string, f Fields) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shows
		 SET artista = $2, data_inicio = $3::date, data_fim = $4::date,
		     local = $5, cidade = $6, flyer = $7, updated_at = now()
		 WHERE id = $1`,
		id, f.Artista, f.DataInicio, f.DataFim, f.Local, f.Cidade, f.Flyer,
	)
	if err != nil {
		return fmt.Errorf("update show: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update show %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the show row by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete show: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete show %s: %w", id, ErrNotFound)
	}
	return nil
}
