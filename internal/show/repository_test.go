package show

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
)

func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set, skipping repository integration tests")
	}
	testPoolOnce.Do(func() {
		var err error
		testPool, err = pgxpool.New(context.Background(), url)
		if err != nil {
			panic(err)
		}
	})
	return testPool
}

func setupShowsTable(t *testing.T) *Repository {
	t.Helper()
	pool := getTestPool(t)
	_, err := pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS shows (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			artista     TEXT NOT NULL,
			data_inicio DATE NOT NULL,
			data_fim    DATE,
			local       TEXT NOT NULL,
			cidade      TEXT NOT NULL,
			flyer       TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(), `TRUNCATE TABLE shows`)
		require.NoError(t, err)
	})
	return NewRepository(pool)
}

func TestRepository_CreateStoresNullsNotEmptyStrings(t *testing.T) {
	repo := setupShowsTable(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Fields{
		Artista:    "Banda X",
		DataInicio: "2025-06-01",
		Local:      "Clube Y",
		Cidade:     "Cidade Z",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Nil(t, created.DataFim)
	assert.Nil(t, created.Flyer)

	var fimIsNull, flyerIsNull bool
	err = getTestPool(t).QueryRow(ctx,
		`SELECT data_fim IS NULL, flyer IS NULL FROM shows WHERE id = $1`, created.ID,
	).Scan(&fimIsNull, &flyerIsNull)
	require.NoError(t, err)
	assert.True(t, fimIsNull)
	assert.True(t, flyerIsNull)
}

func TestRepository_ListOrdersByStartDate(t *testing.T) {
	repo := setupShowsTable(t)
	ctx := context.Background()

	for _, f := range []Fields{
		{Artista: "C", DataInicio: "2025-08-01", Local: "L", Cidade: "X"},
		{Artista: "A", DataInicio: "2025-06-01", Local: "L", Cidade: "X"},
		{Artista: "B", DataInicio: "2025-07-01", Local: "L", Cidade: "X"},
	} {
		_, err := repo.Create(ctx, f)
		require.NoError(t, err)
	}

	shows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 3)
	assert.Equal(t, "2025-06-01", shows[0].DataInicio)
	assert.Equal(t, "2025-07-01", shows[1].DataInicio)
	assert.Equal(t, "2025-08-01", shows[2].DataInicio)
}

func TestRepository_UpdateRoundTrip(t *testing.T) {
	repo := setupShowsTable(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Fields{
		Artista: "Banda X", DataInicio: "2025-06-01", Local: "Clube Y", Cidade: "Cidade Z",
	})
	require.NoError(t, err)

	fim := "2025-06-03"
	flyer := "http://localhost:9000/flyers/key.jpg"
	err = repo.Update(ctx, created.ID, Fields{
		Artista: "Banda X", DataInicio: "2025-06-02", DataFim: &fim,
		Local: "Clube Y", Cidade: "Cidade Z", Flyer: &flyer,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", got.DataInicio)
	require.NotNil(t, got.DataFim)
	assert.Equal(t, fim, *got.DataFim)
	require.NotNil(t, got.Flyer)
	assert.Equal(t, flyer, *got.Flyer)
}

func TestRepository_UpdateMissingRowIsNotFound(t *testing.T) {
	repo := setupShowsTable(t)

	err := repo.Update(context.Background(), "00000000-0000-0000-0000-000000000000", Fields{
		Artista: "X", DataInicio: "2025-06-01", Local: "L", Cidade: "C",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupShowsTable(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Fields{
		Artista: "Banda X", DataInicio: "2025-06-01", Local: "Clube Y", Cidade: "Cidade Z",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
