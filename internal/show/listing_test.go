package show

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.Local)
}

func TestProjectListing_DefaultsDataFim(t *testing.T) {
	shows := []Show{
		{ID: "1", Artista: "Banda X", DataInicio: "2025-06-01", Cidade: "Cidade Z"},
	}

	out := ProjectListing(shows, day(2025, time.May, 1))

	require.Len(t, out, 1)
	require.NotNil(t, out[0].DataFim)
	assert.Equal(t, "2025-06-01", *out[0].DataFim)
}

func TestProjectListing_FiltersExpiredShows(t *testing.T) {
	now := day(2025, time.June, 10)
	shows := []Show{
		{ID: "past", Artista: "A", DataInicio: "2025-06-05", Cidade: "C"},
		{ID: "today", Artista: "B", DataInicio: "2025-06-10", Cidade: "C"},
		{ID: "running", Artista: "C", DataInicio: "2025-06-01", DataFim: strPtr("2025-06-12"), Cidade: "C"},
		{ID: "future", Artista: "D", DataInicio: "2025-07-01", Cidade: "C"},
	}

	out := ProjectListing(shows, now)

	ids := make([]string, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"today", "running", "future"}, ids,
		"a show ending today is still listed; one that ended yesterday is not")
}

func TestProjectListing_SortsByDateCityArtist(t *testing.T) {
	now := day(2025, time.January, 1)
	shows := []Show{
		{ID: "4", Artista: "Zeca", DataInicio: "2025-06-02", Cidade: "Aracaju"},
		{ID: "2", Artista: "banda beta", DataInicio: "2025-06-01", Cidade: "São Paulo"},
		{ID: "1", Artista: "Banda Alfa", DataInicio: "2025-06-01", Cidade: "Santos"},
		{ID: "3", Artista: "Banda Álfa", DataInicio: "2025-06-01", Cidade: "São Paulo"},
	}

	out := ProjectListing(shows, now)

	require.Len(t, out, 4)
	ids := []string{out[0].ID, out[1].ID, out[2].ID, out[3].ID}
	// Same date: Santos sorts before São Paulo (accent-insensitive);
	// within São Paulo, Álfa sorts before beta (case- and accent-insensitive).
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids)
}

func TestProjectListing_SameDateAndCityOrdersByArtist(t *testing.T) {
	now := day(2025, time.January, 1)
	shows := []Show{
		{ID: "b", Artista: "Érica", DataInicio: "2025-06-01", Cidade: "Recife"},
		{ID: "a", Artista: "edu", DataInicio: "2025-06-01", Cidade: "Recife"},
		{ID: "c", Artista: "Fagner", DataInicio: "2025-06-01", Cidade: "Recife"},
	}

	out := ProjectListing(shows, now)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID, "edu before Érica, accents and case ignored")
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestProjectListing_EmptyInput(t *testing.T) {
	out := ProjectListing(nil, day(2025, time.January, 1))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
