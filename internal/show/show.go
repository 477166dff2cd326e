// Package show manages the show agenda: the shows table, the flyer lifecycle
// workflow, and the public listing projection.
package show

// Show represents a scheduled live-music event.
type Show struct {
	ID         string  `json:"id"`
	Artista    string  `json:"artista"`
	DataInicio string  `json:"data_inicio"` // ISO YYYY-MM-DD
	DataFim    *string `json:"data_fim"`    // nil when the show is a single day
	Local      string  `json:"local"`
	Cidade     string  `json:"cidade"`
	Flyer      *string `json:"flyer"` // public URL of the flyer object, nil when absent
}

// Fields holds the mutable columns of a show row. Optional fields are nil
// when absent; an empty string is never persisted.
type Fields struct {
	Artista    string
	DataInicio string
	DataFim    *string
	Local      string
	Cidade     string
	Flyer      *string
}
