package show

import (
	"context"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const isoDate = "2006-01-02"

// Listing returns the public projection of the agenda: shows that have not
// yet ended as of now, with data_fim defaulted, sorted for display. Unlike
// the admin list, a read failure here is surfaced to the caller.
func (s *Service) Listing(ctx context.Context, now time.Time) ([]Show, error) {
	shows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return ProjectListing(shows, now), nil
}

// ProjectListing applies the public-listing rules to a raw show list:
// a missing data_fim is treated as equal to data_inicio, shows whose
// effective end date is before today at local midnight are dropped, and the
// rest are ordered by start date, then city, then artist with pt-BR
// case/accent-insensitive collation.
func ProjectListing(shows []Show, now time.Time) []Show {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := make([]Show, 0, len(shows))
	for _, s := range shows {
		if s.DataFim == nil {
			fim := s.DataInicio
			s.DataFim = &fim
		}
		end, err := time.ParseInLocation(isoDate, *s.DataFim, now.Location())
		if err != nil || end.Before(today) {
			continue
		}
		out = append(out, s)
	}

	// Collators are stateful, so build one per call rather than sharing.
	col := collate.New(language.BrazilianPortuguese, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		// ISO dates compare chronologically as strings.
		if a.DataInicio != b.DataInicio {
			return a.DataInicio < b.DataInicio
		}
		if c := col.CompareString(a.Cidade, b.Cidade); c != 0 {
			return c < 0
		}
		return col.CompareString(a.Artista, b.Artista) < 0
	})
	return out
}
