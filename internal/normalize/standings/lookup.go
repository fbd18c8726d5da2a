package standings

import "github.com/riskibarqy/foot-stats-coach/internal/domain/club"

// Lookup resolves a club by competition and slug, falling back to the first
// club seen with that slug in any competition.
type Lookup struct {
	byKey  map[string]club.Record
	bySlug map[string]club.Record
}

func NewLookup(clubs []club.Record) *Lookup {
	l := &Lookup{
		byKey:  make(map[string]club.Record, len(clubs)),
		bySlug: make(map[string]club.Record, len(clubs)),
	}
	for _, record := range clubs {
		l.byKey[record.Key()] = record
		if _, ok := l.bySlug[record.Slug]; !ok {
			l.bySlug[record.Slug] = record
		}
	}
	return l
}

func (l *Lookup) Find(competitionSlug, slug string) (club.Record, bool) {
	if l == nil || slug == "" {
		return club.Record{}, false
	}
	if competitionSlug != "" {
		if record, ok := l.byKey[competitionSlug+"::"+slug]; ok {
			return record, true
		}
	}
	record, ok := l.bySlug[slug]
	return record, ok
}
