package competition

import "github.com/riskibarqy/foot-stats-coach/internal/domain/club"

// Record owns its table, ordered by rank with unranked clubs last.
type Record struct {
	Slug       string        `json:"slug"`
	Name       string        `json:"name"`
	SeasonName string        `json:"seasonName,omitempty"`
	Table      []club.Record `json:"table"`
}
