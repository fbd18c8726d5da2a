package dataset

import (
	"fmt"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/club"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/competition"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
)

// Kind tags what a JSON root was recognised as.
type Kind string

const (
	KindPlayers Kind = "players"
	KindTeams   Kind = "teams"
	KindUnknown Kind = "unknown"
)

// Inspection is the outcome of searching a JSON root for a known structure.
// Found=false means no plausible structure, never an error.
type Inspection struct {
	Found      bool    `json:"found"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Path       string  `json:"path"`
	SampleSize int     `json:"sampleSize"`
}

// FieldCompleteness counts records missing one tracked field.
type FieldCompleteness struct {
	Field string  `json:"field"`
	Label string  `json:"label"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// Inconsistency is a data-integrity smell found across records.
type Inconsistency struct {
	Code    string   `json:"code"`
	Label   string   `json:"label"`
	Count   int      `json:"count"`
	Samples []string `json:"samples,omitempty"`
}

// QualityReport is advisory only; nothing in the bundle depends on it.
type QualityReport struct {
	PlayersCount    int                 `json:"playersCount"`
	Fields          []FieldCompleteness `json:"fields"`
	FrequentMissing []FieldCompleteness `json:"frequentMissing"`
	Inconsistencies []Inconsistency     `json:"inconsistencies"`
}

type Meta struct {
	RunID       string     `json:"runId,omitempty"`
	GeneratedAt string     `json:"generatedAt"`
	Warnings    []string   `json:"warnings"`
	Players     Inspection `json:"players"`
	Teams       Inspection `json:"teams"`
}

// Bundle is an immutable snapshot of one normalization run. A reload replaces
// it wholesale.
type Bundle struct {
	Players      []player.Record      `json:"players"`
	Clubs        []club.Record        `json:"clubs"`
	Competitions []competition.Record `json:"competitions"`
	SeasonKeys   []string             `json:"seasonKeys"`
	DataQuality  QualityReport        `json:"dataQuality"`
	Meta         Meta                 `json:"meta"`
}

// Validate checks the record invariants a published bundle must hold: every
// player and club is valid, player slugs are unique and clubs are unique per
// competition.
func (b Bundle) Validate() error {
	slugs := make(map[string]struct{}, len(b.Players))
	for i, p := range b.Players {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("player %d: %w", i, err)
		}
		if _, dup := slugs[p.Slug]; dup {
			return fmt.Errorf("duplicate player slug %q", p.Slug)
		}
		slugs[p.Slug] = struct{}{}
	}

	keys := make(map[string]struct{}, len(b.Clubs))
	for _, c := range b.Clubs {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("club %s: %w", c.Key(), err)
		}
		if _, dup := keys[c.Key()]; dup {
			return fmt.Errorf("duplicate club %s", c.Key())
		}
		keys[c.Key()] = struct{}{}
	}
	for _, comp := range b.Competitions {
		for _, c := range comp.Table {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("competition %s club %s: %w", comp.Slug, c.Slug, err)
			}
		}
	}
	return nil
}
