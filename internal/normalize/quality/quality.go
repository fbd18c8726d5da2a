// Package quality audits normalized players for missing fields and
// contradictory statistics. Its report is advisory.
package quality

import (
	"sort"
	"strings"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/dataset"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/metrics"
)

const (
	frequentMissingLimit = 6
	sampleLimit          = 10

	// CodeZeroMinutesWithStats flags players credited with actions despite
	// playing no minutes.
	CodeZeroMinutesWithStats = "zero_minutes_with_stats"
)

type field struct {
	key     string
	label   string
	missing func(player.Record) bool
}

var fields = []field{
	{key: "name", label: "Player name", missing: func(p player.Record) bool {
		return strings.TrimSpace(p.Name) == ""
	}},
	{key: "position", label: "Position", missing: func(p player.Record) bool {
		return p.Position == "" || p.Position == player.PositionUnknown
	}},
	{key: "age", label: "Age", missing: func(p player.Record) bool {
		return p.Age == nil
	}},
	{key: "nationality", label: "Nationality", missing: func(p player.Record) bool {
		return strings.TrimSpace(p.Nationality) == ""
	}},
	{key: "club.name", label: "Club", missing: func(p player.Record) bool {
		return strings.TrimSpace(p.Club.Name) == "" || !p.Club.Resolved
	}},
	{key: "stats.minutes", label: "Minutes", missing: func(p player.Record) bool {
		_, ok := p.Minutes()
		return !ok
	}},
}

// Audit counts missing tracked fields and players whose minutes are zero while
// some non-rate stat is positive.
func Audit(players []player.Record) dataset.QualityReport {
	counts := make([]dataset.FieldCompleteness, len(fields))
	for i, f := range fields {
		counts[i] = dataset.FieldCompleteness{Field: f.key, Label: f.label}
	}

	zeroMinutes := dataset.Inconsistency{
		Code:    CodeZeroMinutesWithStats,
		Label:   "Players with zero minutes but positive stats",
		Samples: []string{},
	}
	for _, p := range players {
		for i, f := range fields {
			if f.missing(p) {
				counts[i].Count++
			}
		}
		if zeroMinutesWithStats(p) {
			zeroMinutes.Count++
			if len(zeroMinutes.Samples) < sampleLimit {
				zeroMinutes.Samples = append(zeroMinutes.Samples, p.Slug)
			}
		}
	}

	for i := range counts {
		if len(players) > 0 {
			counts[i].Ratio = float64(counts[i].Count) / float64(len(players))
		}
	}

	frequent := make([]dataset.FieldCompleteness, 0, len(counts))
	for _, c := range counts {
		if c.Count > 0 {
			frequent = append(frequent, c)
		}
	}
	sort.SliceStable(frequent, func(i, j int) bool {
		return frequent[i].Count > frequent[j].Count
	})
	if len(frequent) > frequentMissingLimit {
		frequent = frequent[:frequentMissingLimit]
	}

	return dataset.QualityReport{
		PlayersCount:    len(players),
		Fields:          counts,
		FrequentMissing: frequent,
		Inconsistencies: []dataset.Inconsistency{zeroMinutes},
	}
}

func zeroMinutesWithStats(p player.Record) bool {
	minutes, ok := p.Minutes()
	if !ok || minutes != 0 {
		return false
	}
	for key, value := range p.Stats {
		if _, rate := metrics.RateMetrics[key]; rate {
			continue
		}
		if value > 0 {
			return true
		}
	}
	return false
}
