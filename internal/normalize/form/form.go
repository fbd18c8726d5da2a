// Package form aggregates a player's most recent matches into totals, per-90
// rates and a chronological timeline.
package form

import (
	"sort"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/metrics"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/coerce"
)

// DefaultWindow is the number of recent matches aggregated.
const DefaultWindow = 5

// MatchListKeys are the player members that may hold recent matches.
var MatchListKeys = []string{"last5_matches", "last_matches", "recent_matches", "form", "matches", "last5"}

var (
	statContainers = []string{"stats", "stats_extra", "extra", "statistics"}
	minutesFields  = []string{"minutes_played", "minutes", "mins", "playing_time", "stats.mins_played", "stats.minutes_played", "stats.minutes"}
	dateFields     = []string{"date", "match_date", "played_at", "kickoff_at", "kickoff"}
	opponentFields = []string{"opponent", "opponent_name", "opponent.name", "against", "versus"}
	cleanSheetKeys = []string{"clean_sheet_60", "clean_sheet", "clean_sheets"}
)

// Members of a match object never summed when it has no stats container.
var matchMetaKeys = map[string]struct{}{
	"minutes_played": {},
	"minutes":        {},
	"mins":           {},
	"playing_time":   {},
	"date":           {},
	"match_date":     {},
	"played_at":      {},
	"kickoff_at":     {},
	"kickoff":        {},
	"season":         {},
	"gameweek":       {},
	"round":          {},
}

type scoreWeight struct {
	key    string
	weight float64
}

var scoreWeights = []scoreWeight{
	{key: "goals", weight: 4},
	{key: "assists", weight: 3},
	{key: "ontarget_scoring_att", weight: 1.1},
	{key: "successful_final_third_passes", weight: 0.07},
	{key: "won_tackle", weight: 0.2},
	{key: "interception_won", weight: 0.2},
	{key: "duel_won", weight: 0.12},
	{key: "saves", weight: 0.9},
	{key: "goals_conceded", weight: -1.1},
}

// Matches returns the recent match list of a raw player, or nil.
func Matches(raw map[string]any) []any {
	value, ok := coerce.PickFirst(raw, MatchListKeys...)
	if !ok {
		return nil
	}
	list, _ := coerce.Array(value)
	return list
}

// Aggregate sums the first window match objects. Per-90 values use the
// factor 90/minutes, which is 0 when no minutes were recorded.
func Aggregate(matches []any, window int) player.RecentForm {
	if window <= 0 {
		window = DefaultWindow
	}

	out := player.RecentForm{
		Totals:   map[string]float64{},
		Per90:    map[string]float64{},
		Timeline: []player.MatchSummary{},
	}
	for _, item := range matches {
		if out.Matches >= window {
			break
		}
		match, ok := coerce.Object(item)
		if !ok {
			continue
		}
		out.Matches++

		stats := matchStats(match)
		minutes, _ := coerce.PickNumber(match, minutesFields...)
		if minutes < 0 {
			minutes = 0
		}
		out.Minutes += minutes
		for key, value := range stats {
			out.Totals[key] += value
		}

		out.Timeline = append(out.Timeline, player.MatchSummary{
			Date:       coerce.PickString(match, dateFields...),
			Opponent:   coerce.PickString(match, opponentFields...),
			Minutes:    minutes,
			Goals:      stats["goals"],
			Assists:    stats["assists"],
			ScoreIndex: ScoreIndex(stats),
			Stats:      stats,
		})
	}

	factor := 0.0
	if out.Minutes > 0 {
		factor = 90 / out.Minutes
	}
	for key, value := range out.Totals {
		if _, skip := metrics.RateMetrics[key]; skip {
			continue
		}
		out.Per90[key] = value * factor
	}
	for _, key := range cleanSheetKeys {
		if v, ok := out.Totals[key]; ok {
			out.CleanSheets = v
			break
		}
	}

	SortTimeline(out.Timeline)
	return out
}

// ScoreIndex is a weighted single-match performance score, floored at zero.
func ScoreIndex(stats map[string]float64) float64 {
	score := 0.0
	for _, w := range scoreWeights {
		score += stats[w.key] * w.weight
	}
	if score < 0 {
		return 0
	}
	return score
}

// SortTimeline orders dated entries chronologically, then undated entries by
// their raw date text. Equal entries keep their input order.
func SortTimeline(timeline []player.MatchSummary) {
	sort.SliceStable(timeline, func(i, j int) bool {
		ti, okI := coerce.Time(timeline[i].Date)
		tj, okJ := coerce.Time(timeline[j].Date)
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI != okJ:
			return okI
		default:
			return timeline[i].Date < timeline[j].Date
		}
	})
}

func matchStats(match map[string]any) map[string]float64 {
	stats := make(map[string]float64)
	found := false
	for _, name := range statContainers {
		container, ok := coerce.Object(match[name])
		if !ok {
			continue
		}
		found = true
		metrics.Flatten(container, "", stats, nil)
	}
	if found {
		return stats
	}

	metrics.Flatten(match, "", stats, func(depth int, key string, _ any) bool {
		if depth > 0 {
			return true
		}
		_, skip := matchMetaKeys[metrics.NormalizeKey(key)]
		return skip
	})
	return stats
}
