package metrics

import "github.com/riskibarqy/foot-stats-coach/internal/domain/player"

// Derived metric names.
const (
	PassAccuracy      = "passAccuracy"
	DuelsWonRate      = "duelsWonRate"
	DuelsTotal        = "duelsTotal"
	TackleSuccessRate = "tackleSuccessRate"
	DecisiveActions   = "decisiveActions"
)

// RateMetrics are never scaled to per-90: minutes counters plus metrics that
// already are ratios or percentages.
var RateMetrics = map[string]struct{}{
	"minutes":                  {},
	"mins":                     {},
	"mins_played":              {},
	"minutes_played":           {},
	"total_minutes":            {},
	"playing_time":             {},
	PassAccuracy:               {},
	DuelsWonRate:               {},
	TackleSuccessRate:          {},
	"pass_accuracy":            {},
	"passes_accuracy":          {},
	"accurate_pass_percentage": {},
	"shot_accuracy":            {},
	"shots_accuracy":           {},
	"conversion_rate":          {},
	"duels_won_rate":           {},
	"aerial_won_rate":          {},
	"tackle_success_rate":      {},
	"dribble_success_rate":     {},
	"clean_sheet_rate":         {},
	"win_rate":                 {},
	"rating":                   {},
	"avg_rating":               {},
	"average_rating":           {},
	"minutes_per_goal":         {},
	"goals_per_match":          {},
	"xg_per_shot":              {},
}

var (
	accuratePassKeys = []string{"accurate_pass", "passes_accurate", "successful_passes", "accurate_passes"}
	totalPassKeys    = []string{"total_pass", "passes_total", "attempted_passes", "total_passes"}
	missedPassKeys   = []string{"missed_pass", "passes_missed", "inaccurate_passes"}
	duelWonKeys      = []string{"duel_won", "duels_won"}
	duelLostKeys     = []string{"duel_lost", "duels_lost"}
	tackleWonKeys    = []string{"won_tackle", "tackles_won"}
	tackleTotalKeys  = []string{"total_tackle", "tackles_total", "tackles"}
	decisiveKeys     = []string{"pen_area_entries", "successful_final_third_passes", "won_contest"}
)

// Derive adds rates and composites to stats, then fills per90 from stats when
// no native per-90 source was present and minutes are positive. A rate whose
// inputs are missing is left absent rather than stored as zero.
func Derive(stats, per90 map[string]float64, minutes float64, hasMinutes bool) {
	if accurate, ok := first(stats, accuratePassKeys); ok {
		if total, ok := first(stats, totalPassKeys); ok && total > 0 {
			stats[PassAccuracy] = accurate / total
		} else if missed, ok := first(stats, missedPassKeys); ok && accurate+missed > 0 {
			stats[PassAccuracy] = accurate / (accurate + missed)
		}
	}

	won, hasWon := first(stats, duelWonKeys)
	lost, hasLost := first(stats, duelLostKeys)
	if hasWon && hasLost {
		stats[DuelsTotal] = won + lost
		if won+lost > 0 {
			stats[DuelsWonRate] = won / (won + lost)
		}
	}

	if tacklesWon, ok := first(stats, tackleWonKeys); ok {
		if tackles, ok := first(stats, tackleTotalKeys); ok && tackles > 0 {
			stats[TackleSuccessRate] = tacklesWon / tackles
		}
	}

	setDecisive(stats)

	if len(per90) == 0 && hasMinutes && minutes > 0 {
		for key, value := range stats {
			if _, skip := RateMetrics[key]; skip {
				continue
			}
			per90[key] = value / minutes * 90
		}
	}
	setDecisive(per90)
}

// Per90 scales a total to a 90-minute rate; it reports false without minutes.
func Per90(total, minutes float64) (float64, bool) {
	if minutes <= 0 {
		return 0, false
	}
	return total / minutes * 90, true
}

func setDecisive(values map[string]float64) {
	if _, exists := values[DecisiveActions]; exists {
		return
	}
	sum := 0.0
	found := false
	for _, key := range decisiveKeys {
		if v, ok := values[key]; ok {
			sum += v
			found = true
		}
	}
	if found {
		values[DecisiveActions] = sum
	}
}

func first(values map[string]float64, keys []string) (float64, bool) {
	for _, key := range keys {
		if v, ok := values[key]; ok {
			return v, true
		}
	}
	return 0, false
}

// Key metric names shown on player cards.
const (
	KeyGoalsP90            = "goalsP90"
	KeyAssistsP90          = "assistsP90"
	KeyContributionsP90    = "contributionsP90"
	KeyShotsP90            = "shotsP90"
	KeyShotsOnTargetP90    = "shotsOnTargetP90"
	KeyPassesP90           = "passesP90"
	KeyPassAccuracy        = "passAccuracy"
	KeyFinalThirdPassesP90 = "finalThirdPassesP90"
	KeyTacklesWonP90       = "tacklesWonP90"
	KeyInterceptionsP90    = "interceptionsP90"
	KeyDuelsWonP90         = "duelsWonP90"
	KeySavesP90            = "savesP90"
	KeyGoalsConcededP90    = "goalsConcededP90"
	KeyCleanSheetsRate5    = "cleanSheetsRate5"
)

// Season per-90 values are trusted over the recent window once a player has
// this much season playing time.
const (
	seasonCoreMinutes = 180
	seasonCoreMatches = 3
)

// KeyMetrics builds the display KPIs. Unlike the stats maps these default to
// zero, since they are rendered as numbers rather than used for computation.
func KeyMetrics(seasonPer90 map[string]float64, recent player.RecentForm, seasonMinutes, seasonMatches float64) map[string]float64 {
	useSeason := seasonMinutes >= seasonCoreMinutes || seasonMatches >= seasonCoreMatches
	preferred := func(key string) float64 {
		if useSeason {
			return pick(key, seasonPer90, recent.Per90)
		}
		return pick(key, recent.Per90, seasonPer90)
	}
	recentFirst := func(key string) float64 {
		return pick(key, recent.Per90, seasonPer90)
	}

	goals := preferred("goals")
	assists := preferred("assists")
	passes := recentFirst("accurate_pass")
	missed := recentFirst("missed_pass")

	passAccuracy := 0.0
	if passes+missed > 0 {
		passAccuracy = passes * 100 / (passes + missed)
	}
	cleanSheetsRate := 0.0
	if recent.Matches > 0 {
		cleanSheetsRate = recent.CleanSheets / float64(recent.Matches) * 100
	}

	return map[string]float64{
		KeyGoalsP90:            goals,
		KeyAssistsP90:          assists,
		KeyContributionsP90:    goals + assists,
		KeyShotsP90:            recentFirst("total_scoring_att"),
		KeyShotsOnTargetP90:    recentFirst("ontarget_scoring_att"),
		KeyPassesP90:           passes,
		KeyPassAccuracy:        passAccuracy,
		KeyFinalThirdPassesP90: recentFirst("successful_final_third_passes"),
		KeyTacklesWonP90:       recentFirst("won_tackle"),
		KeyInterceptionsP90:    recentFirst("interception_won"),
		KeyDuelsWonP90:         recentFirst("duel_won"),
		KeySavesP90:            recentFirst("saves"),
		KeyGoalsConcededP90:    recentFirst("goals_conceded"),
		KeyCleanSheetsRate5:    cleanSheetsRate,
	}
}

func pick(key string, sources ...map[string]float64) float64 {
	for _, source := range sources {
		if v, ok := source[key]; ok {
			return v
		}
	}
	return 0
}
