// Package season picks the season sub-object a player's statistics are read
// from.
package season

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/foot-stats-coach/internal/platform/coerce"
)

// GlobalKey is used when a player carries no season entries at all.
const GlobalKey = "global"

var (
	yearPattern      = regexp.MustCompile(`\d{4}`)
	shortYearPattern = regexp.MustCompile(`\d{2}`)
	sKeyPattern      = regexp.MustCompile(`^s\d{1,2}$`)
	shortSpanPattern = regexp.MustCompile(`^\d{2}-\d{2}$`)
)

var containerKeys = []string{
	"season_sums",
	"seasons",
	"stats_by_season",
	"season_stats",
	"statistics_by_season",
	"stats.season_sums",
	"stats.seasons",
	"yearly",
}

var (
	itemKeyFields  = []string{"season", "season_key", "season_name", "key", "id", "name"}
	itemDataFields = []string{"stats", "sums", "totals", "data"}

	minutesFields = []string{
		"minutes",
		"mins",
		"total_minutes",
		"minutes_played",
		"playing_time",
		"stats.minutes",
		"sums.minutes",
		"stats_sum.minutes_played",
		"stats_sum.mins_played",
		"stats_sum.minutes",
	}
	fallbackMinutesFields = []string{"minutes", "mins", "total_minutes", "minutes_played", "mins_played"}
	matchesFields         = []string{
		"matches_played",
		"matches",
		"appearances",
		"games",
		"stats.appearances",
		"stats_sum.appearances",
		"stats_sum.matches_played",
	}
)

// Selection is the season chosen for a player.
type Selection struct {
	Key  string
	Data map[string]any
	// Ranked lists every season key, most recent first.
	Ranked []string
	// Synthetic is true when Key is GlobalKey and Data is the player itself.
	Synthetic bool
}

// Entries collects season sub-objects from the first container that yields
// any, falling back to top-level members whose key looks like a season.
func Entries(raw map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, field := range containerKeys {
		source, ok := coerce.Lookup(raw, field)
		if !ok || source == nil {
			continue
		}
		collect(source, out)
		if len(out) > 0 {
			return out
		}
	}

	for key, value := range raw {
		if !LooksLikeSeasonKey(key) {
			continue
		}
		if obj, ok := coerce.Object(value); ok {
			out[key] = obj
		}
	}
	return out
}

func collect(source any, out map[string]map[string]any) {
	switch value := source.(type) {
	case map[string]any:
		for key, entry := range value {
			if obj, ok := coerce.Object(entry); ok && key != "" {
				out[key] = obj
			}
		}
	case []any:
		for _, item := range value {
			obj, ok := coerce.Object(item)
			if !ok {
				continue
			}
			key := coerce.PickString(obj, itemKeyFields...)
			if key == "" {
				continue
			}
			data := obj
			if nested, ok := coerce.PickFirst(obj, itemDataFields...); ok {
				if nestedObj, isObj := coerce.Object(nested); isObj {
					data = nestedObj
				}
			}
			out[key] = data
		}
	}
}

// LooksLikeSeasonKey matches keys holding a 4-digit year, "sNN", the word
// "season", or "NN-NN".
func LooksLikeSeasonKey(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	return yearPattern.MatchString(normalized) ||
		sKeyPattern.MatchString(normalized) ||
		strings.Contains(normalized, "season") ||
		shortSpanPattern.MatchString(normalized)
}

// SortValue orders season keys: the last 4-digit year, else 2000 plus the
// first 2-digit group, else the code point of the first character. The last
// fallback only keeps ordering deterministic for keys without a year.
func SortValue(key string) int {
	if years := yearPattern.FindAllString(key, -1); len(years) > 0 {
		n, _ := strconv.Atoi(years[len(years)-1])
		return n
	}
	if short := shortYearPattern.FindString(key); short != "" {
		n, _ := strconv.Atoi(short)
		return 2000 + n
	}
	if key == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(key)
	return int(r)
}

// Rank sorts keys most recent first. Equal sort values fall back to the key
// itself, descending, so the order never depends on map iteration.
func Rank(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := SortValue(out[i]), SortValue(out[j])
		if vi != vj {
			return vi > vj
		}
		return out[i] > out[j]
	})
	return out
}

// Resolve selects the most recent season with playing time, else the most
// recent season, else a synthetic global season backed by the raw player.
func Resolve(raw map[string]any) Selection {
	entries := Entries(raw)
	if len(entries) == 0 {
		return Selection{Key: GlobalKey, Data: raw, Synthetic: true}
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	ranked := Rank(keys)

	for _, key := range ranked {
		entry := entries[key]
		if minutes, ok := Minutes(entry, statsOf(entry)); ok && minutes > 0 {
			return Selection{Key: key, Data: entry, Ranked: ranked}
		}
		if matches, ok := Matches(entry); ok && matches > 0 {
			return Selection{Key: key, Data: entry, Ranked: ranked}
		}
	}
	return Selection{Key: ranked[0], Data: entries[ranked[0]], Ranked: ranked}
}

// Minutes reads the minutes played from a season entry, then from fallback.
func Minutes(entry, fallback map[string]any) (float64, bool) {
	if minutes, ok := coerce.PickNumber(entry, minutesFields...); ok {
		return minutes, true
	}
	return coerce.PickNumber(fallback, fallbackMinutesFields...)
}

// Matches reads the number of matches played from a season entry.
func Matches(entry map[string]any) (float64, bool) {
	return coerce.PickNumber(entry, matchesFields...)
}

func statsOf(entry map[string]any) map[string]any {
	for _, key := range []string{"stats", "sums", "stats_sum"} {
		if obj, ok := coerce.Object(entry[key]); ok {
			return obj
		}
	}
	return nil
}
