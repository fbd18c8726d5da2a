// Package metrics flattens nested statistic containers into one metric
// namespace and derives rates and per-90 values from it.
package metrics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/riskibarqy/foot-stats-coach/internal/normalize/season"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/coerce"
)

// MaxDepth bounds how far below a container Flatten descends.
const MaxDepth = 2

var (
	nonWordPattern = regexp.MustCompile(`[^\w]+`)
	underscores    = regexp.MustCompile(`_+`)
	per90Suffix    = regexp.MustCompile(`_per_?90$`)
)

// Prefixes removed by Unprefix, longest first.
var namespacePrefixes = []string{"stats_sum_", "stats_", "sums_", "totals_"}

var (
	statContainers  = []string{"stats", "sums", "totals", "stats_sum"}
	per90Containers = []string{"per90", "stats_per90", "per_90"}
)

// Keys of a whole player or season record that never hold season totals.
var recordSkipKeys = map[string]struct{}{
	"per90":                {},
	"stats_per90":          {},
	"per_90":               {},
	"stats":                {},
	"sums":                 {},
	"totals":               {},
	"stats_sum":            {},
	"season_sums":          {},
	"seasons":              {},
	"stats_by_season":      {},
	"season_stats":         {},
	"statistics_by_season": {},
	"yearly":               {},
	"last5_matches":        {},
	"last_matches":         {},
	"recent_matches":       {},
	"last5":                {},
	"last5_summary":        {},
	"form":                 {},
	"status":               {},
	"status_flags":         {},
	"club":                 {},
	"team":                 {},
	"competition":          {},
	"league":               {},
	"meta":                 {},
	"age":                  {},
	"player_age":           {},
	"rank":                 {},
	"club_rank":            {},
	"shirt_number":         {},
	"jersey_number":        {},
	"height":               {},
	"weight":               {},
}

// NormalizeKey lowercases a raw key and collapses non-word runs into single
// underscores.
func NormalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = nonWordPattern.ReplaceAllString(key, "_")
	key = underscores.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// SkipFunc reports whether a member of a container should be left out.
type SkipFunc func(depth int, key string, value any) bool

// Flatten copies every finite numeric leaf of source into out under an
// underscore-joined key. Existing keys in out are never overwritten.
// Identifier keys ("id", "*_id") are dropped.
func Flatten(source map[string]any, prefix string, out map[string]float64, skip SkipFunc) {
	flatten(source, prefix, out, 0, skip)
}

func flatten(source map[string]any, prefix string, out map[string]float64, depth int, skip SkipFunc) {
	if source == nil || depth > MaxDepth {
		return
	}
	for _, key := range sortedKeys(source) {
		value := source[key]
		if skip != nil && skip(depth, key, value) {
			continue
		}
		full := key
		if prefix != "" {
			full = prefix + "_" + key
		}
		full = NormalizeKey(full)
		if full == "" || full == "id" || strings.HasSuffix(full, "_id") {
			continue
		}
		if n, ok := coerce.Number(value); ok {
			if _, exists := out[full]; !exists {
				out[full] = n
			}
			continue
		}
		if obj, ok := coerce.Object(value); ok {
			flatten(obj, full, out, depth+1, skip)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Unprefix adds "goals" for "stats_sum_goals" (and the other namespace
// prefixes) when "goals" is not already present.
func Unprefix(out map[string]float64) {
	keys := sortedKeys(out)
	for _, prefix := range namespacePrefixes {
		for _, key := range keys {
			base, ok := strings.CutPrefix(key, prefix)
			if !ok || base == "" {
				continue
			}
			if _, exists := out[base]; !exists {
				out[base] = out[key]
			}
		}
	}
}

// skipStatsMember keeps per-90 values and non-stat record members out of the
// totals map.
func skipStatsMember(wholeRecord bool) SkipFunc {
	return func(depth int, key string, value any) bool {
		normalized := NormalizeKey(key)
		if per90Suffix.MatchString(normalized) {
			return true
		}
		for _, name := range per90Containers {
			if normalized == name {
				return true
			}
		}
		if !wholeRecord || depth > 0 {
			return false
		}
		if _, skip := recordSkipKeys[normalized]; skip {
			return true
		}
		if _, isObj := value.(map[string]any); isObj && season.LooksLikeSeasonKey(key) {
			return true
		}
		return false
	}
}

// Extract builds the totals and per-90 maps for a player from the selected
// season, in precedence order: season containers, the season record, player
// containers, then the player record.
func Extract(raw map[string]any, seasonData map[string]any) (map[string]float64, map[string]float64) {
	stats := make(map[string]float64)
	per90 := make(map[string]float64)

	for _, record := range []map[string]any{seasonData, raw} {
		for _, name := range statContainers {
			if obj, ok := coerce.Object(record[name]); ok {
				Flatten(obj, "", stats, skipStatsMember(false))
			}
		}
		Flatten(record, "", stats, skipStatsMember(true))
	}
	Unprefix(stats)

	per90Sources := make([]map[string]any, 0, 7)
	for _, record := range []map[string]any{seasonData, raw} {
		for _, name := range per90Containers {
			if obj, ok := coerce.Object(record[name]); ok {
				per90Sources = append(per90Sources, obj)
			}
		}
	}
	if nested, ok := coerce.Lookup(raw, "stats.per90"); ok {
		if obj, isObj := coerce.Object(nested); isObj {
			per90Sources = append(per90Sources, obj)
		}
	}
	for _, source := range per90Sources {
		Flatten(source, "", per90, nil)
	}

	for _, key := range sortedKeys(raw) {
		value := raw[key]
		normalized := NormalizeKey(key)
		if !per90Suffix.MatchString(normalized) {
			continue
		}
		n, ok := coerce.Number(value)
		if !ok {
			continue
		}
		target := per90Suffix.ReplaceAllString(normalized, "")
		if _, exists := per90[target]; target != "" && !exists {
			per90[target] = n
		}
	}
	Unprefix(per90)

	return stats, per90
}
