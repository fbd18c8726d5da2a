// Package schema locates the players array and the standings structure inside
// JSON documents whose shape is not known in advance.
package schema

import (
	"math"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/dataset"
)

const (
	// PlayersThreshold is the minimum average rubric score for a players array.
	PlayersThreshold = 2.2
	// TeamsThreshold is the minimum average rubric score for a bare club array.
	TeamsThreshold = 2.3

	standingsRowThreshold = 2.5
	standingsScore        = 4.8
	sampleLimit           = 40
	unknownCompetition    = "unknown"
)

var (
	playerNameKeys        = []string{"name", "player_name", "full_name", "fullname", "display_name"}
	playerIDKeys          = []string{"slug", "id", "player_id", "uuid"}
	playerPositionKeys    = []string{"position", "pos", "role"}
	playerClubKeys        = []string{"club", "club_name", "club_slug", "team", "team_name", "team_slug"}
	playerNationalityKeys = []string{"nationality", "country", "nation", "nationality_code"}
	playerSeasonKeys      = []string{"season_sums", "seasons", "stats", "season_stats"}

	clubIdentityKeys = []string{"club_slug", "club_name", "slug", "name", "team_name", "team_slug"}
	clubRankKeys     = []string{"rank", "position", "pos"}
	clubPointsKeys   = []string{"points", "pts"}
	clubMatchKeys    = []string{"played", "matches", "wins", "draws", "losses"}
)

// PlayersReport carries the best players candidate. Players is nil unless
// Found is true.
type PlayersReport struct {
	dataset.Inspection
	Players []any `json:"-"`
}

// TeamsReport carries the standings candidate, always shaped as
// {"standings": [{..., "table": [...]}]} or {"table": [...]}.
type TeamsReport struct {
	dataset.Inspection
	Standings map[string]any `json:"-"`
}

// Classification reports which kind of document a root most resembles.
type Classification struct {
	Kind    dataset.Kind  `json:"kind"`
	Players PlayersReport `json:"players"`
	Teams   TeamsReport   `json:"teams"`
}

// InspectPlayers returns the array whose entries look most like players.
// Ties keep the first candidate in traversal order.
func InspectPlayers(root any) PlayersReport {
	best := PlayersReport{Inspection: dataset.Inspection{Path: rootPath}}
	var bestArray []any

	walk(root, func(path string, node any) bool {
		items, ok := node.([]any)
		if !ok {
			return true
		}
		eval := evaluate(items, scorePlayer)
		if eval.Score > best.Score {
			best.Inspection = dataset.Inspection{
				Found:      eval.Score >= PlayersThreshold,
				Score:      eval.Score,
				Confidence: eval.Confidence,
				Path:       path,
				SampleSize: eval.SampleSize,
			}
			bestArray = items
		}
		return true
	})

	if best.Found {
		best.Players = bestArray
	}
	return best
}

// InspectTeams prefers the first standings-shaped object (or array of
// standings groups) in traversal order and falls back to the best club-like
// array wrapped as a single unknown competition.
func InspectTeams(root any) TeamsReport {
	var standings TeamsReport
	walk(root, func(path string, node any) bool {
		switch value := node.(type) {
		case map[string]any:
			if looksLikeStandingsObject(value) {
				standings = trustedStandings(path, value)
				return false
			}
		case []any:
			if looksLikeStandingsGroups(value) {
				standings = trustedStandings(path, map[string]any{"standings": value})
				return false
			}
		}
		return true
	})
	if standings.Found {
		return standings
	}

	best := TeamsReport{Inspection: dataset.Inspection{Path: rootPath}}
	var bestArray []any
	walk(root, func(path string, node any) bool {
		items, ok := node.([]any)
		if !ok {
			return true
		}
		eval := evaluate(items, scoreClub)
		if eval.Score > best.Score {
			best.Inspection = dataset.Inspection{
				Found:      eval.Score >= TeamsThreshold,
				Score:      eval.Score,
				Confidence: eval.Confidence,
				Path:       path,
				SampleSize: eval.SampleSize,
			}
			bestArray = items
		}
		return true
	})

	if best.Found {
		best.Standings = map[string]any{
			"standings": []any{
				map[string]any{"competition_slug": unknownCompetition, "table": bestArray},
			},
		}
	}
	return best
}

// Classify reports players when a players array was found and outscores the
// teams candidate, teams when only standings were found, unknown otherwise.
func Classify(root any) Classification {
	players := InspectPlayers(root)
	teams := InspectTeams(root)

	out := Classification{Kind: dataset.KindUnknown, Players: players, Teams: teams}
	switch {
	case players.Found && players.Score >= teams.Score:
		out.Kind = dataset.KindPlayers
	case teams.Found:
		out.Kind = dataset.KindTeams
	}
	return out
}

// ExtractPlayers returns the players array or nil when none was found.
func ExtractPlayers(root any) []any {
	return InspectPlayers(root).Players
}

// ExtractStandings returns the standings object or an empty one.
func ExtractStandings(root any) map[string]any {
	report := InspectTeams(root)
	if !report.Found || report.Standings == nil {
		return map[string]any{"standings": []any{}}
	}
	return report.Standings
}

func trustedStandings(path string, obj map[string]any) TeamsReport {
	return TeamsReport{
		Inspection: dataset.Inspection{
			Found:      true,
			Score:      standingsScore,
			Confidence: 1,
			Path:       path,
		},
		Standings: obj,
	}
}

type evaluation struct {
	Score      float64
	Confidence float64
	SampleSize int
}

func evaluate(items []any, score func(map[string]any) float64) evaluation {
	total := 0.0
	sampled := 0
	for _, item := range items {
		if sampled >= sampleLimit {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		total += score(obj)
		sampled++
	}
	if sampled == 0 {
		return evaluation{}
	}

	avg := total / float64(sampled)
	return evaluation{
		Score:      math.Round(avg*1000) / 1000,
		Confidence: math.Min(1, avg/4),
		SampleSize: sampled,
	}
}

func scorePlayer(entry map[string]any) float64 {
	score := 0.0
	if hasAny(entry, playerNameKeys) {
		score += 2
	}
	if hasAny(entry, playerIDKeys) {
		score += 2
	}
	if hasAny(entry, playerPositionKeys) {
		score++
	}
	if hasAny(entry, playerClubKeys) {
		score++
	}
	if hasAny(entry, playerNationalityKeys) {
		score += 0.6
	}
	if hasAny(entry, playerSeasonKeys) {
		score += 0.6
	}
	return score
}

func scoreClub(entry map[string]any) float64 {
	score := 0.0
	if hasAny(entry, clubIdentityKeys) {
		score += 2.2
	}
	if hasAny(entry, clubRankKeys) {
		score++
	}
	if hasAny(entry, clubPointsKeys) {
		score++
	}
	if hasAny(entry, clubMatchKeys) {
		score += 0.8
	}
	return score
}

func looksLikeStandingsObject(obj map[string]any) bool {
	if groups, ok := obj["standings"].([]any); ok {
		return looksLikeStandingsGroups(groups)
	}
	if table, ok := obj["table"].([]any); ok {
		return hasClubRow(table)
	}
	return false
}

func looksLikeStandingsGroups(groups []any) bool {
	for _, group := range groups {
		obj, ok := group.(map[string]any)
		if !ok {
			continue
		}
		if table, ok := obj["table"].([]any); ok && hasClubRow(table) {
			return true
		}
	}
	return false
}

func hasClubRow(rows []any) bool {
	for _, row := range rows {
		if obj, ok := row.(map[string]any); ok && scoreClub(obj) >= standingsRowThreshold {
			return true
		}
	}
	return false
}

func hasAny(obj map[string]any, keys []string) bool {
	for _, key := range keys {
		if value, ok := obj[key]; ok && value != nil {
			return true
		}
	}
	return false
}
