// Package standings turns a standings document into club and competition
// records, enriched with per-club team information when it is available.
package standings

import (
	"sort"
	"strconv"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/club"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/competition"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/coerce"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/textnorm"
)

var (
	groupKeys           = []string{"standings", "table"}
	competitionSlugKeys = []string{"competition_slug", "competitionSlug", "slug", "competition.slug", "competition.id"}
	competitionNameKeys = []string{"competition_name", "competitionName", "competition", "name", "competition.name"}
	seasonNameKeys      = []string{"season_name", "seasonName", "season"}
	rowListKeys         = []string{"table", "standings", "rows"}

	clubSlugKeys = []string{"club_slug", "slug", "team_slug", "club.slug", "club.id", "team.slug", "team.id"}
	clubNameKeys = []string{"club_name", "name", "team_name", "club.name", "team.name"}
	clubLogoKeys = []string{"club_logo", "logo_url", "logo", "club.logo_url", "club.logo", "team.logo_url", "team.logo"}

	infoListKeys = []string{"data", "teams", "clubs"}
	infoSlugKeys = []string{"slug", "club_slug", "team_slug", "id"}
)

// Result holds the clubs in encounter order and the competitions sorted by
// name.
type Result struct {
	Clubs        []club.Record
	Competitions []competition.Record
}

type teamInfo struct {
	name        string
	logoURL     string
	lastMatch   *club.Fixture
	nextFixture *club.Fixture
	recent      club.RecentSummary
}

// Normalize reads the standings groups of standingsDoc. teamsRoot is searched
// for per-club information (logo, fixtures, last-five summary); either may be
// nil. A club seen twice in one competition keeps its lowest rank.
func Normalize(standingsDoc map[string]any, teamsRoot any) Result {
	info := indexTeamInfo(teamsRoot)

	clubIndex := make(map[string]int)
	clubs := make([]club.Record, 0)
	competitionIndex := make(map[string]int)
	competitions := make([]competition.Record, 0)

	for i, group := range groups(standingsDoc) {
		compSlug := coerce.PickString(group, competitionSlugKeys...)
		if compSlug == "" {
			compSlug = "competition-" + strconv.Itoa(i+1)
		}
		compName := textnorm.RepairText(coerce.PickString(group, competitionNameKeys...))
		if compName == "" {
			compName = "Competition " + strconv.Itoa(i+1)
		}
		seasonName := coerce.PickString(group, seasonNameKeys...)

		if _, ok := competitionIndex[compSlug]; !ok {
			competitionIndex[compSlug] = len(competitions)
			competitions = append(competitions, competition.Record{
				Slug:       compSlug,
				Name:       compName,
				SeasonName: seasonName,
			})
		}

		for _, item := range rows(group) {
			row, ok := coerce.Object(item)
			if !ok {
				continue
			}
			record := normalizeRow(row, compSlug, compName, seasonName, info)
			key := record.Key()
			if idx, seen := clubIndex[key]; seen {
				if record.Rank != nil && (clubs[idx].Rank == nil || *record.Rank < *clubs[idx].Rank) {
					clubs[idx] = record
				}
				continue
			}
			clubIndex[key] = len(clubs)
			clubs = append(clubs, record)
		}
	}

	for _, record := range clubs {
		idx := competitionIndex[record.CompetitionSlug]
		competitions[idx].Table = append(competitions[idx].Table, record)
	}
	for i := range competitions {
		if competitions[i].Table == nil {
			competitions[i].Table = []club.Record{}
		}
		table := competitions[i].Table
		sort.SliceStable(table, func(a, b int) bool {
			return table[a].RankedBefore(table[b])
		})
	}
	sort.SliceStable(competitions, func(a, b int) bool {
		if competitions[a].Name != competitions[b].Name {
			return competitions[a].Name < competitions[b].Name
		}
		return competitions[a].Slug < competitions[b].Slug
	})

	return Result{Clubs: clubs, Competitions: competitions}
}

func groups(doc map[string]any) []map[string]any {
	out := make([]map[string]any, 0)
	for _, key := range groupKeys {
		list, ok := coerce.Array(doc[key])
		if !ok {
			continue
		}
		if key == "table" {
			// A bare table is a single unnamed competition.
			return []map[string]any{{"competition_slug": "unknown", "table": list}}
		}
		for _, item := range list {
			if group, ok := coerce.Object(item); ok {
				out = append(out, group)
			}
		}
		return out
	}
	return out
}

func rows(group map[string]any) []any {
	for _, key := range rowListKeys {
		if list, ok := coerce.Array(group[key]); ok {
			return list
		}
	}
	return nil
}

func normalizeRow(row map[string]any, compSlug, compName, seasonName string, info map[string]teamInfo) club.Record {
	name := coerce.PickString(row, clubNameKeys...)
	slug := coerce.PickString(row, clubSlugKeys...)
	if slug == "" {
		slug = textnorm.Slugify(textnorm.RepairText(name))
	}
	team := info[slug]
	if name == "" {
		name = team.name
	}
	if name == "" {
		name = textnorm.PrettifySlug(slug)
	}
	logo := coerce.PickString(row, clubLogoKeys...)
	if logo == "" {
		logo = team.logoURL
	}

	goalsFor := number(row, "goals_for", "goals_scored", "gf", "scored")
	goalsAgainst := number(row, "goals_against", "goals_conceded", "ga", "conceded")
	goalDifference := number(row, "goal_difference", "goals_diff", "goal_diff", "gd")
	if goalDifference == nil && goalsFor != nil && goalsAgainst != nil {
		diff := *goalsFor - *goalsAgainst
		goalDifference = &diff
	}

	record := club.Record{
		Slug:            slug,
		Name:            textnorm.RepairText(name),
		LogoURL:         logo,
		CompetitionSlug: compSlug,
		CompetitionName: compName,
		SeasonName:      seasonName,
		Rank:            rank(row),
		Played:          number(row, "played", "matches", "games", "matches_played"),
		Points:          number(row, "points", "pts"),
		Wins:            number(row, "wins", "won", "win"),
		Draws:           number(row, "draws", "draw", "drawn"),
		Losses:          number(row, "losses", "lost", "loss"),
		GoalsFor:        goalsFor,
		GoalsAgainst:    goalsAgainst,
		GoalDifference:  goalDifference,
		CleanSheetRate:  percentage(number(row, "clean_sheet_rate", "clean_sheets_rate")),
		Recent:          team.recent,
		LastMatch:       team.lastMatch,
		NextFixture:     team.nextFixture,
	}
	if summary, ok := coerce.Object(row["last5_summary"]); ok {
		record.Recent = recentSummary(summary)
	}
	if fixture := Fixture(row["last_match"]); fixture != nil {
		record.LastMatch = fixture
	}
	if fixture := Fixture(row["next_fixture"]); fixture != nil {
		record.NextFixture = fixture
	}
	return record
}

func indexTeamInfo(root any) map[string]teamInfo {
	out := make(map[string]teamInfo)
	var list []any
	if arr, ok := coerce.Array(root); ok {
		list = arr
	} else if obj, ok := coerce.Object(root); ok {
		for _, key := range infoListKeys {
			if arr, ok := coerce.Array(obj[key]); ok {
				list = arr
				break
			}
		}
	}

	for _, item := range list {
		entry, ok := coerce.Object(item)
		if !ok {
			continue
		}
		slug := coerce.PickString(entry, infoSlugKeys...)
		if slug == "" {
			continue
		}
		if _, seen := out[slug]; seen {
			continue
		}
		info := teamInfo{
			name:        textnorm.RepairText(coerce.PickString(entry, "name", "club_name", "team_name")),
			logoURL:     coerce.PickString(entry, "logo_url", "logo", "club_logo"),
			lastMatch:   Fixture(entry["last_match"]),
			nextFixture: Fixture(entry["next_fixture"]),
		}
		if summary, ok := coerce.Object(entry["last5_summary"]); ok {
			info.recent = recentSummary(summary)
		}
		out[slug] = info
	}
	return out
}

// Fixture reads a fixture object; anything else yields nil.
func Fixture(value any) *club.Fixture {
	obj, ok := coerce.Object(value)
	if !ok {
		return nil
	}
	return &club.Fixture{
		Date:         coerce.PickString(obj, "date", "match_date", "kickoff_at", "kickoff"),
		OpponentSlug: coerce.PickString(obj, "opponent_slug", "opponentSlug", "opponent.slug"),
		HomeAway:     coerce.PickString(obj, "home_away", "homeAway", "venue"),
		Score:        coerce.PickString(obj, "score", "result"),
	}
}

func recentSummary(obj map[string]any) club.RecentSummary {
	return club.RecentSummary{
		Matches:        number(obj, "matches", "played"),
		Wins:           number(obj, "wins", "won"),
		Draws:          number(obj, "draws", "drawn"),
		Losses:         number(obj, "losses", "lost"),
		Points:         number(obj, "points", "pts"),
		GoalsFor:       number(obj, "goals_for", "gf"),
		GoalsAgainst:   number(obj, "goals_against", "ga"),
		GoalDifference: number(obj, "goal_difference", "gd"),
		CleanSheetRate: percentage(number(obj, "clean_sheet_rate")),
	}
}

func number(obj map[string]any, keys ...string) *float64 {
	return coerce.Ptr(coerce.PickNumber(obj, keys...))
}

// percentage scales a 0..1 ratio to 0..100.
func percentage(value *float64) *float64 {
	if value == nil {
		return nil
	}
	scaled := *value * 100
	return &scaled
}

// rank keeps positive whole ranks only.
func rank(row map[string]any) *int {
	return coerce.Rank(coerce.PickNumber(row, "rank", "position", "pos"))
}
