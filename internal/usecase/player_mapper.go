package usecase

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/form"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/metrics"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/season"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/standings"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/coerce"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/textnorm"
)

var (
	playerNameKeys        = []string{"name", "player_name", "full_name", "display_name", "known_as"}
	playerIDKeys          = []string{"id", "player_id", "uuid"}
	playerPositionKeys    = []string{"position", "pos", "role", "position_name"}
	playerNationalityKeys = []string{"nationality", "country", "nation", "nationality.name"}
	playerNationCodeKeys  = []string{"nationality_code", "country_code", "nation_code", "nationality.code"}
	playerPhotoKeys       = []string{"photo_url", "photo", "avatar", "image_url", "picture", "image"}

	playerClubSlugKeys        = []string{"club_slug", "club.slug", "team_slug", "team.slug", "club.id", "team.id"}
	playerClubNameKeys        = []string{"club_name", "club.name", "team_name", "team.name"}
	playerClubLogoKeys        = []string{"club_logo", "club.logo_url", "club.logo", "team_logo", "team.logo"}
	playerCompetitionSlugKeys = []string{"competition_slug", "competition.slug", "league_slug", "league.slug"}
	playerCompetitionNameKeys = []string{"competition_name", "competition.name", "league_name", "league.name"}

	statusTextKeys = []string{"status", "player_status", "availability", "current_status"}
	injuredKeys    = []string{"is_injured", "injured", "injury", "status_flags.injured"}
	suspendedKeys  = []string{"is_suspended", "suspended", "status_flags.suspended"}
	fallbackMinute = []string{"minutes", "mins", "total_minutes", "minutes_played", "mins_played"}
)

type playerMapper struct {
	clubs  *standings.Lookup
	window int
	// slugs holds every slug handed out with the last suffix tried for it.
	slugs map[string]int
}

func newPlayerMapper(clubs *standings.Lookup, window int) *playerMapper {
	return &playerMapper{
		clubs:  clubs,
		window: window,
		slugs:  make(map[string]int),
	}
}

// mapPlayer normalizes one raw player. Coaches are reported as not kept.
func (m *playerMapper) mapPlayer(raw map[string]any, index int) (player.Record, bool) {
	position := player.ParsePosition(coerce.PickString(raw, playerPositionKeys...))
	if position == player.PositionCoach {
		return player.Record{}, false
	}

	name := textnorm.RepairText(coerce.PickString(raw, playerNameKeys...))
	if name == "" {
		name = "Player " + strconv.Itoa(index+1)
	}
	slug := coerce.PickString(raw, "slug")
	if slug == "" {
		slug = textnorm.Slugify(name)
	}
	slug = m.uniqueSlug(slug)
	id := coerce.PickString(raw, playerIDKeys...)
	if id == "" {
		id = slug
	}

	selection := season.Resolve(raw)
	seasonData := selection.Data
	if selection.Synthetic {
		seasonData = nil
	}
	stats, per90 := metrics.Extract(raw, seasonData)

	minutes, hasMinutes := season.Minutes(selection.Data, nil)
	if !hasMinutes {
		minutes, hasMinutes = pickStat(stats, fallbackMinute...)
	}
	if hasMinutes {
		if minutes < 0 {
			minutes = 0
		}
		stats["minutes"] = minutes
	}
	metrics.Derive(stats, per90, minutes, hasMinutes)

	matches, _ := season.Matches(selection.Data)
	recent := form.Aggregate(form.Matches(raw), m.window)

	record := player.Record{
		ID:              id,
		Slug:            slug,
		Name:            name,
		Position:        position,
		Nationality:     textnorm.RepairText(coerce.PickString(raw, playerNationalityKeys...)),
		NationalityCode: coerce.PickString(raw, playerNationCodeKeys...),
		PhotoURL:        coerce.PickString(raw, playerPhotoKeys...),
		Club:            m.clubRef(raw),
		Status:          parseStatus(raw),
		SeasonKey:       selection.Key,
		Stats:           stats,
		Per90:           per90,
		KeyMetrics:      metrics.KeyMetrics(per90, recent, minutes, matches),
		Recent:          recent,
	}
	if age, ok := coerce.PickNumber(raw, "age", "player_age"); ok && age >= 0 {
		record.Age = &age
	}
	record.SearchText = textnorm.SearchText(record.Name, record.Club.Name, record.Nationality, string(record.Position))
	return record, true
}

// uniqueSlug suffixes repeated slugs with -2, -3... in input order.
func (m *playerMapper) uniqueSlug(slug string) string {
	if _, taken := m.slugs[slug]; !taken {
		m.slugs[slug] = 1
		return slug
	}
	for n := m.slugs[slug] + 1; ; n++ {
		candidate := slug + "-" + strconv.Itoa(n)
		if _, taken := m.slugs[candidate]; !taken {
			m.slugs[slug] = n
			m.slugs[candidate] = 1
			return candidate
		}
	}
}

func (m *playerMapper) clubRef(raw map[string]any) player.ClubRef {
	rawName := textnorm.RepairText(coerce.PickString(raw, playerClubNameKeys...))
	slug := coerce.PickString(raw, playerClubSlugKeys...)
	if slug == "" {
		slug = textnorm.Slugify(rawName)
	}

	ref := player.ClubRef{
		Slug:            slug,
		Name:            rawName,
		LogoURL:         coerce.PickString(raw, playerClubLogoKeys...),
		CompetitionSlug: coerce.PickString(raw, playerCompetitionSlugKeys...),
		CompetitionName: textnorm.RepairText(coerce.PickString(raw, playerCompetitionNameKeys...)),
		Resolved:        rawName != "",
	}
	ref.Rank = coerce.Rank(coerce.PickNumber(raw, "club_rank", "club.rank", "team.rank"))

	club, found := m.clubs.Find(ref.CompetitionSlug, slug)
	if found {
		if ref.Name == "" {
			ref.Name = club.Name
			ref.Resolved = true
		}
		if ref.LogoURL == "" {
			ref.LogoURL = club.LogoURL
		}
		if ref.CompetitionSlug == "" {
			ref.CompetitionSlug = club.CompetitionSlug
		}
		if ref.CompetitionName == "" {
			ref.CompetitionName = club.CompetitionName
		}
		if ref.Rank == nil {
			ref.Rank = club.Rank
		}
	}
	if ref.Name == "" {
		ref.Name = textnorm.PrettifySlug(slug)
	}
	return ref
}

func parseStatus(raw map[string]any) player.Status {
	status := player.Status{
		ActiveInjuries:    []player.Injury{},
		ActiveSuspensions: []player.Suspension{},
	}

	source := raw
	if obj, ok := coerce.Object(raw["status"]); ok {
		source = obj
		status.Current = strings.ToLower(coerce.PickString(obj, "current", "status", "state"))
	} else {
		status.Current = strings.ToLower(coerce.PickString(raw, statusTextKeys...))
	}

	for _, item := range listOf(source, "active_injuries", "injuries") {
		if obj, ok := coerce.Object(item); ok {
			status.ActiveInjuries = append(status.ActiveInjuries, parseInjury(obj))
		}
	}
	for _, item := range listOf(source, "active_suspensions", "suspensions") {
		if obj, ok := coerce.Object(item); ok {
			status.ActiveSuspensions = append(status.ActiveSuspensions, parseSuspension(obj))
		}
	}

	status.IsInjured = flag(source, injuredKeys) || flag(raw, injuredKeys) || status.Current == "injured"
	status.IsSuspended = flag(source, suspendedKeys) || flag(raw, suspendedKeys) || status.Current == "suspended"
	status.IsRedCardSuspension = flag(source, []string{"is_red_card_suspension", "red_card_suspension"})

	if status.Current == "" {
		switch {
		case status.IsInjured:
			status.Current = "injured"
		case status.IsSuspended:
			status.Current = "suspended"
		default:
			status.Current = "available"
		}
	}
	return status
}

func parseInjury(obj map[string]any) player.Injury {
	return player.Injury{
		ID:              coerce.PickString(obj, "id"),
		Kind:            textnorm.RepairText(coerce.PickString(obj, "kind", "type")),
		Status:          textnorm.RepairText(coerce.PickString(obj, "status")),
		Details:         textnorm.RepairText(coerce.PickString(obj, "details", "description")),
		StartDate:       coerce.PickString(obj, "start_date", "startDate"),
		ExpectedEndDate: coerce.PickString(obj, "expected_end_date", "end_date", "expectedEndDate"),
	}
}

func parseSuspension(obj map[string]any) player.Suspension {
	return player.Suspension{
		ID:              coerce.PickString(obj, "id"),
		Reason:          textnorm.RepairText(coerce.PickString(obj, "reason")),
		Kind:            textnorm.RepairText(coerce.PickString(obj, "kind", "type")),
		Matches:         coerce.Ptr(coerce.PickNumber(obj, "matches", "games")),
		StartDate:       coerce.PickString(obj, "start_date", "startDate"),
		EndDate:         coerce.PickString(obj, "end_date", "endDate"),
		CompetitionSlug: coerce.PickString(obj, "competition_slug", "competitionSlug"),
		CompetitionName: textnorm.RepairText(coerce.PickString(obj, "competition_name", "competitionName")),
	}
}

func listOf(obj map[string]any, keys ...string) []any {
	for _, key := range keys {
		if list, ok := coerce.Array(obj[key]); ok {
			return list
		}
	}
	return nil
}

func flag(obj map[string]any, keys []string) bool {
	value, ok := coerce.PickFirst(obj, keys...)
	if !ok {
		return false
	}
	if _, isObj := value.(map[string]any); isObj {
		// An injury object means the player is injured.
		return true
	}
	return coerce.Bool(value)
}

func pickStat(stats map[string]float64, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := stats[key]; ok {
			return v, true
		}
	}
	return 0, false
}
