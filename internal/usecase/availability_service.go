package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/club"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/dataset"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/coerce"
)

// AvailabilityService answers who misses a club's next fixture.
type AvailabilityService struct {
	repo dataset.Repository
}

func NewAvailabilityService(repo dataset.Repository) *AvailabilityService {
	return &AvailabilityService{repo: repo}
}

// NextMatchAvailability lists injured and suspended players whose absence
// covers the club's next fixture. Without a fixture date the lists are empty.
func (s *AvailabilityService) NextMatchAvailability(ctx context.Context, clubSlug string) (club.Availability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AvailabilityService.NextMatchAvailability")
	defer span.End()

	clubSlug = strings.TrimSpace(clubSlug)
	if clubSlug == "" {
		return club.Availability{}, fmt.Errorf("%w: club slug is required", ErrInvalidInput)
	}

	record, exists, err := s.repo.ClubBySlug(ctx, clubSlug)
	if err != nil {
		return club.Availability{}, fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return club.Availability{}, fmt.Errorf("%w: club=%s", ErrNotFound, clubSlug)
	}

	out := club.Availability{
		ClubSlug:  record.Slug,
		Fixture:   record.NextFixture,
		Injured:   []club.AvailabilityEntry{},
		Suspended: []club.AvailabilityEntry{},
	}
	if record.NextFixture == nil || strings.TrimSpace(record.NextFixture.Date) == "" {
		return out, nil
	}
	fixtureDate := record.NextFixture.Date

	players, err := s.repo.PlayersByClub(ctx, record.Slug)
	if err != nil {
		return club.Availability{}, fmt.Errorf("list players by club: %w", err)
	}

	for _, p := range players {
		if p.Status.IsInjured {
			if injury, ok := injuryForFixture(p.Status.ActiveInjuries, fixtureDate); ok {
				out.Injured = append(out.Injured, club.AvailabilityEntry{
					Slug:       p.Slug,
					Name:       p.Name,
					Position:   string(p.Position),
					Reason:     firstNonEmpty(injury.Kind, injury.Details),
					ReturnDate: injury.ExpectedEndDate,
				})
			}
		}
		if p.Status.IsSuspended {
			if suspension, ok := suspensionForFixture(p.Status.ActiveSuspensions, fixtureDate, record.CompetitionSlug); ok {
				out.Suspended = append(out.Suspended, club.AvailabilityEntry{
					Slug:       p.Slug,
					Name:       p.Name,
					Position:   string(p.Position),
					Reason:     firstNonEmpty(suspension.Reason, suspension.Kind),
					ReturnDate: suspension.EndDate,
					Matches:    suspension.Matches,
				})
			}
		}
	}

	sortByName(out.Injured)
	sortByName(out.Suspended)
	out.Total = len(out.Injured) + len(out.Suspended)
	return out, nil
}

// injuryForFixture picks the injury covering fixtureDate, else one without
// any dates. A flagged player with no injury details counts as out.
func injuryForFixture(injuries []player.Injury, fixtureDate string) (player.Injury, bool) {
	if len(injuries) == 0 {
		return player.Injury{}, true
	}
	for _, injury := range injuries {
		if dateInRange(fixtureDate, injury.StartDate, injury.ExpectedEndDate) {
			return injury, true
		}
	}
	for _, injury := range injuries {
		if injury.StartDate == "" && injury.ExpectedEndDate == "" {
			return injury, true
		}
	}
	return player.Injury{}, false
}

// suspensionForFixture prefers suspensions scoped to the club's competition
// or unscoped ones, falling back to all when none match.
func suspensionForFixture(suspensions []player.Suspension, fixtureDate, competitionSlug string) (player.Suspension, bool) {
	if len(suspensions) == 0 {
		return player.Suspension{}, true
	}

	pool := make([]player.Suspension, 0, len(suspensions))
	for _, suspension := range suspensions {
		if suspension.CompetitionSlug == "" || competitionSlug == "" || suspension.CompetitionSlug == competitionSlug {
			pool = append(pool, suspension)
		}
	}
	if len(pool) == 0 {
		pool = suspensions
	}

	for _, suspension := range pool {
		if dateInRange(fixtureDate, suspension.StartDate, suspension.EndDate) {
			return suspension, true
		}
	}
	for _, suspension := range pool {
		if suspension.StartDate == "" && suspension.EndDate == "" {
			return suspension, true
		}
	}
	return player.Suspension{}, false
}

// dateInRange treats unparseable bounds as open.
func dateInRange(target, start, end string) bool {
	at, ok := coerce.Time(target)
	if !ok {
		return true
	}
	if from, ok := coerce.Time(start); ok && at.Before(startOfDay(from)) {
		return false
	}
	if to, ok := coerce.Time(end); ok && at.After(endOfDay(to)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 {
		return t
	}
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

func sortByName(entries []club.AvailabilityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
