package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/club"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
	datasetmock "github.com/riskibarqy/foot-stats-coach/internal/mocks/domain/dataset"
	"github.com/stretchr/testify/mock"
)

func TestAvailabilityService_NextMatch(t *testing.T) {
	t.Parallel()

	repo := datasetmock.NewRepository(t)
	service := NewAvailabilityService(repo)

	two := float64(2)
	repo.
		On("ClubBySlug", mock.Anything, "psg").
		Return(club.Record{
			Slug:            "psg",
			CompetitionSlug: "ligue1",
			NextFixture:     &club.Fixture{Date: "2025-03-10 20:45:00", OpponentSlug: "om"},
		}, true, nil).
		Once()
	repo.
		On("PlayersByClub", mock.Anything, "psg").
		Return([]player.Record{
			{
				Slug: "zed", Name: "Zed", Position: player.PositionForward,
				Status: player.Status{IsInjured: true, ActiveInjuries: []player.Injury{
					{Kind: "Hamstring", StartDate: "2025-03-01", ExpectedEndDate: "2025-03-10"},
				}},
			},
			{
				Slug: "healed", Name: "Healed",
				Status: player.Status{IsInjured: true, ActiveInjuries: []player.Injury{
					{Kind: "Ankle", StartDate: "2025-02-01", ExpectedEndDate: "2025-03-01"},
				}},
			},
			{
				Slug: "adam", Name: "adam", Position: player.PositionDefender,
				Status: player.Status{IsInjured: true},
			},
			{
				Slug: "cup-ban", Name: "Cup Ban",
				Status: player.Status{IsSuspended: true, ActiveSuspensions: []player.Suspension{
					{Reason: "Red card", CompetitionSlug: "cup", StartDate: "2025-03-01", EndDate: "2025-03-05"},
				}},
			},
			{
				Slug: "banned", Name: "Banned",
				Status: player.Status{IsSuspended: true, ActiveSuspensions: []player.Suspension{
					{Reason: "Yellow cards", CompetitionSlug: "ligue1", Matches: &two},
				}},
			},
			{Slug: "fit", Name: "Fit"},
		}, nil).
		Once()

	got, err := service.NextMatchAvailability(context.Background(), "psg")
	if err != nil {
		t.Fatalf("next match availability: %v", err)
	}

	if len(got.Injured) != 2 || got.Injured[0].Slug != "adam" || got.Injured[1].Slug != "zed" {
		t.Fatalf("unexpected injured list: %+v", got.Injured)
	}
	if got.Injured[1].Reason != "Hamstring" || got.Injured[1].ReturnDate != "2025-03-10" {
		t.Fatalf("unexpected injury entry: %+v", got.Injured[1])
	}
	if len(got.Suspended) != 1 || got.Suspended[0].Slug != "banned" {
		t.Fatalf("unexpected suspended list: %+v", got.Suspended)
	}
	if got.Suspended[0].Matches == nil || *got.Suspended[0].Matches != 2 {
		t.Fatalf("expected suspension matches, got=%+v", got.Suspended[0])
	}
	if got.Total != 3 || got.Fixture == nil || got.Fixture.OpponentSlug != "om" {
		t.Fatalf("unexpected availability: %+v", got)
	}
}

func TestAvailabilityService_NoFixture(t *testing.T) {
	t.Parallel()

	repo := datasetmock.NewRepository(t)
	service := NewAvailabilityService(repo)
	repo.On("ClubBySlug", mock.Anything, "om").Return(club.Record{Slug: "om"}, true, nil).Once()

	got, err := service.NextMatchAvailability(context.Background(), "om")
	if err != nil {
		t.Fatalf("next match availability: %v", err)
	}
	if got.Injured == nil || got.Suspended == nil || got.Total != 0 {
		t.Fatalf("expected empty lists, got=%+v", got)
	}
}

func TestAvailabilityService_Errors(t *testing.T) {
	t.Parallel()

	repo := datasetmock.NewRepository(t)
	service := NewAvailabilityService(repo)

	if _, err := service.NextMatchAvailability(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got=%v", err)
	}

	repo.On("ClubBySlug", mock.Anything, "ghost").Return(club.Record{}, false, nil).Once()
	if _, err := service.NextMatchAvailability(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got=%v", err)
	}
}

func TestDateInRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		target, start, end string
		want               bool
	}{
		{"2025-03-10", "2025-03-01", "2025-03-10", true},
		{"2025-03-10 20:00:00", "", "2025-03-10", true},
		{"2025-03-11", "", "2025-03-10", false},
		{"2025-02-28", "2025-03-01", "", false},
		{"someday", "2025-03-01", "2025-03-02", true},
		{"2025-03-10", "bogus", "bogus", true},
	}
	for _, tc := range cases {
		if got := dateInRange(tc.target, tc.start, tc.end); got != tc.want {
			t.Fatalf("dateInRange(%q, %q, %q): got=%v want=%v", tc.target, tc.start, tc.end, got, tc.want)
		}
	}
}
