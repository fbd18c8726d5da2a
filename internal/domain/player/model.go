package player

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/foot-stats-coach/internal/platform/textnorm"
)

// Position is the closed set of playing roles a record can carry.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
	PositionCoach      Position = "Coach"
	PositionUnknown    Position = "Unknown"
)

var positionAliases = map[string]Position{
	"goalkeeper": PositionGoalkeeper,
	"keeper":     PositionGoalkeeper,
	"gk":         PositionGoalkeeper,
	"g":          PositionGoalkeeper,
	"gardien":    PositionGoalkeeper,
	"defender":   PositionDefender,
	"defence":    PositionDefender,
	"defense":    PositionDefender,
	"def":        PositionDefender,
	"d":          PositionDefender,
	"defenseur":  PositionDefender,
	"midfielder": PositionMidfielder,
	"midfield":   PositionMidfielder,
	"mid":        PositionMidfielder,
	"m":          PositionMidfielder,
	"milieu":     PositionMidfielder,
	"forward":    PositionForward,
	"attacker":   PositionForward,
	"striker":    PositionForward,
	"fwd":        PositionForward,
	"fw":         PositionForward,
	"st":         PositionForward,
	"f":          PositionForward,
	"attaquant":  PositionForward,
	"coach":      PositionCoach,
	"manager":    PositionCoach,
	"entraineur": PositionCoach,
}

// ParsePosition maps free-form position text onto the closed set. Anything
// unrecognised is PositionUnknown.
func ParsePosition(raw string) Position {
	key := strings.TrimSpace(textnorm.Fold(textnorm.RepairText(raw)))
	if key == "" {
		return PositionUnknown
	}
	if pos, ok := positionAliases[key]; ok {
		return pos
	}
	return PositionUnknown
}

// ClubRef is a lookup key into the club set, not an owned copy.
type ClubRef struct {
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	LogoURL         string `json:"logoUrl,omitempty"`
	CompetitionSlug string `json:"competitionSlug,omitempty"`
	CompetitionName string `json:"competitionName,omitempty"`
	Rank            *int   `json:"rank"`
	// Resolved is false when Name is a placeholder derived from Slug.
	Resolved bool `json:"resolved"`
}

type Injury struct {
	ID              string `json:"id,omitempty"`
	Kind            string `json:"kind,omitempty"`
	Status          string `json:"status,omitempty"`
	Details         string `json:"details,omitempty"`
	StartDate       string `json:"startDate,omitempty"`
	ExpectedEndDate string `json:"expectedEndDate,omitempty"`
}

type Suspension struct {
	ID              string   `json:"id,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	Kind            string   `json:"kind,omitempty"`
	Matches         *float64 `json:"matches"`
	StartDate       string   `json:"startDate,omitempty"`
	EndDate         string   `json:"endDate,omitempty"`
	CompetitionSlug string   `json:"competitionSlug,omitempty"`
	CompetitionName string   `json:"competitionName,omitempty"`
}

type Status struct {
	Current             string       `json:"current"`
	IsInjured           bool         `json:"isInjured"`
	IsSuspended         bool         `json:"isSuspended"`
	IsRedCardSuspension bool         `json:"isRedCardSuspension"`
	ActiveInjuries      []Injury     `json:"activeInjuries"`
	ActiveSuspensions   []Suspension `json:"activeSuspensions"`
}

// MatchSummary is one entry of the recent-form timeline.
type MatchSummary struct {
	Date       string             `json:"date"`
	Opponent   string             `json:"opponent,omitempty"`
	Minutes    float64            `json:"minutes"`
	Goals      float64            `json:"goals"`
	Assists    float64            `json:"assists"`
	ScoreIndex float64            `json:"scoreIndex"`
	Stats      map[string]float64 `json:"stats,omitempty"`
}

// RecentForm aggregates a bounded window of recent matches.
type RecentForm struct {
	Matches     int                `json:"matches"`
	Minutes     float64            `json:"minutes"`
	CleanSheets float64            `json:"cleanSheets"`
	Totals      map[string]float64 `json:"totals"`
	Per90       map[string]float64 `json:"per90"`
	Timeline    []MatchSummary     `json:"timeline"`
}

// Record is a normalized player. It is never mutated once a bundle is built.
type Record struct {
	ID              string             `json:"id"`
	Slug            string             `json:"slug"`
	Name            string             `json:"name"`
	Position        Position           `json:"position"`
	Nationality     string             `json:"nationality,omitempty"`
	NationalityCode string             `json:"nationalityCode,omitempty"`
	Age             *float64           `json:"age"`
	PhotoURL        string             `json:"photoUrl,omitempty"`
	Club            ClubRef            `json:"club"`
	Status          Status             `json:"status"`
	SeasonKey       string             `json:"seasonKey"`
	Stats           map[string]float64 `json:"stats"`
	Per90           map[string]float64 `json:"per90"`
	KeyMetrics      map[string]float64 `json:"keyMetrics"`
	Recent          RecentForm         `json:"recent"`
	SearchText      string             `json:"searchText"`
}

// Minutes returns the season minutes when the source carried them.
func (r Record) Minutes() (float64, bool) {
	v, ok := r.Stats["minutes"]
	return v, ok
}

func (r Record) Validate() error {
	if r.Slug == "" {
		return fmt.Errorf("player slug is required")
	}
	if r.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if minutes, ok := r.Minutes(); ok && minutes < 0 {
		return fmt.Errorf("player minutes must be >= 0, got %v", minutes)
	}
	return nil
}
