package club

import "fmt"

// Fixture is a past or upcoming match attached to a club.
type Fixture struct {
	Date         string `json:"date"`
	OpponentSlug string `json:"opponentSlug,omitempty"`
	HomeAway     string `json:"homeAway,omitempty"`
	Score        string `json:"score,omitempty"`
}

// RecentSummary is the club's last-five aggregate. Missing numbers stay nil.
type RecentSummary struct {
	Matches        *float64 `json:"matches"`
	Wins           *float64 `json:"wins"`
	Draws          *float64 `json:"draws"`
	Losses         *float64 `json:"losses"`
	Points         *float64 `json:"points"`
	GoalsFor       *float64 `json:"goalsFor"`
	GoalsAgainst   *float64 `json:"goalsAgainst"`
	GoalDifference *float64 `json:"goalDifference"`
	CleanSheetRate *float64 `json:"cleanSheetRate"`
}

// Record is one club row inside one competition.
type Record struct {
	Slug            string        `json:"slug"`
	Name            string        `json:"name"`
	LogoURL         string        `json:"logoUrl,omitempty"`
	CompetitionSlug string        `json:"competitionSlug"`
	CompetitionName string        `json:"competitionName"`
	SeasonName      string        `json:"seasonName,omitempty"`
	Rank            *int          `json:"rank"`
	Played          *float64      `json:"played"`
	Points          *float64      `json:"points"`
	Wins            *float64      `json:"wins"`
	Draws           *float64      `json:"draws"`
	Losses          *float64      `json:"losses"`
	GoalsFor        *float64      `json:"goalsFor"`
	GoalsAgainst    *float64      `json:"goalsAgainst"`
	GoalDifference  *float64      `json:"goalDifference"`
	CleanSheetRate  *float64      `json:"cleanSheetRate"`
	Recent          RecentSummary `json:"recent"`
	LastMatch       *Fixture      `json:"lastMatch"`
	NextFixture     *Fixture      `json:"nextFixture"`
}

// Key identifies a club within a competition.
func (r Record) Key() string {
	return r.CompetitionSlug + "::" + r.Slug
}

// RankedBefore orders ranked clubs ascending and unranked clubs last.
func (r Record) RankedBefore(other Record) bool {
	switch {
	case r.Rank == nil:
		return false
	case other.Rank == nil:
		return true
	default:
		return *r.Rank < *other.Rank
	}
}

func (r Record) Validate() error {
	if r.Slug == "" {
		return fmt.Errorf("club slug is required")
	}
	if r.Rank != nil && *r.Rank <= 0 {
		return fmt.Errorf("club rank must be positive, got %d", *r.Rank)
	}
	return nil
}

// AvailabilityEntry is a player missing the next fixture.
type AvailabilityEntry struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	Reason     string   `json:"reason"`
	ReturnDate string   `json:"returnDate,omitempty"`
	Matches    *float64 `json:"matches,omitempty"`
}

// Availability lists injured and suspended players for a club's next fixture.
type Availability struct {
	ClubSlug  string              `json:"clubSlug"`
	Fixture   *Fixture            `json:"fixture"`
	Injured   []AvailabilityEntry `json:"injured"`
	Suspended []AvailabilityEntry `json:"suspended"`
	Total     int                 `json:"total"`
}
