package standings

import "testing"

func TestNormalize_TablesAndTeamInfo(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"standings": []any{
			map[string]any{
				"competition_slug": "ligue-1",
				"competition_name": "Ligue 1",
				"season_name":      "2023/2024",
				"table": []any{
					map[string]any{"club_slug": "fc-b", "club_name": "FC B", "rank": 2, "goals_for": 10, "goals_against": 12},
					map[string]any{"club_slug": "fc-a", "club_name": "FC Ã‰toile", "rank": "1", "clean_sheet_rate": 0.4},
					map[string]any{"club_slug": "fc-c", "rank": 0},
					"noise",
				},
			},
			map[string]any{
				"competition_name": "Cup",
				"standings":        []any{map[string]any{"name": "Demo Town"}},
			},
		},
	}
	teams := map[string]any{
		"data": []any{
			map[string]any{
				"slug":          "fc-c",
				"name":          "Club C",
				"logo_url":      "https://cdn/c.png",
				"next_fixture":  map[string]any{"date": "2024-05-01", "opponent_slug": "fc-a"},
				"last5_summary": map[string]any{"wins": 3, "clean_sheet_rate": 0.6},
			},
		},
	}

	got := Normalize(doc, teams)
	if len(got.Clubs) != 4 {
		t.Fatalf("expected 4 clubs, got=%d", len(got.Clubs))
	}
	if len(got.Competitions) != 2 || got.Competitions[0].Name != "Cup" {
		t.Fatalf("expected competitions sorted by name, got=%+v", got.Competitions)
	}
	if got.Competitions[1].Slug != "ligue-1" || got.Competitions[1].SeasonName != "2023/2024" {
		t.Fatalf("unexpected competition: %+v", got.Competitions[1])
	}
	if got.Competitions[0].Slug != "competition-2" {
		t.Fatalf("expected positional slug fallback, got=%s", got.Competitions[0].Slug)
	}

	table := got.Competitions[1].Table
	if table[0].Slug != "fc-a" || table[1].Slug != "fc-b" || table[2].Slug != "fc-c" {
		t.Fatalf("expected rank order with unranked last, got=%s,%s,%s", table[0].Slug, table[1].Slug, table[2].Slug)
	}
	if table[0].Name != "FC Étoile" {
		t.Fatalf("expected repaired club name, got=%q", table[0].Name)
	}
	if table[0].CleanSheetRate == nil || *table[0].CleanSheetRate != 40 {
		t.Fatalf("expected clean sheet rate as percentage, got=%v", table[0].CleanSheetRate)
	}
	if table[1].GoalDifference == nil || *table[1].GoalDifference != -2 {
		t.Fatalf("expected derived goal difference, got=%v", table[1].GoalDifference)
	}

	clubC := table[2]
	if clubC.Rank != nil {
		t.Fatalf("expected non-positive rank to be dropped, got=%v", *clubC.Rank)
	}
	if clubC.Name != "Club C" || clubC.LogoURL != "https://cdn/c.png" {
		t.Fatalf("expected team info enrichment, got=%+v", clubC)
	}
	if clubC.NextFixture == nil || clubC.NextFixture.OpponentSlug != "fc-a" {
		t.Fatalf("expected next fixture, got=%+v", clubC.NextFixture)
	}
	if clubC.Recent.Wins == nil || *clubC.Recent.Wins != 3 || *clubC.Recent.CleanSheetRate != 60 {
		t.Fatalf("unexpected recent summary: %+v", clubC.Recent)
	}

	cup := got.Competitions[0].Table
	if len(cup) != 1 || cup[0].Slug != "demo-town" {
		t.Fatalf("expected slug from name, got=%+v", cup)
	}
}

func TestNormalize_DedupeKeepsLowestRank(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"standings": []any{
			map[string]any{
				"competition_slug": "l1",
				"table": []any{
					map[string]any{"club_slug": "x", "rank": 5, "points": 10},
					map[string]any{"club_slug": "x", "rank": 2, "points": 30},
					map[string]any{"club_slug": "x", "points": 99},
				},
			},
		},
	}

	got := Normalize(doc, nil)
	if len(got.Clubs) != 1 {
		t.Fatalf("expected deduplicated club, got=%d", len(got.Clubs))
	}
	if *got.Clubs[0].Rank != 2 || *got.Clubs[0].Points != 30 {
		t.Fatalf("expected best-ranked row, got rank=%d points=%v", *got.Clubs[0].Rank, *got.Clubs[0].Points)
	}
	if got.Clubs[0].Name != "X" {
		t.Fatalf("expected placeholder name from slug, got=%q", got.Clubs[0].Name)
	}
}

func TestNormalize_BareTableAndEmptyInput(t *testing.T) {
	t.Parallel()

	got := Normalize(map[string]any{"table": []any{map[string]any{"club_slug": "solo"}}}, nil)
	if len(got.Competitions) != 1 || got.Competitions[0].Slug != "unknown" {
		t.Fatalf("expected single unknown competition, got=%+v", got.Competitions)
	}

	empty := Normalize(nil, nil)
	if len(empty.Clubs) != 0 || len(empty.Competitions) != 0 {
		t.Fatalf("expected empty result, got=%+v", empty)
	}
}

func TestPercentage_AlwaysScalesRatio(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in, want float64
	}{
		{in: 1, want: 100},
		{in: 0.5, want: 50},
		{in: 0, want: 0},
	} {
		in := tc.in
		got := percentage(&in)
		if got == nil || *got != tc.want {
			t.Fatalf("expected %v for %v, got=%v", tc.want, tc.in, got)
		}
	}
	if percentage(nil) != nil {
		t.Fatalf("expected nil for missing value")
	}
}

func TestLookup_PrefersCompetitionThenSlug(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"standings": []any{
			map[string]any{"competition_slug": "cup", "table": []any{map[string]any{"club_slug": "a", "rank": 4}}},
			map[string]any{"competition_slug": "league", "table": []any{map[string]any{"club_slug": "a", "rank": 1}}},
		},
	}
	lookup := NewLookup(Normalize(doc, nil).Clubs)

	record, ok := lookup.Find("league", "a")
	if !ok || record.CompetitionSlug != "league" {
		t.Fatalf("expected league entry, got=%+v ok=%v", record, ok)
	}
	record, ok = lookup.Find("other", "a")
	if !ok || record.CompetitionSlug != "cup" {
		t.Fatalf("expected first-seen fallback, got=%+v ok=%v", record, ok)
	}
	if _, ok := lookup.Find("", "missing"); ok {
		t.Fatalf("expected miss for unknown slug")
	}
}
