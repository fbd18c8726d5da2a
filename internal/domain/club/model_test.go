package club

import (
	"sort"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestRankedBeforeSortsUnrankedLast(t *testing.T) {
	t.Parallel()

	table := []Record{
		{Slug: "c", Rank: nil},
		{Slug: "b", Rank: intPtr(2)},
		{Slug: "a", Rank: intPtr(1)},
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].RankedBefore(table[j]) })

	got := table[0].Slug + table[1].Slug + table[2].Slug
	if got != "abc" {
		t.Fatalf("expected order abc, got=%s", got)
	}
}

func TestRecordKeyAndValidate(t *testing.T) {
	t.Parallel()

	rec := Record{Slug: "psg", CompetitionSlug: "ligue-1", Rank: intPtr(1)}
	if rec.Key() != "ligue-1::psg" {
		t.Fatalf("expected key ligue-1::psg, got=%s", rec.Key())
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("expected valid club, got=%v", err)
	}
	if err := (Record{Slug: "psg", Rank: intPtr(0)}).Validate(); err == nil {
		t.Fatalf("expected zero rank to be rejected")
	}
	if err := (Record{}).Validate(); err == nil {
		t.Fatalf("expected missing slug to be rejected")
	}
}
