package coerce

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	t.Parallel()

	ok := map[string]struct {
		in   any
		want float64
	}{
		"float":       {in: 12.5, want: 12.5},
		"int":         {in: 7, want: 7},
		"string":      {in: " 42 ", want: 42},
		"comma":       {in: "3,5", want: 3.5},
		"json number": {in: json.Number("9.25"), want: 9.25},
		"negative":    {in: "-1.5", want: -1.5},
		"zero string": {in: "0", want: 0},
	}
	for name, tc := range ok {
		got, present := Number(tc.in)
		if !present || got != tc.want {
			t.Fatalf("%s: expected %v, got=%v present=%v", name, tc.want, got, present)
		}
	}

	missing := map[string]any{
		"nil":      nil,
		"empty":    "  ",
		"text":     "n/a",
		"bool":     true,
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
		"inf text": "Inf",
		"object":   map[string]any{"a": 1},
		"array":    []any{1},
	}
	for name, in := range missing {
		if _, present := Number(in); present {
			t.Fatalf("%s: expected no value", name)
		}
	}
}

func TestNumberOr(t *testing.T) {
	t.Parallel()

	if got := NumberOr(nil, "x", "2"); got != 2 {
		t.Fatalf("expected first finite candidate=2, got=%v", got)
	}
	if got := NumberOr(nil, ""); got != 0 {
		t.Fatalf("expected default 0, got=%v", got)
	}
}

func TestBool(t *testing.T) {
	t.Parallel()

	for _, in := range []any{true, 1, 2.5, "yes", "Injured", " suspended ", "active", "1", "TRUE"} {
		if !Bool(in) {
			t.Fatalf("expected %v to be true", in)
		}
	}
	for _, in := range []any{false, 0, -1, "no", "", nil, map[string]any{}} {
		if Bool(in) {
			t.Fatalf("expected %v to be false", in)
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	if got := String("  Alex  "); got != "Alex" {
		t.Fatalf("expected trimmed text, got=%q", got)
	}
	if got := String(float64(27)); got != "27" {
		t.Fatalf("expected 27, got=%q", got)
	}
	if got := String(map[string]any{"name": "x"}); got != "" {
		t.Fatalf("expected empty for object, got=%q", got)
	}
}

func TestPickFirst(t *testing.T) {
	t.Parallel()

	obj := map[string]any{
		"name":      "",
		"full_name": nil,
		"player": map[string]any{
			"display_name": "Alex Doe",
		},
		"score": 0,
	}

	value, ok := PickFirst(obj, "name", "full_name", "player.display_name")
	if !ok || value != "Alex Doe" {
		t.Fatalf("expected dotted fallback, got=%v ok=%v", value, ok)
	}
	if _, ok := PickFirst(obj, "missing", "name"); ok {
		t.Fatalf("expected explicit none when no key holds a value")
	}
	if value, ok := PickFirst(obj, "score"); !ok || value != 0 {
		t.Fatalf("expected zero to be a value, got=%v ok=%v", value, ok)
	}
	if n, ok := PickNumber(obj, "name", "score"); !ok || n != 0 {
		t.Fatalf("expected numeric pick=0, got=%v ok=%v", n, ok)
	}
	if got := PickString(obj, "full_name", "player.display_name"); got != "Alex Doe" {
		t.Fatalf("expected picked string, got=%q", got)
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"2024-03-09", "2024-03-09 18:30:00", "2024-03-09T18:30:00Z", "2024-03-09T18:30:00+02:00"} {
		parsed, ok := Time(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if parsed.Year() != 2024 || parsed.Location() != time.UTC {
			t.Fatalf("expected UTC 2024 date for %q, got=%v", raw, parsed)
		}
	}
	for _, raw := range []string{"", "   ", "yesterday", "09/03/2024"} {
		if _, ok := Time(raw); ok {
			t.Fatalf("expected %q not to parse", raw)
		}
	}
}

func TestRank(t *testing.T) {
	t.Parallel()

	if r := Rank(3, true); r == nil || *r != 3 {
		t.Fatalf("expected rank 3, got=%v", r)
	}
	for _, n := range []float64{0, -2, 1.5, math.MaxInt32 + 1, 1e300} {
		if r := Rank(n, true); r != nil {
			t.Fatalf("expected nil rank for %v, got=%d", n, *r)
		}
	}
	if r := Rank(2, false); r != nil {
		t.Fatalf("expected nil rank when absent, got=%d", *r)
	}
}

func TestPickString_SkipsComposites(t *testing.T) {
	t.Parallel()

	obj := map[string]any{
		"competition":      map[string]any{"name": "League"},
		"competition_name": "Premier",
	}
	if got := PickString(obj, "competition", "competition_name"); got != "Premier" {
		t.Fatalf("expected object to be passed over, got=%q", got)
	}
	if got := PickString(obj, "competition.name"); got != "League" {
		t.Fatalf("expected dotted path, got=%q", got)
	}
}
