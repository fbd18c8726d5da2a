package textnorm

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Kylian Mbappé":        "kylian-mbappe",
		"  A. Dupont  ":        "a-dupont",
		"Paris Saint-Germain!": "paris-saint-germain",
		"Łukasz Fabiański":     "lukasz-fabianski",
		"Ødegaard":             "odegaard",
		"---":                  "unknown",
		"":                     "unknown",
		"Ligue 1 (2023/24)":    "ligue-1-2023-24",
	}
	for in, want := range cases {
		got := Slugify(in)
		if got != want {
			t.Fatalf("expected slug=%q for %q, got=%q", want, in, got)
		}
		if again := Slugify(got); again != got {
			t.Fatalf("expected idempotent slug for %q, got=%q then %q", in, got, again)
		}
		if Slugify(in) != got {
			t.Fatalf("expected deterministic slug for %q", in)
		}
	}
}

func TestSearchText(t *testing.T) {
	t.Parallel()

	got := SearchText("Kylian  Mbappé", "", "Paris SG", "Forward")
	if got != "kylian mbappe paris sg forward" {
		t.Fatalf("unexpected search text: %q", got)
	}
}

func TestPrettifySlug(t *testing.T) {
	t.Parallel()

	if got := PrettifySlug("fc-demo_city"); got != "Fc Demo City" {
		t.Fatalf("unexpected prettified slug: %q", got)
	}
	if got := PrettifySlug(""); got != "" {
		t.Fatalf("expected empty result, got=%q", got)
	}
}

func TestRepairText_FixesDoubleEncodedNames(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"MbappÃ©":    "Mbappé",
		"MbappÃƒÂ©":  "Mbappé",
		"Ã–degaard":  "Ödegaard",
		"SÃ£o Paulo": "São Paulo",
	}
	for in, want := range cases {
		got := RepairText(in)
		if got != want {
			t.Fatalf("expected %q for %q, got=%q", want, in, got)
		}
		if again := RepairText(got); again != got {
			t.Fatalf("expected idempotent repair for %q, got=%q then %q", in, got, again)
		}
	}
}

func TestRepairText_LeavesCleanTextUntouched(t *testing.T) {
	t.Parallel()

	clean := []string{
		"",
		"Plain ASCII FC",
		"Kylian Mbappé",
		"Müller",
		"Çağlar Söyüncü",
		"Ødegaard",
		"Łukasz Fabiański",
		"日本代表",
		"José Giménez",
	}
	for _, in := range clean {
		if got := RepairText(in); got != in {
			t.Fatalf("expected clean text unchanged, in=%q got=%q", in, got)
		}
	}
}
