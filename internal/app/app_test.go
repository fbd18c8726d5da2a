package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/foot-stats-coach/internal/config"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/logging"
	"github.com/riskibarqy/foot-stats-coach/internal/usecase"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                config.EnvDev,
		CacheEnabled:          true,
		CacheTTL:              time.Minute,
		NormalizeChunkSize:    50,
		NormalizeRecentWindow: 5,
		NormalizeWorkers:      1,
	}
}

func writeJSON(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestApp_LoadFromFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	players := writeJSON(t, dir, "players.json", `{"data":[{"name":"A. Dupont","slug":"a-dupont","club_slug":"psg","season_sums":{"2023":{"minutes":900,"stats_sum":{"goals":9}}}}]}`)
	teams := writeJSON(t, dir, "teams.json", `{"standings":[{"competition_slug":"ligue1","competition_name":"Ligue 1","table":[{"club_slug":"psg","club_name":"PSG","rank":1}]}]}`)

	a, err := New(testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	req, err := a.LoadRequest(players, teams)
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	bundle, err := a.Loader.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(bundle.Players) != 1 || bundle.Players[0].Club.Name != "PSG" {
		t.Fatalf("unexpected bundle players: %+v", bundle.Players)
	}

	stored, ok, err := a.Repository.PlayerBySlug(context.Background(), "a-dupont")
	if err != nil || !ok || stored.Stats["goals"] != 9 {
		t.Fatalf("expected published player, got=%+v ok=%v err=%v", stored, ok, err)
	}
}

func TestApp_LoadRequestNeedsPlayers(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if _, err := a.LoadRequest("", ""); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got=%v", err)
	}

	cfg := testConfig()
	cfg.PlayersJSONURL = "https://cdn.example.com/players.json"
	b, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer b.Close()
	req, err := b.LoadRequest("", "")
	if err != nil {
		t.Fatalf("load request: %v", err)
	}
	if req.Teams != nil || req.Players.Name() != "players" {
		t.Fatalf("unexpected request: players=%s teams=%v", req.Players.Name(), req.Teams)
	}
}

func TestApp_LoadDistinguishesFilesWithSameName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a"), 0o755); err != nil {
		t.Fatalf("mkdir a: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "b"), 0o755); err != nil {
		t.Fatalf("mkdir b: %v", err)
	}
	first := writeJSON(t, filepath.Join(root, "a"), "players.json", `[{"name":"Alpha One","club_slug":"psg","minutes":90}]`)
	second := writeJSON(t, filepath.Join(root, "b"), "players.json", `[{"name":"Beta Two","club_slug":"psg","minutes":90}]`)

	a, err := New(testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	for _, tc := range []struct {
		path string
		want string
	}{
		{path: first, want: "Alpha One"},
		{path: second, want: "Beta Two"},
	} {
		req, err := a.LoadRequest(tc.path, "")
		if err != nil {
			t.Fatalf("load request %s: %v", tc.path, err)
		}
		bundle, err := a.Loader.Load(context.Background(), req)
		if err != nil {
			t.Fatalf("load %s: %v", tc.path, err)
		}
		if len(bundle.Players) != 1 || bundle.Players[0].Name != tc.want {
			t.Fatalf("expected %s from %s, got=%+v", tc.want, tc.path, bundle.Players)
		}
	}
}
