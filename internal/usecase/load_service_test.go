package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/dataset"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/datasource"
	datasetmock "github.com/riskibarqy/foot-stats-coach/internal/mocks/domain/dataset"
	sourcemock "github.com/riskibarqy/foot-stats-coach/internal/mocks/domain/datasource"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/cache"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newMockSource(t *testing.T, name string) *sourcemock.Source {
	t.Helper()
	source := sourcemock.NewSource(t)
	source.On("Name").Return(name).Maybe()
	source.On("Key").Return("mock://" + name).Maybe()
	return source
}

func newKeyedMockSource(t *testing.T, name, key string) *sourcemock.Source {
	t.Helper()
	source := sourcemock.NewSource(t)
	source.On("Name").Return(name).Maybe()
	source.On("Key").Return(key).Maybe()
	return source
}

func TestLoadService_LoadPublishesBundle(t *testing.T) {
	t.Parallel()

	players := newMockSource(t, "players")
	teams := newMockSource(t, "teams")
	repo := datasetmock.NewRepository(t)

	players.On("Fetch", mock.Anything).Return(dupontPlayers(), nil).Once()
	teams.On("Fetch", mock.Anything).Return(ligue1Teams(), nil).Once()
	repo.
		On("Replace", mock.Anything, mock.MatchedBy(func(b dataset.Bundle) bool {
			return len(b.Players) == 1 && len(b.Clubs) == 1
		})).
		Return(nil).
		Once()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), repo, nil, logging.NewNop())
	bundle, err := service.Load(context.Background(), LoadRequest{Players: players, Teams: teams})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bundle.Players[0].Club.Name != "PSG" {
		t.Fatalf("unexpected club name %q", bundle.Players[0].Club.Name)
	}
}

func TestLoadService_PlayersFailureAborts(t *testing.T) {
	t.Parallel()

	players := newMockSource(t, "players")
	teams := newMockSource(t, "teams")
	repo := datasetmock.NewRepository(t)

	players.On("Fetch", mock.Anything).Return(nil, errors.New("status=502")).Once()
	teams.On("Fetch", mock.Anything).Return(ligue1Teams(), nil).Once()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), repo, nil, logging.NewNop())
	_, err := service.Load(context.Background(), LoadRequest{Players: players, Teams: teams})
	if !errors.Is(err, ErrPlayersUnavailable) {
		t.Fatalf("expected ErrPlayersUnavailable, got=%v", err)
	}
	if !strings.Contains(err.Error(), "status=502") {
		t.Fatalf("expected cause in error, got=%v", err)
	}
}

func TestLoadService_TeamsFailureDegrades(t *testing.T) {
	t.Parallel()

	players := newMockSource(t, "players")
	teams := newMockSource(t, "teams")
	repo := datasetmock.NewRepository(t)

	players.On("Fetch", mock.Anything).Return(dupontPlayers(), nil).Once()
	teams.On("Fetch", mock.Anything).Return(nil, errors.New("timeout")).Once()
	repo.On("Replace", mock.Anything, mock.Anything).Return(nil).Once()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), repo, nil, logging.NewNop())
	bundle, err := service.Load(context.Background(), LoadRequest{Players: players, Teams: teams})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(bundle.Clubs) != 0 || len(bundle.Meta.Warnings) != 1 {
		t.Fatalf("expected empty clubs with a warning, got clubs=%d warnings=%v", len(bundle.Clubs), bundle.Meta.Warnings)
	}
	if !strings.Contains(bundle.Meta.Warnings[0], "timeout") {
		t.Fatalf("expected cause in warning, got=%q", bundle.Meta.Warnings[0])
	}
}

func TestLoadService_RequiresPlayersSource(t *testing.T) {
	t.Parallel()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), nil, nil, logging.NewNop())
	if _, err := service.Load(context.Background(), LoadRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got=%v", err)
	}
}

func TestLoadService_CachesDocumentsUntilReload(t *testing.T) {
	t.Parallel()

	players := newMockSource(t, "players")
	repo := datasetmock.NewRepository(t)

	players.On("Fetch", mock.Anything).Return(dupontPlayers(), nil).Twice()
	repo.On("Replace", mock.Anything, mock.Anything).Return(nil).Times(3)

	documents := cache.NewStore[any](time.Hour)
	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), repo, documents, logging.NewNop())
	req := LoadRequest{Players: players}

	for range 2 {
		if _, err := service.Load(context.Background(), req); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if _, err := service.Reload(context.Background(), req); err != nil {
		t.Fatalf("reload: %v", err)
	}

	stats := documents.Stats()
	if stats.Hits != 1 || stats.Entries != 1 {
		t.Fatalf("unexpected cache stats: %+v", stats)
	}
}

func TestLoadService_CacheSeparatesSourcesWithSameName(t *testing.T) {
	t.Parallel()

	first := newKeyedMockSource(t, "players.json", "file:///data/a/players.json")
	second := newKeyedMockSource(t, "players.json", "file:///data/b/players.json")
	repo := datasetmock.NewRepository(t)

	first.On("Fetch", mock.Anything).Return(dupontPlayers(), nil).Once()
	second.On("Fetch", mock.Anything).Return(manyPlayers(3), nil).Once()
	repo.On("Replace", mock.Anything, mock.Anything).Return(nil).Twice()

	documents := cache.NewStore[any](time.Hour)
	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), repo, documents, logging.NewNop())

	bundle, err := service.Load(context.Background(), LoadRequest{Players: first})
	if err != nil {
		t.Fatalf("load first: %v", err)
	}
	if len(bundle.Players) != 1 {
		t.Fatalf("expected 1 player from first source, got=%d", len(bundle.Players))
	}

	bundle, err = service.Load(context.Background(), LoadRequest{Players: second})
	if err != nil {
		t.Fatalf("load second: %v", err)
	}
	if len(bundle.Players) != 3 {
		t.Fatalf("expected 3 players from second source, got=%d", len(bundle.Players))
	}
	if stats := documents.Stats(); stats.Hits != 0 || stats.Entries != 2 {
		t.Fatalf("expected two separate cache entries, got=%+v", stats)
	}
}

func TestLoadService_NormalizesInlineWhenWorkersBusy(t *testing.T) {
	t.Parallel()

	normalizer := newTestNormalizer(t, NormalizeConfig{Workers: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	busy, err := normalizer.Start(ctx, NormalizeInput{Players: manyPlayers(4)}, ChunkOptions{
		ChunkSize: 2,
		OnProgress: func(Progress) {
			once.Do(func() { close(started) })
			<-release
		},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	<-started
	defer func() {
		close(release)
		_, _ = busy.Wait(ctx)
	}()

	players := newMockSource(t, "players")
	players.On("Fetch", mock.Anything).Return(dupontPlayers(), nil).Once()

	service := NewLoadService(normalizer, nil, nil, logging.NewNop())
	bundle, err := service.Load(ctx, LoadRequest{Players: players})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(bundle.Players) != 1 {
		t.Fatalf("expected 1 player, got=%d", len(bundle.Players))
	}
}

func TestLoadService_PublishFailure(t *testing.T) {
	t.Parallel()

	players := newMockSource(t, "players")
	repo := datasetmock.NewRepository(t)
	players.On("Fetch", mock.Anything).Return(dupontPlayers(), nil).Once()
	repo.On("Replace", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), repo, nil, logging.NewNop())
	_, err := service.Load(context.Background(), LoadRequest{Players: players})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got=%v", err)
	}
}

func TestLoadService_Import(t *testing.T) {
	t.Parallel()

	repo := datasetmock.NewRepository(t)
	repo.On("Replace", mock.Anything, mock.Anything).Return(nil).Once()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), repo, nil, logging.NewNop())
	result, err := service.Import(context.Background(), []datasource.Document{
		{Name: "standings.json", Root: ligue1Teams()},
		{Name: "notes.json", Root: map[string]any{"note": "hello"}},
		{Name: "players.json", Root: manyPlayers(3)},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.PlayersDocument != "players.json" || result.TeamsDocument != "standings.json" {
		t.Fatalf("unexpected document picks: %+v", result)
	}
	if len(result.Bundle.Players) != 3 || len(result.Bundle.Competitions) != 1 {
		t.Fatalf("unexpected bundle: players=%d competitions=%d", len(result.Bundle.Players), len(result.Bundle.Competitions))
	}
}

func TestLoadService_ImportErrors(t *testing.T) {
	t.Parallel()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), nil, nil, logging.NewNop())
	ctx := context.Background()

	if _, err := service.Import(ctx, []datasource.Document{{Name: "one.json", Root: manyPlayers(1)}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got=%v", err)
	}

	_, err := service.Import(ctx, []datasource.Document{
		{Name: "a.json", Root: manyPlayers(2)},
		{Name: "b.json", Root: manyPlayers(4)},
	})
	if !errors.Is(err, ErrTeamsUnrecognized) {
		t.Fatalf("expected teams unrecognized, got=%v", err)
	}

	_, err = service.Import(ctx, []datasource.Document{
		{Name: "a.json", Root: ligue1Teams()},
		{Name: "b.json", Root: map[string]any{"x": float64(1)}},
	})
	if !errors.Is(err, ErrPlayersUnrecognized) {
		t.Fatalf("expected players unrecognized, got=%v", err)
	}
}

func TestLoadService_ExpectedShapeIsRecognized(t *testing.T) {
	t.Parallel()

	service := NewLoadService(newTestNormalizer(t, NormalizeConfig{}), nil, nil, logging.NewNop())
	shape := service.ExpectedShape()
	if !strings.Contains(shape.Players, "season_sums") || !strings.Contains(shape.Teams, "standings") {
		t.Fatalf("unexpected shape: %+v", shape)
	}
}
