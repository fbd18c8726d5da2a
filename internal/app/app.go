package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/foot-stats-coach/external/datasource"
	"github.com/riskibarqy/foot-stats-coach/internal/config"
	"github.com/riskibarqy/foot-stats-coach/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/cache"
	idgen "github.com/riskibarqy/foot-stats-coach/internal/platform/id"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/logging"
	"github.com/riskibarqy/foot-stats-coach/internal/usecase"
)

// App holds the wired services of one process.
type App struct {
	Config       config.Config
	Logger       *logging.Logger
	Repository   *memory.BundleRepository
	Normalizer   *usecase.NormalizeService
	Loader       *usecase.LoadService
	Availability *usecase.AvailabilityService

	httpClient *http.Client
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	normalizer, err := usecase.NewNormalizeService(usecase.NormalizeConfig{
		ChunkSize:    cfg.NormalizeChunkSize,
		RecentWindow: cfg.NormalizeRecentWindow,
		Workers:      cfg.NormalizeWorkers,
	}, idgen.NewRunIDGenerator(), logger)
	if err != nil {
		return nil, fmt.Errorf("create normalize service: %w", err)
	}

	var documents *cache.Store[any]
	if cfg.CacheEnabled {
		documents = cache.NewStore[any](cfg.CacheTTL)
	}

	repo := memory.NewBundleRepository()
	return &App{
		Config:       cfg,
		Logger:       logger,
		Repository:   repo,
		Normalizer:   normalizer,
		Loader:       usecase.NewLoadService(normalizer, repo, documents, logger),
		Availability: usecase.NewAvailabilityService(repo),
		httpClient:   &http.Client{Timeout: cfg.SourceTimeout},
	}, nil
}

// Close releases the normalization worker pool.
func (a *App) Close() {
	a.Normalizer.Close()
}

// LoadRequest builds the sources for one load. Empty locations fall back to
// PLAYERS_JSON_URL and TEAMS_JSON_URL; an empty teams location means no
// teams source.
func (a *App) LoadRequest(playersLocation, teamsLocation string) (usecase.LoadRequest, error) {
	playersLocation = firstNonEmpty(playersLocation, a.Config.PlayersJSONURL)
	teamsLocation = firstNonEmpty(teamsLocation, a.Config.TeamsJSONURL)
	if playersLocation == "" {
		return usecase.LoadRequest{}, fmt.Errorf("%w: players location is required (flag or PLAYERS_JSON_URL)", usecase.ErrInvalidInput)
	}

	players, err := datasource.Open(playersLocation, a.sourceConfig("players"))
	if err != nil {
		return usecase.LoadRequest{}, fmt.Errorf("open players source: %w", err)
	}
	req := usecase.LoadRequest{
		Players: players,
		Chunk:   usecase.ChunkOptions{ChunkSize: a.Config.NormalizeChunkSize},
	}
	if teamsLocation != "" {
		teams, err := datasource.Open(teamsLocation, a.sourceConfig("teams"))
		if err != nil {
			return usecase.LoadRequest{}, fmt.Errorf("open teams source: %w", err)
		}
		req.Teams = teams
	}
	return req, nil
}

func (a *App) sourceConfig(name string) datasource.HTTPConfig {
	return datasource.HTTPConfig{
		HTTPClient:     a.httpClient,
		Name:           name,
		MaxRetries:     a.Config.SourceMaxRetries,
		MaxBytes:       a.Config.SourceMaxBytes,
		Logger:         a.Logger.With("source", name),
		CircuitBreaker: a.Config.SourceCircuitBreaker(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
