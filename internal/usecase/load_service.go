package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/dataset"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/datasource"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/cache"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/logging"
	"github.com/riskibarqy/foot-stats-coach/internal/schema"
	"github.com/sourcegraph/conc"
)

const sourceCachePrefix = "source:"

// importThreshold is the minimum score an imported document needs to be used
// as the players or teams input.
const importThreshold = 2.2

type LoadRequest struct {
	Players datasource.Source `validate:"required"`
	// Teams is optional; without it the bundle has no clubs.
	Teams datasource.Source
	Chunk ChunkOptions
}

// ImportResult is the bundle built from user-supplied documents plus which
// documents were picked.
type ImportResult struct {
	Bundle          dataset.Bundle `json:"bundle"`
	PlayersDocument string         `json:"playersDocument"`
	TeamsDocument   string         `json:"teamsDocument"`
}

// ExpectedShape documents the minimal inputs the pipeline recognizes.
type ExpectedShape struct {
	Players string `json:"players"`
	Teams   string `json:"teams"`
}

// LoadService fetches the raw documents, normalizes them and publishes the
// resulting bundle.
type LoadService struct {
	normalizer *NormalizeService
	repo       dataset.Repository
	documents  *cache.Store[any]
	logger     *logging.Logger
	validate   *validator.Validate
}

// NewLoadService wires the loader. A nil documents store disables caching.
func NewLoadService(
	normalizer *NormalizeService,
	repo dataset.Repository,
	documents *cache.Store[any],
	logger *logging.Logger,
) *LoadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LoadService{
		normalizer: normalizer,
		repo:       repo,
		documents:  documents,
		logger:     logger,
		validate:   validator.New(),
	}
}

// Load fetches both sources concurrently and normalizes them on the
// normalizer's worker pool, or inline when every worker is busy. A players
// failure aborts the load; a teams failure only adds a warning.
func (s *LoadService) Load(ctx context.Context, req LoadRequest) (dataset.Bundle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LoadService.Load")
	defer span.End()

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return dataset.Bundle{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var (
		playersRoot, teamsRoot any
		playersErr, teamsErr   error
		wg                     conc.WaitGroup
	)
	wg.Go(func() {
		playersRoot, playersErr = s.fetch(ctx, req.Players)
	})
	if req.Teams != nil {
		wg.Go(func() {
			teamsRoot, teamsErr = s.fetch(ctx, req.Teams)
		})
	}
	wg.Wait()

	if playersErr != nil {
		return dataset.Bundle{}, fmt.Errorf("%w: %s: %w", ErrPlayersUnavailable, req.Players.Name(), playersErr)
	}
	if teamsErr != nil {
		s.logger.WarnContext(ctx, "teams source failed, continuing without clubs",
			"source", req.Teams.Name(),
			"error", teamsErr,
		)
		teamsRoot = nil
	}

	in := NormalizeInput{
		Players:  playersRoot,
		Teams:    teamsRoot,
		TeamsErr: teamsErr,
	}
	var bundle dataset.Bundle
	run, err := s.normalizer.Start(ctx, in, req.Chunk)
	switch {
	case errors.Is(err, ErrDependencyUnavailable):
		s.logger.DebugContext(ctx, "normalization workers busy, normalizing inline", "error", err)
		bundle, err = s.normalizer.NormalizeChunked(ctx, in, req.Chunk)
	case err == nil:
		bundle, err = run.Wait(ctx)
	}
	if err != nil {
		return dataset.Bundle{}, fmt.Errorf("normalize %s: %w", req.Players.Name(), err)
	}
	if err := s.publish(ctx, bundle); err != nil {
		return dataset.Bundle{}, err
	}
	return bundle, nil
}

// Reload forgets cached documents so the next load refetches every source.
func (s *LoadService) Reload(ctx context.Context, req LoadRequest) (dataset.Bundle, error) {
	if s.documents != nil {
		removed := s.documents.DeletePrefix(ctx, sourceCachePrefix)
		s.logger.DebugContext(ctx, "source cache cleared", "entries", removed)
	}
	return s.Load(ctx, req)
}

// Import classifies user-supplied documents and normalizes the strongest
// players and teams candidates. Both must score at least importThreshold.
func (s *LoadService) Import(ctx context.Context, docs []datasource.Document) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LoadService.Import")
	defer span.End()

	if len(docs) < 2 {
		return ImportResult{}, fmt.Errorf("%w: import needs a players and a teams document, got %d", ErrInvalidInput, len(docs))
	}

	var bestPlayers, bestTeams *datasource.Document
	var playersScore, teamsScore float64
	for i := range docs {
		doc := &docs[i]
		result := schema.Classify(doc.Root)
		s.logger.DebugContext(ctx, "document classified",
			"document", doc.Name,
			"kind", string(result.Kind),
			"players_score", result.Players.Score,
			"teams_score", result.Teams.Score,
		)
		switch result.Kind {
		case dataset.KindPlayers:
			if bestPlayers == nil || result.Players.Score > playersScore {
				bestPlayers, playersScore = doc, result.Players.Score
			}
		case dataset.KindTeams:
			if bestTeams == nil || result.Teams.Score > teamsScore {
				bestTeams, teamsScore = doc, result.Teams.Score
			}
		}
	}

	if bestPlayers == nil || playersScore < importThreshold {
		return ImportResult{}, fmt.Errorf("%w: no imported document holds a players array with names and ids", ErrPlayersUnrecognized)
	}
	if bestTeams == nil || teamsScore < importThreshold {
		return ImportResult{}, fmt.Errorf("%w: no imported document holds standings[] with table[] rows", ErrTeamsUnrecognized)
	}

	bundle, err := s.normalizer.Normalize(ctx, NormalizeInput{Players: bestPlayers.Root, Teams: bestTeams.Root})
	if err != nil {
		return ImportResult{}, fmt.Errorf("normalize imported documents: %w", err)
	}
	if err := s.publish(ctx, bundle); err != nil {
		return ImportResult{}, err
	}
	return ImportResult{
		Bundle:          bundle,
		PlayersDocument: bestPlayers.Name,
		TeamsDocument:   bestTeams.Name,
	}, nil
}

// ExpectedShape returns minimal example documents for help output.
func (s *LoadService) ExpectedShape() ExpectedShape {
	return ExpectedShape{
		Players: strings.TrimSpace(`
[
  {
    "id": "player-1",
    "name": "Alex Martin",
    "position": "Midfielder",
    "club_name": "FC Demo",
    "season_sums": { "2024-2025": { "minutes": 820, "accurate_pass": 310, "total_pass": 390 } }
  }
]`),
		Teams: strings.TrimSpace(`
{
  "standings": [
    {
      "competition_slug": "ligue-demo",
      "competition_name": "Ligue Demo",
      "table": [
        { "club_slug": "fc-demo", "club_name": "FC Demo", "rank": 1, "points": 42, "played": 18 }
      ]
    }
  ]
}`),
	}
}

func (s *LoadService) fetch(ctx context.Context, src datasource.Source) (any, error) {
	if s.documents == nil {
		return src.Fetch(ctx)
	}
	return s.documents.GetOrLoad(ctx, sourceCachePrefix+src.Key(), src.Fetch)
}

func (s *LoadService) publish(ctx context.Context, bundle dataset.Bundle) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Replace(ctx, bundle); err != nil {
		return fmt.Errorf("%w: publish bundle: %v", ErrDependencyUnavailable, err)
	}
	return nil
}
