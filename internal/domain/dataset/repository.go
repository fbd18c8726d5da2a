package dataset

import (
	"context"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/club"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/competition"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
)

// Repository holds the current bundle and answers lookups against it.
type Repository interface {
	Replace(ctx context.Context, bundle Bundle) error
	Current(ctx context.Context) (Bundle, bool, error)
	PlayerBySlug(ctx context.Context, slug string) (player.Record, bool, error)
	PlayersByClub(ctx context.Context, clubSlug string) ([]player.Record, error)
	PlayersByCompetition(ctx context.Context, competitionSlug string) ([]player.Record, error)
	ClubBySlug(ctx context.Context, slug string) (club.Record, bool, error)
	CompetitionBySlug(ctx context.Context, slug string) (competition.Record, bool, error)
}
