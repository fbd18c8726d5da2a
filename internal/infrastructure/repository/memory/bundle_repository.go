package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/foot-stats-coach/internal/domain/club"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/competition"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/dataset"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
)

// snapshot is one published bundle plus its lookup indexes. It is built once
// and never modified.
type snapshot struct {
	bundle        dataset.Bundle
	playerBySlug  map[string]int
	byClub        map[string][]int
	byCompetition map[string][]int
	clubBySlug    map[string]int
	competitions  map[string]int
}

// BundleRepository keeps the current bundle in memory. Replace swaps the whole
// snapshot, so readers see either the old or the new bundle.
type BundleRepository struct {
	mu      sync.RWMutex
	current *snapshot
}

func NewBundleRepository() *BundleRepository {
	return &BundleRepository{}
}

func (r *BundleRepository) Replace(_ context.Context, bundle dataset.Bundle) error {
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("replace bundle: %w", err)
	}
	next := &snapshot{
		bundle:        bundle,
		playerBySlug:  make(map[string]int, len(bundle.Players)),
		byClub:        make(map[string][]int),
		byCompetition: make(map[string][]int),
		clubBySlug:    make(map[string]int, len(bundle.Clubs)),
		competitions:  make(map[string]int, len(bundle.Competitions)),
	}
	for i, p := range bundle.Players {
		next.playerBySlug[p.Slug] = i
		next.byClub[p.Club.Slug] = append(next.byClub[p.Club.Slug], i)
		next.byCompetition[p.Club.CompetitionSlug] = append(next.byCompetition[p.Club.CompetitionSlug], i)
	}
	for i, c := range bundle.Clubs {
		if _, ok := next.clubBySlug[c.Slug]; !ok {
			next.clubBySlug[c.Slug] = i
		}
	}
	for i, c := range bundle.Competitions {
		next.competitions[c.Slug] = i
	}

	r.mu.Lock()
	r.current = next
	r.mu.Unlock()
	return nil
}

func (r *BundleRepository) Current(_ context.Context) (dataset.Bundle, bool, error) {
	s := r.snapshot()
	if s == nil {
		return dataset.Bundle{}, false, nil
	}
	return s.bundle, true, nil
}

func (r *BundleRepository) PlayerBySlug(_ context.Context, slug string) (player.Record, bool, error) {
	s := r.snapshot()
	if s == nil {
		return player.Record{}, false, nil
	}
	i, ok := s.playerBySlug[slug]
	if !ok {
		return player.Record{}, false, nil
	}
	return s.bundle.Players[i], true, nil
}

func (r *BundleRepository) PlayersByClub(_ context.Context, clubSlug string) ([]player.Record, error) {
	s := r.snapshot()
	if s == nil {
		return []player.Record{}, nil
	}
	return s.players(s.byClub[clubSlug]), nil
}

func (r *BundleRepository) PlayersByCompetition(_ context.Context, competitionSlug string) ([]player.Record, error) {
	s := r.snapshot()
	if s == nil {
		return []player.Record{}, nil
	}
	return s.players(s.byCompetition[competitionSlug]), nil
}

// ClubBySlug returns the first club with slug when it plays in several
// competitions.
func (r *BundleRepository) ClubBySlug(_ context.Context, slug string) (club.Record, bool, error) {
	s := r.snapshot()
	if s == nil {
		return club.Record{}, false, nil
	}
	i, ok := s.clubBySlug[slug]
	if !ok {
		return club.Record{}, false, nil
	}
	return s.bundle.Clubs[i], true, nil
}

func (r *BundleRepository) CompetitionBySlug(_ context.Context, slug string) (competition.Record, bool, error) {
	s := r.snapshot()
	if s == nil {
		return competition.Record{}, false, nil
	}
	i, ok := s.competitions[slug]
	if !ok {
		return competition.Record{}, false, nil
	}
	return s.bundle.Competitions[i], true, nil
}

func (r *BundleRepository) snapshot() *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (s *snapshot) players(indexes []int) []player.Record {
	out := make([]player.Record, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, s.bundle.Players[i])
	}
	return out
}
