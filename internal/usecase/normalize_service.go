package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/dataset"
	"github.com/riskibarqy/foot-stats-coach/internal/domain/player"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/form"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/quality"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/season"
	"github.com/riskibarqy/foot-stats-coach/internal/normalize/standings"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/coerce"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/id"
	"github.com/riskibarqy/foot-stats-coach/internal/platform/logging"
	"github.com/riskibarqy/foot-stats-coach/internal/schema"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultChunkSize = 200
	defaultWorkers   = 2
)

var generatedAtKeys = []string{"meta.generated_at", "generated_at", "meta.generatedAt"}

type NormalizeConfig struct {
	ChunkSize    int
	RecentWindow int
	Workers      int
}

// NormalizeInput carries the two raw roots of one load. Teams is nil when the
// teams source was unavailable; TeamsErr then explains why.
type NormalizeInput struct {
	Players  any
	Teams    any
	TeamsErr error
}

// Progress is reported after every processed chunk.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

type ChunkOptions struct {
	ChunkSize  int `validate:"omitempty,min=1,max=100000"`
	OnProgress func(Progress)
}

// NormalizeService turns raw player and team documents into a bundle. Every
// run owns its intermediate state, so runs may execute concurrently.
type NormalizeService struct {
	logger    *logging.Logger
	ids       id.Generator
	validate  *validator.Validate
	pool      *ants.Pool
	seq       atomic.Uint64
	chunkSize int
	window    int
	now       func() time.Time
}

func NewNormalizeService(cfg NormalizeConfig, ids id.Generator, logger *logging.Logger) (*NormalizeService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRunIDGenerator()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = form.DefaultWindow
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	pool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &NormalizeService{
		logger:    logger,
		ids:       ids,
		validate:  validator.New(),
		pool:      pool,
		chunkSize: cfg.ChunkSize,
		window:    cfg.RecentWindow,
		now:       time.Now,
	}, nil
}

// Close releases the worker pool used by Start.
func (s *NormalizeService) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Release()
}

// Normalize runs the whole pipeline without yielding.
func (s *NormalizeService) Normalize(ctx context.Context, in NormalizeInput) (dataset.Bundle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.Normalize")
	defer span.End()

	return s.run(ctx, in, 0, nil)
}

// NormalizeChunked maps players in input order, chunk by chunk, reporting
// progress and yielding between chunks. The result equals Normalize.
func (s *NormalizeService) NormalizeChunked(ctx context.Context, in NormalizeInput, opts ChunkOptions) (dataset.Bundle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.NormalizeChunked")
	defer span.End()

	if err := s.validate.StructCtx(ctx, opts); err != nil {
		return dataset.Bundle{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = s.chunkSize
	}
	return s.run(ctx, in, chunkSize, opts.OnProgress)
}

// Run is a normalization executing in the background. Seq increases with
// every Start so callers can discard results of superseded runs.
type Run struct {
	ID  string
	Seq uint64

	done   chan struct{}
	bundle dataset.Bundle
	err    error
}

func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes or ctx ends.
func (r *Run) Wait(ctx context.Context) (dataset.Bundle, error) {
	select {
	case <-r.done:
		return r.bundle, r.err
	case <-ctx.Done():
		return dataset.Bundle{}, ctx.Err()
	}
}

// Start submits a chunked normalization to the worker pool and returns
// without waiting. When every worker is busy it fails with
// ErrDependencyUnavailable. Cancelling ctx stops the run between chunks.
func (s *NormalizeService) Start(ctx context.Context, in NormalizeInput, opts ChunkOptions) (*Run, error) {
	runID, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	run := &Run{
		ID:   runID,
		Seq:  s.seq.Add(1),
		done: make(chan struct{}),
	}

	if err := s.pool.Submit(func() {
		defer close(run.done)
		run.bundle, run.err = s.NormalizeChunked(withRunID(ctx, runID), in, opts)
	}); err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			return nil, fmt.Errorf("%w: all %d normalization workers are busy", ErrDependencyUnavailable, s.pool.Cap())
		}
		return nil, fmt.Errorf("%w: submit normalization: %v", ErrDependencyUnavailable, err)
	}
	return run, nil
}

type runIDKey struct{}

func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func (s *NormalizeService) runID(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDKey{}).(string); ok {
		return runID
	}
	runID, err := s.ids.NewID()
	if err != nil {
		return ""
	}
	return runID
}

func (s *NormalizeService) run(ctx context.Context, in NormalizeInput, chunkSize int, onProgress func(Progress)) (dataset.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Bundle{}, err
	}
	started := s.now()
	runID := s.runID(ctx)

	playersReport := schema.InspectPlayers(in.Players)
	if !playersReport.Found {
		return dataset.Bundle{}, fmt.Errorf("%w: best path=%s score=%.3f",
			ErrPlayersUnrecognized, playersReport.Path, playersReport.Score)
	}

	warnings := make([]string, 0)
	var teamsReport schema.TeamsReport
	switch {
	case in.Teams == nil:
		reason := "teams source missing"
		if in.TeamsErr != nil {
			reason = fmt.Sprintf("teams source unavailable: %v", in.TeamsErr)
		}
		warnings = append(warnings, reason+"; clubs and competitions are empty")
	default:
		teamsReport = schema.InspectTeams(in.Teams)
		if !teamsReport.Found {
			warnings = append(warnings, fmt.Sprintf(
				"teams structure not recognized (best path=%s score=%.3f); clubs and competitions are empty",
				teamsReport.Path, teamsReport.Score))
		}
	}

	var clubs standings.Result
	if teamsReport.Found {
		clubs = standings.Normalize(teamsReport.Standings, in.Teams)
	} else {
		clubs = standings.Normalize(nil, nil)
	}

	players, err := s.mapPlayers(ctx, playersReport.Players, standings.NewLookup(clubs.Clubs), chunkSize, onProgress)
	if err != nil {
		return dataset.Bundle{}, err
	}

	bundle := dataset.Bundle{
		Players:      players,
		Clubs:        clubs.Clubs,
		Competitions: clubs.Competitions,
		SeasonKeys:   seasonKeys(players),
		DataQuality:  quality.Audit(players),
		Meta: dataset.Meta{
			RunID:       runID,
			GeneratedAt: generatedAt(in.Players, in.Teams),
			Warnings:    warnings,
			Players:     playersReport.Inspection,
			Teams:       teamsReport.Inspection,
		},
	}

	s.logger.InfoContext(ctx, "normalization completed",
		"run_id", runID,
		"players", len(bundle.Players),
		"clubs", len(bundle.Clubs),
		"competitions", len(bundle.Competitions),
		"warnings", len(warnings),
		"players_path", playersReport.Path,
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)
	for _, warning := range warnings {
		s.logger.WarnContext(ctx, "normalization warning", "run_id", runID, "warning", warning)
	}
	return bundle, nil
}

// mapPlayers processes raw players in order. With chunkSize > 0 it reports
// progress and yields after each chunk, checking ctx before the next one.
func (s *NormalizeService) mapPlayers(
	ctx context.Context,
	rawPlayers []any,
	clubs *standings.Lookup,
	chunkSize int,
	onProgress func(Progress),
) ([]player.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NormalizeService.mapPlayers")
	defer span.End()
	span.SetAttributes(attribute.Int("players.raw", len(rawPlayers)))

	mapper := newPlayerMapper(clubs, s.window)
	total := len(rawPlayers)
	out := make([]player.Record, 0, total)
	if chunkSize <= 0 {
		chunkSize = max(total, 1)
	}

	for start := 0; start < total; start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+chunkSize, total)
		for i := start; i < end; i++ {
			raw, ok := coerce.Object(rawPlayers[i])
			if !ok {
				continue
			}
			if record, kept := mapper.mapPlayer(raw, i); kept {
				out = append(out, record)
			}
		}
		if onProgress != nil {
			onProgress(Progress{Processed: end, Total: total})
		}
		if end < total {
			runtime.Gosched()
		}
	}
	if total == 0 && onProgress != nil {
		onProgress(Progress{Processed: 0, Total: 0})
	}
	return out, nil
}

// seasonKeys lists the distinct selected seasons, most recent first.
func seasonKeys(players []player.Record) []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, p := range players {
		if p.SeasonKey == "" || p.SeasonKey == season.GlobalKey {
			continue
		}
		if _, ok := seen[p.SeasonKey]; ok {
			continue
		}
		seen[p.SeasonKey] = struct{}{}
		keys = append(keys, p.SeasonKey)
	}
	return season.Rank(keys)
}

func generatedAt(roots ...any) string {
	for _, root := range roots {
		obj, ok := coerce.Object(root)
		if !ok {
			continue
		}
		if value := coerce.PickString(obj, generatedAtKeys...); value != "" {
			return value
		}
	}
	return ""
}
