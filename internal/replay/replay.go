// Package replay bootstraps the rating engine from historical seasons.
package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
	"github.com/cypherlabdev/bracket-predictor-service/internal/rating"
	"github.com/cypherlabdev/bracket-predictor-service/internal/store"
)

// DataSource fetches a whole season's matches when the archive misses.
type DataSource interface {
	YearMatches(ctx context.Context, year int) ([]models.EventMatches, error)
}

// Store archives season match sets and the rating snapshot.
type Store interface {
	YearMatches(ctx context.Context, year int) ([]models.EventMatches, error)
	SaveYearMatches(ctx context.Context, year int, batches []models.EventMatches) error
	LoadSnapshot(ctx context.Context) (*rating.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *rating.Snapshot) error
}

// Config holds replay tunables.
type Config struct {
	StartYear int // first historical season to replay
	// ThroughYear is the last historical season; the engine ends reverted
	// and re-baselined, ready for ThroughYear+1.
	ThroughYear     int
	ReversionTarget float64
	ReversionFactor float64
	InitialStdev    float64
}

// Replayer prepares a rating engine for the current season, preferring a
// persisted snapshot over a full historical replay.
type Replayer struct {
	source DataSource
	store  Store
	engine *rating.Engine
	cfg    Config
	logger zerolog.Logger
}

// NewReplayer creates a replayer.
func NewReplayer(source DataSource, st Store, engine *rating.Engine, cfg Config, logger zerolog.Logger) *Replayer {
	return &Replayer{
		source: source,
		store:  st,
		engine: engine,
		cfg:    cfg,
		logger: logger.With().Str("component", "replayer").Logger(),
	}
}

// Bootstrap restores the engine from a persisted snapshot when one is
// present and readable; otherwise it replays every configured historical
// season and persists a fresh snapshot. An unreadable snapshot is not fatal:
// the documented fallback is the full replay.
func (r *Replayer) Bootstrap(ctx context.Context) error {
	snap, err := r.store.LoadSnapshot(ctx)
	if err == nil {
		if restoreErr := r.engine.Restore(snap); restoreErr == nil {
			r.logger.Info().
				Int("season", snap.Season).
				Int("competitors", len(snap.Ratings)).
				Msg("restored ratings from snapshot")
			return nil
		} else {
			r.logger.Warn().Err(restoreErr).Msg("snapshot unusable, falling back to replay")
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		r.logger.Warn().Err(err).Msg("failed to load snapshot, falling back to replay")
	}

	for year := r.cfg.StartYear; year <= r.cfg.ThroughYear; year++ {
		if err := r.replayYear(ctx, year); err != nil {
			return fmt.Errorf("failed to replay season %d: %w", year, err)
		}
		r.engine.NextYear(r.cfg.ReversionTarget, r.cfg.ReversionFactor, r.cfg.InitialStdev)
	}

	finalSnap := r.engine.Snapshot(r.cfg.ThroughYear)
	if err := r.store.SaveSnapshot(ctx, finalSnap); err != nil {
		// The replayed state is still valid; only startup speed suffers.
		r.logger.Warn().Err(err).Msg("failed to persist rating snapshot")
	}
	return nil
}

// replayYear feeds one season's played matches through the engine in event
// schedule order, archiving the season when it had to be fetched.
func (r *Replayer) replayYear(ctx context.Context, year int) error {
	batches, err := r.store.YearMatches(ctx, year)
	if errors.Is(err, store.ErrNotFound) {
		r.logger.Info().Int("year", year).Msg("season not archived, fetching from data source")
		batches, err = r.source.YearMatches(ctx, year)
		if err != nil {
			return err
		}
		if saveErr := r.store.SaveYearMatches(ctx, year, batches); saveErr != nil {
			r.logger.Warn().Err(saveErr).Int("year", year).Msg("failed to archive season")
		}
	} else if err != nil {
		return err
	}

	applied := 0
	for _, batch := range batches {
		for _, m := range batch.Matches {
			if !m.Played() {
				continue
			}
			r.engine.Update(m)
			applied++
		}
	}

	r.logger.Info().
		Int("year", year).
		Int("events", len(batches)).
		Int("matches", applied).
		Msg("replayed season")
	return nil
}
