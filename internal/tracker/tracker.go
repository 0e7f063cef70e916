package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/bracket-predictor-service/internal/metrics"
	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
	"github.com/cypherlabdev/bracket-predictor-service/internal/store"
)

const (
	dateLayout    = "2006-01-02"
	displayLayout = "Jan 2, 2006"
	// graceWindow bounds the NOT_STARTED and NO_DATA/FINISHED transitions
	// around the event's published dates.
	graceWindow = 24 * time.Hour
)

// Tracker follows one event through its lifecycle: it polls for new match
// data at a bounded cadence, feeds each completed match to the rating engine
// exactly once, and publishes immutable event snapshots for concurrent
// readers. All mutation happens from the poller goroutine; readers only call
// Snapshot and Status.
type Tracker struct {
	code   string
	info   models.EventInfo
	source DataSource
	store  Store
	rater  Rater
	sim    Simulator

	pollInterval time.Duration
	now          func() time.Time

	status        models.EventStatus
	processed     map[string]struct{}
	retrodictions []models.Retrodiction
	lastRefresh   time.Time
	resultsCached bool

	snapshot atomic.Pointer[models.EventSnapshot]

	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// Options holds per-tracker tunables.
type Options struct {
	PollInterval time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// New creates a tracker for one event. The initial status is derived from the
// event metadata alone; the first Refresh fills in match-derived state.
func New(
	info models.EventInfo,
	source DataSource,
	st Store,
	rater Rater,
	sim Simulator,
	opts Options,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Tracker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t := &Tracker{
		code:         info.Code,
		info:         info,
		source:       source,
		store:        st,
		rater:        rater,
		sim:          sim,
		pollInterval: opts.PollInterval,
		now:          now,
		processed:    make(map[string]struct{}),
		metrics:      m,
		logger:       logger.With().Str("component", "event_tracker").Str("event", info.Code).Logger(),
	}

	t.status = t.initialStatus()
	t.snapshot.Store(t.buildSnapshot(nil, nil))
	return t
}

// Code returns the tracked event's code.
func (t *Tracker) Code() string {
	return t.code
}

// Status returns the tracker's current lifecycle state.
func (t *Tracker) Status() models.EventStatus {
	return t.status
}

// Snapshot returns the most recently published event snapshot. Safe for
// concurrent use; the returned snapshot is never mutated after publication.
func (t *Tracker) Snapshot() *models.EventSnapshot {
	return t.snapshot.Load()
}

// initialStatus classifies the event from metadata alone, before any match
// data has been fetched.
func (t *Tracker) initialStatus() models.EventStatus {
	start, _, err := t.eventBounds(t.info)
	if err != nil {
		return models.StatusNoData
	}
	// Before any fetch, an event inside its window has no data yet either;
	// only a future start date is distinguishable from metadata alone.
	if t.now().UTC().Before(start.Add(-graceWindow)) {
		return models.StatusNotStarted
	}
	return models.StatusNoData
}

// eventBounds localizes the event's start and end dates. A missing or
// malformed timezone falls back to UTC rather than failing.
func (t *Tracker) eventBounds(info models.EventInfo) (start, end time.Time, err error) {
	loc := time.UTC
	if info.Timezone != "" {
		if l, lerr := time.LoadLocation(info.Timezone); lerr == nil {
			loc = l
		} else {
			t.logger.Warn().Str("timezone", info.Timezone).Msg("unknown event timezone, using UTC")
		}
	}

	start, err = time.ParseInLocation(dateLayout, info.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad start date %q: %w", info.StartDate, err)
	}
	end, err = time.ParseInLocation(dateLayout, info.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad end date %q: %w", info.EndDate, err)
	}
	// The end date names a day; the event runs through the end of it.
	end = end.Add(24 * time.Hour)
	return start, end, nil
}

// Refresh runs one poll cycle for the event: re-fetch metadata and matches,
// reclassify the lifecycle state, apply newly played matches to the rating
// engine, regenerate predictions, and publish a fresh snapshot atomically.
// A call within the polling interval is a no-op and returns false. On error,
// previously published state stays visible and the refresh timestamp is left
// unchanged so the next cycle retries.
func (t *Tracker) Refresh(ctx context.Context) (bool, error) {
	now := t.now().UTC()
	if !t.lastRefresh.IsZero() && now.Sub(t.lastRefresh) < t.pollInterval {
		return false, nil
	}

	info, err := t.source.EventInfo(ctx, t.code)
	if err != nil {
		return false, fmt.Errorf("failed to refresh event metadata: %w", err)
	}
	t.info = *info

	start, end, err := t.eventBounds(t.info)
	if err != nil {
		return false, err
	}

	matches, err := t.source.EventMatches(ctx, t.code)
	if err != nil {
		return false, fmt.Errorf("failed to refresh event matches: %w", err)
	}
	models.SortMatches(matches)

	prev := t.status
	status := classify(now, start, end, matches)

	applied := t.ingest(matches)

	var upcoming []models.Prediction
	for _, m := range matches {
		if !m.Played() {
			upcoming = append(upcoming, t.predict(m))
		}
	}

	bracket := t.refreshBracket(ctx, status)

	t.status = status
	snap := t.buildSnapshot(upcoming, bracket)
	t.snapshot.Store(snap)

	if prev.InProgress() && !status.InProgress() {
		t.persistResults(ctx, matches)
	}

	if prev != status {
		t.logger.Info().
			Str("from", prev.String()).
			Str("to", status.String()).
			Msg("event status changed")
	}
	if applied > 0 && t.metrics != nil {
		t.metrics.IncRatingUpdates(applied)
	}

	t.lastRefresh = now
	return true, nil
}

// ingest applies every newly observed played match to the rating engine,
// capturing a retrodiction just before each update. The processed-key set
// guarantees at-most-once application per match across repeated polls.
func (t *Tracker) ingest(matches []models.Match) int {
	applied := 0
	for _, m := range matches {
		if !m.Played() {
			continue
		}
		if _, done := t.processed[m.Key]; done {
			continue
		}

		pred := t.predict(m)
		t.rater.Update(m)

		margin := m.Margin()
		outcome := 0.5
		if margin > 0 {
			outcome = 1
		} else if margin < 0 {
			outcome = 0
		}

		t.retrodictions = append(t.retrodictions, models.Retrodiction{
			Prediction:   pred,
			BlueScore:    m.Blue.Score,
			RedScore:     m.Red.Score,
			ActualMargin: margin,
			Outcome:      outcome,
		})
		t.processed[m.Key] = struct{}{}
		applied++
	}
	return applied
}

// predict builds a prediction record for a match from current ratings.
func (t *Tracker) predict(m models.Match) models.Prediction {
	return models.Prediction{
		ID:              uuid.New(),
		MatchKey:        m.Key,
		Tier:            m.Tier,
		MatchNumber:     m.MatchNumber,
		SetNumber:       m.SetNumber,
		Blue:            m.Blue.Teams,
		Red:             m.Red.Teams,
		BlueWinProb:     t.rater.Predict(m.Blue.Teams, m.Red.Teams),
		PredictedMargin: t.rater.PredictMargin(m.Blue.Teams, m.Red.Teams),
	}
}

// refreshBracket re-simulates the elimination bracket while finals are being
// played. Seeding or simulation failures keep the previous forecast visible
// instead of failing the refresh.
func (t *Tracker) refreshBracket(ctx context.Context, status models.EventStatus) []models.BracketForecast {
	carried := t.carriedBracket()
	if status != models.StatusFinalMatches {
		return carried
	}

	seeding, err := t.source.AllianceSeeding(ctx, t.code)
	if err != nil {
		t.logger.Warn().Err(err).Msg("failed to fetch alliance seeding")
		return carried
	}

	forecasts, err := t.sim.Simulate(seeding)
	if err != nil {
		t.logger.Warn().Err(err).Msg("bracket simulation failed")
		return carried
	}

	if t.metrics != nil {
		t.metrics.IncSimulationRuns()
	}
	return forecasts
}

func (t *Tracker) carriedBracket() []models.BracketForecast {
	if prev := t.snapshot.Load(); prev != nil {
		return prev.Bracket
	}
	return nil
}

// persistResults archives the event's final match list once, on leaving an
// in-progress state. Archive errors are logged, not fatal to the refresh.
func (t *Tracker) persistResults(ctx context.Context, matches []models.Match) {
	if t.resultsCached {
		return
	}
	if _, err := t.store.EventMatches(ctx, t.code); err == nil {
		t.resultsCached = true
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		t.logger.Warn().Err(err).Msg("failed to check archived results")
		return
	}

	if err := t.store.SaveEventMatches(ctx, t.code, matches); err != nil {
		t.logger.Warn().Err(err).Msg("failed to archive event results")
		return
	}
	t.resultsCached = true
}

// buildSnapshot assembles the complete externally visible structure in one
// step. Retrodictions are copied so the published snapshot stays immutable
// while the tracker keeps appending.
func (t *Tracker) buildSnapshot(upcoming []models.Prediction, bracket []models.BracketForecast) *models.EventSnapshot {
	retro := make([]models.Retrodiction, len(t.retrodictions))
	copy(retro, t.retrodictions)

	startDate, endDate := t.info.StartDate, t.info.EndDate
	if start, end, err := t.eventBounds(t.info); err == nil {
		startDate = start.Format(displayLayout)
		endDate = end.Add(-24 * time.Hour).Format(displayLayout)
	}

	return &models.EventSnapshot{
		Code:          t.code,
		Name:          t.info.Name,
		Status:        t.status,
		StatusLabel:   t.status.String(),
		StartDate:     startDate,
		EndDate:       endDate,
		Upcoming:      upcoming,
		Retrodictions: retro,
		Bracket:       bracket,
		RefreshedAt:   t.now().UTC(),
	}
}

// classify derives the lifecycle state from the clock, the event bounds, and
// the ordered match list.
func classify(now, start, end time.Time, matches []models.Match) models.EventStatus {
	if now.Before(start.Add(-graceWindow)) {
		return models.StatusNotStarted
	}
	pastEvent := now.After(end.Add(graceWindow))

	if len(matches) == 0 {
		if pastEvent {
			return models.StatusNoData
		}
		return models.StatusPreMatches
	}

	firstUnplayed := -1
	for i, m := range matches {
		if !m.Played() {
			firstUnplayed = i
			break
		}
	}

	switch {
	case firstUnplayed == -1:
		if finalsComplete(matches) || pastEvent {
			return models.StatusFinished
		}
		// Every posted match is played but the bracket has not concluded;
		// further playoff matches are still to be posted.
		return models.StatusFinalMatches
	case firstUnplayed == 0:
		return models.StatusMatchesPosted
	case matches[firstUnplayed].Tier == models.TierQualification:
		return models.StatusQualificationMatches
	default:
		return models.StatusFinalMatches
	}
}

// finalsComplete reports whether a played finals match exists.
func finalsComplete(matches []models.Match) bool {
	for _, m := range matches {
		if m.Tier == models.TierFinals && m.Played() {
			return true
		}
	}
	return false
}
