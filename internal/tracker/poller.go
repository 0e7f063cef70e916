package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/bracket-predictor-service/internal/metrics"
	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// Poller drives all event trackers from one background goroutine. Each cycle
// it refreshes every tracked event in order, then sleeps for the remainder of
// the target cycle length; an overrunning cycle proceeds immediately. One
// event's failure never halts polling of the others.
type Poller struct {
	mu       sync.RWMutex
	order    []string
	trackers map[string]*Tracker

	cycle     time.Duration
	publisher Publisher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewPoller creates a poller with no tracked events. publisher may be nil.
func NewPoller(cycle time.Duration, publisher Publisher, m *metrics.Metrics, logger zerolog.Logger) *Poller {
	return &Poller{
		trackers:  make(map[string]*Tracker),
		cycle:     cycle,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With().Str("component", "poller").Logger(),
	}
}

// Track registers an event tracker. Re-tracking an already tracked code
// replaces the tracker but keeps its position.
func (p *Poller) Track(t *Tracker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.trackers[t.Code()]; !ok {
		p.order = append(p.order, t.Code())
	}
	p.trackers[t.Code()] = t
	if p.metrics != nil {
		p.metrics.SetTrackedEvents(len(p.trackers))
	}
}

// Tracker returns the tracker for an event code.
func (p *Poller) Tracker(code string) (*Tracker, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.trackers[code]
	return t, ok
}

// Snapshot returns the published snapshot for one event.
func (p *Poller) Snapshot(code string) (*models.EventSnapshot, bool) {
	t, ok := p.Tracker(code)
	if !ok {
		return nil, false
	}
	return t.Snapshot(), true
}

// Snapshots returns all published snapshots in tracking order.
func (p *Poller) Snapshots() []*models.EventSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snaps := make([]*models.EventSnapshot, 0, len(p.order))
	for _, code := range p.order {
		snaps = append(snaps, p.trackers[code].Snapshot())
	}
	return snaps
}

func (p *Poller) list() []*Tracker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ts := make([]*Tracker, 0, len(p.order))
	for _, code := range p.order {
		ts = append(ts, p.trackers[code])
	}
	return ts
}

// Run polls until the context is canceled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Dur("cycle", p.cycle).Msg("poller started")
	for {
		start := time.Now()
		p.cycleOnce(ctx)
		elapsed := time.Since(start)
		if p.metrics != nil {
			p.metrics.ObservePollCycle(elapsed)
		}

		remaining := p.cycle - elapsed
		if remaining <= 0 {
			// Overran the cycle; go straight into the next one.
			select {
			case <-ctx.Done():
				p.logger.Info().Msg("poller stopped")
				return
			default:
				continue
			}
		}

		select {
		case <-ctx.Done():
			p.logger.Info().Msg("poller stopped")
			return
		case <-time.After(remaining):
		}
	}
}

// cycleOnce refreshes every tracked event, publishing snapshots for the ones
// that actually refreshed.
func (p *Poller) cycleOnce(ctx context.Context) {
	for _, t := range p.list() {
		if ctx.Err() != nil {
			return
		}

		refreshed, err := t.Refresh(ctx)
		if err != nil {
			if p.metrics != nil {
				p.metrics.IncRefreshError(t.Code())
			}
			p.logger.Error().Err(err).Str("event", t.Code()).Msg("event refresh failed")
			continue
		}
		if !refreshed {
			continue
		}

		if p.metrics != nil {
			p.metrics.IncRefresh(t.Code())
		}
		if p.publisher != nil {
			if err := p.publisher.PublishSnapshot(ctx, t.Snapshot()); err != nil {
				p.logger.Warn().Err(err).Str("event", t.Code()).Msg("failed to publish snapshot")
			}
		}
	}
}
