package rating

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// Params holds the tunables of the rating engine.
type Params struct {
	// KQualification and KPlayoff are the per-tier update gains. A per-call
	// override is available through UpdateWithK.
	KQualification float64
	KPlayoff       float64
	// DefaultRating is assigned to a competitor on first appearance.
	DefaultRating float64
	// InitialStdev seeds the score normalization before enough scores have
	// been observed.
	InitialStdev float64
	// WindowSize bounds the sliding window of recent alliance scores used
	// for the stdev estimate.
	WindowSize int
	// RecomputeEvery throttles stdev recomputation to every Nth update.
	RecomputeEvery int
	// MarginScale converts rating points to standard-normal z units.
	MarginScale float64
}

// Engine maintains one scalar skill rating per competitor and converts rating
// differentials into win probabilities and expected score margins. It is not
// safe for concurrent use; all mutation must come from a single goroutine.
type Engine struct {
	params  Params
	ratings map[string]float64

	stdev   float64
	scores  []float64 // ring buffer of recent alliance scores
	head    int
	updates int

	norm   distuv.Normal
	logger zerolog.Logger
}

// NewEngine creates a rating engine with no known competitors. Degenerate
// tunables are clamped to their minimum usable values so a bad config
// surfaces as skewed output, never as a panic mid-replay.
func NewEngine(params Params, logger zerolog.Logger) *Engine {
	engineLogger := logger.With().Str("component", "rating_engine").Logger()
	if params.RecomputeEvery < 1 {
		engineLogger.Warn().Int("recompute_every", params.RecomputeEvery).Msg("clamping recompute interval to 1")
		params.RecomputeEvery = 1
	}
	if params.WindowSize < 2 {
		engineLogger.Warn().Int("window_size", params.WindowSize).Msg("clamping score window to 2")
		params.WindowSize = 2
	}
	if params.InitialStdev <= 0 {
		engineLogger.Warn().Float64("initial_stdev", params.InitialStdev).Msg("clamping initial stdev to 1")
		params.InitialStdev = 1
	}
	return &Engine{
		params:  params,
		ratings: make(map[string]float64),
		stdev:   params.InitialStdev,
		scores:  make([]float64, 0, params.WindowSize),
		norm:    distuv.Normal{Mu: 0, Sigma: 1},
		logger:  engineLogger,
	}
}

// InitCompetitor registers a competitor at the default rating. It is a no-op
// if the competitor is already known.
func (e *Engine) InitCompetitor(id string) {
	if _, ok := e.ratings[id]; !ok {
		e.ratings[id] = e.params.DefaultRating
	}
}

// SetRating assigns an explicit rating, overwriting any existing one.
func (e *Engine) SetRating(id string, rating float64) {
	e.ratings[id] = rating
}

// Rating returns a competitor's current rating.
func (e *Engine) Rating(id string) (float64, bool) {
	r, ok := e.ratings[id]
	return r, ok
}

// Stdev returns the current score standard deviation estimate.
func (e *Engine) Stdev() float64 {
	return e.stdev
}

// ensure lazily initializes every unseen competitor in the given alliances.
func (e *Engine) ensure(alliances ...[]string) {
	for _, alliance := range alliances {
		for _, id := range alliance {
			e.InitCompetitor(id)
		}
	}
}

func (e *Engine) allianceRating(teams []string) float64 {
	var sum float64
	for _, id := range teams {
		sum += e.ratings[id]
	}
	return sum
}

// Predict returns the probability that the blue alliance beats the red one,
// mapping the rating differential through a standard normal CDF. Unknown
// competitors are initialized to the default rating first; known ratings are
// never mutated.
func (e *Engine) Predict(blue, red []string) float64 {
	e.ensure(blue, red)
	diff := e.allianceRating(blue) - e.allianceRating(red)
	return e.norm.CDF(diff * e.params.MarginScale)
}

// PredictMargin returns the expected blue-minus-red score differential: the
// inverse-CDF of the win probability scaled by the current stdev estimate.
func (e *Engine) PredictMargin(blue, red []string) float64 {
	p := e.Predict(blue, red)
	return e.norm.Quantile(p) * e.stdev
}

// PredictMatch is a convenience wrapper over Predict for a match record.
func (e *Engine) PredictMatch(m models.Match) float64 {
	return e.Predict(m.Blue.Teams, m.Red.Teams)
}

// Update applies the rating correction for a played match using the K factor
// configured for the match's round tier. Not idempotent: the caller must
// guarantee at-most-once application per match key.
func (e *Engine) Update(m models.Match) {
	e.UpdateWithK(m, e.KFor(m.Tier))
}

// KFor returns the configured K factor for a round tier.
func (e *Engine) KFor(tier models.RoundTier) float64 {
	if tier.Playoff() {
		return e.params.KPlayoff
	}
	return e.params.KQualification
}

// UpdateWithK applies the rating correction with an explicit K factor.
func (e *Engine) UpdateWithK(m models.Match, k float64) {
	e.ensure(m.Blue.Teams, m.Red.Teams)

	e.observeScores(float64(m.Blue.Score), float64(m.Red.Score))

	expected := e.PredictMargin(m.Blue.Teams, m.Red.Teams)
	observed := float64(m.Margin())
	delta := k * (observed - expected) / e.stdev

	for _, id := range m.Blue.Teams {
		e.ratings[id] += delta
	}
	for _, id := range m.Red.Teams {
		e.ratings[id] -= delta
	}

	e.logger.Debug().
		Str("match", m.Key).
		Float64("observed_margin", observed).
		Float64("expected_margin", expected).
		Float64("delta", delta).
		Float64("stdev", e.stdev).
		Msg("applied rating update")
}

// observeScores folds both alliance scores into the sliding window and
// recomputes the stdev estimate every RecomputeEvery updates. The throttle is
// purely a cost amortization; it only affects staleness.
func (e *Engine) observeScores(blueScore, redScore float64) {
	e.push(blueScore)
	e.push(redScore)
	e.updates++

	if e.updates%e.params.RecomputeEvery != 0 {
		return
	}
	// Never derive the estimate from fewer than 2 samples.
	if len(e.scores) >= 2 {
		if sd := stat.StdDev(e.scores, nil); sd > 0 {
			e.stdev = sd
		}
	}
}

func (e *Engine) push(score float64) {
	if len(e.scores) < e.params.WindowSize {
		e.scores = append(e.scores, score)
		return
	}
	// Window full: overwrite the oldest sample. Order inside the window is
	// irrelevant to the stdev computation.
	e.scores[e.head] = score
	e.head = (e.head + 1) % e.params.WindowSize
}

// NextYear reverts every rating toward the target by the given factor,
// resets the stdev estimator, and clears the score window. Must be applied
// exactly once between seasons.
func (e *Engine) NextYear(target, factor, newStdev float64) {
	for id, r := range e.ratings {
		e.ratings[id] = r - factor*(r-target)
	}
	e.stdev = newStdev
	e.scores = e.scores[:0]
	e.head = 0
	e.updates = 0

	e.logger.Info().
		Int("competitors", len(e.ratings)).
		Float64("reversion_target", target).
		Float64("reversion_factor", factor).
		Msg("reverted ratings for new season")
}

// Size returns the number of known competitors.
func (e *Engine) Size() int {
	return len(e.ratings)
}
