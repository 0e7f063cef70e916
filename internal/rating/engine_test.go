package rating

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// defaultTestParams returns the production defaults used across tests.
func defaultTestParams() Params {
	return Params{
		KQualification: 15,
		KPlayoff:       5,
		DefaultRating:  1350,
		InitialStdev:   20,
		WindowSize:     800,
		RecomputeEvery: 100,
		MarginScale:    0.004,
	}
}

func setupTestEngine() *Engine {
	return NewEngine(defaultTestParams(), zerolog.Nop())
}

func qualMatch(key string, blue []string, blueScore int, red []string, redScore int) models.Match {
	return models.Match{
		Key:         key,
		Tier:        models.TierQualification,
		MatchNumber: 1,
		SetNumber:   1,
		Blue:        models.AllianceScore{Teams: blue, Score: blueScore},
		Red:         models.AllianceScore{Teams: red, Score: redScore},
	}
}

func TestInitCompetitor_Idempotent(t *testing.T) {
	engine := setupTestEngine()

	engine.InitCompetitor("frc254")
	r, ok := engine.Rating("frc254")
	require.True(t, ok)
	assert.Equal(t, 1350.0, r)

	engine.SetRating("frc254", 1500)
	engine.InitCompetitor("frc254") // must not reset
	r, _ = engine.Rating("frc254")
	assert.Equal(t, 1500.0, r)
}

func TestPredict_LazyInit(t *testing.T) {
	engine := setupTestEngine()

	p := engine.Predict([]string{"frc1"}, []string{"frc2"})
	assert.InDelta(t, 0.5, p, 1e-12)

	// Both competitors were initialized as a side effect.
	_, ok := engine.Rating("frc1")
	assert.True(t, ok)
	_, ok = engine.Rating("frc2")
	assert.True(t, ok)
}

func TestPredict_MonotonicInDifferential(t *testing.T) {
	engine := setupTestEngine()
	engine.SetRating("frc2", 1350)

	prev := -1.0
	for _, blueRating := range []float64{1200, 1300, 1350, 1400, 1500, 1700} {
		engine.SetRating("frc1", blueRating)
		p := engine.Predict([]string{"frc1"}, []string{"frc2"})
		assert.Greater(t, p, prev, "win probability must not decrease with rating")
		prev = p
	}
}

func TestPredict_Complementary(t *testing.T) {
	engine := setupTestEngine()
	engine.SetRating("frc1", 1430)
	engine.SetRating("frc2", 1290)

	ab := engine.Predict([]string{"frc1"}, []string{"frc2"})
	ba := engine.Predict([]string{"frc2"}, []string{"frc1"})
	assert.InDelta(t, 1.0, ab+ba, 1e-9)
}

func TestPredictMargin_ZeroForEqualRatings(t *testing.T) {
	engine := setupTestEngine()
	assert.InDelta(t, 0.0, engine.PredictMargin([]string{"frc1"}, []string{"frc2"}), 1e-9)
}

func TestUpdate_NewTeamsBlowout(t *testing.T) {
	engine := setupTestEngine()

	engine.Update(qualMatch("m1", []string{"frc1"}, 100, []string{"frc2"}, 0))

	blue, _ := engine.Rating("frc1")
	red, _ := engine.Rating("frc2")
	assert.Greater(t, blue, 1350.0)
	assert.Equal(t, 1350.0-(blue-1350.0), red)

	// K=15, stdev=20, expected margin 0: delta = 15*100/20 = 75.
	assert.InDelta(t, 1425.0, blue, 1e-9)
	assert.InDelta(t, 1275.0, red, 1e-9)
}

func TestUpdate_ZeroSum(t *testing.T) {
	engine := setupTestEngine()
	engine.SetRating("frc1", 1500)
	engine.SetRating("frc2", 1400)
	engine.SetRating("frc3", 1300)
	engine.SetRating("frc4", 1200)

	var before float64
	for _, id := range []string{"frc1", "frc2", "frc3", "frc4"} {
		r, _ := engine.Rating(id)
		before += r
	}

	engine.Update(qualMatch("m1", []string{"frc1", "frc2"}, 87, []string{"frc3", "frc4"}, 65))

	var after float64
	for _, id := range []string{"frc1", "frc2", "frc3", "frc4"} {
		r, _ := engine.Rating(id)
		after += r
	}
	assert.InDelta(t, before, after, 1e-9)
}

func TestUpdate_PlayoffUsesSmallerK(t *testing.T) {
	qualEngine := setupTestEngine()
	playoffEngine := setupTestEngine()

	m := qualMatch("m1", []string{"frc1"}, 60, []string{"frc2"}, 40)
	qualEngine.Update(m)

	m.Tier = models.TierSemis
	playoffEngine.Update(m)

	qualBlue, _ := qualEngine.Rating("frc1")
	playoffBlue, _ := playoffEngine.Rating("frc1")
	assert.Greater(t, qualBlue, playoffBlue)
}

func TestUpdateWithK_Override(t *testing.T) {
	engine := setupTestEngine()
	engine.UpdateWithK(qualMatch("m1", []string{"frc1"}, 100, []string{"frc2"}, 0), 2)

	// delta = 2*100/20 = 10
	blue, _ := engine.Rating("frc1")
	assert.InDelta(t, 1360.0, blue, 1e-9)
}

func TestStdev_RecomputeThrottled(t *testing.T) {
	params := defaultTestParams()
	params.RecomputeEvery = 2
	engine := NewEngine(params, zerolog.Nop())

	engine.Update(qualMatch("m1", []string{"frc1"}, 100, []string{"frc2"}, 0))
	// First update: throttled, estimate unchanged.
	assert.Equal(t, 20.0, engine.Stdev())

	engine.Update(qualMatch("m2", []string{"frc1"}, 100, []string{"frc2"}, 0))
	// Second update: recomputed from the window {100, 0, 100, 0}.
	assert.InDelta(t, 57.735, engine.Stdev(), 0.01)
}

func TestStdev_ZeroVarianceIgnored(t *testing.T) {
	params := defaultTestParams()
	params.RecomputeEvery = 1
	params.WindowSize = 2
	engine := NewEngine(params, zerolog.Nop())

	// Identical scores give zero variance; the estimate must not collapse.
	engine.Update(qualMatch("m1", []string{"frc1"}, 50, []string{"frc2"}, 50))
	assert.Equal(t, 20.0, engine.Stdev())
}

func TestNewEngine_ClampsDegenerateParams(t *testing.T) {
	engine := NewEngine(Params{
		KQualification: 15,
		KPlayoff:       5,
		DefaultRating:  1350,
		MarginScale:    0.004,
	}, zerolog.Nop())

	// A zeroed config must not panic the stdev throttle on the first update.
	engine.Update(qualMatch("m1", []string{"frc1"}, 100, []string{"frc2"}, 0))

	blue, _ := engine.Rating("frc1")
	assert.Greater(t, blue, 1350.0)
	assert.Greater(t, engine.Stdev(), 0.0)
}

func TestNextYear_Reversion(t *testing.T) {
	engine := setupTestEngine()
	engine.SetRating("frc1", 1550)
	engine.SetRating("frc2", 1250)

	engine.NextYear(1450, 0.2, 25)

	r1, _ := engine.Rating("frc1")
	r2, _ := engine.Rating("frc2")
	assert.InDelta(t, 1550-0.2*(1550-1450), r1, 1e-9)
	assert.InDelta(t, 1250-0.2*(1250-1450), r2, 1e-9)
	assert.Equal(t, 25.0, engine.Stdev())
}

func TestNextYear_FullReversion(t *testing.T) {
	engine := setupTestEngine()
	engine.SetRating("frc1", 1550)
	engine.SetRating("frc2", 1250)

	engine.NextYear(1450, 1.0, 20)

	r1, _ := engine.Rating("frc1")
	r2, _ := engine.Rating("frc2")
	assert.InDelta(t, 1450.0, r1, 1e-9)
	assert.InDelta(t, 1450.0, r2, 1e-9)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	engine := setupTestEngine()
	engine.SetRating("frc1", 1475.5)
	engine.SetRating("frc2", 1322.25)

	snap := engine.Snapshot(2017)
	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 2017, decoded.Season)

	restored := setupTestEngine()
	require.NoError(t, restored.Restore(decoded))
	r, ok := restored.Rating("frc1")
	require.True(t, ok)
	assert.Equal(t, 1475.5, r)
	assert.Equal(t, engine.Stdev(), restored.Stdev())
}

func TestDecodeSnapshot_UnknownVersion(t *testing.T) {
	engine := setupTestEngine()
	snap := engine.Snapshot(2017)
	snap.Version = 99

	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	_, err = DecodeSnapshot(data)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported snapshot version")
}
