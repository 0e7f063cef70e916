package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
	"github.com/cypherlabdev/bracket-predictor-service/internal/rating"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	st := NewRedisStore(RedisStoreConfig{Addr: mr.Addr()}, zerolog.Nop())
	t.Cleanup(func() { st.Close() })
	return st, mr
}

func testYearBatches() []models.EventMatches {
	return []models.EventMatches{
		{
			Code: "2016nyny",
			Matches: []models.Match{
				{
					Key:         "2016nyny_qm1",
					Tier:        models.TierQualification,
					MatchNumber: 1,
					SetNumber:   1,
					Blue:        models.AllianceScore{Teams: []string{"frc1", "frc2", "frc3"}, Score: 85},
					Red:         models.AllianceScore{Teams: []string{"frc4", "frc5", "frc6"}, Score: 60},
				},
			},
		},
	}
}

func TestYearMatches_RoundTrip(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	batches := testYearBatches()
	require.NoError(t, st.SaveYearMatches(ctx, 2016, batches))

	got, err := st.YearMatches(ctx, 2016)
	require.NoError(t, err)
	assert.Equal(t, batches, got)
}

func TestYearMatches_NotFound(t *testing.T) {
	st, _ := setupTestStore(t)

	_, err := st.YearMatches(context.Background(), 2012)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventMatches_RoundTrip(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	matches := testYearBatches()[0].Matches
	require.NoError(t, st.SaveEventMatches(ctx, "2016nyny", matches))

	got, err := st.EventMatches(ctx, "2016nyny")
	require.NoError(t, err)
	assert.Equal(t, matches, got)
}

func TestEventMatches_NotFound(t *testing.T) {
	st, _ := setupTestStore(t)

	_, err := st.EventMatches(context.Background(), "2016none")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	st, _ := setupTestStore(t)
	ctx := context.Background()

	snap := &rating.Snapshot{
		Version: rating.SnapshotVersion,
		SavedAt: time.Date(2016, time.November, 1, 0, 0, 0, 0, time.UTC),
		Season:  2016,
		Ratings: map[string]float64{"frc1": 1412.5, "frc2": 1287.5},
		Stdev:   55.2,
	}
	require.NoError(t, st.SaveSnapshot(ctx, snap))

	got, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	st, _ := setupTestStore(t)

	_, err := st.LoadSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadSnapshot_UnknownVersion(t *testing.T) {
	st, mr := setupTestStore(t)

	mr.Set("rating:snapshot", `{"version":99,"season":2016,"ratings":{},"stdev":20}`)

	_, err := st.LoadSnapshot(context.Background())
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	st, mr := setupTestStore(t)

	require.NoError(t, st.Ping(context.Background()))

	mr.Close()
	assert.Error(t, st.Ping(context.Background()))
}
