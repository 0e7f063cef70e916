package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
	"github.com/cypherlabdev/bracket-predictor-service/internal/rating"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, "event_snapshots", cfg.Kafka.Topic)
	assert.Equal(t, "https://www.thebluealliance.com/api/v3", cfg.TBA.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.TBA.Timeout)

	assert.Equal(t, 15.0, cfg.Rating.KQualification)
	assert.Equal(t, 5.0, cfg.Rating.KPlayoff)
	assert.Equal(t, 1350.0, cfg.Rating.DefaultRating)
	assert.Equal(t, 20.0, cfg.Rating.InitStdev)
	assert.Equal(t, 800, cfg.Rating.Window)
	assert.Equal(t, 1450.0, cfg.Rating.ReversionTarget)

	assert.Equal(t, time.Now().Year(), cfg.Tracker.Year)
	assert.Equal(t, 180*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 1000, cfg.Simulator.Trials)
	assert.Equal(t, 2, cfg.Simulator.SeriesToWin)
	assert.Equal(t, 2008, cfg.Replay.StartYear)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_UnderscoredKeysBind(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	// Multi-word keys must land in their fields, not silently stay zero.
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.NotEmpty(t, cfg.TBA.BaseURL)
	assert.Equal(t, 100, cfg.Rating.RecomputeEvery)
	assert.Equal(t, 0.004, cfg.Rating.MarginScale)
	assert.Equal(t, 0.2, cfg.Rating.ReversionFactor)
}

// A default config must produce a rating engine that survives its first
// update: a zero RecomputeEvery would panic inside the stdev throttle.
func TestLoadConfig_DefaultsDriveRatingEngine(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	engine := rating.NewEngine(cfg.Rating.ToRatingParams(), zerolog.Nop())
	engine.Update(models.Match{
		Key:         "2017nyny_qm1",
		Tier:        models.TierQualification,
		MatchNumber: 1,
		SetNumber:   1,
		Blue:        models.AllianceScore{Teams: []string{"frc1"}, Score: 100},
		Red:         models.AllianceScore{Teams: []string{"frc2"}, Score: 0},
	})

	got, ok := engine.Rating("frc1")
	require.True(t, ok)
	assert.Equal(t, 1425.0, got)
}

func TestLoadConfig_FromFile(t *testing.T) {
	content := `
server:
  port: 9090
redis:
  addr: redis.internal:6379
tba:
  auth_key: file-key
tracker:
  year: 2017
  events:
    - 2017nyny
    - 2017casd
  poll_interval: 60s
rating:
  k_qualification: 12
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "file-key", cfg.TBA.AuthKey)
	assert.Equal(t, 2017, cfg.Tracker.Year)
	assert.Equal(t, []string{"2017nyny", "2017casd"}, cfg.Tracker.Events)
	assert.Equal(t, time.Minute, cfg.Tracker.PollInterval)
	assert.Equal(t, 12.0, cfg.Rating.KQualification)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5.0, cfg.Rating.KPlayoff)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("BRACKET_PREDICTOR_SERVER_PORT", "3000")
	t.Setenv("BRACKET_PREDICTOR_TBA_AUTH_KEY", "env-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.TBA.AuthKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestToReplayConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.Tracker.Year = 2017

	rc := cfg.ToReplayConfig()
	assert.Equal(t, 2008, rc.StartYear)
	assert.Equal(t, 2016, rc.ThroughYear)
	assert.Equal(t, 1450.0, rc.ReversionTarget)
	assert.Equal(t, 0.2, rc.ReversionFactor)
	assert.Equal(t, 20.0, rc.InitialStdev)
}

func TestToRatingParams(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	params := cfg.Rating.ToRatingParams()
	assert.Equal(t, 15.0, params.KQualification)
	assert.Equal(t, 5.0, params.KPlayoff)
	assert.Equal(t, 1350.0, params.DefaultRating)
	assert.Equal(t, 20.0, params.InitialStdev)
	assert.Equal(t, 800, params.WindowSize)
	assert.Equal(t, 100, params.RecomputeEvery)
	assert.Equal(t, 0.004, params.MarginScale)
}
