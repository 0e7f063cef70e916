package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// stubSource serves a fixed snapshot set.
type stubSource struct {
	snaps []*models.EventSnapshot
}

func (s *stubSource) Snapshots() []*models.EventSnapshot {
	return s.snaps
}

func (s *stubSource) Snapshot(code string) (*models.EventSnapshot, bool) {
	for _, snap := range s.snaps {
		if snap.Code == code {
			return snap, true
		}
	}
	return nil, false
}

func setupTestHandler(snaps ...*models.EventSnapshot) *http.ServeMux {
	handler := NewEventsHandler(&stubSource{snaps: snaps}, zerolog.Nop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func testSnapshot() *models.EventSnapshot {
	return &models.EventSnapshot{
		Code:        "2017nyny",
		Name:        "New York City Regional",
		Status:      models.StatusQualificationMatches,
		StatusLabel: "qualification matches",
		StartDate:   "Mar 16, 2017",
		EndDate:     "Mar 19, 2017",
		Upcoming: []models.Prediction{
			{
				ID:              uuid.New(),
				MatchKey:        "2017nyny_qm12",
				Tier:            models.TierQualification,
				MatchNumber:     12,
				SetNumber:       1,
				Blue:            []string{"frc1", "frc2", "frc3"},
				Red:             []string{"frc4", "frc5", "frc6"},
				BlueWinProb:     0.6789,
				PredictedMargin: 12.34,
			},
		},
		Retrodictions: []models.Retrodiction{
			{
				Prediction: models.Prediction{
					ID:          uuid.New(),
					MatchKey:    "2017nyny_qm1",
					Tier:        models.TierQualification,
					MatchNumber: 1,
					SetNumber:   1,
					Blue:        []string{"frc1", "frc2", "frc3"},
					Red:         []string{"frc4", "frc5", "frc6"},
					BlueWinProb: 0.5,
				},
				BlueScore:    85,
				RedScore:     60,
				ActualMargin: 25,
				Outcome:      1,
			},
		},
		Bracket: []models.BracketForecast{
			{
				AllianceNumber: 1,
				Teams:          []string{"frc10", "frc11", "frc12"},
				Advancement: []models.RoundOdds{
					{Round: models.TierQuarters, Probability: 0.95},
					{Round: models.TierSemis, Probability: 0.7},
					{Round: models.TierFinals, Probability: 0.421},
				},
				ChampionProbability: 0.421,
			},
		},
		RefreshedAt: time.Date(2017, time.March, 17, 15, 30, 0, 0, time.UTC),
	}
}

func TestListEvents(t *testing.T) {
	mux := setupTestHandler(testSnapshot())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Count  int                     `json:"count"`
		Events []*EventSummaryResponse `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "2017nyny", body.Events[0].Code)
	assert.Equal(t, "qualification matches", body.Events[0].Status)
	assert.Equal(t, 1, body.Events[0].Upcoming)
	assert.Equal(t, 1, body.Events[0].Played)
}

func TestListEvents_MethodNotAllowed(t *testing.T) {
	mux := setupTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetEvent(t *testing.T) {
	mux := setupTestHandler(testSnapshot())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/2017nyny", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2017nyny", body.Code)

	require.Len(t, body.Upcoming, 1)
	up := body.Upcoming[0]
	assert.Equal(t, "2017nyny_qm12", up.MatchKey)
	assert.Equal(t, "qm", up.Round)
	assert.Equal(t, "67.9", up.BlueWinPct)
	assert.Equal(t, "32.1", up.RedWinPct)
	assert.Equal(t, "12.3", up.PredictedMargin)

	require.Len(t, body.Retrodictions, 1)
	retro := body.Retrodictions[0]
	assert.Equal(t, 85, retro.BlueScore)
	assert.Equal(t, 25, retro.ActualMargin)
	assert.Equal(t, "1", retro.Outcome)
}

func TestGetEvent_NotTracked(t *testing.T) {
	mux := setupTestHandler(testSnapshot())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/2017none", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEventBracket(t *testing.T) {
	mux := setupTestHandler(testSnapshot())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/2017nyny/bracket", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		EventCode string             `json:"event_code"`
		Bracket   []*BracketResponse `json:"bracket"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2017nyny", body.EventCode)
	require.Len(t, body.Bracket, 1)
	assert.Equal(t, 1, body.Bracket[0].AllianceNumber)
	assert.Equal(t, "42.1", body.Bracket[0].ChampionPct)
	assert.Equal(t, "95", body.Bracket[0].Advancement["qf"])
	assert.Equal(t, "70", body.Bracket[0].Advancement["sf"])
}

func TestGetEvent_InvalidSubpath(t *testing.T) {
	mux := setupTestHandler(testSnapshot())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/2017nyny/odds", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
