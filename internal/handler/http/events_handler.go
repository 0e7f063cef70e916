package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// SnapshotSource is the read side of the poller: published event snapshots.
type SnapshotSource interface {
	Snapshots() []*models.EventSnapshot
	Snapshot(code string) (*models.EventSnapshot, bool)
}

// EventsHandler serves published event snapshots as JSON. It only ever reads
// immutable snapshots, so it is safe alongside the background poller.
type EventsHandler struct {
	source SnapshotSource
	logger zerolog.Logger
}

// NewEventsHandler creates an events HTTP handler.
func NewEventsHandler(source SnapshotSource, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		source: source,
		logger: logger.With().Str("component", "events_handler").Logger(),
	}
}

// RegisterRoutes registers HTTP routes with the provided mux.
func (h *EventsHandler) RegisterRoutes(mux *http.ServeMux) {
	// GET /api/v1/events - list tracked event summaries
	// GET /api/v1/events/:code - full snapshot for one event
	// GET /api/v1/events/:code/bracket - latest bracket forecast
	mux.HandleFunc("/api/v1/events", h.handleListEvents)
	mux.HandleFunc("/api/v1/events/", h.handleEvent)
}

func (h *EventsHandler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snaps := h.source.Snapshots()
	summaries := make([]*EventSummaryResponse, len(snaps))
	for i, snap := range snaps {
		summaries[i] = toEventSummary(snap)
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":  len(summaries),
		"events": summaries,
	})
}

func (h *EventsHandler) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Parse path: /api/v1/events/:code[/bracket]
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/events/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		h.errorResponse(w, http.StatusBadRequest, "event code is required")
		return
	}
	code := parts[0]

	snap, ok := h.source.Snapshot(code)
	if !ok || snap == nil {
		h.errorResponse(w, http.StatusNotFound, "event not tracked")
		return
	}

	switch {
	case len(parts) == 1:
		h.jsonResponse(w, http.StatusOK, toEventResponse(snap))
	case len(parts) == 2 && parts[1] == "bracket":
		h.jsonResponse(w, http.StatusOK, map[string]interface{}{
			"event_code": snap.Code,
			"bracket":    toBracketResponses(snap.Bracket),
		})
	default:
		h.errorResponse(w, http.StatusBadRequest, "invalid path: expected /api/v1/events/:code or /api/v1/events/:code/bracket")
	}
}

// jsonResponse writes a JSON response
func (h *EventsHandler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes a JSON error response
func (h *EventsHandler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}

// EventSummaryResponse is the list-view rendering of a tracked event.
type EventSummaryResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Upcoming    int    `json:"upcoming_matches"`
	Played      int    `json:"played_matches"`
	RefreshedAt string `json:"refreshed_at"`
}

// EventResponse is the full rendering of one event snapshot.
type EventResponse struct {
	Code          string                  `json:"code"`
	Name          string                  `json:"name"`
	Status        string                  `json:"status"`
	StartDate     string                  `json:"start_date"`
	EndDate       string                  `json:"end_date"`
	Upcoming      []*PredictionResponse   `json:"upcoming"`
	Retrodictions []*RetrodictionResponse `json:"retrodictions"`
	Bracket       []*BracketResponse      `json:"bracket,omitempty"`
	RefreshedAt   string                  `json:"refreshed_at"`
}

// PredictionResponse renders one upcoming match forecast. Probabilities are
// fixed-precision percentage strings.
type PredictionResponse struct {
	MatchKey        string   `json:"match_key"`
	Round           string   `json:"round"`
	Blue            []string `json:"blue"`
	Red             []string `json:"red"`
	BlueWinPct      string   `json:"blue_win_pct"`
	RedWinPct       string   `json:"red_win_pct"`
	PredictedMargin string   `json:"predicted_margin"`
}

// RetrodictionResponse renders one played match's forecast next to its
// observed result.
type RetrodictionResponse struct {
	PredictionResponse
	BlueScore    int    `json:"blue_score"`
	RedScore     int    `json:"red_score"`
	ActualMargin int    `json:"actual_margin"`
	Outcome      string `json:"outcome"`
}

// BracketResponse renders one alliance's advancement forecast.
type BracketResponse struct {
	AllianceNumber int               `json:"alliance_number"`
	Teams          []string          `json:"teams"`
	Advancement    map[string]string `json:"advancement"`
	ChampionPct    string            `json:"champion_pct"`
}

func pct(p float64) string {
	return decimal.NewFromFloat(p * 100).Round(1).String()
}

func toEventSummary(snap *models.EventSnapshot) *EventSummaryResponse {
	return &EventSummaryResponse{
		Code:        snap.Code,
		Name:        snap.Name,
		Status:      snap.StatusLabel,
		StartDate:   snap.StartDate,
		EndDate:     snap.EndDate,
		Upcoming:    len(snap.Upcoming),
		Played:      len(snap.Retrodictions),
		RefreshedAt: snap.RefreshedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toEventResponse(snap *models.EventSnapshot) *EventResponse {
	upcoming := make([]*PredictionResponse, len(snap.Upcoming))
	for i := range snap.Upcoming {
		upcoming[i] = toPredictionResponse(&snap.Upcoming[i])
	}
	retro := make([]*RetrodictionResponse, len(snap.Retrodictions))
	for i := range snap.Retrodictions {
		retro[i] = toRetrodictionResponse(&snap.Retrodictions[i])
	}

	return &EventResponse{
		Code:          snap.Code,
		Name:          snap.Name,
		Status:        snap.StatusLabel,
		StartDate:     snap.StartDate,
		EndDate:       snap.EndDate,
		Upcoming:      upcoming,
		Retrodictions: retro,
		Bracket:       toBracketResponses(snap.Bracket),
		RefreshedAt:   snap.RefreshedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toPredictionResponse(p *models.Prediction) *PredictionResponse {
	return &PredictionResponse{
		MatchKey:        p.MatchKey,
		Round:           string(p.Tier),
		Blue:            p.Blue,
		Red:             p.Red,
		BlueWinPct:      pct(p.BlueWinProb),
		RedWinPct:       pct(1 - p.BlueWinProb),
		PredictedMargin: decimal.NewFromFloat(p.PredictedMargin).Round(1).String(),
	}
}

func toRetrodictionResponse(r *models.Retrodiction) *RetrodictionResponse {
	return &RetrodictionResponse{
		PredictionResponse: *toPredictionResponse(&r.Prediction),
		BlueScore:          r.BlueScore,
		RedScore:           r.RedScore,
		ActualMargin:       r.ActualMargin,
		Outcome:            decimal.NewFromFloat(r.Outcome).String(),
	}
}

func toBracketResponses(forecasts []models.BracketForecast) []*BracketResponse {
	if len(forecasts) == 0 {
		return nil
	}
	out := make([]*BracketResponse, len(forecasts))
	for i, f := range forecasts {
		advancement := make(map[string]string, len(f.Advancement))
		for _, ro := range f.Advancement {
			advancement[string(ro.Round)] = pct(ro.Probability)
		}
		out[i] = &BracketResponse{
			AllianceNumber: f.AllianceNumber,
			Teams:          f.Teams,
			Advancement:    advancement,
			ChampionPct:    pct(f.ChampionProbability),
		}
	}
	return out
}
