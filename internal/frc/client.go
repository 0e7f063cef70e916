package frc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/cypherlabdev/bracket-predictor-service/internal/metrics"
	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// Client fetches tournament data from The Blue Alliance API v3.
type Client struct {
	baseURL    string
	authKey    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// ClientConfig holds data-source client configuration.
type ClientConfig struct {
	BaseURL string        // e.g. "https://www.thebluealliance.com/api/v3"
	AuthKey string        // X-TBA-Auth-Key header value
	Timeout time.Duration // per-request timeout
}

// NewClient creates a data-source client. All calls go through a circuit
// breaker so a flapping provider stops being hammered.
func NewClient(cfg ClientConfig, m *metrics.Metrics, logger zerolog.Logger) *Client {
	clientLogger := logger.With().Str("component", "frc_client").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "tba",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			clientLogger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		authKey:    cfg.AuthKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		metrics:    m,
		logger:     clientLogger,
	}
}

// get performs one authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("X-TBA-Auth-Key", c.authKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return nil, nil
	})

	if c.metrics != nil {
		c.metrics.ObserveDataSourceRequest(endpointLabel(path), time.Since(start), err)
	}
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("data source request failed")
		return err
	}
	return nil
}

// endpointLabel collapses a request path to a low-cardinality metric label.
func endpointLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/events/"):
		return "year_events"
	case strings.HasSuffix(path, "/matches"):
		return "event_matches"
	case strings.HasSuffix(path, "/alliances"):
		return "event_alliances"
	default:
		return "event_info"
	}
}

// wire types for the provider's JSON.

type wireEvent struct {
	Key       string `json:"key"`
	EventCode string `json:"event_code"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Timezone  string `json:"timezone"`
}

type wireAllianceSide struct {
	TeamKeys []string `json:"team_keys"`
	Score    int      `json:"score"`
}

type wireMatch struct {
	Key         string `json:"key"`
	CompLevel   string `json:"comp_level"`
	MatchNumber int    `json:"match_number"`
	SetNumber   int    `json:"set_number"`
	Alliances   struct {
		Blue wireAllianceSide `json:"blue"`
		Red  wireAllianceSide `json:"red"`
	} `json:"alliances"`
}

type wireAlliance struct {
	Name   string   `json:"name"`
	Picks  []string `json:"picks"`
	Backup *struct {
		In  string `json:"in"`
		Out string `json:"out"`
	} `json:"backup"`
	Status struct {
		Level              string `json:"level"`
		CurrentLevelRecord struct {
			Wins   int `json:"wins"`
			Losses int `json:"losses"`
		} `json:"current_level_record"`
	} `json:"status"`
}

// YearEvents lists a season's events, sorted by start date.
func (c *Client) YearEvents(ctx context.Context, year int) ([]models.EventInfo, error) {
	var raw []wireEvent
	if err := c.get(ctx, fmt.Sprintf("/events/%d", year), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch events for %d: %w", year, err)
	}

	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].StartDate < raw[j].StartDate
	})

	events := make([]models.EventInfo, len(raw))
	for i, e := range raw {
		events[i] = models.EventInfo{
			Code:      e.Key,
			Name:      e.Name,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
			Timezone:  e.Timezone,
		}
	}
	return events, nil
}

// EventInfo fetches metadata for one event.
func (c *Client) EventInfo(ctx context.Context, code string) (*models.EventInfo, error) {
	var raw wireEvent
	if err := c.get(ctx, "/event/"+code, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", code, err)
	}
	return &models.EventInfo{
		Code:      raw.Key,
		Name:      raw.Name,
		StartDate: raw.StartDate,
		EndDate:   raw.EndDate,
		Timezone:  raw.Timezone,
	}, nil
}

// EventMatches lists an event's matches in canonical replay order.
func (c *Client) EventMatches(ctx context.Context, code string) ([]models.Match, error) {
	var raw []wireMatch
	if err := c.get(ctx, "/event/"+code+"/matches", &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch matches for %s: %w", code, err)
	}

	matches := make([]models.Match, len(raw))
	for i, m := range raw {
		matches[i] = models.Match{
			Key:         m.Key,
			Tier:        models.RoundTier(m.CompLevel),
			MatchNumber: m.MatchNumber,
			SetNumber:   m.SetNumber,
			Blue: models.AllianceScore{
				Teams: m.Alliances.Blue.TeamKeys,
				Score: m.Alliances.Blue.Score,
			},
			Red: models.AllianceScore{
				Teams: m.Alliances.Red.TeamKeys,
				Score: m.Alliances.Red.Score,
			},
		}
	}
	models.SortMatches(matches)
	return matches, nil
}

// AllianceSeeding fetches the event's bracket seeding. Slot numbers come from
// the provider's "Alliance N" names when present and fall back to list order.
func (c *Client) AllianceSeeding(ctx context.Context, code string) ([]models.SeedSlot, error) {
	var raw []wireAlliance
	if err := c.get(ctx, "/event/"+code+"/alliances", &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch alliances for %s: %w", code, err)
	}

	slots := make([]models.SeedSlot, len(raw))
	for i, a := range raw {
		number := parseAllianceNumber(a.Name)
		if number == 0 {
			number = i + 1
		}

		// Top picks only; a third robot plays, any further picks are spares.
		picks := a.Picks
		if len(picks) > 3 {
			picks = picks[:3]
		}

		slot := models.SeedSlot{
			Number: number,
			Teams:  append([]string(nil), picks...),
			Level:  models.RoundTier(a.Status.Level),
			Record: models.WinLoss{
				Wins:   a.Status.CurrentLevelRecord.Wins,
				Losses: a.Status.CurrentLevelRecord.Losses,
			},
		}
		if a.Backup != nil && a.Backup.In != "" {
			slot.Backup = &models.Backup{In: a.Backup.In, Out: a.Backup.Out}
		}
		slots[i] = slot
	}
	return slots, nil
}

// YearMatches fetches every event's matches for a season, in event schedule
// order.
func (c *Client) YearMatches(ctx context.Context, year int) ([]models.EventMatches, error) {
	events, err := c.YearEvents(ctx, year)
	if err != nil {
		return nil, err
	}

	batches := make([]models.EventMatches, 0, len(events))
	for _, event := range events {
		matches, err := c.EventMatches(ctx, event.Code)
		if err != nil {
			return nil, err
		}
		batches = append(batches, models.EventMatches{Code: event.Code, Matches: matches})
	}
	return batches, nil
}

// parseAllianceNumber extracts N from a provider alliance name like
// "Alliance 3"; 0 means the name carried no number.
func parseAllianceNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(name, "Alliance")))
	if err != nil {
		return 0
	}
	return n
}
