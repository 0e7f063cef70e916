package tracker

//go:generate mockgen -source=interfaces.go -destination=../mocks/tracker_mocks.go -package=mocks

import (
	"context"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// DataSource supplies event metadata, matches, and bracket seeding.
// Implemented by the frc client; mocked in tests.
type DataSource interface {
	EventInfo(ctx context.Context, code string) (*models.EventInfo, error)
	EventMatches(ctx context.Context, code string) ([]models.Match, error)
	AllianceSeeding(ctx context.Context, code string) ([]models.SeedSlot, error)
}

// Store persists an event's final match list once the event leaves an
// in-progress state.
type Store interface {
	EventMatches(ctx context.Context, code string) ([]models.Match, error)
	SaveEventMatches(ctx context.Context, code string, matches []models.Match) error
}

// Rater is the rating engine surface the tracker drives.
type Rater interface {
	Predict(blue, red []string) float64
	PredictMargin(blue, red []string) float64
	Update(m models.Match)
}

// Simulator estimates bracket advancement probabilities from seeding.
type Simulator interface {
	Simulate(seeding []models.SeedSlot) ([]models.BracketForecast, error)
}

// Publisher pushes refreshed snapshots to downstream consumers.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap *models.EventSnapshot) error
}
