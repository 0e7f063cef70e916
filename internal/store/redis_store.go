package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
	"github.com/cypherlabdev/bracket-predictor-service/internal/rating"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found in store")

// RedisStore is the durable cache for season match archives and the rating
// snapshot. Archives hold immutable history, so nothing here carries a TTL.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// RedisStoreConfig holds Redis connection configuration.
type RedisStoreConfig struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(config RedisStoreConfig, logger zerolog.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisStore{
		client: client,
		logger: logger.With().Str("component", "redis_store").Logger(),
	}
}

func yearKey(year int) string {
	return fmt.Sprintf("matches:year:%d", year)
}

func eventKey(code string) string {
	return "matches:event:" + code
}

const snapshotKey = "rating:snapshot"

// YearMatches returns a season's archived match batches.
func (s *RedisStore) YearMatches(ctx context.Context, year int) ([]models.EventMatches, error) {
	data, err := s.client.Get(ctx, yearKey(year)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get year %d from Redis: %w", year, err)
	}

	var batches []models.EventMatches
	if err := json.Unmarshal(data, &batches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal year %d matches: %w", year, err)
	}
	return batches, nil
}

// SaveYearMatches archives a season's full match set.
func (s *RedisStore) SaveYearMatches(ctx context.Context, year int, batches []models.EventMatches) error {
	data, err := json.Marshal(batches)
	if err != nil {
		return fmt.Errorf("failed to marshal year %d matches: %w", year, err)
	}
	if err := s.client.Set(ctx, yearKey(year), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set year %d in Redis: %w", year, err)
	}

	s.logger.Debug().
		Int("year", year).
		Int("events", len(batches)).
		Msg("archived season matches")
	return nil
}

// EventMatches returns one event's archived final match list.
func (s *RedisStore) EventMatches(ctx context.Context, code string) ([]models.Match, error) {
	data, err := s.client.Get(ctx, eventKey(code)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get event %s from Redis: %w", code, err)
	}

	var matches []models.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event %s matches: %w", code, err)
	}
	return matches, nil
}

// SaveEventMatches archives one event's final match list.
func (s *RedisStore) SaveEventMatches(ctx context.Context, code string, matches []models.Match) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s matches: %w", code, err)
	}
	if err := s.client.Set(ctx, eventKey(code), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set event %s in Redis: %w", code, err)
	}

	s.logger.Debug().
		Str("event", code).
		Int("matches", len(matches)).
		Msg("archived event matches")
	return nil
}

// LoadSnapshot returns the persisted rating snapshot. A stored snapshot with
// an unsupported version surfaces as an error so the caller falls back to a
// full replay.
func (s *RedisStore) LoadSnapshot(ctx context.Context) (*rating.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get rating snapshot from Redis: %w", err)
	}
	return rating.DecodeSnapshot(data)
}

// SaveSnapshot persists the rating snapshot.
func (s *RedisStore) SaveSnapshot(ctx context.Context, snap *rating.Snapshot) error {
	data, err := rating.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set rating snapshot in Redis: %w", err)
	}

	s.logger.Info().
		Int("season", snap.Season).
		Int("competitors", len(snap.Ratings)).
		Msg("persisted rating snapshot")
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
