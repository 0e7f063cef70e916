package rating

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is the current serialization format version. Load rejects
// other versions so callers fall back to a full season replay.
const SnapshotVersion = 1

// Snapshot is the serializable accumulated state of an Engine after replaying
// prior seasons: the ratings map and the score normalization baseline. The
// sliding window and update counter are deliberately omitted; a restored
// engine starts a fresh window, matching the post-NextYear state.
type Snapshot struct {
	Version int                `json:"version"`
	SavedAt time.Time          `json:"saved_at"`
	Season  int                `json:"season"`
	Ratings map[string]float64 `json:"ratings"`
	Stdev   float64            `json:"stdev"`
}

// Snapshot captures the engine's current state for persistence.
func (e *Engine) Snapshot(season int) *Snapshot {
	ratings := make(map[string]float64, len(e.ratings))
	for id, r := range e.ratings {
		ratings[id] = r
	}
	return &Snapshot{
		Version: SnapshotVersion,
		SavedAt: time.Now().UTC(),
		Season:  season,
		Ratings: ratings,
		Stdev:   e.stdev,
	}
}

// Restore replaces the engine's state with the snapshot's. The window and
// update counter are reset as by NextYear.
func (e *Engine) Restore(s *Snapshot) error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d (want %d)", s.Version, SnapshotVersion)
	}
	e.ratings = make(map[string]float64, len(s.Ratings))
	for id, r := range s.Ratings {
		e.ratings[id] = r
	}
	e.stdev = s.Stdev
	e.scores = e.scores[:0]
	e.head = 0
	e.updates = 0
	return nil
}

// EncodeSnapshot serializes a snapshot to JSON.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rating snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot deserializes a snapshot, validating its version.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", s.Version, SnapshotVersion)
	}
	return &s, nil
}
