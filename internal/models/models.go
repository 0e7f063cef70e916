package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RoundTier identifies the competition round a match belongs to, using the
// data provider's level codes.
type RoundTier string

const (
	TierQualification RoundTier = "qm"
	TierEighths       RoundTier = "ef"
	TierQuarters      RoundTier = "qf"
	TierSemis         RoundTier = "sf"
	TierFinals        RoundTier = "f"
)

// tierOrder fixes the replay ordering of round tiers within an event.
var tierOrder = map[RoundTier]int{
	TierQualification: 0,
	TierEighths:       1,
	TierQuarters:      2,
	TierSemis:         3,
	TierFinals:        4,
}

// Order returns the tier's position in the event schedule. Unknown tiers sort
// last so malformed provider data never interleaves with known rounds.
func (t RoundTier) Order() int {
	if o, ok := tierOrder[t]; ok {
		return o
	}
	return len(tierOrder)
}

// Playoff reports whether the tier is part of the elimination bracket.
func (t RoundTier) Playoff() bool {
	return t != TierQualification
}

// AllianceScore is one side of a match: the competing teams and their score.
// Score is -1 until the match has been played.
type AllianceScore struct {
	Teams []string `json:"teams"`
	Score int      `json:"score"`
}

// Match is an immutable record of one scheduled or played match.
type Match struct {
	Key         string        `json:"key"`
	Tier        RoundTier     `json:"tier"`
	MatchNumber int           `json:"match_number"`
	SetNumber   int           `json:"set_number"`
	Blue        AllianceScore `json:"blue"`
	Red         AllianceScore `json:"red"`
}

// Played reports whether both alliance scores are present and non-sentinel.
func (m Match) Played() bool {
	return m.Blue.Score >= 0 && m.Red.Score >= 0
}

// Margin is the blue score minus the red score.
func (m Match) Margin() int {
	return m.Blue.Score - m.Red.Score
}

// SortMatches orders matches by (round tier, match number, set number), the
// canonical replay order within an event.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Tier.Order() != b.Tier.Order() {
			return a.Tier.Order() < b.Tier.Order()
		}
		if a.MatchNumber != b.MatchNumber {
			return a.MatchNumber < b.MatchNumber
		}
		return a.SetNumber < b.SetNumber
	})
}

// EventInfo is raw event metadata from the data provider. Dates are the
// provider's YYYY-MM-DD strings; Timezone is an IANA zone name and may be
// empty.
type EventInfo struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Timezone  string `json:"timezone"`
}

// EventMatches pairs an event code with its full match list, preserving the
// schedule order of events within a season.
type EventMatches struct {
	Code    string  `json:"code"`
	Matches []Match `json:"matches"`
}

// WinLoss is a best-of-N series record.
type WinLoss struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// SeedSlot is one alliance's bracket seeding entry: the picked teams, an
// optional backup substitution, and the alliance's real bracket progress.
type SeedSlot struct {
	Number int       `json:"number"`
	Teams  []string  `json:"teams"`
	Backup *Backup   `json:"backup,omitempty"`
	Level  RoundTier `json:"level"`
	Record WinLoss   `json:"record"`
}

// Backup records a roster substitution: In replaces Out.
type Backup struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

// EventStatus enumerates the tracker's lifecycle states.
type EventStatus int

const (
	StatusNoData EventStatus = iota
	StatusNotStarted
	StatusPreMatches
	StatusMatchesPosted
	StatusQualificationMatches
	StatusFinalMatches
	StatusFinished
)

var statusLabels = map[EventStatus]string{
	StatusNoData:               "no data",
	StatusNotStarted:           "not started",
	StatusPreMatches:           "awaiting matches",
	StatusMatchesPosted:        "matches posted",
	StatusQualificationMatches: "qualification matches",
	StatusFinalMatches:         "final matches",
	StatusFinished:             "finished",
}

func (s EventStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "unknown"
}

// InProgress reports whether matches are actively being played.
func (s EventStatus) InProgress() bool {
	return s == StatusQualificationMatches || s == StatusFinalMatches
}

// Prediction is a forecast for one unplayed match, generated from the ratings
// current at refresh time.
type Prediction struct {
	ID              uuid.UUID `json:"id"`
	MatchKey        string    `json:"match_key"`
	Tier            RoundTier `json:"tier"`
	MatchNumber     int       `json:"match_number"`
	SetNumber       int       `json:"set_number"`
	Blue            []string  `json:"blue"`
	Red             []string  `json:"red"`
	BlueWinProb     float64   `json:"blue_win_prob"`
	PredictedMargin float64   `json:"predicted_margin"`
}

// Retrodiction is a prediction captured just before a match was applied to
// the ratings, stored alongside the observed result for calibration.
type Retrodiction struct {
	Prediction
	BlueScore    int     `json:"blue_score"`
	RedScore     int     `json:"red_score"`
	ActualMargin int     `json:"actual_margin"`
	Outcome      float64 `json:"outcome"`
}

// RoundOdds is one alliance's probability of advancing past one bracket round.
type RoundOdds struct {
	Round       RoundTier `json:"round"`
	Probability float64   `json:"probability"`
}

// BracketForecast is the simulator's output for one seeded alliance.
type BracketForecast struct {
	AllianceNumber      int         `json:"alliance_number"`
	Teams               []string    `json:"teams"`
	Advancement         []RoundOdds `json:"advancement"`
	ChampionProbability float64     `json:"champion_probability"`
}

// EventSnapshot is the fully assembled, immutable view of one tracked event.
// The tracker builds a complete snapshot off to the side and publishes it with
// a single pointer swap; readers never see a partially updated one.
type EventSnapshot struct {
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	Status        EventStatus       `json:"status"`
	StatusLabel   string            `json:"status_label"`
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	Upcoming      []Prediction      `json:"upcoming"`
	Retrodictions []Retrodiction    `json:"retrodictions"`
	Bracket       []BracketForecast `json:"bracket,omitempty"`
	RefreshedAt   time.Time         `json:"refreshed_at"`
}

// SnapshotMessage is the Kafka payload published after each successful
// refresh.
type SnapshotMessage struct {
	BatchID     string         `json:"batch_id"`
	EventCode   string         `json:"event_code"`
	Snapshot    *EventSnapshot `json:"snapshot"`
	PublishedAt time.Time      `json:"published_at"`
}
