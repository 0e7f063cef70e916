package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTier_Order(t *testing.T) {
	assert.Less(t, TierQualification.Order(), TierEighths.Order())
	assert.Less(t, TierEighths.Order(), TierQuarters.Order())
	assert.Less(t, TierQuarters.Order(), TierSemis.Order())
	assert.Less(t, TierSemis.Order(), TierFinals.Order())
	// Unknown tiers sort after every known round.
	assert.Greater(t, RoundTier("xx").Order(), TierFinals.Order())
}

func TestRoundTier_Playoff(t *testing.T) {
	assert.False(t, TierQualification.Playoff())
	assert.True(t, TierQuarters.Playoff())
	assert.True(t, TierFinals.Playoff())
}

func TestMatch_Played(t *testing.T) {
	m := Match{
		Blue: AllianceScore{Score: -1},
		Red:  AllianceScore{Score: -1},
	}
	assert.False(t, m.Played())

	m.Blue.Score = 0
	assert.False(t, m.Played())

	m.Red.Score = 0
	// A 0-0 tie is still a played match.
	assert.True(t, m.Played())
}

func TestSortMatches(t *testing.T) {
	matches := []Match{
		{Key: "f1m1", Tier: TierFinals, MatchNumber: 1, SetNumber: 1},
		{Key: "qm2", Tier: TierQualification, MatchNumber: 2, SetNumber: 1},
		{Key: "sf2m1", Tier: TierSemis, MatchNumber: 1, SetNumber: 2},
		{Key: "sf1m1", Tier: TierSemis, MatchNumber: 1, SetNumber: 1},
		{Key: "qm1", Tier: TierQualification, MatchNumber: 1, SetNumber: 1},
	}
	SortMatches(matches)

	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.Key
	}
	assert.Equal(t, []string{"qm1", "qm2", "sf1m1", "sf2m1", "f1m1"}, keys)
}

func TestEventStatus_String(t *testing.T) {
	assert.Equal(t, "qualification matches", StatusQualificationMatches.String())
	assert.Equal(t, "unknown", EventStatus(99).String())
}

func TestEventStatus_InProgress(t *testing.T) {
	assert.True(t, StatusQualificationMatches.InProgress())
	assert.True(t, StatusFinalMatches.InProgress())
	assert.False(t, StatusFinished.InProgress())
	assert.False(t, StatusNotStarted.InProgress())
}
