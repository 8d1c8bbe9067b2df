package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelForDistance(t *testing.T) {
	testCases := []struct {
		distance int
		expected RoundLabel
	}{
		{1, RoundFinal},
		{2, RoundSemifinal},
		{3, RoundQuarterfinal},
		{4, RoundOf16},
		{5, RoundOf32},
		{6, RoundLabel("ROUND_6")},
		{7, RoundLabel("ROUND_7")},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, LabelForDistance(tc.distance), "distance %d", tc.distance)
	}
}

func TestIsElimination(t *testing.T) {
	assert.True(t, RoundFinal.IsElimination())
	assert.True(t, RoundLabel("ROUND_6").IsElimination())
	assert.False(t, RoundThirdPlace.IsElimination())
	assert.False(t, RoundLabel("").IsElimination())
}

func TestLoserStage(t *testing.T) {
	testCases := []struct {
		label  RoundLabel
		stage  Stage
		points int
	}{
		{RoundFinal, StageFinalist, 60},
		{RoundSemifinal, StageSemifinalist, 35},
		{RoundQuarterfinal, StageQuarters, 15},
		{RoundOf16, StageRoundOf16, 8},
		{RoundOf32, StageFirstRound, 3},
		{RoundLabel("ROUND_6"), StageFirstRound, 3},
	}

	for _, tc := range testCases {
		t.Run(string(tc.label), func(t *testing.T) {
			stage := LoserStage(tc.label)
			assert.Equal(t, tc.stage, stage)
			assert.Equal(t, tc.points, stage.Points())
		})
	}
	assert.Equal(t, 100, StageChampion.Points())
}

func TestRankingEntryTrend(t *testing.T) {
	pos := func(v int) *int { return &v }

	assert.Equal(t, 2, RankingEntry{Position: pos(3), PreviousPosition: pos(5)}.Trend())
	assert.Equal(t, -1, RankingEntry{Position: pos(4), PreviousPosition: pos(3)}.Trend())
	assert.Equal(t, 0, RankingEntry{Position: pos(1)}.Trend())
}
