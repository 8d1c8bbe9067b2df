package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetWinner(t *testing.T) {
	testCases := []struct {
		name     string
		set      SetResult
		expected Slot
		err      error
	}{
		{name: "6-4", set: SetResult{6, 4}, expected: SlotA},
		{name: "6-0", set: SetResult{6, 0}, expected: SlotA},
		{name: "4-6 mirrored", set: SetResult{4, 6}, expected: SlotB},
		{name: "7-5", set: SetResult{7, 5}, expected: SlotA},
		{name: "7-6", set: SetResult{7, 6}, expected: SlotA},
		{name: "6-7", set: SetResult{6, 7}, expected: SlotB},
		{name: "6-5 unfinished", set: SetResult{6, 5}, err: ErrSetIncomplete},
		{name: "5-3 unfinished", set: SetResult{5, 3}, err: ErrSetIncomplete},
		{name: "7-4 impossible", set: SetResult{7, 4}, err: ErrSetIncomplete},
		{name: "6-6", set: SetResult{6, 6}, err: ErrSetIncomplete},
		{name: "8-6 out of range", set: SetResult{8, 6}, err: ErrGamesOutOfRange},
		{name: "negative", set: SetResult{-1, 6}, err: ErrGamesOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := SetWinner(tc.set)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, slot)
		})
	}
}

func TestScoreWinner(t *testing.T) {
	third := func(a, b int) *SetResult { return &SetResult{a, b} }

	testCases := []struct {
		name     string
		score    Score
		expected Slot
		err      error
	}{
		{name: "straight sets A", score: NewScore(SetResult{6, 3}, SetResult{6, 4}, nil), expected: SlotA},
		{name: "straight sets B", score: NewScore(SetResult{3, 6}, SetResult{5, 7}, nil), expected: SlotB},
		{name: "three sets B", score: NewScore(SetResult{6, 4}, SetResult{4, 6}, third(6, 7)), expected: SlotB},
		{name: "split without third set", score: NewScore(SetResult{6, 4}, SetResult{4, 6}, nil), err: ErrNoMajority},
		{name: "third set after 2-0", score: NewScore(SetResult{6, 4}, SetResult{6, 4}, third(6, 0)), err: ErrExtraSet},
		{name: "invalid second set", score: NewScore(SetResult{6, 4}, SetResult{6, 5}, nil), err: ErrSetIncomplete},
		{name: "out of range third set", score: NewScore(SetResult{6, 4}, SetResult{4, 6}, third(9, 7)), err: ErrGamesOutOfRange},
		{name: "one set only", score: Score{Set1A: intPtr(6), Set1B: intPtr(0)}, err: ErrSetIncomplete},
		{
			name:     "half filled third set is ignored",
			score:    Score{Set1A: intPtr(6), Set1B: intPtr(1), Set2A: intPtr(6), Set2B: intPtr(2), Set3A: intPtr(3)},
			expected: SlotA,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			slot, err := tc.score.Winner()
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, slot)
		})
	}
}

func TestScoreWinnerNamesTheOffendingSet(t *testing.T) {
	_, err := NewScore(SetResult{6, 4}, SetResult{8, 6}, nil).Winner()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set 2 (8-6)")
}
