package bracket

import (
	"errors"
	"fmt"
)

const (
	MaxGamesPerSet = 7
	gamesToWinSet  = 6
)

var (
	ErrGamesOutOfRange = errors.New("game count out of range")
	ErrSetIncomplete   = errors.New("set is not complete")
	ErrNoMajority      = errors.New("no side won a majority of sets")
	ErrExtraSet        = errors.New("third set played after the match was decided")
)

// SetResult is the games won by each slot in one set.
type SetResult struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Score holds up to three sets as stored on the match row.
type Score struct {
	Set1A *int `db:"set1_a" json:"set1_a"`
	Set1B *int `db:"set1_b" json:"set1_b"`
	Set2A *int `db:"set2_a" json:"set2_a"`
	Set2B *int `db:"set2_b" json:"set2_b"`
	Set3A *int `db:"set3_a" json:"set3_a"`
	Set3B *int `db:"set3_b" json:"set3_b"`
}

// Sets returns the played sets. The third set only counts when both sides have a value.
func (s Score) Sets() []SetResult {
	var sets []SetResult
	for _, pair := range [][2]*int{{s.Set1A, s.Set1B}, {s.Set2A, s.Set2B}, {s.Set3A, s.Set3B}} {
		if pair[0] == nil || pair[1] == nil {
			continue
		}
		sets = append(sets, SetResult{A: *pair[0], B: *pair[1]})
	}
	return sets
}

// NewScore builds a stored score from two mandatory sets and an optional third.
func NewScore(first, second SetResult, third *SetResult) Score {
	s := Score{
		Set1A: intPtr(first.A), Set1B: intPtr(first.B),
		Set2A: intPtr(second.A), Set2B: intPtr(second.B),
	}
	if third != nil {
		s.Set3A = intPtr(third.A)
		s.Set3B = intPtr(third.B)
	}
	return s
}

// SetWinner applies the set-completion rule: 6 games against at most 4, or 7 against 5 or 6.
func SetWinner(set SetResult) (Slot, error) {
	for _, g := range []int{set.A, set.B} {
		if g < 0 || g > MaxGamesPerSet {
			return "", ErrGamesOutOfRange
		}
	}
	switch {
	case wins(set.A, set.B):
		return SlotA, nil
	case wins(set.B, set.A):
		return SlotB, nil
	}
	return "", ErrSetIncomplete
}

func wins(games, opponent int) bool {
	if games == gamesToWinSet && opponent <= gamesToWinSet-2 {
		return true
	}
	return games == MaxGamesPerSet && (opponent == gamesToWinSet-1 || opponent == gamesToWinSet)
}

// Winner validates every set and returns the slot that took the strict majority.
// Errors name the offending set.
func (s Score) Winner() (Slot, error) {
	sets := s.Sets()
	if len(sets) < 2 {
		return "", fmt.Errorf("%w: two sets are required", ErrSetIncomplete)
	}

	wonA, wonB := 0, 0
	for i, set := range sets {
		if i == 2 && (wonA == 2 || wonB == 2) {
			return "", ErrExtraSet
		}
		slot, err := SetWinner(set)
		if err != nil {
			return "", fmt.Errorf("set %d (%d-%d): %w", i+1, set.A, set.B, err)
		}
		if slot == SlotA {
			wonA++
		} else {
			wonB++
		}
	}

	switch {
	case wonA >= 2 && wonA > wonB:
		return SlotA, nil
	case wonB >= 2 && wonB > wonA:
		return SlotB, nil
	}
	return "", ErrNoMajority
}

func intPtr(v int) *int {
	return &v
}
