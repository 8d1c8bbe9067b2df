package service

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/utils"
	"github.com/google/uuid"
)

const byeNote = "bye"

// Round is one level of a category's draw.
type Round struct {
	Label   bracket.RoundLabel `json:"label"`
	Number  int                `json:"number"`
	Matches []bracket.Match    `json:"matches"`
}

// Bracket is a generated single-elimination draw for one category. Rounds run from the
// first round to the final.
type Bracket struct {
	CategoryID uuid.UUID      `json:"category_id"`
	Rounds     []Round        `json:"rounds"`
	ThirdPlace *bracket.Match `json:"third_place,omitempty"`
}

// Matches flattens the bracket in generation order, placement match last.
func (b Bracket) Matches() []bracket.Match {
	var out []bracket.Match
	for _, r := range b.Rounds {
		out = append(out, r.Matches...)
	}
	if b.ThirdPlace != nil {
		out = append(out, *b.ThirdPlace)
	}
	return out
}

func (b *Bracket) offsetSeq(offset int) {
	for r := range b.Rounds {
		for i := range b.Rounds[r].Matches {
			b.Rounds[r].Matches[i].Seq += offset
		}
	}
	if b.ThirdPlace != nil {
		b.ThirdPlace.Seq += offset
	}
}

// assembleBracket regroups stored matches, already in generation order, into rounds.
func assembleBracket(categoryID uuid.UUID, matches []bracket.Match) Bracket {
	b := Bracket{CategoryID: categoryID}
	index := make(map[int]int)
	for _, m := range matches {
		if !m.RoundLabel.IsElimination() {
			third := m
			b.ThirdPlace = &third
			continue
		}
		i, ok := index[m.RoundNumber]
		if !ok {
			i = len(b.Rounds)
			index[m.RoundNumber] = i
			b.Rounds = append(b.Rounds, Round{Label: m.RoundLabel, Number: m.RoundNumber})
		}
		b.Rounds[i].Matches = append(b.Rounds[i].Matches, m)
	}
	sort.SliceStable(b.Rounds, func(i, j int) bool {
		return b.Rounds[i].Number > b.Rounds[j].Number
	})
	return b
}

// Shuffle returns a Fisher-Yates permutation of pairs, leaving the input untouched.
func Shuffle(pairs []bracket.Pair, rng *rand.Rand) []bracket.Pair {
	out := make([]bracket.Pair, len(pairs))
	copy(out, pairs)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Rounds needed for count pairs. A lone pair still gets a final.
func roundCount(count int) int {
	if count <= 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(count))))
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}
	return 1 << roundCount(count)
}

func slotForIndex(i int) bracket.Slot {
	if i%2 == 0 {
		return bracket.SlotA
	}
	return bracket.SlotB
}

// hasPlacementMatch reports whether both semifinals will produce a loser. With three pairs
// one semifinal is a bye, so there is no third-place match.
func hasPlacementMatch(count int) bool {
	rounds := roundCount(count)
	return rounds > 2 || (rounds == 2 && count == calcBracketSize(count))
}

// GenerateBracket builds the single-elimination draw for one category.
//
// First-round match i takes shuffled[i] in slot A and shuffled[capacity/2+i] in slot B, so
// byes never meet each other. A first-round match left with a single pair is resolved as a
// bye walkover and its pair is placed in the next round. A lone pair's final stays
// programmed, waiting for a manual walkover.
func GenerateBracket(tournamentID, categoryID uuid.UUID, pairs []bracket.Pair, rng *rand.Rand) Bracket {
	b := Bracket{CategoryID: categoryID}
	n := len(pairs)
	if n == 0 {
		return b
	}

	rounds := roundCount(n)
	capacity := calcBracketSize(n)

	// Significantly easier to start from the final and work outwards,
	// every match then knows its successor's id.
	byDistance := make([][]bracket.Match, rounds+1)
	for d := 1; d <= rounds; d++ {
		matches := make([]bracket.Match, 1<<(d-1))
		for i := range matches {
			m := bracket.Match{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				CategoryID:   categoryID,
				RoundLabel:   bracket.LabelForDistance(d),
				RoundNumber:  d,
				MatchOrder:   i + 1,
				Status:       bracket.MatchProgrammed,
			}
			if d > 1 {
				m.NextMatchID = utils.Ptr(byDistance[d-1][i/2].ID)
				m.NextSlot = utils.Ptr(slotForIndex(i))
			}
			matches[i] = m
		}
		byDistance[d] = matches
	}

	shuffled := Shuffle(pairs, rng)
	half := capacity / 2
	first := byDistance[rounds]
	for i := range first {
		first[i].PairAID = utils.Ptr(shuffled[i].ID)
		if half+i < n {
			first[i].PairBID = utils.Ptr(shuffled[half+i].ID)
		}
	}

	if hasPlacementMatch(n) {
		semis := byDistance[2]
		third := bracket.Match{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			CategoryID:   categoryID,
			RoundLabel:   bracket.RoundThirdPlace,
			RoundNumber:  1,
			MatchOrder:   1,
			Status:       bracket.MatchProgrammed,
		}
		for i := range semis {
			semis[i].LoserNextMatchID = utils.Ptr(third.ID)
			semis[i].LoserNextSlot = utils.Ptr(slotForIndex(i))
		}
		b.ThirdPlace = &third
	}

	if rounds >= 2 {
		for i := range first {
			m := &first[i]
			if m.PairBID != nil {
				continue
			}
			m.Status = bracket.MatchWalkover
			m.IsBye = true
			m.WinnerPairID = m.PairAID
			m.Note = utils.Ptr(byeNote)
			byDistance[rounds-1][i/2].Place(*m.NextSlot, *m.PairAID)
		}
	}

	for d := rounds; d >= 1; d-- {
		b.Rounds = append(b.Rounds, Round{
			Label:   bracket.LabelForDistance(d),
			Number:  d,
			Matches: byDistance[d],
		})
	}

	seq := 0
	for r := range b.Rounds {
		for i := range b.Rounds[r].Matches {
			b.Rounds[r].Matches[i].Seq = seq
			seq++
		}
	}
	if b.ThirdPlace != nil {
		b.ThirdPlace.Seq = seq
	}
	return b
}
