package bracket

import "fmt"

type RoundLabel string

const (
	RoundFinal        RoundLabel = "FINAL"
	RoundSemifinal    RoundLabel = "SEMIFINAL"
	RoundQuarterfinal RoundLabel = "QUARTERFINAL"
	RoundOf16         RoundLabel = "ROUND_OF_16"
	RoundOf32         RoundLabel = "ROUND_OF_32"
	RoundThirdPlace   RoundLabel = "THIRD_PLACE"
)

// Indexed by distance from the final.
var roundLadder = []RoundLabel{
	1: RoundFinal,
	2: RoundSemifinal,
	3: RoundQuarterfinal,
	4: RoundOf16,
	5: RoundOf32,
}

// LabelForDistance names a round by how many rounds it sits from the final (final = 1).
func LabelForDistance(distance int) RoundLabel {
	if distance >= 1 && distance < len(roundLadder) {
		return roundLadder[distance]
	}
	return RoundLabel(fmt.Sprintf("ROUND_%d", distance))
}

// IsElimination reports whether the label belongs to the advancement tree.
// The placement match is the only generated round that is not.
func (l RoundLabel) IsElimination() bool {
	return l != RoundThirdPlace && l != ""
}
