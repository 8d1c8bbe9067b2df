package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchProgrammed MatchStatus = "programmed"
	MatchInPlay     MatchStatus = "in_play"
	MatchFinished   MatchStatus = "finished"
	MatchWalkover   MatchStatus = "walkover"
)

func (s MatchStatus) Finalized() bool {
	return s == MatchFinished || s == MatchWalkover
}

type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	CategoryID   uuid.UUID `db:"category_id" json:"category_id"`

	// Position in the draw for reconstructing the view
	RoundLabel  RoundLabel `db:"round_label" json:"round_label"`
	RoundNumber int        `db:"round_number" json:"round_number"`
	MatchOrder  int        `db:"match_order" json:"match_order"`
	Seq         int        `db:"seq" json:"seq"`

	PairAID *uuid.UUID `db:"pair_a_id" json:"pair_a_id"`
	PairBID *uuid.UUID `db:"pair_b_id" json:"pair_b_id"`

	Status MatchStatus `db:"status" json:"status"`
	Score

	WinnerPairID *uuid.UUID `db:"winner_pair_id" json:"winner_pair_id"`
	LoserPairID  *uuid.UUID `db:"loser_pair_id" json:"loser_pair_id"`
	Note         *string    `db:"note" json:"note,omitempty"`
	IsBye        bool       `db:"is_bye" json:"is_bye"`

	CourtID       *uuid.UUID `db:"court_id" json:"court_id"`
	ScheduledDate *string    `db:"scheduled_date" json:"scheduled_date"`
	StartTime     *string    `db:"start_time" json:"start_time"`
	EndTime       *string    `db:"end_time" json:"end_time"`

	NextMatchID *uuid.UUID `db:"next_match_id" json:"next_match_id"`
	NextSlot    *Slot      `db:"next_slot" json:"next_slot"`

	LoserNextMatchID *uuid.UUID `db:"loser_next_match_id" json:"loser_next_match_id"`
	LoserNextSlot    *Slot      `db:"loser_next_slot" json:"loser_next_slot"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (m *Match) HasPair(pairID uuid.UUID) bool {
	return (m.PairAID != nil && *m.PairAID == pairID) || (m.PairBID != nil && *m.PairBID == pairID)
}

// Opponent returns the pair facing pairID, or nil for an empty slot.
func (m *Match) Opponent(pairID uuid.UUID) *uuid.UUID {
	if m.PairAID != nil && *m.PairAID == pairID {
		return m.PairBID
	}
	return m.PairAID
}

// Place puts a pair into one of the two slots.
func (m *Match) Place(slot Slot, pairID uuid.UUID) {
	id := pairID
	if slot == SlotA {
		m.PairAID = &id
	} else {
		m.PairBID = &id
	}
}

func (m *Match) Scheduled() bool {
	return m.CourtID != nil
}
