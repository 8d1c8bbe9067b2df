package events

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	DrawPublished    Type = "draw_published"
	MatchesScheduled Type = "matches_scheduled"
	ResultFinalized  Type = "result_finalized"
	RankingChanged   Type = "ranking_changed"
)

// Event is a fire-and-forget notification about the bracket. Delivery is best effort.
type Event struct {
	Type         Type      `json:"type"`
	TournamentID uuid.UUID `json:"tournament_id"`
	Payload      any       `json:"payload,omitempty"`
	At           time.Time `json:"at"`
}

type Publisher interface {
	Publish(e Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
