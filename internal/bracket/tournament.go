package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentDraft      TournamentStatus = "draft"
	TournamentPublished  TournamentStatus = "published"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
)

type Tournament struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Status    TournamentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// Category is a division within a tournament, e.g. a skill tier crossed with gender.
type Category struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Pair is a doubles team registered into a category. Pairs cannot change once the
// tournament's draw has been generated.
type Pair struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CategoryID uuid.UUID `db:"category_id" json:"category_id"`
	PlayerAID  uuid.UUID `db:"player_a_id" json:"player_a_id"`
	PlayerBID  uuid.UUID `db:"player_b_id" json:"player_b_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (p Pair) Players() [2]uuid.UUID {
	return [2]uuid.UUID{p.PlayerAID, p.PlayerBID}
}
