package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the elimination stage a pair reached, used for point allocation.
type Stage string

const (
	StageChampion     Stage = "CAMPEON"
	StageFinalist     Stage = "FINALISTA"
	StageSemifinalist Stage = "SEMIFINALISTA"
	StageQuarters     Stage = "CUARTOS"
	StageRoundOf16    Stage = "OCTAVOS"
	StageFirstRound   Stage = "PRIMERA_RONDA"
)

var stagePoints = map[Stage]int{
	StageChampion:     100,
	StageFinalist:     60,
	StageSemifinalist: 35,
	StageQuarters:     15,
	StageRoundOf16:    8,
	StageFirstRound:   3,
}

func (s Stage) Points() int {
	return stagePoints[s]
}

// LoserStage is the stage credited to the pair eliminated in a round.
func LoserStage(label RoundLabel) Stage {
	switch label {
	case RoundFinal:
		return StageFinalist
	case RoundSemifinal:
		return StageSemifinalist
	case RoundQuarterfinal:
		return StageQuarters
	case RoundOf16:
		return StageRoundOf16
	}
	return StageFirstRound
}

type RankingEntry struct {
	PlayerID          uuid.UUID `db:"player_id" json:"player_id"`
	TotalPoints       int       `db:"total_points" json:"total_points"`
	TournamentsPlayed int       `db:"tournaments_played" json:"tournaments_played"`
	Position          *int      `db:"position" json:"position"`
	PreviousPosition  *int      `db:"previous_position" json:"previous_position"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Trend is positive when the player moved up since the previous recomputation.
func (e RankingEntry) Trend() int {
	if e.Position == nil || e.PreviousPosition == nil {
		return 0
	}
	return *e.PreviousPosition - *e.Position
}

// PointsRecord is the immutable audit row behind a ranking credit.
type PointsRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PlayerID     uuid.UUID `db:"player_id" json:"player_id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	CategoryID   uuid.UUID `db:"category_id" json:"category_id"`
	Stage        Stage     `db:"stage" json:"stage"`
	Points       int       `db:"points" json:"points"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
