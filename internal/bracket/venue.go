package bracket

import "github.com/google/uuid"

type Court struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	Position     int       `db:"position" json:"position"`
}

// TimeSlot is a playing window shared by every court of the tournament.
// Date is YYYY-MM-DD, times are HH:MM.
type TimeSlot struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Date         string    `db:"slot_date" json:"date"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
}

// CourtTimeSlot is one schedulable (court, window) combination.
type CourtTimeSlot struct {
	CourtID   uuid.UUID
	Date      string
	StartTime string
	EndTime   string
}
