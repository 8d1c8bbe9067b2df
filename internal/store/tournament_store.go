package store

import (
	"context"
	"database/sql"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TournamentStore persists tournaments, their categories, registered pairs and venue.
// Methods take a sqlx.ExtContext so callers choose between the pool and a transaction.
type TournamentStore struct{}

func NewTournamentStore() *TournamentStore {
	return &TournamentStore{}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, q sqlx.ExtContext, tournament *bracket.Tournament) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO tournaments (id, name, status)
        VALUES (:id, :name, :status)`, tournament)
	return wrapInsert(err, "tournament")
}

func (s *TournamentStore) GetTournament(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := sqlx.GetContext(ctx, q, &tournament, q.Rebind("SELECT * FROM tournaments WHERE id = ?"), id)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context, q sqlx.ExtContext) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := sqlx.SelectContext(ctx, q, &tournaments, "SELECT * FROM tournaments ORDER BY created_at DESC, name ASC")
	return tournaments, err
}

// UpdateTournamentStatus moves a tournament from one status to another and reports
// ErrStale when it was not in the expected status.
func (s *TournamentStore) UpdateTournamentStatus(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, from, to bracket.TournamentStatus) error {
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE tournaments SET status = ? WHERE id = ? AND status = ?"), to, id, from)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrStale)
}

func (s *TournamentStore) CreateCategory(ctx context.Context, q sqlx.ExtContext, category *bracket.Category) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO categories (id, tournament_id, name)
        VALUES (:id, :tournament_id, :name)`, category)
	return wrapInsert(err, "category")
}

func (s *TournamentStore) GetCategory(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Category, error) {
	var category bracket.Category
	err := sqlx.GetContext(ctx, q, &category, q.Rebind("SELECT * FROM categories WHERE id = ?"), id)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *TournamentStore) ListCategories(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Category, error) {
	var categories []bracket.Category
	err := sqlx.SelectContext(ctx, q, &categories, q.Rebind("SELECT * FROM categories WHERE tournament_id = ? ORDER BY created_at ASC, name ASC"), tournamentID)
	return categories, err
}

func (s *TournamentStore) CreatePair(ctx context.Context, q sqlx.ExtContext, pair *bracket.Pair) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO pairs (id, category_id, player_a_id, player_b_id)
        VALUES (:id, :category_id, :player_a_id, :player_b_id)`, pair)
	return wrapInsert(err, "pair")
}

func (s *TournamentStore) GetPair(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Pair, error) {
	var pair bracket.Pair
	err := sqlx.GetContext(ctx, q, &pair, q.Rebind("SELECT * FROM pairs WHERE id = ?"), id)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// ListPairs returns a category's pairs in registration order.
func (s *TournamentStore) ListPairs(ctx context.Context, q sqlx.ExtContext, categoryID uuid.UUID) ([]bracket.Pair, error) {
	var pairs []bracket.Pair
	err := sqlx.SelectContext(ctx, q, &pairs, q.Rebind("SELECT * FROM pairs WHERE category_id = ? ORDER BY created_at ASC, id ASC"), categoryID)
	return pairs, err
}

func (s *TournamentStore) ListPairsByTournament(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Pair, error) {
	var pairs []bracket.Pair
	err := sqlx.SelectContext(ctx, q, &pairs, q.Rebind(`SELECT p.* FROM pairs p
        JOIN categories c ON c.id = p.category_id
        WHERE c.tournament_id = ?
        ORDER BY p.created_at ASC, p.id ASC`), tournamentID)
	return pairs, err
}

func (s *TournamentStore) DeletePair(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM pairs WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, sql.ErrNoRows)
}

func (s *TournamentStore) CreateCourt(ctx context.Context, q sqlx.ExtContext, court *bracket.Court) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO courts (id, tournament_id, name, position)
        VALUES (:id, :tournament_id, :name, :position)`, court)
	return wrapInsert(err, "court")
}

func (s *TournamentStore) ListCourts(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Court, error) {
	var courts []bracket.Court
	err := sqlx.SelectContext(ctx, q, &courts, q.Rebind("SELECT * FROM courts WHERE tournament_id = ? ORDER BY position ASC"), tournamentID)
	return courts, err
}

func (s *TournamentStore) CreateTimeSlot(ctx context.Context, q sqlx.ExtContext, slot *bracket.TimeSlot) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO time_slots (id, tournament_id, slot_date, start_time, end_time)
        VALUES (:id, :tournament_id, :slot_date, :start_time, :end_time)`, slot)
	return wrapInsert(err, "time slot")
}

func (s *TournamentStore) ListTimeSlots(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.TimeSlot, error) {
	var slots []bracket.TimeSlot
	err := sqlx.SelectContext(ctx, q, &slots, q.Rebind("SELECT * FROM time_slots WHERE tournament_id = ? ORDER BY slot_date ASC, start_time ASC"), tournamentID)
	return slots, err
}

// CreateDraw claims the tournament's single draw. A second claim fails with ErrDuplicate.
func (s *TournamentStore) CreateDraw(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) error {
	_, err := q.ExecContext(ctx, q.Rebind("INSERT INTO draws (tournament_id) VALUES (?)"), tournamentID)
	return wrapInsert(err, "draw")
}

func (s *TournamentStore) DrawExists(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, q.Rebind("SELECT COUNT(*) FROM draws WHERE tournament_id = ?"), tournamentID)
	return count > 0, err
}
