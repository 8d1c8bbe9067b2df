package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/logging"
	"github.com/AdamBeresnev/racquet-draw/internal/store"
	"github.com/AdamBeresnev/racquet-draw/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	obs   Observers
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, obs Observers) *TournamentService {
	return &TournamentService{db: db, store: store, obs: obs.withDefaults()}
}

func (s *TournamentService) CreateTournament(ctx context.Context, name string) (*bracket.Tournament, error) {
	trimmed := utils.StringOrNil(name)
	if trimmed == nil {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidation)
	}

	tournament := &bracket.Tournament{
		ID:     uuid.New(),
		Name:   *trimmed,
		Status: bracket.TournamentDraft,
	}
	if err := s.store.CreateTournament(ctx, s.db, tournament); err != nil {
		return nil, writeErr(err, "tournament")
	}

	s.obs.Logger.Info("tournament created", logging.FieldTournament, tournament.ID)
	return s.GetTournament(ctx, tournament.ID)
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	tournament, err := s.store.GetTournament(ctx, s.db, id)
	if err != nil {
		return nil, lookupErr(err, "tournament")
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	return s.store.ListTournaments(ctx, s.db)
}

// Publish opens a draft tournament for draw generation.
func (s *TournamentService) Publish(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	tournament, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status != bracket.TournamentDraft {
		return nil, fmt.Errorf("%w: tournament is already %s", ErrState, tournament.Status)
	}

	if err := s.store.UpdateTournamentStatus(ctx, s.db, id, bracket.TournamentDraft, bracket.TournamentPublished); err != nil {
		return nil, writeErr(err, "tournament")
	}
	tournament.Status = bracket.TournamentPublished
	return tournament, nil
}

// ensureNoDraw rejects changes to registrations once the draw exists.
func (s *TournamentService) ensureNoDraw(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) error {
	exists, err := s.store.DrawExists(ctx, q, tournamentID)
	if err != nil {
		return fmt.Errorf("check draw: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: registrations are closed once the draw is generated", ErrConflict)
	}
	return nil
}

func (s *TournamentService) AddCategory(ctx context.Context, tournamentID uuid.UUID, name string) (*bracket.Category, error) {
	trimmed := utils.StringOrNil(name)
	if trimmed == nil {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournament(ctx, tx, tournamentID); err != nil {
		return nil, lookupErr(err, "tournament")
	}
	if err := s.ensureNoDraw(ctx, tx, tournamentID); err != nil {
		return nil, err
	}

	category := &bracket.Category{ID: uuid.New(), TournamentID: tournamentID, Name: *trimmed}
	if err := s.store.CreateCategory(ctx, tx, category); err != nil {
		return nil, writeErr(err, "category")
	}
	return category, tx.Commit()
}

func (s *TournamentService) ListCategories(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Category, error) {
	return s.store.ListCategories(ctx, s.db, tournamentID)
}

type PairInput struct {
	PlayerAID uuid.UUID `json:"player_a_id"`
	PlayerBID uuid.UUID `json:"player_b_id"`
}

// RegisterPairs adds confirmed pairs to a category. Registrations close with the draw.
func (s *TournamentService) RegisterPairs(ctx context.Context, categoryID uuid.UUID, inputs []PairInput) ([]bracket.Pair, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no pairs given", ErrValidation)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	category, err := s.store.GetCategory(ctx, tx, categoryID)
	if err != nil {
		return nil, lookupErr(err, "category")
	}
	if err := s.ensureNoDraw(ctx, tx, category.TournamentID); err != nil {
		return nil, err
	}

	existing, err := s.store.ListPairs(ctx, tx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	registered := make(map[uuid.UUID]bool)
	for _, p := range existing {
		registered[p.PlayerAID] = true
		registered[p.PlayerBID] = true
	}

	pairs := make([]bracket.Pair, 0, len(inputs))
	for i, in := range inputs {
		if in.PlayerAID == uuid.Nil || in.PlayerBID == uuid.Nil {
			return nil, fmt.Errorf("%w: pair %d is missing a player", ErrValidation, i+1)
		}
		if in.PlayerAID == in.PlayerBID {
			return nil, fmt.Errorf("%w: pair %d names the same player twice", ErrValidation, i+1)
		}
		for _, player := range []uuid.UUID{in.PlayerAID, in.PlayerBID} {
			if registered[player] {
				return nil, fmt.Errorf("%w: player %s is already registered in this category", ErrConflict, player)
			}
			registered[player] = true
		}

		pair := bracket.Pair{ID: uuid.New(), CategoryID: categoryID, PlayerAID: in.PlayerAID, PlayerBID: in.PlayerBID}
		if err := s.store.CreatePair(ctx, tx, &pair); err != nil {
			return nil, writeErr(err, "pair")
		}
		pairs = append(pairs, pair)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.obs.Logger.Info("pairs registered", logging.FieldCategory, categoryID, logging.FieldCount, len(pairs))
	return pairs, nil
}

// ParsePairs reads one pair per line as "playerA,playerB". Blank lines are ignored.
func ParsePairs(text string) ([]PairInput, error) {
	var inputs []PairInput
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected two player ids", ErrValidation, i+1)
		}
		a, err := uuid.Parse(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrValidation, i+1, err)
		}
		b, err := uuid.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrValidation, i+1, err)
		}
		inputs = append(inputs, PairInput{PlayerAID: a, PlayerBID: b})
	}
	return inputs, nil
}

// WithdrawPair removes a pair before the draw is generated.
func (s *TournamentService) WithdrawPair(ctx context.Context, pairID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pair, err := s.store.GetPair(ctx, tx, pairID)
	if err != nil {
		return lookupErr(err, "pair")
	}
	category, err := s.store.GetCategory(ctx, tx, pair.CategoryID)
	if err != nil {
		return lookupErr(err, "category")
	}
	if err := s.ensureNoDraw(ctx, tx, category.TournamentID); err != nil {
		return err
	}
	if err := s.store.DeletePair(ctx, tx, pairID); err != nil {
		return lookupErr(err, "pair")
	}
	return tx.Commit()
}

func (s *TournamentService) AddCourt(ctx context.Context, tournamentID uuid.UUID, name string) (*bracket.Court, error) {
	trimmed := utils.StringOrNil(name)
	if trimmed == nil {
		return nil, fmt.Errorf("%w: court name is required", ErrValidation)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.store.GetTournament(ctx, tx, tournamentID); err != nil {
		return nil, lookupErr(err, "tournament")
	}
	courts, err := s.store.ListCourts(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}

	court := &bracket.Court{ID: uuid.New(), TournamentID: tournamentID, Name: *trimmed, Position: len(courts) + 1}
	if err := s.store.CreateCourt(ctx, tx, court); err != nil {
		return nil, writeErr(err, "court")
	}
	return court, tx.Commit()
}

// AddTimeSlot adds a playing window. Date is YYYY-MM-DD and times are zero-padded HH:MM.
func (s *TournamentService) AddTimeSlot(ctx context.Context, tournamentID uuid.UUID, date, start, end string) (*bracket.TimeSlot, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrValidation, date)
	}
	for _, clock := range []string{start, end} {
		if _, err := time.Parse(clockLayout, clock); err != nil || len(clock) != len(clockLayout) {
			return nil, fmt.Errorf("%w: time %q must be HH:MM", ErrValidation, clock)
		}
	}

	if _, err := s.store.GetTournament(ctx, s.db, tournamentID); err != nil {
		return nil, lookupErr(err, "tournament")
	}

	slot := &bracket.TimeSlot{ID: uuid.New(), TournamentID: tournamentID, Date: date, StartTime: start, EndTime: end}
	if err := s.store.CreateTimeSlot(ctx, s.db, slot); err != nil {
		return nil, writeErr(err, "time slot")
	}
	return slot, nil
}

func (s *TournamentService) ListTimeSlots(ctx context.Context, tournamentID uuid.UUID) ([]bracket.TimeSlot, error) {
	return s.store.ListTimeSlots(ctx, s.db, tournamentID)
}
