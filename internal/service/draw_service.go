package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/events"
	"github.com/AdamBeresnev/racquet-draw/internal/lock"
	"github.com/AdamBeresnev/racquet-draw/internal/logging"
	"github.com/AdamBeresnev/racquet-draw/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type DrawService struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	locker      lock.Locker
	duration    time.Duration
	newRand     func() *rand.Rand
	obs         Observers
}

func NewDrawService(db *sqlx.DB, tournaments *store.TournamentStore, matches *store.MatchStore, locker lock.Locker, matchDuration time.Duration, obs Observers) *DrawService {
	if locker == nil {
		locker = lock.Nop{}
	}
	return &DrawService{
		db:          db,
		tournaments: tournaments,
		matches:     matches,
		locker:      locker,
		duration:    matchDuration,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		obs: obs.withDefaults(),
	}
}

// CategoryDraw is a category's bracket as presented to readers.
type CategoryDraw struct {
	Category bracket.Category `json:"category"`
	Pairs    []bracket.Pair   `json:"pairs"`
	Bracket
}

type BracketView struct {
	Tournament bracket.Tournament `json:"tournament"`
	Categories []CategoryDraw     `json:"categories"`
	Courts     []bracket.Court    `json:"courts"`
}

func drawLockKey(tournamentID uuid.UUID) string {
	return "draw:" + tournamentID.String()
}

// GenerateDraw builds the brackets of every category of a published tournament, schedules
// them and moves the tournament in progress, all in one transaction. A tournament gets at
// most one draw.
func (s *DrawService) GenerateDraw(ctx context.Context, tournamentID uuid.UUID) ([]Bracket, error) {
	l, err := s.locker.Acquire(ctx, drawLockKey(tournamentID))
	if errors.Is(err, lock.ErrLockNotAcquired) {
		return nil, fmt.Errorf("%w: draw generation already running for this tournament", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire draw lock: %w", err)
	}
	defer func() {
		if err := l.Release(context.WithoutCancel(ctx)); err != nil {
			s.obs.Logger.Warn("failed to release draw lock", logging.FieldTournament, tournamentID, "error", err)
		}
	}()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.tournaments.GetTournament(ctx, tx, tournamentID)
	if err != nil {
		return nil, lookupErr(err, "tournament")
	}

	exists, err := s.tournaments.DrawExists(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("check draw: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: draw already generated", ErrConflict)
	}
	if tournament.Status != bracket.TournamentPublished {
		return nil, fmt.Errorf("%w: tournament is %s, draw needs a published tournament", ErrState, tournament.Status)
	}

	if err := s.tournaments.CreateDraw(ctx, tx, tournamentID); err != nil {
		return nil, writeErr(err, "draw")
	}

	categories, err := s.tournaments.ListCategories(ctx, tx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	rng := s.newRand()
	var (
		brackets []Bracket
		all      []bracket.Match
	)
	for _, category := range categories {
		pairs, err := s.tournaments.ListPairs(ctx, tx, category.ID)
		if err != nil {
			return nil, fmt.Errorf("list pairs: %w", err)
		}
		if len(pairs) == 0 {
			s.obs.Logger.Info("category has no pairs, skipping", logging.FieldCategory, category.ID)
			continue
		}

		b := GenerateBracket(tournamentID, category.ID, pairs, rng)
		b.offsetSeq(len(all))
		brackets = append(brackets, b)
		all = append(all, b.Matches()...)
	}

	if err := s.matches.CreateMatches(ctx, tx, all); err != nil {
		return nil, writeErr(err, "matches")
	}

	scheduled, err := s.scheduleTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}

	if err := s.tournaments.UpdateTournamentStatus(ctx, tx, tournamentID, bracket.TournamentPublished, bracket.TournamentInProgress); err != nil {
		return nil, writeErr(err, "tournament")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.obs.Logger.Info("draw generated",
		logging.FieldTournament, tournamentID,
		"categories", len(brackets),
		logging.FieldCount, len(all),
		"scheduled", scheduled)
	s.obs.Metrics.DrawGenerated(len(all))
	s.obs.Metrics.MatchesScheduled(scheduled)
	s.obs.Events.Publish(events.Event{Type: events.DrawPublished, TournamentID: tournamentID, Payload: map[string]int{"matches": len(all)}})
	if scheduled > 0 {
		s.obs.Events.Publish(events.Event{Type: events.MatchesScheduled, TournamentID: tournamentID, Payload: map[string]int{"scheduled": scheduled}})
	}

	return brackets, nil
}

// Schedule reassigns courts and time slots to every undecided match of the tournament.
func (s *DrawService) Schedule(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	tournament, err := s.tournaments.GetTournament(ctx, tx, tournamentID)
	if err != nil {
		return 0, lookupErr(err, "tournament")
	}
	if tournament.Status != bracket.TournamentInProgress {
		return 0, fmt.Errorf("%w: tournament is %s, only a running draw can be scheduled", ErrState, tournament.Status)
	}

	scheduled, err := s.scheduleTx(ctx, tx, tournamentID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.obs.Logger.Info("matches scheduled", logging.FieldTournament, tournamentID, logging.FieldCount, scheduled)
	s.obs.Metrics.MatchesScheduled(scheduled)
	s.obs.Events.Publish(events.Event{Type: events.MatchesScheduled, TournamentID: tournamentID, Payload: map[string]int{"scheduled": scheduled}})
	return scheduled, nil
}

// scheduleTx clears and reassigns the schedule of open tree matches in generation order.
// Byes and the placement match are left alone.
func (s *DrawService) scheduleTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	courts, err := s.tournaments.ListCourts(ctx, tx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("list courts: %w", err)
	}
	slots, err := s.tournaments.ListTimeSlots(ctx, tx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("list time slots: %w", err)
	}
	if len(courts) == 0 || len(slots) == 0 {
		return 0, nil
	}

	matches, err := s.matches.ListMatches(ctx, tx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("list matches: %w", err)
	}

	var pending []*bracket.Match
	for i := range matches {
		m := &matches[i]
		if m.Status.Finalized() || !m.RoundLabel.IsElimination() {
			continue
		}
		m.CourtID, m.ScheduledDate, m.StartTime, m.EndTime = nil, nil, nil, nil
		pending = append(pending, m)
	}

	scheduled := AssignCourts(pending, courts, slots, s.duration)
	for _, m := range pending {
		if err := s.matches.UpdateSchedule(ctx, tx, m); err != nil {
			return 0, fmt.Errorf("update schedule for match %s: %w", m.ID, err)
		}
	}
	return scheduled, nil
}

// GetBracket reads a tournament's full draw. The independent reads run concurrently.
func (s *DrawService) GetBracket(ctx context.Context, tournamentID uuid.UUID) (*BracketView, error) {
	var (
		tournament *bracket.Tournament
		categories []bracket.Category
		pairs      []bracket.Pair
		matches    []bracket.Match
		courts     []bracket.Court
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.tournaments.GetTournament(gctx, s.db, tournamentID)
		if err != nil {
			return lookupErr(err, "tournament")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.tournaments.ListCategories(gctx, s.db, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		pairs, err = s.tournaments.ListPairsByTournament(gctx, s.db, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matches.ListMatches(gctx, s.db, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		courts, err = s.tournaments.ListCourts(gctx, s.db, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairsByCategory := make(map[uuid.UUID][]bracket.Pair)
	for _, p := range pairs {
		pairsByCategory[p.CategoryID] = append(pairsByCategory[p.CategoryID], p)
	}
	matchesByCategory := make(map[uuid.UUID][]bracket.Match)
	for _, m := range matches {
		matchesByCategory[m.CategoryID] = append(matchesByCategory[m.CategoryID], m)
	}

	view := &BracketView{Tournament: *tournament, Courts: courts}
	for _, c := range categories {
		view.Categories = append(view.Categories, CategoryDraw{
			Category: c,
			Pairs:    pairsByCategory[c.ID],
			Bracket:  assembleBracket(c.ID, matchesByCategory[c.ID]),
		})
	}
	return view, nil
}
