package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/events"
	"github.com/AdamBeresnev/racquet-draw/internal/logging"
	"github.com/AdamBeresnev/racquet-draw/internal/store"
	"github.com/AdamBeresnev/racquet-draw/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CompletionHandler reacts to a tournament whose last elimination match was decided.
type CompletionHandler interface {
	OnTournamentCompletion(ctx context.Context, tournamentID uuid.UUID) error
}

type MatchService struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	onComplete  []CompletionHandler
	obs         Observers
}

func NewMatchService(db *sqlx.DB, tournaments *store.TournamentStore, matches *store.MatchStore, obs Observers, onComplete ...CompletionHandler) *MatchService {
	return &MatchService{
		db:          db,
		tournaments: tournaments,
		matches:     matches,
		onComplete:  onComplete,
		obs:         obs.withDefaults(),
	}
}

// SetScore is one set as submitted. A third set counts only when both sides are given.
type SetScore struct {
	A *int `json:"a"`
	B *int `json:"b"`
}

type WalkoverResult struct {
	WinnerPairID uuid.UUID `json:"winner_pair_id"`
	Note         string    `json:"note"`
}

// ResultPayload carries either a walkover or the played sets, never both.
type ResultPayload struct {
	Walkover *WalkoverResult `json:"walkover,omitempty"`
	Sets     []SetScore      `json:"sets,omitempty"`
}

func (p ResultPayload) kind() string {
	if p.Walkover != nil {
		return "walkover"
	}
	return "score"
}

// score turns submitted sets into a stored score, dropping a half-filled third set.
func (p ResultPayload) score() (bracket.Score, error) {
	if len(p.Sets) < 2 || len(p.Sets) > 3 {
		return bracket.Score{}, fmt.Errorf("%w: expected 2 or 3 sets, got %d", ErrValidation, len(p.Sets))
	}
	for i, set := range p.Sets[:2] {
		if set.A == nil || set.B == nil {
			return bracket.Score{}, fmt.Errorf("%w: set %d is missing a game count", ErrValidation, i+1)
		}
	}

	score := bracket.Score{
		Set1A: p.Sets[0].A, Set1B: p.Sets[0].B,
		Set2A: p.Sets[1].A, Set2B: p.Sets[1].B,
	}
	if len(p.Sets) == 3 && p.Sets[2].A != nil && p.Sets[2].B != nil {
		score.Set3A, score.Set3B = p.Sets[2].A, p.Sets[2].B
	}
	return score, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID uuid.UUID) (*bracket.Match, error) {
	match, err := s.matches.GetMatch(ctx, s.db, matchID)
	if err != nil {
		return nil, lookupErr(err, "match")
	}
	return match, nil
}

// StartMatch marks a programmed match with both pairs known as in play.
func (s *MatchService) StartMatch(ctx context.Context, matchID uuid.UUID) (*bracket.Match, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.matches.GetMatch(ctx, tx, matchID)
	if err != nil {
		return nil, lookupErr(err, "match")
	}

	switch {
	case match.Status.Finalized():
		return nil, fmt.Errorf("%w: match is already %s", ErrConflict, match.Status)
	case match.Status == bracket.MatchInPlay:
		return nil, fmt.Errorf("%w: match is already in play", ErrState)
	case match.PairAID == nil || match.PairBID == nil:
		return nil, fmt.Errorf("%w: both pairs must be known before the match starts", ErrState)
	}

	if err := s.matches.UpdateMatchStatus(ctx, tx, matchID, bracket.MatchProgrammed, bracket.MatchInPlay); err != nil {
		return nil, writeErr(err, "match")
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	match.Status = bracket.MatchInPlay
	return match, nil
}

// SubmitResult finalizes a match, advances the winner and, for a semifinal, sends the
// loser to the placement match. A finalized match is never changed again.
func (s *MatchService) SubmitResult(ctx context.Context, matchID uuid.UUID, payload ResultPayload) (match *bracket.Match, err error) {
	kind := payload.kind()
	defer func() { s.obs.Metrics.ResultSubmitted(kind, err) }()

	if payload.Walkover != nil && len(payload.Sets) > 0 {
		return nil, fmt.Errorf("%w: a result is either a walkover or a score", ErrValidation)
	}
	var score bracket.Score
	if payload.Walkover == nil {
		if score, err = payload.score(); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err = s.matches.GetMatch(ctx, tx, matchID)
	if err != nil {
		return nil, lookupErr(err, "match")
	}
	if match.Status.Finalized() {
		return nil, fmt.Errorf("%w: match is already %s", ErrConflict, match.Status)
	}
	if err := s.ensureNoPendingPair(ctx, tx, match); err != nil {
		return nil, err
	}

	if payload.Walkover != nil {
		err = applyWalkover(match, *payload.Walkover)
	} else {
		err = applyScore(match, score)
	}
	if err != nil {
		return nil, err
	}

	if err := s.matches.FinalizeMatch(ctx, tx, match); err != nil {
		return nil, writeErr(err, "match")
	}

	if match.NextMatchID != nil && match.NextSlot != nil {
		if err := s.matches.PlacePair(ctx, tx, *match.NextMatchID, *match.NextSlot, *match.WinnerPairID); err != nil {
			return nil, writeErr(err, "next match")
		}
	}
	if match.LoserNextMatchID != nil && match.LoserNextSlot != nil && match.LoserPairID != nil {
		if err := s.matches.PlacePair(ctx, tx, *match.LoserNextMatchID, *match.LoserNextSlot, *match.LoserPairID); err != nil {
			return nil, writeErr(err, "placement match")
		}
	}

	completed, err := s.completeIfDecided(ctx, tx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.obs.Logger.Info("match result recorded",
		logging.FieldMatch, match.ID,
		logging.FieldTournament, match.TournamentID,
		"status", match.Status)
	s.obs.Events.Publish(events.Event{Type: events.ResultFinalized, TournamentID: match.TournamentID, Payload: match})

	if completed {
		s.runCompletion(ctx, match.TournamentID)
	}
	return match, nil
}

// ensureNoPendingPair rejects a result while an empty slot is still owed a pair by an
// undecided match. A lone pair's final has no feeders and may be decided by walkover.
func (s *MatchService) ensureNoPendingPair(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	if match.PairAID != nil && match.PairBID != nil {
		return nil
	}
	feeders, err := s.matches.CountOpenFeeders(ctx, tx, match.ID)
	if err != nil {
		return fmt.Errorf("count open feeders: %w", err)
	}
	if feeders > 0 {
		return fmt.Errorf("%w: match is still waiting for a pair", ErrState)
	}
	return nil
}

func applyWalkover(match *bracket.Match, w WalkoverResult) error {
	if !match.HasPair(w.WinnerPairID) {
		return fmt.Errorf("%w: pair %s does not play this match", ErrValidation, w.WinnerPairID)
	}
	match.Status = bracket.MatchWalkover
	match.WinnerPairID = utils.Ptr(w.WinnerPairID)
	match.LoserPairID = match.Opponent(w.WinnerPairID)
	match.Note = utils.StringOrNil(w.Note)
	return nil
}

func applyScore(match *bracket.Match, score bracket.Score) error {
	if match.PairAID == nil || match.PairBID == nil {
		return fmt.Errorf("%w: both pairs must be known before a score is entered", ErrState)
	}
	slot, err := score.Winner()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	match.Status = bracket.MatchFinished
	match.Score = score
	if slot == bracket.SlotA {
		match.WinnerPairID, match.LoserPairID = match.PairAID, match.PairBID
	} else {
		match.WinnerPairID, match.LoserPairID = match.PairBID, match.PairAID
	}
	return nil
}

// completeIfDecided closes a running tournament once no tree match is left open.
func (s *MatchService) completeIfDecided(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (bool, error) {
	open, err := s.matches.CountOpenEliminationMatches(ctx, tx, tournamentID)
	if err != nil {
		return false, fmt.Errorf("count open matches: %w", err)
	}
	if open > 0 {
		return false, nil
	}

	tournament, err := s.tournaments.GetTournament(ctx, tx, tournamentID)
	if err != nil {
		return false, lookupErr(err, "tournament")
	}
	if tournament.Status != bracket.TournamentInProgress {
		return false, nil
	}

	if err := s.tournaments.UpdateTournamentStatus(ctx, tx, tournamentID, bracket.TournamentInProgress, bracket.TournamentCompleted); err != nil {
		return false, writeErr(err, "tournament")
	}
	return true, nil
}

// runCompletion runs the handlers after the result is committed. Their failures are logged
// and do not undo the result.
func (s *MatchService) runCompletion(ctx context.Context, tournamentID uuid.UUID) {
	s.obs.Logger.Info("tournament completed", logging.FieldTournament, tournamentID)
	ctx = context.WithoutCancel(ctx)
	for _, h := range s.onComplete {
		if err := h.OnTournamentCompletion(ctx, tournamentID); err != nil {
			s.obs.Logger.Error("tournament completion handler failed", logging.FieldTournament, tournamentID, "error", err)
		}
	}
}
