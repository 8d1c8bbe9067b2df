package store

import (
	"context"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchStore struct{}

func NewMatchStore() *MatchStore {
	return &MatchStore{}
}

const insertMatchQuery = `INSERT INTO matches (id, tournament_id, category_id, round_label, round_number, match_order, seq,
    pair_a_id, pair_b_id, status, winner_pair_id, loser_pair_id, is_bye,
    next_match_id, next_slot, loser_next_match_id, loser_next_slot)
    VALUES (:id, :tournament_id, :category_id, :round_label, :round_number, :match_order, :seq,
    :pair_a_id, :pair_b_id, :status, :winner_pair_id, :loser_pair_id, :is_bye,
    :next_match_id, :next_slot, :loser_next_match_id, :loser_next_slot)`

// CreateMatches inserts a category's matches in one statement so that the successor
// references inside the batch are checked together.
func (s *MatchStore) CreateMatches(ctx context.Context, q sqlx.ExtContext, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, q, insertMatchQuery, matches)
	return wrapInsert(err, "matches")
}

func (s *MatchStore) GetMatch(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	err := sqlx.GetContext(ctx, q, &match, q.Rebind("SELECT * FROM matches WHERE id = ?"), id)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListMatches returns a tournament's matches in generation order.
func (s *MatchStore) ListMatches(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := sqlx.SelectContext(ctx, q, &matches, q.Rebind("SELECT * FROM matches WHERE tournament_id = ? ORDER BY seq ASC"), tournamentID)
	return matches, err
}

func (s *MatchStore) ListFinalizedMatches(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := sqlx.SelectContext(ctx, q, &matches, q.Rebind(`SELECT * FROM matches
        WHERE tournament_id = ? AND status IN (?, ?)
        ORDER BY seq ASC`), tournamentID, bracket.MatchFinished, bracket.MatchWalkover)
	return matches, err
}

// CountOpenEliminationMatches counts matches of the advancement tree still to be decided.
func (s *MatchStore) CountOpenEliminationMatches(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, q.Rebind(`SELECT COUNT(*) FROM matches
        WHERE tournament_id = ? AND round_label <> ? AND status IN (?, ?)`),
		tournamentID, bracket.RoundThirdPlace, bracket.MatchProgrammed, bracket.MatchInPlay)
	return count, err
}

// CountOpenFeeders counts undecided matches that will still place a pair into matchID,
// either as winner or as a semifinal loser.
func (s *MatchStore) CountOpenFeeders(ctx context.Context, q sqlx.ExtContext, matchID uuid.UUID) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, q.Rebind(`SELECT COUNT(*) FROM matches
        WHERE (next_match_id = ? OR loser_next_match_id = ?) AND status IN (?, ?)`),
		matchID, matchID, bracket.MatchProgrammed, bracket.MatchInPlay)
	return count, err
}

// FinalizeMatch writes the result only while the match is still open. A concurrent
// submission that got there first leaves zero affected rows and yields ErrStale.
func (s *MatchStore) FinalizeMatch(ctx context.Context, q sqlx.ExtContext, match *bracket.Match) error {
	query, args, err := sqlx.Named(`UPDATE matches SET
        status = :status,
        set1_a = :set1_a, set1_b = :set1_b,
        set2_a = :set2_a, set2_b = :set2_b,
        set3_a = :set3_a, set3_b = :set3_b,
        winner_pair_id = :winner_pair_id,
        loser_pair_id = :loser_pair_id,
        note = :note
        WHERE id = :id AND status IN ('programmed', 'in_play')`, match)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrStale)
}

func (s *MatchStore) UpdateMatchStatus(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, from, to bracket.MatchStatus) error {
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE matches SET status = ? WHERE id = ? AND status = ?"), to, id, from)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrStale)
}

// PlacePair fills one slot of a match that has not been decided yet.
func (s *MatchStore) PlacePair(ctx context.Context, q sqlx.ExtContext, matchID uuid.UUID, slot bracket.Slot, pairID uuid.UUID) error {
	column := "pair_a_id"
	if slot == bracket.SlotB {
		column = "pair_b_id"
	}
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE matches SET "+column+" = ? WHERE id = ? AND status IN ('programmed', 'in_play')"), pairID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrStale)
}

func (s *MatchStore) UpdateSchedule(ctx context.Context, q sqlx.ExtContext, match *bracket.Match) error {
	_, err := sqlx.NamedExecContext(ctx, q, `UPDATE matches SET
        court_id = :court_id,
        scheduled_date = :scheduled_date,
        start_time = :start_time,
        end_time = :end_time
        WHERE id = :id`, match)
	return err
}
