package service

import (
	"context"
	"errors"
	"testing"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionRecorder struct {
	calls []uuid.UUID
	err   error
}

func (r *completionRecorder) OnTournamentCompletion(_ context.Context, tournamentID uuid.UUID) error {
	r.calls = append(r.calls, tournamentID)
	return r.err
}

func intp(v int) *int { return &v }

func TestSubmitResultFinalOfTwoPairs(t *testing.T) {
	hook := &completionRecorder{err: errors.New("archive unavailable")}
	f := newFixture(t, hook)
	ctx := context.Background()
	tournament, matches := f.drawnTournament(t, 2)
	require.Len(t, matches, 1)
	final := matches[0]

	match, err := f.matchService.SubmitResult(ctx, final.ID, sets(6, 3, 6, 4))
	require.NoError(t, err, "a failing completion handler does not fail the result")
	assert.Equal(t, bracket.MatchFinished, match.Status)
	assert.Equal(t, *final.PairAID, *match.WinnerPairID)
	assert.Equal(t, *final.PairBID, *match.LoserPairID)

	stored := f.reload(t, final.ID)
	assert.Equal(t, bracket.MatchFinished, stored.Status)
	assert.Equal(t, bracket.NewScore(bracket.SetResult{A: 6, B: 3}, bracket.SetResult{A: 6, B: 4}, nil), stored.Score)

	updated, err := f.tournamentService.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, updated.Status)
	assert.Equal(t, []uuid.UUID{tournament.ID}, hook.calls)

	winners, err := f.tournaments.GetPair(ctx, f.db, *final.PairAID)
	require.NoError(t, err)
	losers, err := f.tournaments.GetPair(ctx, f.db, *final.PairBID)
	require.NoError(t, err)

	for _, player := range winners.Players() {
		history, err := f.rankingService.PointsHistory(ctx, player)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, bracket.StageChampion, history[0].Stage)
		assert.Equal(t, 100, history[0].Points)
	}
	for _, player := range losers.Players() {
		history, err := f.rankingService.PointsHistory(ctx, player)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, bracket.StageFinalist, history[0].Stage)
		assert.Equal(t, 60, history[0].Points)
	}

	assert.Contains(t, f.events.types(), events.ResultFinalized)
	assert.Contains(t, f.events.types(), events.RankingChanged)
}

func TestSubmitResultOnFinalizedMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, matches := f.drawnTournament(t, 4)
	semi := findMatches(matches, bracket.RoundSemifinal)[0]

	_, err := f.matchService.SubmitResult(ctx, semi.ID, sets(6, 1, 6, 2))
	require.NoError(t, err)
	before := f.reload(t, semi.ID)

	testCases := []struct {
		name    string
		payload ResultPayload
	}{
		{name: "score", payload: sets(1, 6, 2, 6)},
		{name: "walkover", payload: ResultPayload{Walkover: &WalkoverResult{WinnerPairID: *semi.PairBID}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.matchService.SubmitResult(ctx, semi.ID, tc.payload)
			assert.ErrorIs(t, err, ErrConflict)
			assert.Equal(t, before, f.reload(t, semi.ID))
		})
	}
}

func TestSubmitResultValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, matches := f.drawnTournament(t, 4)
	semi := findMatches(matches, bracket.RoundSemifinal)[0]

	testCases := []struct {
		name    string
		payload ResultPayload
	}{
		{name: "unfinished set", payload: sets(6, 5, 6, 4)},
		{name: "games out of range", payload: sets(8, 6, 6, 4)},
		{name: "split without third set", payload: sets(6, 4, 4, 6)},
		{name: "third set after straight sets", payload: sets(6, 4, 6, 4, 6, 0)},
		{name: "single set", payload: sets(6, 4)},
		{name: "four sets", payload: sets(6, 4, 4, 6, 6, 4, 6, 4)},
		{name: "missing game count", payload: ResultPayload{Sets: []SetScore{{A: intp(6), B: intp(4)}, {A: intp(6)}}}},
		{name: "half third set on a split", payload: ResultPayload{Sets: []SetScore{{A: intp(6), B: intp(4)}, {A: intp(4), B: intp(6)}, {A: intp(6)}}}},
		{name: "walkover and score", payload: ResultPayload{Walkover: &WalkoverResult{WinnerPairID: *semi.PairAID}, Sets: sets(6, 0, 6, 0).Sets}},
		{name: "walkover for an outsider", payload: ResultPayload{Walkover: &WalkoverResult{WinnerPairID: uuid.New()}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.matchService.SubmitResult(ctx, semi.ID, tc.payload)
			assert.ErrorIs(t, err, ErrValidation)

			stored := f.reload(t, semi.ID)
			assert.Equal(t, bracket.MatchProgrammed, stored.Status)
			assert.Nil(t, stored.WinnerPairID)
			assert.Nil(t, stored.Set1A)
		})
	}
}

func TestSubmitResultIgnoresHalfFilledThirdSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, matches := f.drawnTournament(t, 4)
	semi := findMatches(matches, bracket.RoundSemifinal)[0]

	payload := ResultPayload{Sets: []SetScore{{A: intp(6), B: intp(2)}, {A: intp(7), B: intp(5)}, {A: intp(3)}}}
	match, err := f.matchService.SubmitResult(ctx, semi.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, *semi.PairAID, *match.WinnerPairID)

	stored := f.reload(t, semi.ID)
	assert.Nil(t, stored.Set3A)
	assert.Nil(t, stored.Set3B)
}

func TestSubmitResultAdvancesPairs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament, matches := f.drawnTournament(t, 4)
	semis := findMatches(matches, bracket.RoundSemifinal)
	final := findMatches(matches, bracket.RoundFinal)[0]
	third := findMatches(matches, bracket.RoundThirdPlace)[0]
	require.Len(t, semis, 2)

	_, err := f.matchService.SubmitResult(ctx, final.ID, sets(6, 0, 6, 0))
	assert.ErrorIs(t, err, ErrState, "the final has no pairs yet")

	_, err = f.matchService.SubmitResult(ctx, semis[0].ID, sets(4, 6, 3, 6))
	require.NoError(t, err)
	_, err = f.matchService.SubmitResult(ctx, semis[1].ID, ResultPayload{
		Walkover: &WalkoverResult{WinnerPairID: *semis[1].PairAID, Note: "injury"},
	})
	require.NoError(t, err)

	walkover := f.reload(t, semis[1].ID)
	assert.Equal(t, bracket.MatchWalkover, walkover.Status)
	assert.Equal(t, *semis[1].PairBID, *walkover.LoserPairID)
	require.NotNil(t, walkover.Note)
	assert.Equal(t, "injury", *walkover.Note)
	assert.Nil(t, walkover.Set1A)

	storedFinal := f.reload(t, final.ID)
	assert.Equal(t, *semis[0].PairBID, *storedFinal.PairAID)
	assert.Equal(t, *semis[1].PairAID, *storedFinal.PairBID)

	storedThird := f.reload(t, third.ID)
	assert.Equal(t, *semis[0].PairAID, *storedThird.PairAID)
	assert.Equal(t, *semis[1].PairBID, *storedThird.PairBID)

	running, err := f.tournamentService.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentInProgress, running.Status)

	_, err = f.matchService.SubmitResult(ctx, final.ID, sets(6, 4, 3, 6, 7, 6))
	require.NoError(t, err)

	completed, err := f.tournamentService.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, completed.Status, "the placement match does not hold completion back")

	_, err = f.matchService.SubmitResult(ctx, third.ID, sets(6, 2, 6, 2))
	require.NoError(t, err)
}

func TestSubmitResultWaitsForPendingPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament, matches := f.drawnTournament(t, 4)
	semis := findMatches(matches, bracket.RoundSemifinal)
	final := findMatches(matches, bracket.RoundFinal)[0]
	third := findMatches(matches, bracket.RoundThirdPlace)[0]
	require.Len(t, semis, 2)

	_, err := f.matchService.SubmitResult(ctx, semis[0].ID, sets(6, 2, 6, 2))
	require.NoError(t, err)
	winner := *semis[0].PairAID

	_, err = f.matchService.SubmitResult(ctx, final.ID, ResultPayload{
		Walkover: &WalkoverResult{WinnerPairID: winner},
	})
	assert.ErrorIs(t, err, ErrState, "the other semifinal is still open")
	_, err = f.matchService.SubmitResult(ctx, third.ID, ResultPayload{
		Walkover: &WalkoverResult{WinnerPairID: *semis[0].PairBID},
	})
	assert.ErrorIs(t, err, ErrState, "the other semifinal loser is still owed")

	stored := f.reload(t, final.ID)
	assert.Equal(t, bracket.MatchProgrammed, stored.Status)
	assert.Nil(t, stored.WinnerPairID)

	_, err = f.matchService.SubmitResult(ctx, semis[1].ID, sets(6, 3, 6, 3))
	require.NoError(t, err, "the pending semifinal can still be decided")

	_, err = f.matchService.SubmitResult(ctx, final.ID, ResultPayload{
		Walkover: &WalkoverResult{WinnerPairID: winner, Note: "retired"},
	})
	require.NoError(t, err)

	completed, err := f.tournamentService.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, completed.Status)
}

func TestSubmitResultWalkoverForLonePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament, matches := f.drawnTournament(t, 1)
	require.Len(t, matches, 1)
	final := matches[0]
	require.NotNil(t, final.PairAID)
	require.Nil(t, final.PairBID)

	_, err := f.matchService.SubmitResult(ctx, final.ID, sets(6, 0, 6, 0))
	assert.ErrorIs(t, err, ErrState, "a score needs two pairs")

	decided, err := f.matchService.SubmitResult(ctx, final.ID, ResultPayload{
		Walkover: &WalkoverResult{WinnerPairID: *final.PairAID},
	})
	require.NoError(t, err)
	assert.Equal(t, bracket.MatchWalkover, decided.Status)
	assert.Nil(t, decided.LoserPairID)

	completed, err := f.tournamentService.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, completed.Status)
}

func TestSubmitResultUnknownMatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.matchService.SubmitResult(context.Background(), uuid.New(), sets(6, 0, 6, 0))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, matches := f.drawnTournament(t, 4)
	semi := findMatches(matches, bracket.RoundSemifinal)[0]
	final := findMatches(matches, bracket.RoundFinal)[0]

	_, err := f.matchService.StartMatch(ctx, final.ID)
	assert.ErrorIs(t, err, ErrState)

	started, err := f.matchService.StartMatch(ctx, semi.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.MatchInPlay, started.Status)
	assert.Equal(t, bracket.MatchInPlay, f.reload(t, semi.ID).Status)

	_, err = f.matchService.StartMatch(ctx, semi.ID)
	assert.ErrorIs(t, err, ErrState)

	_, err = f.matchService.SubmitResult(ctx, semi.ID, sets(6, 4, 6, 4))
	require.NoError(t, err)

	_, err = f.matchService.StartMatch(ctx, semi.ID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.matchService.StartMatch(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, matches := f.drawnTournament(t, 2)

	match, err := f.matchService.GetMatch(ctx, matches[0].ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.RoundFinal, match.RoundLabel)

	_, err = f.matchService.GetMatch(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
