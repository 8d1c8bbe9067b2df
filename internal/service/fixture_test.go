package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/events"
	"github.com/AdamBeresnev/racquet-draw/internal/metrics"
	"github.com/AdamBeresnev/racquet-draw/internal/store"
	"github.com/AdamBeresnev/racquet-draw/internal/testutil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Type
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	rankings    *store.RankingStore
	events      *recordingPublisher
	metrics     *metrics.Recorder

	tournamentService *TournamentService
	drawService       *DrawService
	matchService      *MatchService
	rankingService    *RankingService
}

func newFixture(t *testing.T, extraHandlers ...CompletionHandler) *fixture {
	t.Helper()

	f := &fixture{
		db:          testutil.NewDB(t),
		tournaments: store.NewTournamentStore(),
		matches:     store.NewMatchStore(),
		rankings:    store.NewRankingStore(),
		events:      &recordingPublisher{},
		metrics:     metrics.NewRecorder(),
	}
	obs := Observers{Metrics: f.metrics, Events: f.events}

	f.tournamentService = NewTournamentService(f.db, f.tournaments, obs)
	f.drawService = NewDrawService(f.db, f.tournaments, f.matches, nil, 90*time.Minute, obs)
	f.drawService.newRand = seededRand
	f.rankingService = NewRankingService(f.db, f.tournaments, f.matches, f.rankings, obs)

	handlers := append([]CompletionHandler{f.rankingService}, extraHandlers...)
	f.matchService = NewMatchService(f.db, f.tournaments, f.matches, obs, handlers...)
	return f
}

// publishedTournament creates a published tournament with one category per entry of
// pairCounts, each holding that many pairs.
func (f *fixture) publishedTournament(t *testing.T, pairCounts ...int) (*bracket.Tournament, []bracket.Category) {
	t.Helper()
	ctx := context.Background()

	tournament, err := f.tournamentService.CreateTournament(ctx, "Spring Open")
	require.NoError(t, err)

	var categories []bracket.Category
	for i, n := range pairCounts {
		category, err := f.tournamentService.AddCategory(ctx, tournament.ID, "Category "+string(rune('A'+i)))
		require.NoError(t, err)
		categories = append(categories, *category)

		if n == 0 {
			continue
		}
		inputs := make([]PairInput, n)
		for j := range inputs {
			inputs[j] = PairInput{PlayerAID: uuid.New(), PlayerBID: uuid.New()}
		}
		_, err = f.tournamentService.RegisterPairs(ctx, category.ID, inputs)
		require.NoError(t, err)
	}

	tournament, err = f.tournamentService.Publish(ctx, tournament.ID)
	require.NoError(t, err)
	return tournament, categories
}

// drawnTournament is a published tournament whose draw has been generated.
func (f *fixture) drawnTournament(t *testing.T, pairCounts ...int) (*bracket.Tournament, []bracket.Match) {
	t.Helper()
	ctx := context.Background()

	tournament, _ := f.publishedTournament(t, pairCounts...)
	_, err := f.drawService.GenerateDraw(ctx, tournament.ID)
	require.NoError(t, err)

	matches, err := f.matches.ListMatches(ctx, f.db, tournament.ID)
	require.NoError(t, err)
	return tournament, matches
}

func sets(games ...int) ResultPayload {
	var payload ResultPayload
	for i := 0; i+1 < len(games); i += 2 {
		a, b := games[i], games[i+1]
		payload.Sets = append(payload.Sets, SetScore{A: &a, B: &b})
	}
	return payload
}

func findMatches(matches []bracket.Match, label bracket.RoundLabel) []bracket.Match {
	var out []bracket.Match
	for _, m := range matches {
		if m.RoundLabel == label {
			out = append(out, m)
		}
	}
	return out
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *bracket.Match {
	t.Helper()
	m, err := f.matches.GetMatch(context.Background(), f.db, id)
	require.NoError(t, err)
	return m
}
