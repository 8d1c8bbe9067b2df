package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/events"
	"github.com/AdamBeresnev/racquet-draw/internal/logging"
	"github.com/AdamBeresnev/racquet-draw/internal/store"
	"github.com/AdamBeresnev/racquet-draw/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RankingService struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	rankings    *store.RankingStore
	obs         Observers
	now         func() time.Time
}

func NewRankingService(db *sqlx.DB, tournaments *store.TournamentStore, matches *store.MatchStore, rankings *store.RankingStore, obs Observers) *RankingService {
	return &RankingService{
		db:          db,
		tournaments: tournaments,
		matches:     matches,
		rankings:    rankings,
		obs:         obs.withDefaults(),
		now:         time.Now,
	}
}

type credit struct {
	pairID uuid.UUID
	stage  bracket.Stage
}

// creditsFor lists the stage credits one decided tree match hands out. Semifinal and
// earlier winners are credited by a later round.
func creditsFor(m bracket.Match) []credit {
	credits := []credit{{pairID: *m.LoserPairID, stage: bracket.LoserStage(m.RoundLabel)}}
	if m.RoundLabel == bracket.RoundFinal {
		credits = append(credits, credit{pairID: *m.WinnerPairID, stage: bracket.StageChampion})
	}
	return credits
}

// OnTournamentCompletion credits stage points for a tournament's decided matches and
// recomputes the global ranking in one transaction. Rerunning it adds nothing.
func (s *RankingService) OnTournamentCompletion(ctx context.Context, tournamentID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.tournaments.GetTournament(ctx, tx, tournamentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.obs.Logger.Info("ranking skipped, tournament not found", logging.FieldTournament, tournamentID)
			return nil
		}
		return lookupErr(err, "tournament")
	}

	matches, err := s.matches.ListFinalizedMatches(ctx, tx, tournamentID)
	if err != nil {
		return fmt.Errorf("list finalized matches: %w", err)
	}
	pairs, err := s.tournaments.ListPairsByTournament(ctx, tx, tournamentID)
	if err != nil {
		return fmt.Errorf("list pairs: %w", err)
	}
	pairByID := make(map[uuid.UUID]bracket.Pair, len(pairs))
	for _, p := range pairs {
		pairByID[p.ID] = p
	}

	credited, skipped := 0, 0
	for _, m := range matches {
		if m.IsBye || !m.RoundLabel.IsElimination() {
			continue
		}
		if m.WinnerPairID == nil || m.LoserPairID == nil {
			s.obs.Logger.Warn("finalized match without winner or loser, skipping",
				logging.FieldMatch, m.ID, logging.FieldTournament, tournamentID)
			skipped++
			continue
		}

		for _, c := range creditsFor(m) {
			pair, ok := pairByID[c.pairID]
			if !ok {
				s.obs.Logger.Warn("credited pair not found, skipping",
					logging.FieldMatch, m.ID, "pair", c.pairID)
				skipped++
				continue
			}
			for _, playerID := range pair.Players() {
				isNew, err := s.creditPlayer(ctx, tx, playerID, m, c.stage)
				if err != nil {
					return err
				}
				if isNew {
					credited++
				}
			}
		}
	}

	if err := s.recompute(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.obs.Logger.Info("ranking recomputed",
		logging.FieldTournament, tournamentID,
		"credited", credited,
		"skipped", skipped)
	s.obs.Metrics.RankingRecomputed(credited, skipped)
	s.obs.Events.Publish(events.Event{Type: events.RankingChanged, TournamentID: tournamentID, Payload: map[string]int{"credited": credited}})
	return nil
}

// creditPlayer writes the audit record and, only when it is new, applies it to the
// player's entry.
func (s *RankingService) creditPlayer(ctx context.Context, tx *sqlx.Tx, playerID uuid.UUID, m bracket.Match, stage bracket.Stage) (bool, error) {
	alreadyPlayed, err := s.rankings.PlayerCredited(ctx, tx, playerID, m.TournamentID)
	if err != nil {
		return false, fmt.Errorf("check player credits: %w", err)
	}

	inserted, err := s.rankings.InsertPointsRecord(ctx, tx, &bracket.PointsRecord{
		ID:           uuid.New(),
		PlayerID:     playerID,
		TournamentID: m.TournamentID,
		CategoryID:   m.CategoryID,
		Stage:        stage,
		Points:       stage.Points(),
	})
	if err != nil {
		return false, fmt.Errorf("insert points record: %w", err)
	}
	if !inserted {
		return false, nil
	}

	entry, err := s.rankings.GetRankingEntry(ctx, tx, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		entry = &bracket.RankingEntry{PlayerID: playerID}
	} else if err != nil {
		return false, fmt.Errorf("load ranking entry: %w", err)
	}

	entry.TotalPoints += stage.Points()
	if !alreadyPlayed {
		entry.TournamentsPlayed++
	}
	entry.UpdatedAt = s.now().UTC()
	if err := s.rankings.SaveRankingEntry(ctx, tx, entry); err != nil {
		return false, fmt.Errorf("save ranking entry: %w", err)
	}
	return true, nil
}

// recompute reorders every entry by points. Ties keep their previous relative order and
// each entry's old position becomes its previous position.
func (s *RankingService) recompute(ctx context.Context, tx *sqlx.Tx) error {
	entries, err := s.rankings.ListRankingEntries(ctx, tx)
	if err != nil {
		return fmt.Errorf("list ranking entries: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})

	now := s.now().UTC()
	for i := range entries {
		e := &entries[i]
		e.PreviousPosition = e.Position
		e.Position = utils.Ptr(i + 1)
		e.UpdatedAt = now
		if err := s.rankings.SaveRankingEntry(ctx, tx, e); err != nil {
			return fmt.Errorf("save ranking entry %s: %w", e.PlayerID, err)
		}
	}
	return nil
}

// RecomputeTournament reruns the ranking for a completed tournament on demand.
func (s *RankingService) RecomputeTournament(ctx context.Context, tournamentID uuid.UUID) error {
	tournament, err := s.tournaments.GetTournament(ctx, s.db, tournamentID)
	if err != nil {
		return lookupErr(err, "tournament")
	}
	if tournament.Status != bracket.TournamentCompleted {
		return fmt.Errorf("%w: tournament is %s, ranking needs a completed tournament", ErrState, tournament.Status)
	}
	return s.OnTournamentCompletion(ctx, tournamentID)
}

func (s *RankingService) Rankings(ctx context.Context) ([]bracket.RankingEntry, error) {
	return s.rankings.ListRankingEntries(ctx, s.db)
}

func (s *RankingService) PointsHistory(ctx context.Context, playerID uuid.UUID) ([]bracket.PointsRecord, error) {
	return s.rankings.ListPointsHistory(ctx, s.db, playerID)
}
