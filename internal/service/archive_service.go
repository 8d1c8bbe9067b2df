package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/racquet-draw/internal/archive"
	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/logging"
	"github.com/AdamBeresnev/racquet-draw/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ArchiveService exports a completed tournament with the standings it produced.
type ArchiveService struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	matches     *store.MatchStore
	rankings    *store.RankingStore
	uploader    archive.Uploader
	obs         Observers
}

func NewArchiveService(db *sqlx.DB, tournaments *store.TournamentStore, matches *store.MatchStore, rankings *store.RankingStore, uploader archive.Uploader, obs Observers) *ArchiveService {
	return &ArchiveService{
		db:          db,
		tournaments: tournaments,
		matches:     matches,
		rankings:    rankings,
		uploader:    uploader,
		obs:         obs.withDefaults(),
	}
}

func (s *ArchiveService) OnTournamentCompletion(ctx context.Context, tournamentID uuid.UUID) error {
	tournament, err := s.tournaments.GetTournament(ctx, s.db, tournamentID)
	if err != nil {
		return lookupErr(err, "tournament")
	}
	if tournament.Status != bracket.TournamentCompleted {
		return fmt.Errorf("%w: only completed tournaments are archived", ErrState)
	}

	snap := archive.Snapshot{Tournament: *tournament}
	if snap.Categories, err = s.tournaments.ListCategories(ctx, s.db, tournamentID); err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if snap.Pairs, err = s.tournaments.ListPairsByTournament(ctx, s.db, tournamentID); err != nil {
		return fmt.Errorf("list pairs: %w", err)
	}
	if snap.Matches, err = s.matches.ListMatches(ctx, s.db, tournamentID); err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if snap.Standings, err = s.rankings.ListRankingEntries(ctx, s.db); err != nil {
		return fmt.Errorf("list standings: %w", err)
	}

	if err := archive.Export(ctx, s.uploader, snap); err != nil {
		return err
	}
	s.obs.Logger.Info("tournament archived", logging.FieldTournament, tournamentID, "key", archive.Key(tournamentID))
	return nil
}
