package store

import (
	"context"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RankingStore struct{}

func NewRankingStore() *RankingStore {
	return &RankingStore{}
}

// InsertPointsRecord stores an audit row once per (player, tournament, category, stage).
// It reports false when the record already existed.
func (s *RankingStore) InsertPointsRecord(ctx context.Context, q sqlx.ExtContext, record *bracket.PointsRecord) (bool, error) {
	res, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO points_history (id, player_id, tournament_id, category_id, stage, points)
        VALUES (:id, :player_id, :tournament_id, :category_id, :stage, :points)
        ON CONFLICT (player_id, tournament_id, category_id, stage) DO NOTHING`, record)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// PlayerCredited reports whether the player already holds a record for the tournament,
// in any category.
func (s *RankingStore) PlayerCredited(ctx context.Context, q sqlx.ExtContext, playerID, tournamentID uuid.UUID) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, q.Rebind(`SELECT COUNT(*) FROM points_history
        WHERE player_id = ? AND tournament_id = ?`), playerID, tournamentID)
	return count > 0, err
}

func (s *RankingStore) ListPointsHistory(ctx context.Context, q sqlx.ExtContext, playerID uuid.UUID) ([]bracket.PointsRecord, error) {
	var records []bracket.PointsRecord
	err := sqlx.SelectContext(ctx, q, &records, q.Rebind(`SELECT * FROM points_history
        WHERE player_id = ? ORDER BY created_at DESC, stage ASC`), playerID)
	return records, err
}

// ListRankingEntries returns every entry in current standing order, unranked last.
func (s *RankingStore) ListRankingEntries(ctx context.Context, q sqlx.ExtContext) ([]bracket.RankingEntry, error) {
	var entries []bracket.RankingEntry
	err := sqlx.SelectContext(ctx, q, &entries, `SELECT * FROM ranking_entries
        ORDER BY CASE WHEN position IS NULL THEN 1 ELSE 0 END, position ASC, player_id ASC`)
	return entries, err
}

func (s *RankingStore) GetRankingEntry(ctx context.Context, q sqlx.ExtContext, playerID uuid.UUID) (*bracket.RankingEntry, error) {
	var entry bracket.RankingEntry
	err := sqlx.GetContext(ctx, q, &entry, q.Rebind("SELECT * FROM ranking_entries WHERE player_id = ?"), playerID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *RankingStore) SaveRankingEntry(ctx context.Context, q sqlx.ExtContext, entry *bracket.RankingEntry) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO ranking_entries (player_id, total_points, tournaments_played, position, previous_position, updated_at)
        VALUES (:player_id, :total_points, :tournaments_played, :position, :previous_position, :updated_at)
        ON CONFLICT (player_id) DO UPDATE SET
            total_points = excluded.total_points,
            tournaments_played = excluded.tournaments_played,
            position = excluded.position,
            previous_position = excluded.previous_position,
            updated_at = excluded.updated_at`, entry)
	return err
}
