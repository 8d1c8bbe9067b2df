package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/google/uuid"
)

// Uploader stores an object under a key.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
}

// Snapshot is the archived record of a completed tournament.
type Snapshot struct {
	Tournament bracket.Tournament     `json:"tournament"`
	Categories []bracket.Category     `json:"categories"`
	Pairs      []bracket.Pair         `json:"pairs"`
	Matches    []bracket.Match        `json:"matches"`
	Standings  []bracket.RankingEntry `json:"standings"`
	ExportedAt time.Time              `json:"exported_at"`
}

// Key is where a tournament's snapshot lives in the bucket.
func Key(tournamentID uuid.UUID) string {
	return fmt.Sprintf("tournaments/%s/final.json", tournamentID)
}

// Export serializes the snapshot and hands it to the uploader.
func Export(ctx context.Context, up Uploader, snap Snapshot) error {
	if snap.ExportedAt.IsZero() {
		snap.ExportedAt = time.Now().UTC()
	}
	body, err := json.MarshalIndent(snap, "", "\t")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := up.Upload(ctx, Key(snap.Tournament.ID), "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("upload snapshot for tournament %s: %w", snap.Tournament.ID, err)
	}
	return nil
}
