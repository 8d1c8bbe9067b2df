package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUploader struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (m *memoryUploader) Upload(_ context.Context, key, contentType string, body io.Reader) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func TestExportWritesSnapshotUnderTournamentKey(t *testing.T) {
	up := &memoryUploader{objects: map[string][]byte{}, types: map[string]string{}}
	tournament := bracket.Tournament{ID: uuid.New(), Name: "Open", Status: bracket.TournamentCompleted}

	err := Export(context.Background(), up, Snapshot{
		Tournament: tournament,
		Matches:    []bracket.Match{{ID: uuid.New(), RoundLabel: bracket.RoundFinal}},
	})
	require.NoError(t, err)

	key := "tournaments/" + tournament.ID.String() + "/final.json"
	require.Contains(t, up.objects, key)
	assert.Equal(t, "application/json", up.types[key])

	var snap Snapshot
	require.NoError(t, json.Unmarshal(up.objects[key], &snap))
	assert.Equal(t, tournament.ID, snap.Tournament.ID)
	assert.Len(t, snap.Matches, 1)
	assert.False(t, snap.ExportedAt.IsZero())
}

func TestExportWrapsUploadError(t *testing.T) {
	up := &memoryUploader{err: errors.New("bucket gone")}

	err := Export(context.Background(), up, Snapshot{Tournament: bracket.Tournament{ID: uuid.New()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{Region: "auto"})
	assert.Error(t, err)
}
