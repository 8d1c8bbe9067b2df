package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.DrawGenerated(3)
	r.MatchesScheduled(2)
	r.ResultSubmitted("score", nil)
	r.RankingRecomputed(4, 1)
	r.RecordHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.DrawGenerated(7)
	r.DrawGenerated(3)
	r.MatchesScheduled(5)
	r.ResultSubmitted("score", nil)
	r.ResultSubmitted("score", errors.New("bad set"))
	r.RankingRecomputed(8, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.drawsGenerated))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.matchesCreated))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.matchesScheduled))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.results.WithLabelValues("score", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.results.WithLabelValues("score", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rankingRuns))
	assert.Equal(t, 8.0, testutil.ToFloat64(r.pointsCredited))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rankingSkipped))
}

func TestHandlerServesRegistry(t *testing.T) {
	r := NewRecorder()
	r.DrawGenerated(1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "draws_generated_total 1")
}
