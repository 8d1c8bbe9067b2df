package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToTournamentRoomOnly(t *testing.T) {
	hub := NewHub(slog.Default(), []string{"*"})
	tournamentID := uuid.New()
	otherID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.MustParse(r.URL.Query().Get("t"))
		hub.ServeWS(w, r, id)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?t=" + tournamentID.String()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(tournamentID) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(Event{Type: ResultFinalized, TournamentID: otherID})
	hub.Publish(Event{Type: DrawPublished, TournamentID: tournamentID, Payload: map[string]int{"matches": 3}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, DrawPublished, got.Type)
	assert.Equal(t, tournamentID, got.TournamentID)
	assert.False(t, got.At.IsZero())
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub := NewHub(slog.Default(), []string{"*"})
	tournamentID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, tournamentID)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Subscribers(tournamentID) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers(tournamentID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubChecksOrigin(t *testing.T) {
	hub := NewHub(slog.Default(), []string{"https://club.example"})
	tournamentID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, tournamentID)
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	testCases := []struct {
		name   string
		origin string
		ok     bool
	}{
		{name: "allowed origin", origin: "https://club.example", ok: true},
		{name: "allowed origin any case", origin: "https://CLUB.example", ok: true},
		{name: "foreign origin", origin: "https://evil.example", ok: false},
		{name: "no origin header", origin: "", ok: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			header := http.Header{}
			if tc.origin != "" {
				header.Set("Origin", tc.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			if tc.ok {
				require.NoError(t, err)
				conn.Close()
				return
			}
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestDiscardPublisher(t *testing.T) {
	var p Publisher = Discard{}
	p.Publish(Event{Type: RankingChanged})
}
