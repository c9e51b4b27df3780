package websocket_test

import (
	"testing"
	"time"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/testutil"
	"github.com/dom/worldcup-stats/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveSession_CompareFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ws := testutil.NewWSClient(t, ts.WebSocketURL())

	ws.SyncState()
	initial := ws.ExpectRadarState(defaultTimeout)
	assert.NotEmpty(t, initial.SessionID)
	assert.Equal(t, domain.PositionAll, initial.Radar.Position)

	ws.SetPosition(domain.PositionForward)
	state := ws.ExpectRadarState(defaultTimeout)
	assert.Equal(t, domain.PositionForward, state.Radar.Position)
	ws.ExpectSearchResults(defaultTimeout)

	ws.AddSubject("2022", "Argentina", testutil.MessiFile)
	state = ws.ExpectRadarState(defaultTimeout)
	testutil.AssertSubjectNames(t, state.Radar, "Lionel Messi")

	ws.AddSubject("2022", "France", testutil.MbappeFile)
	state = ws.ExpectRadarState(defaultTimeout)
	testutil.AssertSubjectNames(t, state.Radar, "Lionel Messi", "Kylian Mbappé")
	testutil.AssertScoresInRange(t, state.Radar)

	ws.SetBasis(domain.BasisTeamPercent)
	state = ws.ExpectRadarState(defaultTimeout)
	assert.Equal(t, domain.BasisTeamPercent, state.Radar.Basis)

	ws.RemoveSubject(domain.PlayerID("2022", "Argentina", testutil.MessiFile))
	state = ws.ExpectRadarState(defaultTimeout)
	testutil.AssertSubjectNames(t, state.Radar, "Kylian Mbappé")
	assert.Equal(t, initial.SessionID, state.SessionID)

	ws.DrainMessages()
}

func TestLiveSession_AddMissingPlayer(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ws := testutil.NewWSClient(t, ts.WebSocketURL())

	ws.AddSubject("2022", "Argentina", "maradona.json")
	ws.ExpectErrorWithCode(websocket.ErrCodeFetchFailed, defaultTimeout)

	// The connection stays usable after a recoverable error
	ws.SyncState()
	state := ws.ExpectRadarState(defaultTimeout)
	assert.Empty(t, state.Radar.Subjects)
}

func TestLiveSession_Search(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ws := testutil.NewWSClient(t, ts.WebSocketURL())

	ws.Search("mbap")

	results := ws.ExpectSearchResults(defaultTimeout)
	assert.Equal(t, "mbap", results.Query)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "Kylian Mbappé", results.Results[0].Name)

	ws.ExpectNoMessage(100 * time.Millisecond)
}

func TestLiveSession_Scatter(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ws := testutil.NewWSClient(t, ts.WebSocketURL())

	ws.ScatterQuery(websocket.ScatterQueryPayload{
		Year:     "2022",
		Position: domain.PositionForward,
		XKey:     domain.KeyGoals,
		YKey:     domain.KeyAssists,
		Basis:    domain.BasisTotal,
	})

	state := ws.ExpectScatterState(defaultTimeout)
	assert.Equal(t, "2022", state.Year)
	assert.Len(t, state.Scatter.Points, 2)
}

func TestLiveSession_MalformedFrame(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ws := testutil.NewWSClient(t, ts.WebSocketURL())

	ws.SendRaw([]byte("{not json"))
	ws.ExpectErrorWithCode(websocket.ErrCodeInvalidPayload, defaultTimeout)
}

func TestHub_TracksSessions(t *testing.T) {
	ts := testutil.NewTestServer(t)

	ws := testutil.NewWSClient(t, ts.WebSocketURL())
	ws.SyncState()
	ws.ExpectRadarState(defaultTimeout)
	require.Eventually(t, func() bool { return ts.Hub.SessionCount() == 1 }, defaultTimeout, 10*time.Millisecond)

	ws.Close()
	require.Eventually(t, func() bool { return ts.Hub.SessionCount() == 0 }, defaultTimeout, 10*time.Millisecond)
}

func TestHub_RegisterAfterStop(t *testing.T) {
	hub := websocket.NewHub(websocket.Backend{}, 0)
	go hub.Run()
	hub.Stop()

	client := websocket.NewClient(hub, nil)
	registered := make(chan struct{})
	go func() {
		hub.Register(client)
		close(registered)
	}()

	select {
	case <-registered:
	case <-time.After(defaultTimeout):
		t.Fatal("Register blocked on a stopped hub")
	}
	assert.Equal(t, 0, hub.SessionCount())

	// The client is closed; sends are dropped rather than panicking
	msg, err := websocket.NewMessage(websocket.MessageTypeSyncState, nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() { client.Send(msg) })
}
