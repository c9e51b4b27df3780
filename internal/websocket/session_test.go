package websocket_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/dom/worldcup-stats/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTimeout = 2 * time.Second

type recorder struct {
	messages chan *websocket.Message
}

func newRecorder() *recorder {
	return &recorder{messages: make(chan *websocket.Message, 64)}
}

func (r *recorder) Send(msg *websocket.Message) {
	r.messages <- msg
}

func (r *recorder) expect(t *testing.T, msgType websocket.MessageType) *websocket.Message {
	t.Helper()
	deadline := time.After(defaultTimeout)
	for {
		select {
		case msg := <-r.messages:
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", msgType)
			return nil
		}
	}
}

func (r *recorder) expectNone(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case msg := <-r.messages:
		t.Fatalf("unexpected message %s: %s", msg.Type, msg.Payload)
	case <-time.After(wait):
	}
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	calls   atomic.Int32
	// block holds the first call until the context is cancelled
	block bool
}

func (f *fakeSearcher) Search(ctx context.Context, query string, kind domain.SearchKind, position domain.Position) ([]domain.SearchResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.calls.Add(1) == 1 && f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []domain.SearchResult{{ID: "2022_Argentina_" + query, Name: query, Position: position}}, nil
}

type fakeLoader struct {
	subjects map[string]engine.Subject
	delay    time.Duration
}

func (f *fakeLoader) LoadSubject(ctx context.Context, ref service.SubjectRef) (engine.Subject, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return engine.Subject{}, ctx.Err()
		}
	}
	s, ok := f.subjects[ref.Filename]
	if !ok {
		return engine.Subject{}, domain.ErrPlayerNotFound
	}
	return s, nil
}

type fakeScatter struct{}

func (fakeScatter) Points(ctx context.Context, req service.ScatterRequest) (*engine.ScatterResult, error) {
	if req.Year == "fail" {
		return nil, errors.New("boom")
	}
	result := engine.BuildScatter(nil, req.ScatterQuery)
	return &result, nil
}

// blockingScatter holds its first query until that query is cancelled
type blockingScatter struct {
	calls atomic.Int32
}

func (f *blockingScatter) Points(ctx context.Context, req service.ScatterRequest) (*engine.ScatterResult, error) {
	if f.calls.Add(1) == 1 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	result := engine.BuildScatter(nil, req.ScatterQuery)
	return &result, nil
}

func messi() engine.Subject {
	return engine.Subject{
		ID:       domain.PlayerID("2022", "Argentina", "messi.json"),
		Name:     "Lionel Messi",
		Year:     "2022",
		Team:     "Argentina",
		Position: domain.PositionForward,
		Stats:    domain.StatRecord{"minutesPlayed": 690, "goals": 7},
	}
}

func startSession(t *testing.T, backend websocket.Backend, debounce time.Duration) (*websocket.Session, *recorder) {
	t.Helper()
	rec := newRecorder()
	s := websocket.NewSession(rec, backend, debounce)
	go s.Run()
	t.Cleanup(s.Stop)
	return s, rec
}

func send(t *testing.T, s *websocket.Session, msgType websocket.MessageType, payload any) {
	t.Helper()
	msg, err := websocket.NewMessage(msgType, payload)
	require.NoError(t, err)
	s.Deliver(msg)
}

func decode[T any](t *testing.T, msg *websocket.Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func TestSession_SyncState(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{}, 0)

	send(t, s, websocket.MessageTypeSyncState, struct{}{})

	msg := rec.expect(t, websocket.MessageTypeRadarState)
	state := decode[websocket.RadarStatePayload](t, msg)
	assert.Equal(t, s.ID().String(), state.SessionID)
	assert.Equal(t, domain.PositionAll, state.Radar.Position)
	assert.Equal(t, domain.BasisPer90, state.Radar.Basis)
	assert.Empty(t, state.Radar.Subjects)

	results := decode[websocket.SearchResultsPayload](t, rec.expect(t, websocket.MessageTypeSearchResults))
	assert.Empty(t, results.Results)
}

func TestSession_SequenceNumbersIncrease(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{}, 0)

	send(t, s, websocket.MessageTypeSyncState, struct{}{})
	first := rec.expect(t, websocket.MessageTypeRadarState)
	second := rec.expect(t, websocket.MessageTypeSearchResults)

	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, 2, second.Seq)
}

func TestSession_AddSubject(t *testing.T) {
	loader := &fakeLoader{subjects: map[string]engine.Subject{"messi.json": messi()}}
	s, rec := startSession(t, websocket.Backend{Subjects: loader}, 0)

	send(t, s, websocket.MessageTypeAddSubject, websocket.AddSubjectPayload{
		Year: "2022", Team: "Argentina", Filename: "messi.json",
	})

	state := decode[websocket.RadarStatePayload](t, rec.expect(t, websocket.MessageTypeRadarState))
	require.Len(t, state.Radar.Subjects, 1)
	assert.Equal(t, "Lionel Messi", state.Radar.Subjects[0].Name)
	assert.Equal(t, engine.Palette[0], state.Radar.Subjects[0].Color)
}

func TestSession_AddSubject_Duplicate(t *testing.T) {
	loader := &fakeLoader{subjects: map[string]engine.Subject{"messi.json": messi()}}
	s, rec := startSession(t, websocket.Backend{Subjects: loader}, 0)

	add := websocket.AddSubjectPayload{Year: "2022", Team: "Argentina", Filename: "messi.json"}
	send(t, s, websocket.MessageTypeAddSubject, add)
	rec.expect(t, websocket.MessageTypeRadarState)

	send(t, s, websocket.MessageTypeAddSubject, add)
	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeDuplicateSubject, errPayload.Code)
}

func TestSession_AddSubject_FetchFailed(t *testing.T) {
	loader := &fakeLoader{subjects: map[string]engine.Subject{}}
	s, rec := startSession(t, websocket.Backend{Subjects: loader}, 0)

	send(t, s, websocket.MessageTypeAddSubject, websocket.AddSubjectPayload{
		Year: "2022", Team: "Argentina", Filename: "ghost.json",
	})
	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeFetchFailed, errPayload.Code)

	// state is untouched
	send(t, s, websocket.MessageTypeSyncState, struct{}{})
	state := decode[websocket.RadarStatePayload](t, rec.expect(t, websocket.MessageTypeRadarState))
	assert.Empty(t, state.Radar.Subjects)
}

func TestSession_AddSubject_MissingFields(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{}, 0)

	send(t, s, websocket.MessageTypeAddSubject, websocket.AddSubjectPayload{Year: "2022"})

	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeInvalidPayload, errPayload.Code)
}

func TestSession_PositionChangeDropsPendingSubject(t *testing.T) {
	loader := &fakeLoader{
		subjects: map[string]engine.Subject{"messi.json": messi()},
		delay:    100 * time.Millisecond,
	}
	s, rec := startSession(t, websocket.Backend{Subjects: loader}, 0)

	send(t, s, websocket.MessageTypeAddSubject, websocket.AddSubjectPayload{
		Year: "2022", Team: "Argentina", Filename: "messi.json",
	})
	send(t, s, websocket.MessageTypeSetPosition, websocket.SetPositionPayload{Position: domain.PositionForward})

	state := decode[websocket.RadarStatePayload](t, rec.expect(t, websocket.MessageTypeRadarState))
	assert.Equal(t, domain.PositionForward, state.Radar.Position)
	rec.expect(t, websocket.MessageTypeSearchResults)

	// the fetch started under ALL lands after the switch and is discarded
	rec.expectNone(t, 300*time.Millisecond)
}

func TestSession_SetPosition_ClearsSubjects(t *testing.T) {
	loader := &fakeLoader{subjects: map[string]engine.Subject{"messi.json": messi()}}
	s, rec := startSession(t, websocket.Backend{Subjects: loader}, 0)

	send(t, s, websocket.MessageTypeAddSubject, websocket.AddSubjectPayload{
		Year: "2022", Team: "Argentina", Filename: "messi.json",
	})
	rec.expect(t, websocket.MessageTypeRadarState)

	send(t, s, websocket.MessageTypeSetPosition, websocket.SetPositionPayload{Position: domain.PositionGoalkeeper})
	state := decode[websocket.RadarStatePayload](t, rec.expect(t, websocket.MessageTypeRadarState))
	assert.Empty(t, state.Radar.Subjects)
	assert.Equal(t, domain.BasisPer90, state.Radar.Basis)
	assert.NotContains(t, state.Radar.AvailableBases, domain.BasisTeamPercent)
}

func TestSession_SetBasis(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{}, 0)

	send(t, s, websocket.MessageTypeSetBasis, websocket.SetBasisPayload{Basis: domain.BasisTotal})
	state := decode[websocket.RadarStatePayload](t, rec.expect(t, websocket.MessageTypeRadarState))
	assert.Equal(t, domain.BasisTotal, state.Radar.Basis)

	send(t, s, websocket.MessageTypeSetPosition, websocket.SetPositionPayload{Position: domain.PositionGoalkeeper})
	rec.expect(t, websocket.MessageTypeSearchResults)

	send(t, s, websocket.MessageTypeSetBasis, websocket.SetBasisPayload{Basis: domain.BasisTeamPercent})
	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeInvalidBasis, errPayload.Code)
}

func TestSession_RemoveSubject(t *testing.T) {
	loader := &fakeLoader{subjects: map[string]engine.Subject{"messi.json": messi()}}
	s, rec := startSession(t, websocket.Backend{Subjects: loader}, 0)

	send(t, s, websocket.MessageTypeAddSubject, websocket.AddSubjectPayload{
		Year: "2022", Team: "Argentina", Filename: "messi.json",
	})
	rec.expect(t, websocket.MessageTypeRadarState)

	send(t, s, websocket.MessageTypeRemoveSubject, websocket.RemoveSubjectPayload{ID: messi().ID})
	state := decode[websocket.RadarStatePayload](t, rec.expect(t, websocket.MessageTypeRadarState))
	assert.Empty(t, state.Radar.Subjects)

	send(t, s, websocket.MessageTypeRemoveSubject, websocket.RemoveSubjectPayload{ID: messi().ID})
	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeSubjectNotFound, errPayload.Code)
}

func TestSession_Search_Debounced(t *testing.T) {
	searcher := &fakeSearcher{}
	s, rec := startSession(t, websocket.Backend{Search: searcher}, 50*time.Millisecond)

	for _, q := range []string{"me", "mes", "mess", "messi"} {
		send(t, s, websocket.MessageTypeSearch, websocket.SearchPayload{Query: q})
	}

	results := decode[websocket.SearchResultsPayload](t, rec.expect(t, websocket.MessageTypeSearchResults))
	assert.Equal(t, "messi", results.Query)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "messi", results.Results[0].Name)

	rec.expectNone(t, 150*time.Millisecond)
	assert.Equal(t, int32(1), searcher.calls.Load())
}

func TestSession_Search_StaleResultDiscarded(t *testing.T) {
	searcher := &fakeSearcher{block: true}
	s, rec := startSession(t, websocket.Backend{Search: searcher}, 0)

	send(t, s, websocket.MessageTypeSearch, websocket.SearchPayload{Query: "mes"})
	require.Eventually(t, func() bool { return searcher.calls.Load() == 1 }, defaultTimeout, 5*time.Millisecond)

	send(t, s, websocket.MessageTypeSearch, websocket.SearchPayload{Query: "mbappe"})

	results := decode[websocket.SearchResultsPayload](t, rec.expect(t, websocket.MessageTypeSearchResults))
	assert.Equal(t, "mbappe", results.Query)
	rec.expectNone(t, 100*time.Millisecond)
}

func TestSession_Search_ShortQueryClears(t *testing.T) {
	searcher := &fakeSearcher{}
	s, rec := startSession(t, websocket.Backend{Search: searcher}, 0)

	send(t, s, websocket.MessageTypeSearch, websocket.SearchPayload{Query: "m"})

	results := decode[websocket.SearchResultsPayload](t, rec.expect(t, websocket.MessageTypeSearchResults))
	assert.Empty(t, results.Results)
	assert.Equal(t, int32(0), searcher.calls.Load())
}

func TestSession_Search_UsesSessionPosition(t *testing.T) {
	searcher := &fakeSearcher{}
	s, rec := startSession(t, websocket.Backend{Search: searcher}, 0)

	send(t, s, websocket.MessageTypeSetPosition, websocket.SetPositionPayload{Position: domain.PositionDefender})
	rec.expect(t, websocket.MessageTypeSearchResults)

	send(t, s, websocket.MessageTypeSearch, websocket.SearchPayload{Query: "varane"})
	results := decode[websocket.SearchResultsPayload](t, rec.expect(t, websocket.MessageTypeSearchResults))
	require.Len(t, results.Results, 1)
	assert.Equal(t, domain.PositionDefender, results.Results[0].Position)
}

func TestSession_ScatterQuery(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{Scatter: fakeScatter{}}, 0)

	send(t, s, websocket.MessageTypeScatterQuery, websocket.ScatterQueryPayload{
		Position: domain.PositionForward, XKey: "goals", YKey: "assists", Basis: domain.BasisTotal,
	})

	state := decode[websocket.ScatterStatePayload](t, rec.expect(t, websocket.MessageTypeScatterState))
	assert.Equal(t, uint64(1), state.Generation)
	assert.Equal(t, "ALL", state.Year)
	assert.Equal(t, domain.PositionForward, state.Scatter.Position)
	assert.Equal(t, domain.KeyGoals, state.Scatter.X.Key)
}

func TestSession_ScatterQuery_NewerQueryWins(t *testing.T) {
	scatter := &blockingScatter{}
	s, rec := startSession(t, websocket.Backend{Scatter: scatter}, 0)

	send(t, s, websocket.MessageTypeScatterQuery, websocket.ScatterQueryPayload{
		Year: "2022", Position: domain.PositionForward, XKey: "goals", YKey: "assists",
	})
	require.Eventually(t, func() bool { return scatter.calls.Load() == 1 }, defaultTimeout, 5*time.Millisecond)

	send(t, s, websocket.MessageTypeScatterQuery, websocket.ScatterQueryPayload{
		Year: "2022", Position: domain.PositionDefender, XKey: "clearances", YKey: "interceptions",
	})

	state := decode[websocket.ScatterStatePayload](t, rec.expect(t, websocket.MessageTypeScatterState))
	assert.Equal(t, uint64(2), state.Generation)
	assert.Equal(t, domain.PositionDefender, state.Scatter.Position)
	rec.expectNone(t, 100*time.Millisecond)
}

func TestSession_ScatterQuery_Failure(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{Scatter: fakeScatter{}}, 0)

	send(t, s, websocket.MessageTypeScatterQuery, websocket.ScatterQueryPayload{Year: "fail"})

	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeScatterFailed, errPayload.Code)
}

func TestSession_UnknownType(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{}, 0)

	s.Deliver(&websocket.Message{Type: "DANCE"})

	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeUnknownType, errPayload.Code)
}

func TestSession_InvalidPayload(t *testing.T) {
	s, rec := startSession(t, websocket.Backend{}, 0)

	s.Deliver(&websocket.Message{Type: websocket.MessageTypeSetPosition, Payload: json.RawMessage(`"G"`)})

	errPayload := decode[websocket.ErrorPayload](t, rec.expect(t, websocket.MessageTypeError))
	assert.Equal(t, websocket.ErrCodeInvalidPayload, errPayload.Code)
}
