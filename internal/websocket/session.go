package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/repository"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/google/uuid"
)

const minSearchLength = 2

type Searcher interface {
	Search(ctx context.Context, query string, kind domain.SearchKind, position domain.Position) ([]domain.SearchResult, error)
}

type SubjectLoader interface {
	LoadSubject(ctx context.Context, ref service.SubjectRef) (engine.Subject, error)
}

type ScatterSource interface {
	Points(ctx context.Context, req service.ScatterRequest) (*engine.ScatterResult, error)
}

// Backend is what a live session reads the catalog through
type Backend struct {
	Search   Searcher
	Subjects SubjectLoader
	Scatter  ScatterSource
}

func NewBackend(svcs *service.Services) Backend {
	return Backend{
		Search:   svcs.Catalog,
		Subjects: svcs.Radar,
		Scatter:  svcs.Scatter,
	}
}

// Sender delivers outgoing messages to one connection
type Sender interface {
	Send(msg *Message)
}

// event is work that must run on the session goroutine
type event interface {
	apply(s *Session)
}

// Session owns one connection's comparison state. All state is read and
// written on the Run goroutine; background fetches report back through events.
type Session struct {
	id      uuid.UUID
	out     Sender
	backend Backend

	comparison    *engine.ComparisonSession
	searchResults []domain.SearchResult
	searchQuery   string
	seq           int

	// epoch advances on every position change so subject fetches started
	// under an older position are dropped
	epoch uint64

	searchGen     uint64
	searchCancel  context.CancelFunc
	debouncer     *Debouncer
	scatterGen    uint64
	scatterCancel context.CancelFunc

	inbound chan *Message
	events  chan event
	stop    chan struct{}
	done    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
}

func NewSession(out Sender, backend Backend, debounce time.Duration) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:         uuid.New(),
		out:        out,
		backend:    backend,
		comparison: engine.NewComparisonSession(domain.PositionAll, domain.DefaultBasis),
		debouncer:  NewDebouncer(debounce),
		inbound:    make(chan *Message, 64),
		events:     make(chan event, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Run() {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			s.debouncer.Cancel()
			s.cancel()
			return
		case msg := <-s.inbound:
			s.handleMessage(msg)
		case ev := <-s.events:
			ev.apply(s)
		}
	}
}

// Stop ends the session and waits for Run to exit.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

// Deliver hands a client message to the session goroutine
func (s *Session) Deliver(msg *Message) {
	select {
	case s.inbound <- msg:
	case <-s.ctx.Done():
	}
}

func (s *Session) post(ev event) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *Session) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeSetPosition:
		var payload SetPositionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.sendError(ErrCodeInvalidPayload, "Invalid set position payload")
			return
		}
		s.setPosition(payload.Position)

	case MessageTypeSetBasis:
		var payload SetBasisPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.sendError(ErrCodeInvalidPayload, "Invalid set basis payload")
			return
		}
		if !s.comparison.SetBasis(payload.Basis) {
			s.sendError(ErrCodeInvalidBasis, fmt.Sprintf("Basis %q is not available for position %s", payload.Basis, s.comparison.Position()))
			return
		}
		s.sendRadarState()

	case MessageTypeAddSubject:
		var payload AddSubjectPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.sendError(ErrCodeInvalidPayload, "Invalid add subject payload")
			return
		}
		s.addSubject(payload)

	case MessageTypeRemoveSubject:
		var payload RemoveSubjectPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.sendError(ErrCodeInvalidPayload, "Invalid remove subject payload")
			return
		}
		if !s.comparison.Remove(payload.ID) {
			s.sendError(ErrCodeSubjectNotFound, fmt.Sprintf("No subject with id %q", payload.ID))
			return
		}
		s.sendRadarState()

	case MessageTypeSearch:
		var payload SearchPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.sendError(ErrCodeInvalidPayload, "Invalid search payload")
			return
		}
		s.search(payload)

	case MessageTypeScatterQuery:
		var payload ScatterQueryPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.sendError(ErrCodeInvalidPayload, "Invalid scatter query payload")
			return
		}
		s.scatter(payload)

	case MessageTypeSyncState:
		s.sendRadarState()
		s.sendSearchResults()

	case messageTypeMalformed:
		s.sendError(ErrCodeInvalidPayload, "Malformed message")

	default:
		s.sendError(ErrCodeUnknownType, fmt.Sprintf("Unknown message type %q", msg.Type))
	}
}

// setPosition switches the radar schema. Subjects and search results belong
// to the old position and are cleared.
func (s *Session) setPosition(position domain.Position) {
	s.comparison.SetPosition(position)
	s.epoch++
	s.resetSearch()
	s.sendRadarState()
	s.sendSearchResults()
}

func (s *Session) addSubject(payload AddSubjectPayload) {
	ref := service.SubjectRef{
		ID:       payload.ID,
		Year:     payload.Year,
		Team:     payload.Team,
		Filename: payload.Filename,
	}
	if ref.Year == "" || ref.Team == "" || ref.Filename == "" {
		s.sendError(ErrCodeInvalidPayload, domain.ErrMissingSubject.Error())
		return
	}

	id := ref.ID
	if id == "" {
		id = domain.PlayerID(ref.Year, ref.Team, ref.Filename)
	}
	if s.comparison.Contains(id, "") {
		s.sendError(ErrCodeDuplicateSubject, fmt.Sprintf("%s is already in the comparison", id))
		return
	}

	epoch := s.epoch
	go func() {
		subject, err := s.backend.Subjects.LoadSubject(s.ctx, ref)
		s.post(subjectLoaded{epoch: epoch, ref: ref, subject: subject, err: err})
	}()
}

type subjectLoaded struct {
	epoch   uint64
	ref     service.SubjectRef
	subject engine.Subject
	err     error
}

func (ev subjectLoaded) apply(s *Session) {
	if ev.epoch != s.epoch {
		return
	}
	if ev.err != nil {
		log.Printf("ERROR [session.AddSubject] session=%s subject=%s/%s/%s: %v", s.id, ev.ref.Year, ev.ref.Team, ev.ref.Filename, ev.err)
		s.sendError(ErrCodeFetchFailed, fmt.Sprintf("Failed to load %s", ev.ref.Filename))
		return
	}
	if _, ok := s.comparison.Add(ev.subject); !ok {
		s.sendError(ErrCodeDuplicateSubject, fmt.Sprintf("%s is already in the comparison", ev.subject.Name))
		return
	}
	s.sendRadarState()
}

// search schedules a debounced lookup. Each call supersedes the previous
// one: its timer is dropped and any fetch in flight is cancelled.
func (s *Session) search(payload SearchPayload) {
	s.resetSearch()
	gen := s.searchGen

	query := strings.TrimSpace(payload.Query)
	s.searchQuery = query
	if utf8.RuneCountInString(query) < minSearchLength {
		s.sendSearchResults()
		return
	}

	kind := payload.Kind
	if kind == "" {
		kind = domain.SearchKindPlayer
	}
	position := payload.Position
	if position == "" {
		position = s.comparison.Position()
	}

	s.debouncer.Schedule(func() {
		s.post(searchDue{gen: gen, query: query, kind: kind, position: position})
	})
}

// resetSearch invalidates the current search generation and clears results
func (s *Session) resetSearch() {
	s.debouncer.Cancel()
	if s.searchCancel != nil {
		s.searchCancel()
		s.searchCancel = nil
	}
	s.searchGen++
	s.searchQuery = ""
	s.searchResults = nil
}

type searchDue struct {
	gen      uint64
	query    string
	kind     domain.SearchKind
	position domain.Position
}

func (ev searchDue) apply(s *Session) {
	if ev.gen != s.searchGen {
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.searchCancel = cancel
	go func() {
		results, err := s.backend.Search.Search(ctx, ev.query, ev.kind, ev.position)
		s.post(searchDone{gen: ev.gen, query: ev.query, results: results, err: err})
	}()
}

type searchDone struct {
	gen     uint64
	query   string
	results []domain.SearchResult
	err     error
}

func (ev searchDone) apply(s *Session) {
	if ev.gen != s.searchGen {
		return
	}
	s.searchCancel = nil
	if ev.err != nil {
		if errors.Is(ev.err, context.Canceled) {
			return
		}
		log.Printf("ERROR [session.Search] session=%s query=%s: %v", s.id, ev.query, ev.err)
		s.sendError(ErrCodeSearchFailed, "Search failed")
		return
	}
	s.searchResults = ev.results
	s.sendSearchResults()
}

func (s *Session) scatter(payload ScatterQueryPayload) {
	if s.scatterCancel != nil {
		s.scatterCancel()
	}
	s.scatterGen++
	gen := s.scatterGen

	req := service.ScatterRequest{
		Year: payload.Year,
		ScatterQuery: engine.ScatterQuery{
			Position:   payload.Position,
			XKey:       payload.XKey,
			YKey:       payload.YKey,
			Basis:      payload.Basis,
			MinMinutes: payload.MinMinutes,
		},
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.scatterCancel = cancel
	go func() {
		result, err := s.backend.Scatter.Points(ctx, req)
		s.post(scatterDone{gen: gen, year: req.Year, result: result, err: err})
	}()
}

type scatterDone struct {
	gen    uint64
	year   string
	result *engine.ScatterResult
	err    error
}

func (ev scatterDone) apply(s *Session) {
	if ev.gen != s.scatterGen {
		return
	}
	s.scatterCancel = nil
	if ev.err != nil {
		if errors.Is(ev.err, context.Canceled) {
			return
		}
		log.Printf("ERROR [session.Scatter] session=%s year=%s: %v", s.id, ev.year, ev.err)
		s.sendError(ErrCodeScatterFailed, "Scatter query failed")
		return
	}

	year := ev.year
	if year == "" {
		year = repository.AllYears
	}
	s.send(MessageTypeScatterState, ScatterStatePayload{
		Generation: ev.gen,
		Year:       year,
		Scatter:    *ev.result,
	})
}

func (s *Session) sendRadarState() {
	s.send(MessageTypeRadarState, RadarStatePayload{
		SessionID: s.id.String(),
		Radar:     s.comparison.Result(),
	})
}

func (s *Session) sendSearchResults() {
	results := s.searchResults
	if results == nil {
		results = []domain.SearchResult{}
	}
	s.send(MessageTypeSearchResults, SearchResultsPayload{
		Generation: s.searchGen,
		Query:      s.searchQuery,
		Results:    results,
	})
}

func (s *Session) sendError(code, message string) {
	s.send(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
}

func (s *Session) send(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("ERROR [session.send] session=%s type=%s: %v", s.id, msgType, err)
		return
	}
	s.seq++
	msg.Seq = s.seq
	s.out.Send(msg)
}
