package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSetPosition   MessageType = "SET_POSITION"
	MessageTypeSetBasis      MessageType = "SET_BASIS"
	MessageTypeAddSubject    MessageType = "ADD_SUBJECT"
	MessageTypeRemoveSubject MessageType = "REMOVE_SUBJECT"
	MessageTypeSearch        MessageType = "SEARCH"
	MessageTypeScatterQuery  MessageType = "SCATTER_QUERY"
	MessageTypeSyncState     MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeRadarState    MessageType = "RADAR_STATE"
	MessageTypeSearchResults MessageType = "SEARCH_RESULTS"
	MessageTypeScatterState  MessageType = "SCATTER_STATE"
	MessageTypeError         MessageType = "ERROR"

	// stands in for a frame that was not valid JSON
	messageTypeMalformed MessageType = ""
)

// Error codes
const (
	ErrCodeInvalidPayload   = "INVALID_PAYLOAD"
	ErrCodeUnknownType      = "UNKNOWN_TYPE"
	ErrCodeInvalidBasis     = "INVALID_BASIS"
	ErrCodeFetchFailed      = "FETCH_FAILED"
	ErrCodeDuplicateSubject = "DUPLICATE_SUBJECT"
	ErrCodeSubjectNotFound  = "SUBJECT_NOT_FOUND"
	ErrCodeSearchFailed     = "SEARCH_FAILED"
	ErrCodeScatterFailed    = "SCATTER_FAILED"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
	Seq       int             `json:"seq"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type SetPositionPayload struct {
	Position domain.Position `json:"position"`
}

type SetBasisPayload struct {
	Basis domain.Basis `json:"basis"`
}

type AddSubjectPayload struct {
	ID       string `json:"id,omitempty"`
	Year     string `json:"year"`
	Team     string `json:"team"`
	Filename string `json:"filename"`
}

type RemoveSubjectPayload struct {
	ID string `json:"id"`
}

type SearchPayload struct {
	Query    string            `json:"query"`
	Kind     domain.SearchKind `json:"kind,omitempty"`
	Position domain.Position   `json:"position,omitempty"`
}

type ScatterQueryPayload struct {
	Year       string           `json:"year"`
	Position   domain.Position  `json:"position"`
	XKey       domain.MetricKey `json:"xKey"`
	YKey       domain.MetricKey `json:"yKey"`
	Basis      domain.Basis     `json:"basis"`
	MinMinutes bool             `json:"minMinutes"`
}

// Server to Client payloads

type RadarStatePayload struct {
	SessionID string             `json:"sessionId"`
	Radar     engine.RadarResult `json:"radar"`
}

type SearchResultsPayload struct {
	Generation uint64                `json:"generation"`
	Query      string                `json:"query"`
	Results    []domain.SearchResult `json:"results"`
}

type ScatterStatePayload struct {
	Generation uint64               `json:"generation"`
	Year       string               `json:"year"`
	Scatter    engine.ScatterResult `json:"scatter"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
