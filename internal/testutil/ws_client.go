package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var msg websocket.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.messages <- &msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Send writes a client message to the server
func (c *WSClient) Send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build %s: %v", msgType, err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal %s: %v", msgType, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(gorillaWS.TextMessage, data); err != nil {
		c.t.Fatalf("failed to send %s: %v", msgType, err)
	}
}

// SendRaw writes an arbitrary text frame
func (c *WSClient) SendRaw(data []byte) {
	c.t.Helper()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(gorillaWS.TextMessage, data); err != nil {
		c.t.Fatalf("failed to send raw frame: %v", err)
	}
}

func (c *WSClient) SetPosition(position domain.Position) {
	c.Send(websocket.MessageTypeSetPosition, websocket.SetPositionPayload{Position: position})
}

func (c *WSClient) SetBasis(basis domain.Basis) {
	c.Send(websocket.MessageTypeSetBasis, websocket.SetBasisPayload{Basis: basis})
}

func (c *WSClient) AddSubject(year, team, filename string) {
	c.Send(websocket.MessageTypeAddSubject, websocket.AddSubjectPayload{
		Year:     year,
		Team:     team,
		Filename: filename,
	})
}

func (c *WSClient) RemoveSubject(id string) {
	c.Send(websocket.MessageTypeRemoveSubject, websocket.RemoveSubjectPayload{ID: id})
}

func (c *WSClient) Search(query string) {
	c.Send(websocket.MessageTypeSearch, websocket.SearchPayload{Query: query})
}

func (c *WSClient) ScatterQuery(payload websocket.ScatterQueryPayload) {
	c.Send(websocket.MessageTypeScatterQuery, payload)
}

func (c *WSClient) SyncState() {
	c.Send(websocket.MessageTypeSyncState, struct{}{})
}

// ExpectMessage waits for a message of the specified type
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

func expectPayload[T any](c *WSClient, msgType websocket.MessageType, timeout time.Duration) *T {
	c.t.Helper()

	msg := c.ExpectMessage(msgType, timeout)

	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode %s payload: %v", msgType, err)
	}

	return &payload
}

// ExpectRadarState waits for and decodes a RADAR_STATE message
func (c *WSClient) ExpectRadarState(timeout time.Duration) *websocket.RadarStatePayload {
	c.t.Helper()
	return expectPayload[websocket.RadarStatePayload](c, websocket.MessageTypeRadarState, timeout)
}

// ExpectSearchResults waits for and decodes a SEARCH_RESULTS message
func (c *WSClient) ExpectSearchResults(timeout time.Duration) *websocket.SearchResultsPayload {
	c.t.Helper()
	return expectPayload[websocket.SearchResultsPayload](c, websocket.MessageTypeSearchResults, timeout)
}

// ExpectScatterState waits for and decodes a SCATTER_STATE message
func (c *WSClient) ExpectScatterState(timeout time.Duration) *websocket.ScatterStatePayload {
	c.t.Helper()
	return expectPayload[websocket.ScatterStatePayload](c, websocket.MessageTypeScatterState, timeout)
}

// ExpectError waits for and decodes an ERROR message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()
	return expectPayload[websocket.ErrorPayload](c, websocket.MessageTypeError, timeout)
}

// ExpectErrorWithCode waits for an error with a specific code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	payload := c.ExpectError(timeout)
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s: %s", code, payload.Code, payload.Message)
	}

	return payload
}

// ExpectNoMessage verifies no messages are received within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("unexpected message received: %s", msg.Type)
		}
	case <-time.After(timeout):
		// Expected - no message received
	}
}

// DrainMessages drains all pending messages from the channel with a timeout.
func (c *WSClient) DrainMessages() {
	c.DrainMessagesWithTimeout(100 * time.Millisecond)
}

// DrainMessagesWithTimeout drains messages, waiting up to timeout for the channel to settle.
func (c *WSClient) DrainMessagesWithTimeout(timeout time.Duration) {
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
			// Reset deadline when we receive a message - more might be coming
			deadline = time.After(50 * time.Millisecond)
		case <-deadline:
			return
		case <-c.done:
			return
		}
	}
}
