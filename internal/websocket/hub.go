package websocket

import (
	"log"
	"sync"
	"time"
)

// Hub tracks the connected clients and owns the lifetime of their sessions.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	backend    Backend
	debounce   time.Duration
	mu         sync.RWMutex
}

func NewHub(backend Backend, debounce time.Duration) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		backend:    backend,
		debounce:   debounce,
	}
}

func (h *Hub) Run() {
	defer close(h.done) // Signal that Run() has exited

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			clients := h.clients
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()

			// Sessions must exit before their send channels close
			for client := range clients {
				client.session.Stop()
			}
			for client := range clients {
				client.Close()
			}
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

			go client.session.Run()
			log.Printf("Session %s connected", client.session.ID())

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
			}
			h.mu.Unlock()

			if ok {
				client.session.Stop()
				client.Close()
				log.Printf("Session %s disconnected", client.session.ID())
			}
		}
	}
}

// Stop gracefully shuts down the hub and every session.
// It blocks until the hub has fully shut down.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done // Wait for Run() to finish
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.session.cancel()
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SessionCount returns the number of live sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
