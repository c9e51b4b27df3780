package statsclient

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dom/worldcup-stats/internal/domain"
)

// Latest hands out request generations. Only the most recently issued
// generation is current; results carrying an older one are stale.
type Latest struct {
	gen atomic.Uint64
}

// Next issues a new generation, superseding every earlier one
func (l *Latest) Next() uint64 {
	return l.gen.Add(1)
}

func (l *Latest) IsCurrent(gen uint64) bool {
	return l.gen.Load() == gen
}

// LiveSearch runs searches where each new query supersedes the previous one:
// the older request is cancelled and its results are never reported.
type LiveSearch struct {
	client *Client
	latest Latest

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (c *Client) NewLiveSearch() *LiveSearch {
	return &LiveSearch{client: c}
}

// Search looks up query. current is false when a newer search started before
// this one finished; results and err are then nil and should be ignored.
func (s *LiveSearch) Search(ctx context.Context, query string, position domain.Position) (results []domain.SearchResult, current bool, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	gen := s.latest.Next()
	s.mu.Unlock()

	results, err = s.client.SearchPlayers(ctx, query, position)
	if !s.latest.IsCurrent(gen) {
		return nil, false, nil
	}
	return results, true, err
}
