// Package statsclient talks to the stats HTTP API. It backs the statcli tool
// and anything else that compares players from outside the server process.
package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/service"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultRetryDelay  = 200 * time.Millisecond
)

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Client handles HTTP communication with the stats server
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *RetryPolicy
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(c *Client) { c.retry = NewRetryPolicy(maxAttempts, initialDelay) }
}

// NewClient creates a client for the server at baseURL (without /api/v1)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retry: NewRetryPolicy(defaultMaxAttempts, defaultRetryDelay),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPlayers finds players whose name contains query
func (c *Client) SearchPlayers(ctx context.Context, query string, position domain.Position) ([]domain.SearchResult, error) {
	q := url.Values{"q": {query}, "type": {string(domain.SearchKindPlayer)}}
	if position != "" {
		q.Set("position", string(position))
	}

	var results []domain.SearchResult
	if err := c.get(ctx, "/search?"+q.Encode(), &results); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return results, nil
}

func (c *Client) FetchPlayerStats(ctx context.Context, year, team, filename string) (*domain.PlayerDocument, error) {
	var doc domain.PlayerDocument
	path := fmt.Sprintf("/years/%s/teams/%s/players/%s", url.PathEscape(year), url.PathEscape(team), url.PathEscape(filename))
	if err := c.get(ctx, path, &doc); err != nil {
		return nil, fmt.Errorf("fetch player stats failed: %w", err)
	}
	return &doc, nil
}

func (c *Client) FetchTeamStats(ctx context.Context, year, team string) (*domain.TeamDocument, error) {
	var doc domain.TeamDocument
	path := fmt.Sprintf("/years/%s/teams/%s/stats", url.PathEscape(year), url.PathEscape(team))
	if err := c.get(ctx, path, &doc); err != nil {
		return nil, fmt.Errorf("fetch team stats failed: %w", err)
	}
	return &doc, nil
}

// FetchPopulation returns the scatter population of year; "ALL" or "" for every year
func (c *Client) FetchPopulation(ctx context.Context, year string) ([]domain.PopulationRow, error) {
	var rows []domain.PopulationRow
	if err := c.get(ctx, "/population?"+url.Values{"year": {year}}.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("fetch population failed: %w", err)
	}
	return rows, nil
}

func (c *Client) Compare(ctx context.Context, req service.CompareRequest) (*engine.RadarResult, error) {
	var result engine.RadarResult
	if err := c.post(ctx, "/radar", req, &result); err != nil {
		return nil, fmt.Errorf("compare failed: %w", err)
	}
	return &result, nil
}

func (c *Client) Scatter(ctx context.Context, req service.ScatterRequest) (*engine.ScatterResult, error) {
	var result engine.ScatterResult
	if err := c.post(ctx, "/scatter", req, &result); err != nil {
		return nil, fmt.Errorf("scatter failed: %w", err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, jsonBody, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	return c.retry.Execute(ctx, func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}
