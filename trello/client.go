// ABOUTME: Trello REST API client for boards, lists, cards, and comment actions
// ABOUTME: Handles key/token auth, rate-limit retries, and cursor pagination
package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/harperreed/leadsync/models"
)

const (
	defaultBaseURL = "https://api.trello.com/1"

	maxAttempts    = 3
	requestTimeout = 60 * time.Second

	// commentPageSize is Trello's per-request cap on actions.
	commentPageSize = 1000
)

// Config carries the client's credentials and connection settings.
type Config struct {
	APIKey string
	Token  string

	// BaseURL overrides the Trello API endpoint, mainly for tests.
	BaseURL string

	// HTTPClient overrides the default 60s-timeout client.
	HTTPClient *http.Client

	// RetrySleep is the base delay between retries of failed requests.
	// Defaults to 200ms; the rate-limit wait is independent of it.
	RetrySleep time.Duration

	// RateLimitSleep is the wait after an HTTP 429 before retrying the same
	// request. Defaults to 5s (8s on the final attempt).
	RateLimitSleep time.Duration
}

// Client talks to the Trello REST API.
type Client struct {
	apiKey         string
	token          string
	baseURL        string
	httpClient     *http.Client
	retrySleep     time.Duration
	rateLimitSleep time.Duration
}

// NewClient creates a Trello client from config, filling in defaults.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:         cfg.APIKey,
		token:          cfg.Token,
		baseURL:        cfg.BaseURL,
		httpClient:     cfg.HTTPClient,
		retrySleep:     cfg.RetrySleep,
		rateLimitSleep: cfg.RateLimitSleep,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: requestTimeout}
	}
	if c.retrySleep <= 0 {
		c.retrySleep = 200 * time.Millisecond
	}
	if c.rateLimitSleep <= 0 {
		c.rateLimitSleep = 5 * time.Second
	}
	return c
}

// get performs an authenticated GET with rate-limit handling and bounded
// retries, decoding the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)
	query.Set("token", c.token)
	endpoint := c.baseURL + path + "?" + query.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to build request for %s: %w", path, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt >= maxAttempts {
				break
			}
			wait := c.retrySleep * time.Duration(attempt+1)
			log.Printf("GET %s failed (attempt %d/%d): %v. Retrying in %s...", path, attempt, maxAttempts, err, wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			drain(resp)
			wait := c.rateLimitSleep
			if attempt >= maxAttempts {
				// Final attempt gets a longer wait before giving up.
				wait = wait + wait*3/5
			}
			lastErr = fmt.Errorf("rate limited (429) on %s", path)
			log.Printf("Trello rate limit (429). Attempt %d/%d. Waiting %s...", attempt, maxAttempts, wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			drain(resp)
			lastErr = fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
			if attempt >= maxAttempts {
				break
			}
			wait := c.retrySleep * time.Duration(attempt+1)
			log.Printf("GET %s returned %d (attempt %d/%d). Retrying in %s...", path, resp.StatusCode, attempt, maxAttempts, wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		drain(resp)
		if err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("exhausted retries for %s: %w", path, lastErr)
}

// GetBoard fetches minimal board info, including the archived flag.
func (c *Client) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	query := url.Values{"fields": {"id,name,closed"}}
	var board models.Board
	if err := c.get(ctx, "/boards/"+boardID, query, &board); err != nil {
		return nil, err
	}
	if board.ID == "" {
		board.ID = boardID
	}
	return &board, nil
}

// GetLists fetches all lists on a board, archived ones included.
func (c *Client) GetLists(ctx context.Context, boardID string) ([]models.List, error) {
	query := url.Values{
		"filter": {"all"},
		"fields": {"id,name,closed"},
	}
	var lists []models.List
	if err := c.get(ctx, "/boards/"+boardID+"/lists", query, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList fetches a single list, used as a fallback when a card references a
// list missing from the board preload.
func (c *Client) GetList(ctx context.Context, listID string) (*models.List, error) {
	query := url.Values{"fields": {"id,name,closed"}}
	var list models.List
	if err := c.get(ctx, "/lists/"+listID, query, &list); err != nil {
		return nil, err
	}
	if list.ID == "" {
		list.ID = listID
	}
	return &list, nil
}

// GetCards fetches all cards on a board, archived ones included.
func (c *Client) GetCards(ctx context.Context, boardID string) ([]models.Card, error) {
	query := url.Values{
		"filter": {"all"},
		"fields": {"id,name,shortLink,idList,closed"},
	}
	var cards []models.Card
	if err := c.get(ctx, "/boards/"+boardID+"/cards", query, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CardURL builds the public card URL from its short link.
func CardURL(shortLink string) string {
	return "https://trello.com/c/" + shortLink
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
