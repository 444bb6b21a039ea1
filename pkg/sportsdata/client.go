package sportsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the fixtures API base URL.
	DefaultBaseURL = "https://v3.football.api-sports.io"

	// Free-tier limit is 10 requests/minute; stay under it.
	defaultRateLimit = 0.15 // requests per second
	defaultBurst     = 2
)

// Client is a fixtures API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIKey sets the API key sent on every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets custom rate limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new fixtures API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// fixtureEnvelope mirrors the API response shape.
type fixtureEnvelope struct {
	Response []struct {
		Fixture struct {
			ID     int64     `json:"id"`
			Date   time.Time `json:"date"`
			Status struct {
				Short string `json:"short"`
			} `json:"status"`
		} `json:"fixture"`
		League struct {
			Name string `json:"name"`
		} `json:"league"`
		Teams struct {
			Home TeamInfo `json:"home"`
			Away TeamInfo `json:"away"`
		} `json:"teams"`
		Goals struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"goals"`
	} `json:"response"`
}

// FixtureByID fetches a single fixture with its current status and score.
func (c *Client) FixtureByID(ctx context.Context, matchID string) (*Fixture, error) {
	params := url.Values{}
	params.Set("id", matchID)

	var env fixtureEnvelope
	if err := c.get(ctx, "/fixtures", params, &env); err != nil {
		return nil, err
	}
	if len(env.Response) == 0 {
		return nil, fmt.Errorf("fixture not found: %s", matchID)
	}

	raw := env.Response[0]
	fixture := &Fixture{
		ID:       matchID,
		League:   raw.League.Name,
		KickOff:  raw.Fixture.Date,
		HomeTeam: raw.Teams.Home,
		AwayTeam: raw.Teams.Away,
		Score: Score{
			Status: raw.Fixture.Status.Short,
		},
	}
	if raw.Goals.Home != nil {
		fixture.Score.HomeGoals = *raw.Goals.Home
	}
	if raw.Goals.Away != nil {
		fixture.Score.AwayGoals = *raw.Goals.Away
	}

	return fixture, nil
}

// FixtureScore fetches just the score view of a fixture. This is the lookup
// the verification pass runs per pending prediction.
func (c *Client) FixtureScore(ctx context.Context, matchID string) (Score, error) {
	fixture, err := c.FixtureByID(ctx, matchID)
	if err != nil {
		return Score{}, err
	}
	return fixture.Score, nil
}

// get performs a GET request with rate limiting.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-apisports-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
