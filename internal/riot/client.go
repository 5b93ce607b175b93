package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Regional routing hosts. Account-V1 and Match-V5 both use regional
// routing (americas/europe/asia), not platform routing.
const (
	americasBaseURL = "https://americas.api.riotgames.com"
	europeBaseURL   = "https://europe.api.riotgames.com"
	asiaBaseURL     = "https://asia.api.riotgames.com"

	// Dev key long-window budget is 100 requests per 2 minutes; pace a
	// little under it and let the server's 429s govern the rest.
	requestsPer2Min = 90
	limiterBurst    = 15

	requestTimeout = 30 * time.Second
)

// ErrNotFound indicates the remote account or match does not exist.
var ErrNotFound = errors.New("not found")

// ErrRateLimited indicates the API asked us to back off. The caller must
// retry the identical request after the advised interval.
var ErrRateLimited = errors.New("rate limited")

// RateLimitError wraps ErrRateLimited with the server's Retry-After hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// Client is a rate-limited Riot API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the regional routing host (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRegion selects the regional routing host by name (americas, europe, asia).
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		switch region {
		case "europe":
			c.baseURL = europeBaseURL
		case "asia":
			c.baseURL = asiaBaseURL
		default:
			c.baseURL = americasBaseURL
		}
	}
}

// NewClient creates a client using RIOT_API_KEY and RIOT_REGION from the
// environment. Options are applied after the environment is read.
func NewClient(opts ...ClientOption) (*Client, error) {
	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY environment variable not set")
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: americasBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(2*time.Minute/requestsPer2Min), limiterBurst),
	}
	WithRegion(os.Getenv("RIOT_REGION"))(c)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// doRequest performs one paced GET and decodes the JSON body into result.
// A 429 surfaces as a RateLimitError; the retry decision belongs to the
// caller, which must reissue the identical request.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(result)
	case http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
}

const defaultRetryAfter = 10 * time.Second

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

// ResolveAccount resolves a Riot ID (gameName#tagLine) to its account.
func (c *Client) ResolveAccount(ctx context.Context, gameName, tagLine string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.baseURL, url.PathEscape(gameName), url.PathEscape(tagLine))

	var account Account
	if err := c.doRequest(ctx, u, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListMatchIDs fetches up to count recent match IDs for a player,
// restricted to the given queue when queueID is non-zero.
func (c *Client) ListMatchIDs(ctx context.Context, puuid string, count, queueID int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		c.baseURL, puuid, count)
	if queueID > 0 {
		u += fmt.Sprintf("&queue=%d", queueID)
	}

	var matchIDs []string
	if err := c.doRequest(ctx, u, &matchIDs); err != nil {
		return nil, err
	}
	return matchIDs, nil
}

// GetMatch fetches full match detail.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.baseURL, matchID)

	var match Match
	if err := c.doRequest(ctx, u, &match); err != nil {
		return nil, err
	}
	return &match, nil
}
