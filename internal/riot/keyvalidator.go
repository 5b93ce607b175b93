package riot

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	// The status endpoint is the cheapest authenticated call; it uses
	// platform routing rather than regional routing.
	na1BaseURL        = "https://na1.api.riotgames.com"
	statusEndpoint    = "/lol/status/v4/platform-data"
	validationTimeout = 10 * time.Second
)

// KeyValidator checks an API key against the status endpoint before a
// crawl starts, so an expired key fails fast instead of mid-run.
type KeyValidator struct {
	httpClient *http.Client
	baseURL    string
}

// KeyValidatorOption configures a KeyValidator.
type KeyValidatorOption func(*KeyValidator)

// WithValidatorBaseURL sets a custom base URL (useful for testing).
func WithValidatorBaseURL(url string) KeyValidatorOption {
	return func(v *KeyValidator) {
		v.baseURL = url
	}
}

// NewKeyValidator creates a KeyValidator with the given options.
func NewKeyValidator(opts ...KeyValidatorOption) *KeyValidator {
	v := &KeyValidator{
		httpClient: &http.Client{Timeout: validationTimeout},
		baseURL:    na1BaseURL,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateKey reports whether the key is usable. (false, nil) means the
// key itself was rejected (401/403); any other non-200 outcome is an
// error because key validity is unknown.
func (v *KeyValidator) ValidateKey(ctx context.Context, apiKey string) (bool, error) {
	if apiKey == "" {
		return false, fmt.Errorf("API key cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", v.baseURL+statusEndpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
