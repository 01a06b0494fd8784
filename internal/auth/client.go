package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrorKind classifies authentication failures. The kinds matter to callers:
// invalid credentials are fatal and must stop the run, while network errors
// may be retried at a higher level.
type ErrorKind int

const (
	// KindInvalidCredentials means the token endpoint rejected the client
	// id/secret. Retrying cannot help.
	KindInvalidCredentials ErrorKind = iota

	// KindTokenFetchFailed means the endpoint returned an error response.
	KindTokenFetchFailed

	// KindInvalidTokenResponse means a success response could not be parsed.
	KindInvalidTokenResponse

	// KindNetwork means the request never completed (timeout, connection
	// failure).
	KindNetwork
)

// Error is an authentication failure with a classified kind.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidCredentials:
		return "invalid client credentials"
	case KindTokenFetchFailed:
		return "failed to fetch authentication token: " + e.Detail
	case KindInvalidTokenResponse:
		return "invalid token response from server: " + e.Detail
	default:
		return "network error during authentication: " + e.Detail
	}
}

// IsInvalidCredentials reports whether err is a fatal credential rejection.
func IsInvalidCredentials(err error) bool {
	var authErr *Error
	return errors.As(err, &authErr) && authErr.Kind == KindInvalidCredentials
}

// tokenResponse is the success body of the token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// errorResponse is the error body of the token endpoint.
type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// Client fetches tokens via the client-credentials grant and caches the
// current one. Safe for concurrent use.
type Client struct {
	http         *http.Client
	tokenURL     string
	clientID     string
	clientSecret string

	// now is replaceable in tests.
	now func() time.Time

	mu      sync.Mutex
	current *Token
}

// NewClient creates a token client for the given endpoint and credentials.
func NewClient(httpClient *http.Client, tokenURL, clientID, clientSecret string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:         httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// HeaderValue returns the Authorization header value for a currently valid
// token, refreshing it first if the cached one is absent or expired.
//
// The lock covers the whole check-refresh-store sequence: at most one refresh
// is in flight, and concurrent callers block until it completes and then see
// the fresh token.
func (c *Client) HeaderValue(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && !c.current.Expired(c.now()) {
		return c.current.HeaderValue(), nil
	}

	token, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	c.current = &token

	return token.HeaderValue(), nil
}

// fetch performs one client-credentials exchange.
func (c *Client) fetch(ctx context.Context) (Token, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, &Error{Kind: KindNetwork, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Token{}, &Error{Kind: KindNetwork, Detail: "request timed out"}
		}
		return Token{}, &Error{Kind: KindNetwork, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Token{}, &Error{Kind: KindInvalidCredentials}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, &Error{Kind: KindTokenFetchFailed, Detail: fmt.Sprintf("failed to read response body: %v", err)}
	}

	// The endpoint reports failures as {error, error_description}; check for
	// that shape before attempting the success parse.
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return Token{}, &Error{
			Kind:   KindTokenFetchFailed,
			Detail: errResp.Error + ": " + errResp.Description,
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil || tokenResp.AccessToken == "" {
		return Token{}, &Error{
			Kind:   KindInvalidTokenResponse,
			Detail: fmt.Sprintf("failed to parse response: %.200s", string(body)),
		}
	}

	return Token{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		ExpiresAt:   c.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}
