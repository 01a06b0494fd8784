// Package auth obtains and caches the bearer credential used for field
// submission. The cache holds at most one live token behind a mutex; the
// expiry check and refresh happen inside a single critical section so
// concurrent callers can never race two refreshes.
package auth

import "time"

// Token is a short-lived bearer credential with an absolute expiry instant.
// Tokens are replaced on refresh, never mutated.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Expired reports whether the token is no longer valid at the given instant.
// No safety margin is applied: a token is valid until the exact moment it
// expires.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// HeaderValue formats the token for the Authorization header,
// e.g. "Bearer eyJhb...".
func (t Token) HeaderValue() string {
	return t.TokenType + " " + t.AccessToken
}
