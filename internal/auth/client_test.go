package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func tokenServer(t *testing.T, requests *atomic.Int64, expiresIn int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.PostFormValue("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want %q", got, "client_credentials")
		}
		if got := r.PostFormValue("client_id"); got != "id" {
			t.Errorf("client_id = %q, want %q", got, "id")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok%d","token_type":"Bearer","expires_in":%d}`, n, expiresIn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHeaderValue_CachesWithinLifetime(t *testing.T) {
	var requests atomic.Int64
	srv := tokenServer(t, &requests, 3600)

	c := NewClient(srv.Client(), srv.URL, "id", "secret")

	first, err := c.HeaderValue(context.Background())
	if err != nil {
		t.Fatalf("HeaderValue() error = %v", err)
	}
	if first != "Bearer tok1" {
		t.Errorf("HeaderValue() = %q, want %q", first, "Bearer tok1")
	}

	second, err := c.HeaderValue(context.Background())
	if err != nil {
		t.Fatalf("HeaderValue() error = %v", err)
	}
	if second != first {
		t.Errorf("second HeaderValue() = %q, want cached %q", second, first)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("token requests = %d, want 1", got)
	}
}

func TestHeaderValue_RefreshesAfterExpiry(t *testing.T) {
	var requests atomic.Int64
	srv := tokenServer(t, &requests, 60)

	c := NewClient(srv.Client(), srv.URL, "id", "secret")

	now := time.Now()
	c.now = func() time.Time { return now }

	if _, err := c.HeaderValue(context.Background()); err != nil {
		t.Fatalf("HeaderValue() error = %v", err)
	}

	// Advance the clock to the exact expiry instant; the token is already
	// invalid there (no safety margin in either direction).
	now = now.Add(60 * time.Second)

	got, err := c.HeaderValue(context.Background())
	if err != nil {
		t.Fatalf("HeaderValue() error = %v", err)
	}
	if got != "Bearer tok2" {
		t.Errorf("HeaderValue() after expiry = %q, want %q", got, "Bearer tok2")
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("token requests = %d, want 2", n)
	}
}

func TestHeaderValue_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "id", "wrong")
	_, err := c.HeaderValue(context.Background())
	if !IsInvalidCredentials(err) {
		t.Errorf("IsInvalidCredentials(%v) = false, want true", err)
	}
}

func TestHeaderValue_ErrorResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_scope","error_description":"scope not granted"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "id", "secret")
	_, err := c.HeaderValue(context.Background())

	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if authErr.Kind != KindTokenFetchFailed {
		t.Errorf("Kind = %d, want KindTokenFetchFailed", authErr.Kind)
	}
}

func TestHeaderValue_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "id", "secret")
	_, err := c.HeaderValue(context.Background())

	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if authErr.Kind != KindInvalidTokenResponse {
		t.Errorf("Kind = %d, want KindInvalidTokenResponse", authErr.Kind)
	}
}

func TestHeaderValue_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(&http.Client{Timeout: time.Second}, srv.URL, "id", "secret")
	_, err := c.HeaderValue(context.Background())

	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if authErr.Kind != KindNetwork {
		t.Errorf("Kind = %d, want KindNetwork", authErr.Kind)
	}
}

// Concurrent callers must observe exactly one refresh: the lock spans the
// whole check-and-refresh sequence.
func TestHeaderValue_SingleRefreshUnderConcurrency(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(20 * time.Millisecond) // widen the race window
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "id", "secret")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.HeaderValue(context.Background())
			if err != nil {
				t.Errorf("HeaderValue() error = %v", err)
				return
			}
			if got != "Bearer tok" {
				t.Errorf("HeaderValue() = %q, want %q", got, "Bearer tok")
			}
		}()
	}
	wg.Wait()

	if n := requests.Load(); n != 1 {
		t.Errorf("token requests = %d, want 1", n)
	}
}

func TestToken_Expired(t *testing.T) {
	now := time.Now()
	tok := Token{ExpiresAt: now}

	if tok.Expired(now.Add(-time.Nanosecond)) {
		t.Error("Expired() just before ExpiresAt = true, want false")
	}
	if !tok.Expired(now) {
		t.Error("Expired() at ExpiresAt = false, want true")
	}
}
