// Package session gates the API behind a shared secret.
//
// POST /api/session exchanges the secret for an opaque token. The gate
// middleware resolves "Authorization: Bearer <token>" into a Session value in
// the request context. With no secret configured the gate is open and every
// request carries an anonymous session.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/quantdash/internal/memo"
	"github.com/google/uuid"
)

// Errors
var (
	ErrInvalidSecret = errors.New("invalid access secret")
	ErrUnauthorized  = errors.New("missing or expired session token")
)

// Session is the access state of one client
type Session struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Anonymous bool      `json:"anonymous"`
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by the gate middleware
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// Store issues and resolves session tokens
type Store struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	tokens *memo.Cache[string, Session]
}

// NewStore creates a store. An empty secret disables the gate.
func NewStore(secret string, ttl time.Duration) *Store {
	return &Store{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		tokens: memo.New[string, Session](ttl),
	}
}

// WithClock replaces the time source
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	s.tokens.WithClock(now)
	return s
}

// Enabled reports whether a secret is configured
func (s *Store) Enabled() bool {
	return len(s.secret) > 0
}

// Evictor exposes the token cache for eviction scheduling
func (s *Store) Evictor() memo.Evictor {
	return s.tokens
}

// Issue exchanges secret for a new session
func (s *Store) Issue(secret string) (Session, error) {
	if !s.Enabled() {
		return s.anonymous(), nil
	}
	if subtle.ConstantTimeCompare([]byte(secret), s.secret) != 1 {
		return Session{}, ErrInvalidSecret
	}

	now := s.now().UTC()
	sess := Session{
		Token:     uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.tokens.Set(sess.Token, sess)
	return sess, nil
}

// Resolve returns the live session for token
func (s *Store) Resolve(token string) (Session, error) {
	if !s.Enabled() {
		return s.anonymous(), nil
	}
	if token == "" {
		return Session{}, ErrUnauthorized
	}
	sess, ok := s.tokens.Get(token)
	if !ok {
		return Session{}, ErrUnauthorized
	}
	return sess, nil
}

// Revoke ends the session for token
func (s *Store) Revoke(token string) {
	s.tokens.Delete(token)
}

func (s *Store) anonymous() Session {
	return Session{IssuedAt: s.now().UTC(), Anonymous: true}
}

// Middleware rejects requests without a live session and stores the resolved
// session in the request context.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Resolve(BearerToken(r))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="quantdash"`)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"unauthorized","code":"UNAUTHORIZED"}}` + "\n"))
			return
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), sess)))
	})
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is case-insensitive; a missing or malformed header gives "".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
