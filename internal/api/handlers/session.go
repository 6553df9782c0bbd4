package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jsimpson73/test-med-app/internal/application/services"
)

// SessionProvider hands out the per-session store.
type SessionProvider interface {
	Store(ctx context.Context, sessionID string) *services.Store
	NewSessionID() string
}

// Sessions resolves the session cookie to a Store, issuing a cookie on first contact.
type Sessions struct {
	provider   SessionProvider
	cookieName string
	secure     bool
}

// NewSessions creates a session resolver
func NewSessions(provider SessionProvider, cookieName string, secure bool) *Sessions {
	return &Sessions{provider: provider, cookieName: cookieName, secure: secure}
}

// Resolve returns the caller's store. Cookies that are not session ids get a
// fresh session.
func (s *Sessions) Resolve(w http.ResponseWriter, r *http.Request) *services.Store {
	if c, err := r.Cookie(s.cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return s.provider.Store(r.Context(), c.Value)
		}
	}

	sid := s.provider.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
	return s.provider.Store(r.Context(), sid)
}
