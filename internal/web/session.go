package web

import (
	"net/http"
	"sync"
	"time"

	mw "github.com/cloudcollect/server/internal/web/middleware"
	"github.com/google/uuid"
)

// SessionStore keeps login sessions in memory, keyed by an opaque token.
// Sessions expire after the configured TTL and are purged lazily on lookup
// plus periodically by a janitor goroutine.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	ttl      time.Duration
}

type sessionEntry struct {
	companyID string
	email     string
	expiresAt time.Time
}

// NewSessionStore creates a session store with the given TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	st := &SessionStore{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
	}
	go st.janitor()
	return st
}

// Create mints a new session token for the given identity.
func (st *SessionStore) Create(companyID, email string) (token string, expiresAt time.Time) {
	token = uuid.NewString()
	expiresAt = time.Now().Add(st.ttl)

	st.mu.Lock()
	st.sessions[token] = sessionEntry{
		companyID: companyID,
		email:     email,
		expiresAt: expiresAt,
	}
	st.mu.Unlock()
	return token, expiresAt
}

// Lookup resolves a token to a session. Expired sessions are removed and
// reported as missing. Implements middleware.SessionValidator.
func (st *SessionStore) Lookup(token string) (mw.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.sessions[token]
	if !ok {
		return mw.Session{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(st.sessions, token)
		return mw.Session{}, false
	}
	return mw.Session{CompanyID: entry.companyID, Email: entry.email}, true
}

// Delete removes a session token. Deleting an unknown token is a no-op.
func (st *SessionStore) Delete(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}

// janitor removes expired sessions every few minutes.
func (st *SessionStore) janitor() {
	for {
		time.Sleep(5 * time.Minute)
		now := time.Now()
		st.mu.Lock()
		for token, entry := range st.sessions {
			if now.After(entry.expiresAt) {
				delete(st.sessions, token)
			}
		}
		st.mu.Unlock()
	}
}

// setSessionCookie writes the session cookie on a login response.
func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie on logout.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
