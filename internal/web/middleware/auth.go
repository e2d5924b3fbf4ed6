package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "cc_session"

// Session is the authenticated identity attached to a request.
// Every request that passes SessionAuth carries exactly one tenant,
// and all data access downstream is scoped to Session.CompanyID.
type Session struct {
	CompanyID string
	Email     string
}

// SessionValidator resolves a session token to an identity.
// Implemented by the web package's session store.
type SessionValidator interface {
	Lookup(token string) (Session, bool)
}

type ctxKey int

const sessionKey ctxKey = iota

// SessionAuth returns middleware that requires a valid session on every request.
//
// The token is read from the session cookie, or from a Bearer token in the
// Authorization header for non-browser clients. Requests without a valid
// session get a 401 JSON response.
func SessionAuth(v SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				slog.Warn("auth: missing session token",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				unauthorized(w, "missing session", "AUTH001")
				return
			}

			sess, ok := v.Lookup(token)
			if !ok {
				slog.Warn("auth: invalid or expired session",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				unauthorized(w, "invalid or expired session", "AUTH002")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFrom returns the session attached by SessionAuth.
func SessionFrom(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}

// CompanyID returns the tenant ID of the authenticated session, or "" if
// the request is unauthenticated.
func CompanyID(ctx context.Context) string {
	sess, _ := SessionFrom(ctx)
	return sess.CompanyID
}

// tokenFromRequest extracts the session token from the cookie or the
// Authorization header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `","code":"` + code + `"}`))
}
