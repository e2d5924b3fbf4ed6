package web

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/cloudcollect/server/internal/logging"
	mw "github.com/cloudcollect/server/internal/web/middleware"
	"github.com/cloudcollect/server/internal/web/templates"
)

// loginRequest is the body of POST /api/login.
type loginRequest struct {
	CompanyCode string `json:"companyCode"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// loginResponse is returned on successful login. The token is also set as
// an HttpOnly cookie; the body copy is for non-browser clients.
type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

type loginUser struct {
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
}

// handleLoginPage serves the login screen. Already-authenticated browsers
// are sent straight to the app shell.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(mw.SessionCookie); err == nil {
		if _, ok := s.sessions.Lookup(c.Value); ok {
			http.Redirect(w, r, "/app", http.StatusSeeOther)
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.LoginPage().Render(r.Context(), w)
}

// handleAppPage serves the authenticated shell, or bounces to the login page.
func (s *Server) handleAppPage(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(mw.SessionCookie)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess, ok := s.sessions.Lookup(c.Value)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.AppShell(sess.Email).Render(r.Context(), w)
}

// handleLogin validates credentials against the configured demo tenant and
// mints a session on success.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if !s.credentialsValid(req) {
		s.respondError(w, r, errors.New("invalid credentials"), http.StatusUnauthorized)
		return
	}

	companyID := s.cfg.Security.DemoCompanyID
	token, expiresAt := s.sessions.Create(companyID, req.Email)
	setSessionCookie(w, token, expiresAt)

	logging.FromContext(r.Context()).Info("login",
		"company_id", companyID,
		"email", req.Email,
	)

	writeJSON(w, loginResponse{
		Token: token,
		User:  loginUser{Email: req.Email, CompanyID: companyID},
	})
}

// handleLogout deletes the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(mw.SessionCookie); err == nil {
		s.sessions.Delete(c.Value)
	}
	clearSessionCookie(w)
	writeJSON(w, map[string]bool{"success": true})
}

// credentialsValid compares the submitted credentials against the demo
// tenant. All three fields are compared in constant time, and every
// comparison runs regardless of earlier mismatches.
func (s *Server) credentialsValid(req loginRequest) bool {
	sec := s.cfg.Security
	match := subtle.ConstantTimeCompare([]byte(req.CompanyCode), []byte(sec.DemoCompanyCode))
	match &= subtle.ConstantTimeCompare([]byte(req.Email), []byte(sec.DemoEmail))
	match &= subtle.ConstantTimeCompare([]byte(req.Password), []byte(sec.DemoPassword))
	return match == 1
}
