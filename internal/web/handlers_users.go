package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cloudcollect/server/internal/store"
	mw "github.com/cloudcollect/server/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

// handleListUsers returns the company's users with their role names.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())

	users, err := s.store.ListUsers(r.Context(), companyID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, users)
}

// handleCreateUser adds a user to the company.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())

	var u store.User
	if err := decodeJSON(r, &u); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(u.Email) == "" {
		s.respondError(w, r, errors.New("email is required"), http.StatusBadRequest)
		return
	}

	created, err := s.store.CreateUser(r.Context(), companyID, u)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, created)
}

// handleUpdateUser updates a user's profile, role, and active flag.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	id := chi.URLParam(r, "userID")

	var u store.User
	if err := decodeJSON(r, &u); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateUser(r.Context(), companyID, id, u); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// handleDeleteUser removes a user from the company.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	id := chi.URLParam(r, "userID")

	if err := s.store.DeleteUser(r.Context(), companyID, id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}
