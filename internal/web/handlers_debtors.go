package web

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/cloudcollect/server/internal/ingest"
	"github.com/cloudcollect/server/internal/store"
	mw "github.com/cloudcollect/server/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

// handleListDebtors returns a page of the company's debtor accounts.
// Query parameters: limit (default 50, max 500) and offset.
func (s *Server) handleListDebtors(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	limit := parseIntParam(r, "limit", 50)
	offset := parseIntParam(r, "offset", 0)

	debtors, err := s.store.ListDebtors(r.Context(), companyID, limit, offset)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, debtors)
}

// handleCreateDebtor creates a single debtor account from a JSON body.
// The body uses the same shape as one imported row, so the SPA can share
// its form model with the import result view.
func (s *Server) handleCreateDebtor(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())

	var rec ingest.Record
	if err := decodeJSON(r, &rec); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := validateDebtorInput(&rec); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	d, err := s.store.CreateDebtor(r.Context(), companyID, rec)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, d)
}

// handleGetDebtor returns one debtor account by ID.
func (s *Server) handleGetDebtor(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	id := chi.URLParam(r, "debtorID")

	d, err := s.store.GetDebtor(r.Context(), companyID, id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, d)
}

// handleUpdateDebtor replaces the editable fields of a debtor account.
func (s *Server) handleUpdateDebtor(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	id := chi.URLParam(r, "debtorID")

	var d store.Debtor
	if err := decodeJSON(r, &d); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateDebtor(r.Context(), companyID, id, d); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// handleDeleteDebtor deletes a debtor account and its payments.
func (s *Server) handleDeleteDebtor(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	id := chi.URLParam(r, "debtorID")

	if err := s.store.DeleteDebtor(r.Context(), companyID, id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// handleSearchDebtors searches accounts by name, account number, or email.
func (s *Server) handleSearchDebtors(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		s.respondError(w, r, errors.New("search term is required"), http.StatusBadRequest)
		return
	}

	debtors, err := s.store.SearchDebtors(r.Context(), companyID, term)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, debtors)
}

// validateDebtorInput enforces the same required fields and status set the
// import pipeline does, so manually created accounts match imported ones.
func validateDebtorInput(rec *ingest.Record) error {
	if strings.TrimSpace(rec.FirstName) == "" {
		return errors.New("firstName is required")
	}
	if strings.TrimSpace(rec.LastName) == "" {
		return errors.New("lastName is required")
	}
	if strings.TrimSpace(rec.AccountNumber) == "" {
		return errors.New("accountNumber is required")
	}
	if rec.OriginalBalance <= 0 {
		return errors.New("originalBalance must be a positive number")
	}
	if rec.CurrentBalance == 0 {
		rec.CurrentBalance = rec.OriginalBalance
	}
	if rec.Status == "" {
		rec.Status = "active"
	}
	rec.Status = strings.ToLower(strings.TrimSpace(rec.Status))
	if !slices.Contains(ingest.ValidStatuses, rec.Status) {
		return fmt.Errorf("invalid status %q", rec.Status)
	}
	return nil
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
