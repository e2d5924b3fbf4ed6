package web

import (
	"net/http"
	"time"

	"github.com/cloudcollect/server/internal/logging"
	"github.com/cloudcollect/server/internal/store"
	mw "github.com/cloudcollect/server/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

// paymentRequest is the body of POST /api/debtors/{debtorID}/payments.
type paymentRequest struct {
	Amount      float64    `json:"amount"`
	Method      *string    `json:"method,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
}

// handleCreatePayment records a payment against a debtor account. The
// account's current balance is decremented in the same transaction.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	debtorID := chi.URLParam(r, "debtorID")

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	p := store.Payment{
		DebtorID: debtorID,
		Amount:   req.Amount,
		Method:   req.Method,
		Notes:    req.Notes,
	}
	if req.PaymentDate != nil {
		p.PaymentDate = *req.PaymentDate
	}

	created, err := s.store.CreatePayment(r.Context(), companyID, p)
	if err != nil {
		s.respondError(w, r, err, paymentStatusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("payment recorded",
		"company_id", companyID,
		"debtor_id", debtorID,
		"amount", created.Amount,
	)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, created)
}

// handleListPayments returns a debtor's payments, newest first.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())
	debtorID := chi.URLParam(r, "debtorID")

	payments, err := s.store.ListPaymentsByDebtor(r.Context(), companyID, debtorID)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, payments)
}

// paymentStatusFor maps payment creation errors to HTTP status codes.
// A zero or negative amount is a client error, not a server one.
func paymentStatusFor(err error) int {
	if MapError(err).Code == "REQ002" {
		return http.StatusBadRequest
	}
	return statusFor(err)
}
