package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payment is one payment recorded against a debtor account.
type Payment struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	DebtorID    string    `json:"debtorId"`
	Amount      float64   `json:"amount"`
	Method      *string   `json:"method,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	PaymentDate time.Time `json:"paymentDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreatePayment records a payment and decrements the debtor's current
// balance in the same transaction.
func (s *Store) CreatePayment(ctx context.Context, companyID string, p Payment) (*Payment, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	p.ID = uuid.NewString()
	p.CompanyID = companyID

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Verify the debtor belongs to this company before touching balances.
	tag, err := tx.Exec(ctx,
		`UPDATE debtors
		 SET current_balance = current_balance - $3, updated_at = now()
		 WHERE company_id = $1 AND id = $2`,
		companyID, p.DebtorID, p.Amount)
	if err != nil {
		return nil, fmt.Errorf("apply payment to balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO payments (id, company_id, debtor_id, amount, method, notes, payment_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		p.ID, p.CompanyID, p.DebtorID, p.Amount, p.Method, p.Notes, p.PaymentDate,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}
	return &p, nil
}

// ListPaymentsByDebtor returns a debtor's payments, newest first.
func (s *Store) ListPaymentsByDebtor(ctx context.Context, companyID, debtorID string) ([]Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, debtor_id, amount, method, notes, payment_date, created_at
		 FROM payments
		 WHERE company_id = $1 AND debtor_id = $2
		 ORDER BY payment_date DESC`,
		companyID, debtorID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.DebtorID, &p.Amount,
			&p.Method, &p.Notes, &p.PaymentDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
