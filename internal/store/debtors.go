package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cloudcollect/server/internal/ingest"
)

// Debtor is one debt account owned by a company.
type Debtor struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	AccountNumber   string    `json:"accountNumber"`
	OriginalBalance float64   `json:"originalBalance"`
	CurrentBalance  float64   `json:"currentBalance"`
	Status          string    `json:"status"`
	Email           *string   `json:"email,omitempty"`
	Address         *string   `json:"address,omitempty"`
	City            *string   `json:"city,omitempty"`
	State           *string   `json:"state,omitempty"`
	Zip             *string   `json:"zip,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	CreditorName    *string   `json:"creditorName,omitempty"`
	ClientName      *string   `json:"clientName,omitempty"`
	PortfolioID     *string   `json:"portfolioId,omitempty"`
	CaseFileNumber  *string   `json:"caseFileNumber,omitempty"`
	DateLoaded      *string   `json:"dateLoaded,omitempty"`
	OriginationDate *string   `json:"originationDate,omitempty"`
	ChargedOffDate  *string   `json:"chargedOffDate,omitempty"`
	PurchaseDate    *string   `json:"purchaseDate,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

const debtorColumns = `id, company_id, first_name, last_name, account_number,
	original_balance, current_balance, status, email, address, city, state,
	zip, phone, creditor_name, client_name, portfolio_id, case_file_number,
	date_loaded, origination_date, charged_off_date, purchase_date,
	created_at, updated_at`

func scanDebtor(row pgx.Row) (*Debtor, error) {
	var d Debtor
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.FirstName, &d.LastName, &d.AccountNumber,
		&d.OriginalBalance, &d.CurrentBalance, &d.Status, &d.Email, &d.Address,
		&d.City, &d.State, &d.Zip, &d.Phone, &d.CreditorName, &d.ClientName,
		&d.PortfolioID, &d.CaseFileNumber, &d.DateLoaded, &d.OriginationDate,
		&d.ChargedOffDate, &d.PurchaseDate, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const insertDebtorSQL = `INSERT INTO debtors (
	id, company_id, first_name, last_name, account_number,
	original_balance, current_balance, status, email, address, city, state,
	zip, phone, creditor_name, client_name, portfolio_id, case_file_number,
	date_loaded, origination_date, charged_off_date, purchase_date
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
	$13, $14, $15, $16, $17, $18, $19, $20, $21, $22
)`

func debtorInsertArgs(id, companyID string, r ingest.Record) []interface{} {
	return []interface{}{
		id, companyID, r.FirstName, r.LastName, r.AccountNumber,
		r.OriginalBalance, r.CurrentBalance, r.Status, r.Email, r.Address,
		r.City, r.State, r.Zip, r.Phone, r.CreditorName, r.ClientName,
		r.PortfolioID, r.CaseFileNumber, r.DateLoaded, r.OriginationDate,
		r.ChargedOffDate, r.PurchaseDate,
	}
}

// CreateDebtor inserts a single account and returns it with generated
// fields populated.
func (s *Store) CreateDebtor(ctx context.Context, companyID string, rec ingest.Record) (*Debtor, error) {
	id := uuid.NewString()
	if _, err := s.pool.Exec(ctx, insertDebtorSQL, debtorInsertArgs(id, companyID, rec)...); err != nil {
		return nil, fmt.Errorf("create debtor: %w", err)
	}
	return s.GetDebtor(ctx, companyID, id)
}

// BulkInsertDebtors inserts validated import records in one round trip
// using a batch. Returns the number of rows inserted.
func (s *Store) BulkInsertDebtors(ctx context.Context, companyID string, records []ingest.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(insertDebtorSQL, debtorInsertArgs(uuid.NewString(), companyID, r)...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	var inserted int64
	for range records {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("bulk insert debtors: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// GetDebtor returns one account by id within the company scope.
func (s *Store) GetDebtor(ctx context.Context, companyID, id string) (*Debtor, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+debtorColumns+` FROM debtors WHERE company_id = $1 AND id = $2`,
		companyID, id)

	d, err := scanDebtor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get debtor: %w", err)
	}
	return d, nil
}

// ListDebtors returns accounts for a company, newest first.
func (s *Store) ListDebtors(ctx context.Context, companyID string, limit, offset int) ([]Debtor, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+debtorColumns+` FROM debtors
		 WHERE company_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list debtors: %w", err)
	}
	defer rows.Close()

	return collectDebtors(rows)
}

// SearchDebtors matches the term against name, account number, and email.
func (s *Store) SearchDebtors(ctx context.Context, companyID, term string) ([]Debtor, error) {
	pattern := "%" + term + "%"
	rows, err := s.pool.Query(ctx,
		`SELECT `+debtorColumns+` FROM debtors
		 WHERE company_id = $1
		   AND (first_name ILIKE $2 OR last_name ILIKE $2
		        OR account_number ILIKE $2 OR email ILIKE $2)
		 ORDER BY last_name, first_name
		 LIMIT 50`,
		companyID, pattern)
	if err != nil {
		return nil, fmt.Errorf("search debtors: %w", err)
	}
	defer rows.Close()

	return collectDebtors(rows)
}

// UpdateDebtor overwrites the mutable fields of an account.
func (s *Store) UpdateDebtor(ctx context.Context, companyID, id string, d Debtor) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE debtors SET
		   first_name = $3, last_name = $4, account_number = $5,
		   original_balance = $6, current_balance = $7, status = $8,
		   email = $9, address = $10, city = $11, state = $12, zip = $13,
		   phone = $14, creditor_name = $15, client_name = $16,
		   portfolio_id = $17, case_file_number = $18, date_loaded = $19,
		   origination_date = $20, charged_off_date = $21, purchase_date = $22,
		   updated_at = now()
		 WHERE company_id = $1 AND id = $2`,
		companyID, id, d.FirstName, d.LastName, d.AccountNumber,
		d.OriginalBalance, d.CurrentBalance, d.Status, d.Email, d.Address,
		d.City, d.State, d.Zip, d.Phone, d.CreditorName, d.ClientName,
		d.PortfolioID, d.CaseFileNumber, d.DateLoaded, d.OriginationDate,
		d.ChargedOffDate, d.PurchaseDate)
	if err != nil {
		return fmt.Errorf("update debtor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDebtor removes an account and, via cascade, its payments.
func (s *Store) DeleteDebtor(ctx context.Context, companyID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM debtors WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return fmt.Errorf("delete debtor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectDebtors(rows pgx.Rows) ([]Debtor, error) {
	debtors := []Debtor{}
	for rows.Next() {
		d, err := scanDebtor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debtor: %w", err)
		}
		debtors = append(debtors, *d)
	}
	return debtors, rows.Err()
}
