package ingest

// validate.go checks individual data rows against the account business
// rules and coerces recognized cells into their canonical types.
//
// Validation short-circuits at the first failing field, so a row yields
// either one normalized record or exactly one RowError. The check order
// matters and is part of the observable behavior: required strings, then
// balances, then status, then email, then the remaining optional strings.

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ValidStatuses is the closed set of account statuses accepted on import.
// Comparison is case-insensitive; records store the lower-cased form.
var ValidStatuses = []string{"active", "paid", "inactive", "disputed"}

var (
	// nonNumeric matches every character stripped before balance parsing.
	nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

	// emailShape is a deliberately loose local@domain.tld check.
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Record is one validated, canonicalized debtor account entry. Required
// fields are always populated; optional fields are nil when the source
// cell was absent or blank after trimming, never empty-string stand-ins.
// Date-typed fields are carried as opaque strings without format checks.
type Record struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	AccountNumber   string  `json:"accountNumber"`
	OriginalBalance float64 `json:"originalBalance"`
	CurrentBalance  float64 `json:"currentBalance"`
	Status          string  `json:"status"`
	Email           *string `json:"email,omitempty"`
	Address         *string `json:"address,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	Zip             *string `json:"zip,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	CreditorName    *string `json:"creditorName,omitempty"`
	ClientName      *string `json:"clientName,omitempty"`
	PortfolioID     *string `json:"portfolioId,omitempty"`
	CaseFileNumber  *string `json:"caseFileNumber,omitempty"`
	DateLoaded      *string `json:"dateLoaded,omitempty"`
	OriginationDate *string `json:"originationDate,omitempty"`
	ChargedOffDate  *string `json:"chargedOffDate,omitempty"`
	PurchaseDate    *string `json:"purchaseDate,omitempty"`
}

// RowValidator checks data rows against a resolved column index.
type RowValidator struct {
	cols ColumnIndex
}

// NewRowValidator creates a validator for one ingestion run.
func NewRowValidator(cols ColumnIndex) *RowValidator {
	return &RowValidator{cols: cols}
}

// ValidateRow validates a single data row. rowNum is the 1-based position
// of the row in the original file, header included, and is what any
// resulting error is addressed to.
//
// A row never partially contributes: the return is either a record and a
// nil error, or a nil record and exactly one RowError. Unexpected failures
// while coercing exotic cell content are recovered and reported as a
// RowError rather than aborting the run.
func (v *RowValidator) ValidateRow(row []string, rowNum int) (rec *Record, rowErr *RowError) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			rowErr = &RowError{
				Row:     rowNum,
				Kind:    KindRowProcessing,
				Message: fmt.Sprintf("Error processing row: %v", r),
			}
		}
	}()

	fail := func(kind ErrorKind, msg string) (*Record, *RowError) {
		return nil, &RowError{Row: rowNum, Kind: kind, Message: msg}
	}

	firstName := strings.TrimSpace(v.cell(row, FieldFirstName))
	if firstName == "" {
		return fail(KindMissingRequiredField, "First name is required")
	}

	lastName := strings.TrimSpace(v.cell(row, FieldLastName))
	if lastName == "" {
		return fail(KindMissingRequiredField, "Last name is required")
	}

	accountNumber := strings.TrimSpace(v.cell(row, FieldAccountNumber))
	if accountNumber == "" {
		return fail(KindMissingRequiredField, "Account number is required")
	}

	originalBalance, err := parseAmount(v.cell(row, FieldOriginalBalance))
	if err != nil || originalBalance <= 0 {
		return fail(KindInvalidNumber, "Original balance must be a positive number")
	}

	// Current balance defaults to the original balance, and unlike the
	// original balance a cell that fails to parse is silently recovered to
	// that default instead of failing the row.
	currentBalance := originalBalance
	if raw, ok := v.lookup(row, FieldCurrentBalance); ok {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			if parsed, err := parseAmount(trimmed); err == nil {
				currentBalance = parsed
			}
		}
	}

	status := "active"
	if raw, ok := v.lookup(row, FieldStatus); ok {
		if s := strings.ToLower(strings.TrimSpace(raw)); s != "" {
			status = s
		}
	}
	if !slices.Contains(ValidStatuses, status) {
		return fail(KindInvalidStatus, fmt.Sprintf("Invalid status '%s'. Must be one of: %s",
			status, strings.Join(ValidStatuses, ", ")))
	}

	var email *string
	if raw, ok := v.lookup(row, FieldEmail); ok {
		if e := strings.TrimSpace(raw); e != "" {
			if !emailShape.MatchString(e) {
				return fail(KindInvalidEmail, "Invalid email format")
			}
			email = &e
		}
	}

	return &Record{
		FirstName:       firstName,
		LastName:        lastName,
		AccountNumber:   accountNumber,
		OriginalBalance: originalBalance,
		CurrentBalance:  currentBalance,
		Status:          status,
		Email:           email,
		Address:         v.optional(row, FieldAddress),
		City:            v.optional(row, FieldCity),
		State:           v.optional(row, FieldState),
		Zip:             v.optional(row, FieldZip),
		Phone:           v.optional(row, FieldPhone),
		CreditorName:    v.optional(row, FieldCreditorName),
		ClientName:      v.optional(row, FieldClientName),
		PortfolioID:     v.optional(row, FieldPortfolioID),
		CaseFileNumber:  v.optional(row, FieldCaseFileNumber),
		DateLoaded:      v.optional(row, FieldDateLoaded),
		OriginationDate: v.optional(row, FieldOriginationDate),
		ChargedOffDate:  v.optional(row, FieldChargedOffDate),
		PurchaseDate:    v.optional(row, FieldPurchaseDate),
	}, nil
}

// lookup returns the raw cell for a field. ok is false only when the field
// has no resolved column; a resolved column whose cell is missing from a
// short row reads as an empty cell.
func (v *RowValidator) lookup(row []string, f Field) (string, bool) {
	idx, ok := v.cols[f]
	if !ok {
		return "", false
	}
	if idx >= len(row) {
		return "", true
	}
	return row[idx], true
}

// cell is lookup without presence information, for required fields.
func (v *RowValidator) cell(row []string, f Field) string {
	raw, _ := v.lookup(row, f)
	return raw
}

// optional extracts an optional string field: trimmed, present only if
// non-empty.
func (v *RowValidator) optional(row []string, f Field) *string {
	raw, ok := v.lookup(row, f)
	if !ok {
		return nil
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// parseAmount coerces a monetary cell: every character that is not a
// digit, decimal point, or minus sign is stripped before parsing.
func parseAmount(s string) (float64, error) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}
