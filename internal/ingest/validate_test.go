package ingest

import (
	"strings"
	"testing"
)

// validatorFor resolves the given header against the default alias table
// and fails the test if any required field is unresolved.
func validatorFor(t *testing.T, header []string) *RowValidator {
	t.Helper()
	cols, missing := ResolveHeaders(header, DefaultAliasTable())
	if len(missing) > 0 {
		t.Fatalf("header %v left required fields unresolved: %v", header, missing)
	}
	return NewRowValidator(cols)
}

var baseHeader = []string{"first_name", "last_name", "account_number", "original_balance"}

func TestValidateRowRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		row      []string
		wantKind ErrorKind
		wantMsg  string
	}{
		{
			name:     "missing first name",
			row:      []string{"", "Doe", "ACC-1", "1000.00"},
			wantKind: KindMissingRequiredField,
			wantMsg:  "First name is required",
		},
		{
			name:     "whitespace-only last name",
			row:      []string{"John", "   ", "ACC-1", "1000.00"},
			wantKind: KindMissingRequiredField,
			wantMsg:  "Last name is required",
		},
		{
			name:     "missing account number",
			row:      []string{"John", "Doe", "", "1000.00"},
			wantKind: KindMissingRequiredField,
			wantMsg:  "Account number is required",
		},
		{
			name:     "negative original balance",
			row:      []string{"John", "Doe", "ACC-1", "-5"},
			wantKind: KindInvalidNumber,
			wantMsg:  "Original balance must be a positive number",
		},
		{
			name:     "zero original balance",
			row:      []string{"John", "Doe", "ACC-1", "0"},
			wantKind: KindInvalidNumber,
			wantMsg:  "Original balance must be a positive number",
		},
		{
			name:     "non-numeric original balance",
			row:      []string{"John", "Doe", "ACC-1", "not a number"},
			wantKind: KindInvalidNumber,
			wantMsg:  "Original balance must be a positive number",
		},
		{
			name:     "short row reads as empty cells",
			row:      []string{"John"},
			wantKind: KindMissingRequiredField,
			wantMsg:  "Last name is required",
		},
	}

	v := validatorFor(t, baseHeader)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := v.ValidateRow(tt.row, 2)
			if rec != nil {
				t.Fatalf("got record %+v, want failure", rec)
			}
			if rowErr == nil {
				t.Fatal("got nil error, want failure")
			}
			if rowErr.Row != 2 {
				t.Errorf("error row = %d, want 2", rowErr.Row)
			}
			if rowErr.Kind != tt.wantKind {
				t.Errorf("error kind = %s, want %s", rowErr.Kind, tt.wantKind)
			}
			if rowErr.Message != tt.wantMsg {
				t.Errorf("error message = %q, want %q", rowErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidateRowBalanceCoercion(t *testing.T) {
	header := append(append([]string{}, baseHeader...), "current_balance")

	tests := []struct {
		name        string
		original    string
		current     string
		wantOrig    float64
		wantCurrent float64
	}{
		{
			name:        "currency symbols and separators stripped",
			original:    "$1,234.56",
			current:     "$1,000.00",
			wantOrig:    1234.56,
			wantCurrent: 1000,
		},
		{
			name:        "empty current balance defaults to original",
			original:    "1000.00",
			current:     "",
			wantOrig:    1000,
			wantCurrent: 1000,
		},
		{
			name:        "unparsable current balance silently defaults",
			original:    "1000.00",
			current:     "n/a",
			wantOrig:    1000,
			wantCurrent: 1000,
		},
		{
			name:        "negative current balance is kept",
			original:    "1000.00",
			current:     "-50",
			wantOrig:    1000,
			wantCurrent: -50,
		},
	}

	v := validatorFor(t, header)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := v.ValidateRow([]string{"John", "Doe", "ACC-1", tt.original, tt.current}, 2)
			if rowErr != nil {
				t.Fatalf("unexpected error: %v", rowErr)
			}
			if rec.OriginalBalance != tt.wantOrig {
				t.Errorf("OriginalBalance = %v, want %v", rec.OriginalBalance, tt.wantOrig)
			}
			if rec.CurrentBalance != tt.wantCurrent {
				t.Errorf("CurrentBalance = %v, want %v", rec.CurrentBalance, tt.wantCurrent)
			}
		})
	}
}

func TestValidateRowCurrentBalanceWithoutColumn(t *testing.T) {
	v := validatorFor(t, baseHeader)

	rec, rowErr := v.ValidateRow([]string{"John", "Doe", "ACC-1", "1000.00"}, 2)
	if rowErr != nil {
		t.Fatalf("unexpected error: %v", rowErr)
	}
	if rec.CurrentBalance != 1000 {
		t.Errorf("CurrentBalance = %v, want 1000 (defaulted to original)", rec.CurrentBalance)
	}
}

func TestValidateRowStatus(t *testing.T) {
	header := append(append([]string{}, baseHeader...), "status")
	v := validatorFor(t, header)

	valid := []struct {
		cell string
		want string
	}{
		{"active", "active"},
		{"PAID", "paid"},
		{"  Inactive ", "inactive"},
		{"Disputed", "disputed"},
		{"", "active"}, // empty defaults
	}
	for _, tt := range valid {
		rec, rowErr := v.ValidateRow([]string{"John", "Doe", "ACC-1", "1000", tt.cell}, 2)
		if rowErr != nil {
			t.Errorf("status %q: unexpected error %v", tt.cell, rowErr)
			continue
		}
		if rec.Status != tt.want {
			t.Errorf("status %q normalized to %q, want %q", tt.cell, rec.Status, tt.want)
		}
	}

	rec, rowErr := v.ValidateRow([]string{"John", "Doe", "ACC-1", "1000", "pending"}, 4)
	if rec != nil || rowErr == nil {
		t.Fatal("invalid status accepted")
	}
	if rowErr.Kind != KindInvalidStatus {
		t.Errorf("error kind = %s, want %s", rowErr.Kind, KindInvalidStatus)
	}
	if !strings.Contains(rowErr.Message, "'pending'") {
		t.Errorf("error message %q does not name the offending value", rowErr.Message)
	}
	if !strings.Contains(rowErr.Message, "active, paid, inactive, disputed") {
		t.Errorf("error message %q does not list the accepted set", rowErr.Message)
	}
}

func TestValidateRowEmail(t *testing.T) {
	header := append(append([]string{}, baseHeader...), "email")
	v := validatorFor(t, header)

	tests := []struct {
		name    string
		cell    string
		wantErr bool
		want    string
	}{
		{name: "valid email", cell: "john@example.com", want: "john@example.com"},
		{name: "empty email is absent", cell: ""},
		{name: "whitespace-only email is absent", cell: "   "},
		{name: "missing at sign", cell: "john.example.com", wantErr: true},
		{name: "missing domain dot", cell: "john@example", wantErr: true},
		{name: "embedded whitespace", cell: "john doe@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := v.ValidateRow([]string{"John", "Doe", "ACC-1", "1000", tt.cell}, 2)
			if tt.wantErr {
				if rowErr == nil {
					t.Fatal("got record, want invalid email error")
				}
				if rowErr.Kind != KindInvalidEmail {
					t.Errorf("error kind = %s, want %s", rowErr.Kind, KindInvalidEmail)
				}
				return
			}
			if rowErr != nil {
				t.Fatalf("unexpected error: %v", rowErr)
			}
			if tt.want == "" {
				if rec.Email != nil {
					t.Errorf("Email = %q, want absent", *rec.Email)
				}
			} else if rec.Email == nil || *rec.Email != tt.want {
				t.Errorf("Email = %v, want %q", rec.Email, tt.want)
			}
		})
	}
}

func TestValidateRowOptionalStrings(t *testing.T) {
	header := append(append([]string{}, baseHeader...), "city", "state", "date_loaded")
	v := validatorFor(t, header)

	rec, rowErr := v.ValidateRow([]string{"John", "Doe", "ACC-1", "1000", " Chicago ", "", "not even a date"}, 2)
	if rowErr != nil {
		t.Fatalf("unexpected error: %v", rowErr)
	}

	if rec.City == nil || *rec.City != "Chicago" {
		t.Errorf("City = %v, want %q", rec.City, "Chicago")
	}
	if rec.State != nil {
		t.Errorf("State = %q, want absent for empty cell", *rec.State)
	}
	// Date fields are opaque strings; no format validation happens.
	if rec.DateLoaded == nil || *rec.DateLoaded != "not even a date" {
		t.Errorf("DateLoaded = %v, want the raw trimmed string", rec.DateLoaded)
	}
	if rec.Address != nil {
		t.Errorf("Address = %q, want absent when the column is missing", *rec.Address)
	}
}

func TestValidateRowShortCircuitsAtFirstFailure(t *testing.T) {
	header := append(append([]string{}, baseHeader...), "status", "email")
	v := validatorFor(t, header)

	// Both the status and the email are invalid; only the status error is
	// reported because validation stops at the first failing field.
	_, rowErr := v.ValidateRow([]string{"John", "Doe", "ACC-1", "1000", "bogus", "not-an-email"}, 2)
	if rowErr == nil {
		t.Fatal("got record, want failure")
	}
	if rowErr.Kind != KindInvalidStatus {
		t.Errorf("error kind = %s, want %s (first failure wins)", rowErr.Kind, KindInvalidStatus)
	}
}
