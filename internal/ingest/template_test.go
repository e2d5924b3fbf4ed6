package ingest

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestTemplateRoundTrip(t *testing.T) {
	data, err := Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}

	res, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(template): %v", err)
	}

	if len(res.Errors) != 0 {
		t.Fatalf("template does not validate cleanly: %v", res.Errors)
	}
	if len(res.Records) != len(exampleRows) {
		t.Fatalf("got %d records, want %d", len(res.Records), len(exampleRows))
	}

	first := res.Records[0]
	if first.FirstName != "John" || first.LastName != "Doe" {
		t.Errorf("first example = %s %s, want John Doe", first.FirstName, first.LastName)
	}
	if first.AccountNumber != "ACC-12345" {
		t.Errorf("first example account = %q, want ACC-12345", first.AccountNumber)
	}
	if first.OriginalBalance != 1000 {
		t.Errorf("first example original balance = %v, want 1000", first.OriginalBalance)
	}
	if first.CurrentBalance != 750 {
		t.Errorf("first example current balance = %v, want 750", first.CurrentBalance)
	}
	if first.Status != "active" {
		t.Errorf("first example status = %q, want active", first.Status)
	}
	if first.Email == nil || *first.Email != "john.doe@example.com" {
		t.Errorf("first example email = %v, want john.doe@example.com", first.Email)
	}
	if first.City == nil || *first.City != "Chicago" {
		t.Errorf("first example city = %v, want Chicago", first.City)
	}
}

func TestTemplateSheetAndHeader(t *testing.T) {
	data, err := Template()
	if err != nil {
		t.Fatalf("Template: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != TemplateSheetName {
		t.Errorf("sheets = %v, want exactly [%q]", sheets, TemplateSheetName)
	}

	rows, err := f.GetRows(TemplateSheetName)
	if err != nil {
		t.Fatalf("read template sheet: %v", err)
	}
	if len(rows) != len(exampleRows)+1 {
		t.Fatalf("template has %d rows, want %d", len(rows), len(exampleRows)+1)
	}

	table := DefaultAliasTable()
	header := rows[0]
	if len(header) != len(table) {
		t.Fatalf("header has %d columns, want %d", len(header), len(table))
	}
	for i, spec := range table {
		if header[i] != spec.Aliases[0] {
			t.Errorf("header[%d] = %q, want primary alias %q", i, header[i], spec.Aliases[0])
		}
	}
}
