package ingest

import (
	"fmt"
	"strings"
)

// Result is the outcome of one ingestion call: the records that passed
// validation, in original row order, and one diagnostic per failed row.
// Both slices are always non-nil so they serialize as JSON arrays.
type Result struct {
	Records []Record   `json:"records"`
	Errors  []RowError `json:"errors"`
}

// Parse runs the full pipeline over raw workbook bytes using the default
// alias table: decode, resolve headers, validate every data row.
//
// The only error return is ErrMalformedFile, for bytes that cannot be
// decoded as a spreadsheet. Structural problems (too few rows, missing
// required columns) and per-row failures are reported inside the Result;
// a Result with a non-empty Errors slice is a normal outcome, not a
// failure.
func Parse(data []byte) (*Result, error) {
	grid, err := LoadGrid(data)
	if err != nil {
		return nil, err
	}
	return ParseGrid(grid, DefaultAliasTable()), nil
}

// ParseGrid runs header resolution and row validation over an
// already-decoded grid. Rows are processed strictly in sequence so record
// order and error row numbers are deterministic.
func ParseGrid(grid RawGrid, table AliasTable) *Result {
	res := &Result{Records: []Record{}, Errors: []RowError{}}

	if len(grid) < 2 {
		res.Errors = append(res.Errors, RowError{
			Row:     1,
			Kind:    KindStructuralTooFewRows,
			Message: "File must contain at least a header row and one data row",
		})
		return res
	}

	cols, missing := ResolveHeaders(grid[0], table)
	if len(missing) > 0 {
		for _, spec := range missing {
			res.Errors = append(res.Errors, RowError{
				Row:  1,
				Kind: KindStructuralMissingColumns,
				Message: fmt.Sprintf("Required column '%s' not found. Expected one of: %s",
					spec.Field, strings.Join(spec.Aliases, ", ")),
			})
		}
		// No row validation when the header is unusable.
		return res
	}

	validator := NewRowValidator(cols)
	for i, row := range grid[1:] {
		// Data row i sits at file row i+2: rows are 1-based and row 1 is
		// the header.
		rec, rowErr := validator.ValidateRow(row, i+2)
		if rowErr != nil {
			res.Errors = append(res.Errors, *rowErr)
			continue
		}
		res.Records = append(res.Records, *rec)
	}

	return res
}
