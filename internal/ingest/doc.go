// Package ingest implements the bulk spreadsheet ingestion pipeline for
// debtor accounts.
//
// The pipeline accepts the raw bytes of an uploaded workbook, decodes the
// first sheet into a grid of cells, discovers which columns carry which
// canonical fields by fuzzy header matching, and validates every data row
// against the account business rules. The outcome is a partitioned Result:
// the normalized records that passed, plus one diagnostic per failed row,
// addressed to the row's position in the original file.
//
// Partial success is the normal outcome for real-world spreadsheets. Only
// bytes that cannot be decoded at all fail the call; everything else,
// including a file that yields zero valid records, returns a Result whose
// Errors slice explains what to fix.
package ingest
