package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RawGrid is the decoded cell contents of one worksheet, row-major. Row 0
// is the header row by convention; trailing empty cells may be absent from
// individual rows.
type RawGrid [][]string

// ErrMalformedFile indicates the uploaded bytes could not be decoded as a
// spreadsheet at all. It is the only failure Parse surfaces as an error;
// every other problem becomes a row-level diagnostic in the Result.
var ErrMalformedFile = errors.New("malformed spreadsheet file")

// LoadGrid decodes the first sheet of an xlsx workbook into a RawGrid.
// It is a structural decode only and performs no business validation.
func LoadGrid(data []byte) (RawGrid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook contains no sheets", ErrMalformedFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}

	return RawGrid(rows), nil
}
