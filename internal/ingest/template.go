package ingest

import (
	"github.com/xuri/excelize/v2"
)

// TemplateSheetName is the worksheet name of generated template files.
const TemplateSheetName = "Accounts Template"

// exampleRows are the sample accounts written below the template header.
// Every value satisfies the import validation rules, so a generated
// template fed back through Parse must yield exactly these rows as records
// and no errors.
var exampleRows = []map[Field]string{
	{
		FieldFirstName:       "John",
		FieldLastName:        "Doe",
		FieldEmail:           "john.doe@example.com",
		FieldAccountNumber:   "ACC-12345",
		FieldOriginalBalance: "1000.00",
		FieldCurrentBalance:  "750.00",
		FieldStatus:          "active",
		FieldAddress:         "123 Main St",
		FieldCity:            "Chicago",
		FieldState:           "IL",
		FieldZip:             "60601",
		FieldPhone:           "(555) 123-4567",
		FieldCreditorName:    "First Financial",
		FieldClientName:      "Legal Recovery Services",
		FieldPortfolioID:     "Portfolio-2024",
		FieldCaseFileNumber:  "CASE-123456",
		FieldDateLoaded:      "2024-01-01",
		FieldOriginationDate: "2023-06-15",
		FieldChargedOffDate:  "2023-12-01",
		FieldPurchaseDate:    "2024-01-01",
	},
	{
		FieldFirstName:       "Jane",
		FieldLastName:        "Smith",
		FieldEmail:           "jane.smith@example.com",
		FieldAccountNumber:   "ACC-12346",
		FieldOriginalBalance: "2500.00",
		FieldCurrentBalance:  "2000.00",
		FieldStatus:          "active",
		FieldAddress:         "456 Oak Ave",
		FieldCity:            "New York",
		FieldState:           "NY",
		FieldZip:             "10001",
		FieldPhone:           "(555) 987-6543",
		FieldCreditorName:    "Credit Corp",
		FieldClientName:      "Legal Recovery Services",
		FieldPortfolioID:     "Portfolio-2024",
		FieldCaseFileNumber:  "CASE-123457",
		FieldDateLoaded:      "2024-01-02",
		FieldOriginationDate: "2023-07-20",
		FieldChargedOffDate:  "2023-12-15",
		FieldPurchaseDate:    "2024-01-02",
	},
}

// Template builds the downloadable reference workbook: a header row of
// every field's primary column name, in table order, followed by the
// example accounts. The result is the same container format LoadGrid
// consumes.
func Template() ([]byte, error) {
	return TemplateFor(DefaultAliasTable())
}

// TemplateFor builds a template workbook for a specific alias table.
func TemplateFor(table AliasTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheetName); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(exampleRows)+1)

	header := make([]interface{}, len(table))
	for i, spec := range table {
		header[i] = spec.Aliases[0]
	}
	rows = append(rows, header)

	for _, example := range exampleRows {
		row := make([]interface{}, len(table))
		for i, spec := range table {
			row[i] = example[spec.Field]
		}
		rows = append(rows, row)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(TemplateSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
