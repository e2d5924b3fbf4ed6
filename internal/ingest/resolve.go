package ingest

import "strings"

// ColumnIndex maps canonical fields to the zero-based grid column that
// supplies them. Built once per ingestion run and not mutated afterward.
// Optional fields with no matching header are simply absent.
type ColumnIndex map[Field]int

// ResolveHeaders matches a header row against the alias table.
//
// Header cells are compared lower-cased and trimmed. For each field the
// alias list is scanned in declared priority order and the first alias
// present anywhere in the header wins; if a file carries columns for two
// aliases of the same field, the alias declared first in the table decides,
// not whichever column appears first.
//
// The second return value lists the required fields that no header cell
// satisfied. Resolution itself never fails; the orchestrator turns missing
// required fields into structural row-1 errors.
func ResolveHeaders(header []string, table AliasTable) (ColumnIndex, []FieldSpec) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := make(ColumnIndex, len(table))
	var missing []FieldSpec

	for _, spec := range table {
		if idx, ok := findAlias(normalized, spec.Aliases); ok {
			cols[spec.Field] = idx
		} else if spec.Required {
			missing = append(missing, spec)
		}
	}

	return cols, missing
}

// findAlias returns the column of the first alias that matches any header
// cell. Aliases take priority over column order.
func findAlias(header []string, aliases []string) (int, bool) {
	for _, alias := range aliases {
		for i, cell := range header {
			if cell == alias {
				return i, true
			}
		}
	}
	return 0, false
}
