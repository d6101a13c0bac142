package query

import (
	"encoding/json"
	"sort"

	"dynasource/internal/domain"
)

// assembleTable derives the column schema and lays the normalized rows out
// densely against it.
//
// Columns appear in first-seen order across rows. Attribute maps themselves
// are unordered, so names within a single row are taken in sorted order;
// across rows the earlier row always wins. Cells for attributes a row lacks
// are nil.
func assembleTable(rows []map[string]any) domain.Table {
	var names []string
	seen := make(map[string]int)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = len(names)
				names = append(names, k)
			}
		}
	}

	columns := make([]domain.Column, len(names))
	for i, name := range names {
		columns[i] = domain.Column{Name: name, Kind: domain.KindNull}
	}

	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(names))
		for name, idx := range seen {
			value, ok := row[name]
			if !ok || value == nil {
				continue
			}
			cells[idx] = value
			if columns[idx].Kind == domain.KindNull {
				columns[idx].Kind = kindOf(value)
			}
		}
		out[i] = cells
	}

	return domain.Table{Columns: columns, Rows: out, RowCount: len(out)}
}

// kindOf classifies a cell. The first non-null cell fixes the column's kind.
func kindOf(value any) domain.ValueKind {
	switch value.(type) {
	case domain.TimeString:
		return domain.KindTime
	case string:
		return domain.KindString
	case int64, float64:
		return domain.KindNumber
	case bool:
		return domain.KindBool
	case json.RawMessage:
		return domain.KindJSON
	default:
		return domain.KindString
	}
}
