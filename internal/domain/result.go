package domain

// ValueKind classifies the values of a result column.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindJSON   ValueKind = "json"
	KindTime   ValueKind = "time"
	// KindNull marks a column that held no non-null value in any row.
	KindNull ValueKind = "null"
)

// TimeString is a date-time value already rendered in the canonical
// display layout.
type TimeString string

// Column describes one result column.
type Column struct {
	Name string    `json:"name"`
	Kind ValueKind `json:"kind"`
}

// Table is the assembled query response: a column schema in first-seen
// order and dense rows aligned to it. A nil cell is an explicit null —
// either the attribute was absent from that item or the store returned
// a NULL value.
type Table struct {
	Columns  []Column `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"rowCount"`
}
