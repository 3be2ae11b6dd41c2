// Package table loads headerless tab-separated text into typed columns.
package table

import "errors"

var (
	// ErrFileAccess reports a missing or unreadable input file.
	ErrFileAccess = errors.New("file access")
	// ErrMalformedInput reports input whose structure cannot be loaded (ragged rows, bad encoding).
	ErrMalformedInput = errors.New("malformed input")
)

// Kind is the inferred type of a column.
type Kind uint8

const (
	KindNumeric Kind = iota + 1
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Column is one column of a Table.
//
// Text always holds the raw fields in row order. Values is set only for
// numeric columns; missing markers load as NaN.
type Column struct {
	Name   string
	Kind   Kind
	Text   []string
	Values []float64
}

// Len returns the number of rows in the column.
func (c Column) Len() int { return len(c.Text) }

// Table is a rectangular, read-only set of columns.
type Table struct {
	cols []Column
	rows int
}

// Rows returns the row count.
func (t *Table) Rows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// Column returns column i. A nil Table has no columns and returns the zero Column.
func (t *Table) Column(i int) Column {
	if t == nil {
		return Column{}
	}
	return t.cols[i]
}

// Columns returns all columns in file order.
func (t *Table) Columns() []Column {
	if t == nil {
		return nil
	}
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Row returns the raw fields of row i in column order.
func (t *Table) Row(i int) []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.cols))
	for c := range t.cols {
		out[c] = t.cols[c].Text[i]
	}
	return out
}
