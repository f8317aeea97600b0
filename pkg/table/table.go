// Package table provides the in-memory tabular structure the pipeline stages
// consume: named columns over a dataframe-go DataFrame, with missing-value
// detection and typed cell coercion.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

// DefaultMissingTokens are the cell values treated as missing when a table is
// created without explicit tokens.
var DefaultMissingTokens = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "None", "<NA>"}

// Table is a named, read-only view over a DataFrame
type Table struct {
	name    string
	df      *dataframe.DataFrame
	columns map[string]int
	missing map[string]struct{}
}

// New wraps a DataFrame. Cells matching DefaultMissingTokens are missing.
func New(name string, df *dataframe.DataFrame) *Table {
	return newTable(name, df, DefaultMissingTokens)
}

// NewWithMissing wraps a DataFrame using a custom set of missing-value tokens
func NewWithMissing(name string, df *dataframe.DataFrame, tokens []string) *Table {
	return newTable(name, df, tokens)
}

func newTable(name string, df *dataframe.DataFrame, tokens []string) *Table {
	t := &Table{
		name:    name,
		df:      df,
		columns: make(map[string]int),
		missing: make(map[string]struct{}, len(tokens)),
	}
	for i, col := range df.Names() {
		t.columns[col] = i
	}
	for _, tok := range tokens {
		t.missing[tok] = struct{}{}
	}
	return t
}

// Name returns the table name used in error messages
func (t *Table) Name() string {
	return t.name
}

// Frame returns the underlying DataFrame
func (t *Table) Frame() *dataframe.DataFrame {
	return t.df
}

// NRows returns the number of rows
func (t *Table) NRows() int {
	return t.df.NRows()
}

// Columns returns the column names in frame order
func (t *Table) Columns() []string {
	return t.df.Names()
}

// Has reports whether the table has a column
func (t *Table) Has(col string) bool {
	_, ok := t.columns[col]
	return ok
}

// Require returns a SchemaError for the first column the table lacks
func (t *Table) Require(cols ...string) error {
	for _, col := range cols {
		if !t.Has(col) {
			return &models.SchemaError{Table: t.name, Column: col}
		}
	}
	return nil
}

// Raw returns the cell value and false if the cell is missing or the column
// does not exist.
func (t *Table) Raw(row int, col string) (interface{}, bool) {
	idx, ok := t.columns[col]
	if !ok {
		return nil, false
	}
	v := t.df.Series[idx].Value(row)
	switch x := v.(type) {
	case nil:
		return nil, false
	case string:
		if t.isMissingToken(x) {
			return nil, false
		}
	case float64:
		if math.IsNaN(x) {
			return nil, false
		}
	case time.Time:
		if x.IsZero() {
			return nil, false
		}
	}
	return v, true
}

// Missing reports whether a cell is missing
func (t *Table) Missing(row int, col string) bool {
	_, ok := t.Raw(row, col)
	return !ok
}

// IsComplete reports whether every cell of the row is present
func (t *Table) IsComplete(row int) bool {
	for col := range t.columns {
		if t.Missing(row, col) {
			return false
		}
	}
	return true
}

// CompleteRows returns the indices of rows with no missing cell, in order
func (t *Table) CompleteRows() []int {
	n := t.NRows()
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if t.IsComplete(i) {
			rows = append(rows, i)
		}
	}
	return rows
}

// CompleteValues returns the text of col for every complete row, in order
func (t *Table) CompleteValues(col string) []string {
	var out []string
	for _, row := range t.CompleteRows() {
		if v, ok := t.Text(row, col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Text returns the cell as a string key. Integral floats render without a
// fractional part so 101.0 and "101" produce the same key.
func (t *Table) Text(row int, col string) (string, bool) {
	v, ok := t.Raw(row, col)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case float64:
		return formatFloat(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int:
		return strconv.Itoa(x), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		return x.Format(time.RFC3339), true
	default:
		return fmt.Sprint(x), true
	}
}

// Float returns the cell as a float64. ok is false for missing cells; a
// present cell that is not numeric yields a ParseError.
func (t *Table) Float(row int, col string) (float64, bool, error) {
	v, ok := t.Raw(row, col)
	if !ok {
		return 0, false, nil
	}
	switch x := v.(type) {
	case float64:
		return x, true, nil
	case int64:
		return float64(x), true, nil
	case int:
		return float64(x), true, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false, t.parseError(row, col, x, err)
		}
		return f, true, nil
	default:
		return 0, false, t.parseError(row, col, fmt.Sprint(x), fmt.Errorf("not numeric"))
	}
}

// Int returns the cell as an int64. Floats are accepted when integral.
func (t *Table) Int(row int, col string) (int64, bool, error) {
	f, ok, err := t.Float(row, col)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) {
		return 0, false, t.parseError(row, col, formatFloat(f), fmt.Errorf("not an integer"))
	}
	return int64(f), true, nil
}

func (t *Table) isMissingToken(s string) bool {
	_, ok := t.missing[strings.TrimSpace(s)]
	return ok
}

func (t *Table) parseError(row int, col, value string, err error) error {
	return &models.ParseError{Table: t.name, Column: col, Row: row, Value: value, Err: err}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
