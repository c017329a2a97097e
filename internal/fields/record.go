// Package fields holds spreadsheet records and their normalized field sets.
package fields

// Kind classifies a cell value.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
)

// Value is one scalar cell. Numbers keep the literal they were read as.
type Value struct {
	kind Kind
	text string
}

func EmptyValue() Value {
	return Value{kind: Empty}
}

func TextValue(s string) Value {
	return Value{kind: Text, text: s}
}

// NumberValue returns a numeric value rendered as literal.
func NumberValue(literal string) Value {
	return Value{kind: Number, text: literal}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsEmpty() bool {
	return v.kind == Empty
}

// String renders the value as region text. Empty renders as "".
func (v Value) String() string {
	return v.text
}

// Record is one spreadsheet row: an ordered mapping from column name to value.
type Record struct {
	Columns []string
	values  map[string]Value
}

// NewRecord builds a record over the given columns. Columns missing from
// values are treated as empty.
func NewRecord(columns []string, values map[string]Value) Record {
	cols := make([]string, len(columns))
	copy(cols, columns)
	vals := make(map[string]Value, len(values))
	for k, v := range values {
		vals[k] = v
	}
	return Record{Columns: cols, values: vals}
}

// Get returns the value for column and whether it is present.
func (r Record) Get(column string) (Value, bool) {
	v, ok := r.values[column]
	return v, ok
}
