package fields

import "strings"

const (
	bulletMarker = "*"
	bulletGlyph  = "• "
)

// FieldSet is the normalized view of a Record used for substitution.
type FieldSet struct {
	columns []string
	values  map[string]Value
}

// Normalize fills every column of rec (missing values become empty) and
// applies the bullet substitution to richTextColumn.
func Normalize(rec Record, richTextColumn string) FieldSet {
	fs := FieldSet{
		columns: make([]string, 0, len(rec.Columns)),
		values:  make(map[string]Value, len(rec.Columns)),
	}

	for _, column := range rec.Columns {
		if _, seen := fs.values[column]; seen {
			continue
		}
		v, ok := rec.Get(column)
		if !ok || v.IsEmpty() {
			v = TextValue("")
		} else if column == richTextColumn && v.Kind() == Text {
			v = TextValue(ReplaceBullets(v.String()))
		}
		fs.columns = append(fs.columns, column)
		fs.values[column] = v
	}

	return fs
}

// ReplaceBullets turns every "*" into a bullet glyph followed by a space.
func ReplaceBullets(text string) string {
	return strings.ReplaceAll(text, bulletMarker, bulletGlyph)
}

// Lookup returns the value bound to name, matched exactly.
func (fs FieldSet) Lookup(name string) (Value, bool) {
	v, ok := fs.values[name]
	return v, ok
}

// Text returns the rendered value of name, or "" when absent.
func (fs FieldSet) Text(name string) string {
	return fs.values[name].String()
}

// Columns returns the field names in sheet order.
func (fs FieldSet) Columns() []string {
	out := make([]string, len(fs.columns))
	copy(out, fs.columns)
	return out
}

func (fs FieldSet) Len() int {
	return len(fs.columns)
}
