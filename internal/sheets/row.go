// ABOUTME: Row is an ordered string-to-string mapping for one table row.
// ABOUTME: Column order is kept so rewrites preserve the sheet layout.
package sheets

// Row is one table row keyed by column name. The zero value is empty and ready to use.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow builds a row from alternating column/value pairs.
func NewRow(pairs ...string) Row {
	var r Row
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Get returns the value of a column and whether it is present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Value returns the column value, or "" when absent.
func (r Row) Value(col string) string {
	return r.values[col]
}

// Has reports whether the column is present.
func (r Row) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Set assigns a column, appending it if new.
func (r *Row) Set(col, val string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[col]; !ok {
		r.keys = append(r.keys, col)
	}
	r.values[col] = val
}

// Delete removes a column. It reports whether the column was present.
func (r *Row) Delete(col string) bool {
	if _, ok := r.values[col]; !ok {
		return false
	}
	delete(r.values, col)
	for i, k := range r.keys {
		if k == col {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the columns in order.
func (r Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.keys)
}

// Clone returns an independent copy.
func (r Row) Clone() Row {
	out := Row{keys: append([]string(nil), r.keys...)}
	if r.values != nil {
		out.values = make(map[string]string, len(r.values))
		for k, v := range r.values {
			out.values[k] = v
		}
	}
	return out
}

// Equal reports whether both rows hold the same columns in the same order.
func (r Row) Equal(other Row) bool {
	if len(r.keys) != len(other.keys) {
		return false
	}
	for i, k := range r.keys {
		if other.keys[i] != k || other.values[k] != r.values[k] {
			return false
		}
	}
	return true
}
