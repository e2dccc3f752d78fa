package sourcemap

// StringTable is an order-preserving set of strings addressed by index.
// It backs the "sources" and "names" arrays of a source map.
type StringTable struct {
	values []string
	index  map[string]int // value -> first index
}

// NewStringTable builds a table holding values in order, so that At(i)
// returns values[i]. A repeated string keeps its first index for IndexOf.
func NewStringTable(values []string) *StringTable {
	t := &StringTable{
		values: make([]string, len(values)),
		index:  make(map[string]int, len(values)),
	}
	copy(t.values, values)
	for i, v := range t.values {
		if _, ok := t.index[v]; !ok {
			t.index[v] = i
		}
	}
	return t
}

// Add returns the index of s, appending it if it is not present yet.
func (t *StringTable) Add(s string) int {
	if idx, ok := t.index[s]; ok {
		return idx
	}
	idx := len(t.values)
	t.values = append(t.values, s)
	t.index[s] = idx
	return idx
}

// IndexOf returns the index of s and whether it is present.
func (t *StringTable) IndexOf(s string) (int, bool) {
	idx, ok := t.index[s]
	return idx, ok
}

// Has reports whether s is in the table.
func (t *StringTable) Has(s string) bool {
	_, ok := t.index[s]
	return ok
}

// At returns the string stored at index.
func (t *StringTable) At(index int) (string, error) {
	if index < 0 || index >= len(t.values) {
		return "", &IndexOutOfRangeError{Index: index, Len: len(t.values)}
	}
	return t.values[index], nil
}

// Len returns the number of strings in the table.
func (t *StringTable) Len() int {
	return len(t.values)
}

// Values returns a copy of the table contents in index order.
func (t *StringTable) Values() []string {
	out := make([]string, len(t.values))
	copy(out, t.values)
	return out
}
