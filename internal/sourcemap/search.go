package sourcemap

import "sort"

// compareKey orders mappings by (generated line, generated column).
func compareKey(m *Mapping, line, column int) int {
	if m.GeneratedLine != line {
		if m.GeneratedLine < line {
			return -1
		}
		return 1
	}
	switch {
	case m.GeneratedColumn < column:
		return -1
	case m.GeneratedColumn > column:
		return 1
	}
	return 0
}

// floorSearch returns the index of the rightmost mapping whose key is
// <= (line, column), or -1 if every mapping sorts after it.
// mappings must be ordered by key.
func floorSearch(mappings []Mapping, line, column int) int {
	i := sort.Search(len(mappings), func(i int) bool {
		return compareKey(&mappings[i], line, column) > 0
	})
	return i - 1
}
