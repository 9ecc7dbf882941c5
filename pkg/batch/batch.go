// Package batch plans ordered work into fixed-size groups and bounded-width batches,
// and settles independent best-effort tasks.
package batch

// Default plan dimensions.
const (
	DefaultGroupSize = 5
	DefaultWidth     = 3
)

// Size describes how many items go in a group and how many groups run in a batch.
type Size struct {
	Group int `json:"group"`
	Width int `json:"width"`
}

// Normalize replaces non-positive dimensions with the defaults.
func (s Size) Normalize() Size {
	if s.Group <= 0 {
		s.Group = DefaultGroupSize
	}
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	return s
}

// Group is an ordered slice of items processed as one unit.
// Offset is the position of the group's first item in the planned input.
type Group[T any] struct {
	Index  int
	Offset int
	Items  []T
}

// Plan is the full ordered execution plan for a list of items.
type Plan[T any] struct {
	Size    Size
	Total   int
	Batches [][]Group[T]
}

// New plans items into groups of size.Group and batches of size.Width groups.
// The plan is deterministic and preserves input order.
func New[T any](items []T, size Size) Plan[T] {
	size = size.Normalize()
	return Plan[T]{
		Size:    size,
		Total:   len(items),
		Batches: Batches(Groups(items, size.Group), size.Width),
	}
}

// GroupCount returns the number of groups across all batches.
func (p Plan[T]) GroupCount() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b)
	}
	return n
}

// Groups splits items into consecutive groups of at most size items.
func Groups[T any](items []T, size int) []Group[T] {
	if size <= 0 {
		size = DefaultGroupSize
	}

	groups := make([]Group[T], 0, (len(items)+size-1)/size)
	for offset := 0; offset < len(items); offset += size {
		end := min(offset+size, len(items))
		groups = append(groups, Group[T]{
			Index:  len(groups),
			Offset: offset,
			Items:  items[offset:end:end],
		})
	}
	return groups
}

// Batches splits groups into consecutive batches of at most width groups.
func Batches[T any](groups []Group[T], width int) [][]Group[T] {
	if width <= 0 {
		width = DefaultWidth
	}

	batches := make([][]Group[T], 0, (len(groups)+width-1)/width)
	for start := 0; start < len(groups); start += width {
		end := min(start+width, len(groups))
		batches = append(batches, groups[start:end:end])
	}
	return batches
}
