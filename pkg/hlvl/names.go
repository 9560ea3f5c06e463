package hlvl

import "fmt"

// Names hands out element identifiers that are unique within one document.
// A clash is resolved by appending _N, skipping suffixes already taken by
// another element.
type Names struct {
	taken map[string]struct{}
	next  map[string]int
}

// NewNames returns an empty identifier allocator.
func NewNames() *Names {
	return &Names{taken: map[string]struct{}{}, next: map[string]int{}}
}

// Assign derives an identifier from label, falling back to fallback and
// then to "feature", and reserves it.
func (n *Names) Assign(label, fallback string) string {
	base := Identifier(label)
	if base == "" {
		base = Identifier(fallback)
	}
	if base == "" {
		base = "feature"
	}

	id := base
	for n.isTaken(id) {
		n.next[base]++
		id = fmt.Sprintf("%s_%d", base, n.next[base])
	}
	n.taken[id] = struct{}{}
	return id
}

func (n *Names) isTaken(id string) bool {
	_, ok := n.taken[id]
	return ok
}
