// Package ordering implements the dense-index list model used for task and
// section ranking: positions within a partition form the contiguous range
// 0..k-1 after every mutating operation.
package ordering

import "sort"

// Splice removes the elements at the source indices from seq and reinserts
// them, in their original relative order, so that the first reinserted element
// lands at the display slot dest refers to before removal. This matches the
// drag-reorder semantics of a list move: moving rows 0 and 2 to destination 4
// places them, in order, just before whatever occupied slot 4.
//
// Out-of-range source indices are ignored. Applying the same move to the
// already-spliced sequence is a no-op.
func Splice[T any](seq []T, sources []int, dest int) []T {
	if len(seq) == 0 || len(sources) == 0 {
		return seq
	}

	picked := make(map[int]bool, len(sources))
	for _, i := range sources {
		if i >= 0 && i < len(seq) {
			picked[i] = true
		}
	}
	if len(picked) == 0 {
		return seq
	}

	idx := make([]int, 0, len(picked))
	for i := range picked {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	moved := make([]T, 0, len(idx))
	rest := make([]T, 0, len(seq)-len(idx))
	for i, v := range seq {
		if picked[i] {
			moved = append(moved, v)
		} else {
			rest = append(rest, v)
		}
	}

	// dest is a slot in the pre-removal sequence; shift it down by the number
	// of removed elements that preceded it.
	insert := dest
	for _, i := range idx {
		if i < dest {
			insert--
		}
	}
	if insert < 0 {
		insert = 0
	}
	if insert > len(rest) {
		insert = len(rest)
	}

	out := make([]T, 0, len(seq))
	out = append(out, rest[:insert]...)
	out = append(out, moved...)
	out = append(out, rest[insert:]...)
	return out
}

// Renumber assigns each element its index in the sequence, restoring the
// dense-order invariant. assign receives the element and its new position.
func Renumber[T any](seq []T, assign func(T, int)) {
	for i, v := range seq {
		assign(v, i)
	}
}
