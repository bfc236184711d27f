package sparse

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotSorted is returned when Pos or Neg is not strictly ascending.
	ErrNotSorted = errors.New("sparse: indices not strictly ascending")

	// ErrOverlap is returned when a coordinate appears in both Pos and Neg.
	ErrOverlap = errors.New("sparse: pos and neg overlap")

	// ErrOutOfRange is returned when an index is not below the dimension.
	ErrOutOfRange = errors.New("sparse: index out of range")
)

// Vec is a sparse ternary vector.
type Vec struct {
	Pos []uint32
	Neg []uint32
}

// New builds a Vec from unsorted index sets. Duplicates are removed.
func New(pos, neg []uint32) Vec {
	p := slices.Clone(pos)
	n := slices.Clone(neg)
	slices.Sort(p)
	slices.Sort(n)
	return Vec{Pos: slices.Compact(p), Neg: slices.Compact(n)}
}

// Nnz returns the number of nonzero coordinates.
func (v Vec) Nnz() int { return len(v.Pos) + len(v.Neg) }

// Clone returns a deep copy.
func (v Vec) Clone() Vec {
	return Vec{Pos: slices.Clone(v.Pos), Neg: slices.Clone(v.Neg)}
}

// Equal reports whether both vectors have identical index lists.
func (v Vec) Equal(o Vec) bool {
	return slices.Equal(v.Pos, o.Pos) && slices.Equal(v.Neg, o.Neg)
}

// At returns the value of coordinate i (-1, 0 or +1). Requires sorted lists.
func (v Vec) At(i uint32) int8 {
	if _, ok := slices.BinarySearch(v.Pos, i); ok {
		return 1
	}
	if _, ok := slices.BinarySearch(v.Neg, i); ok {
		return -1
	}
	return 0
}

// Validate checks the storage contract. dim == 0 skips the range check.
func (v Vec) Validate(dim uint64) error {
	if err := checkAscending(v.Pos, dim); err != nil {
		return fmt.Errorf("pos: %w", err)
	}
	if err := checkAscending(v.Neg, dim); err != nil {
		return fmt.Errorf("neg: %w", err)
	}

	i, j := 0, 0
	for i < len(v.Pos) && j < len(v.Neg) {
		switch {
		case v.Pos[i] < v.Neg[j]:
			i++
		case v.Pos[i] > v.Neg[j]:
			j++
		default:
			return fmt.Errorf("%w: coordinate %d", ErrOverlap, v.Pos[i])
		}
	}
	return nil
}

func checkAscending(idx []uint32, dim uint64) error {
	for i, x := range idx {
		if dim > 0 && uint64(x) >= dim {
			return fmt.Errorf("%w: %d >= %d", ErrOutOfRange, x, dim)
		}
		if i > 0 && idx[i-1] >= x {
			return fmt.Errorf("%w at position %d", ErrNotSorted, i)
		}
	}
	return nil
}
