package vsa

import (
	"math"
	"slices"

	"github.com/hupe1980/vsabench/sparse"
)

// Bundle superposes a and b: each coordinate is the sign of a_i + b_i, so
// agreeing coordinates survive and conflicting ones cancel to 0.
func Bundle(a, b sparse.Vec) sparse.Vec {
	return sparse.Vec{
		Pos: union(difference(a.Pos, b.Neg), difference(b.Pos, a.Neg)),
		Neg: union(difference(a.Neg, b.Pos), difference(b.Neg, a.Pos)),
	}
}

// BundleN is the majority bundle of vs: each coordinate is the sign of the
// column sum, ties become 0.
func BundleN(vs ...sparse.Vec) sparse.Vec {
	switch len(vs) {
	case 0:
		return sparse.Vec{}
	case 1:
		return vs[0].Clone()
	case 2:
		return Bundle(vs[0], vs[1])
	}

	sums := make(map[uint32]int32)
	for _, v := range vs {
		for _, i := range v.Pos {
			sums[i]++
		}
		for _, i := range v.Neg {
			sums[i]--
		}
	}

	var out sparse.Vec
	for i, s := range sums {
		switch {
		case s > 0:
			out.Pos = append(out.Pos, i)
		case s < 0:
			out.Neg = append(out.Neg, i)
		}
	}
	slices.Sort(out.Pos)
	slices.Sort(out.Neg)
	return out
}

// Bind is the elementwise product of a and b. Only coordinates nonzero in
// both operands are nonzero in the result.
func Bind(a, b sparse.Vec) sparse.Vec {
	return sparse.Vec{
		Pos: union(intersect(a.Pos, b.Pos), intersect(a.Neg, b.Neg)),
		Neg: union(intersect(a.Pos, b.Neg), intersect(a.Neg, b.Pos)),
	}
}

// Dot returns the inner product of a and b.
func Dot(a, b sparse.Vec) int {
	return intersectCount(a.Pos, b.Pos) + intersectCount(a.Neg, b.Neg) -
		intersectCount(a.Pos, b.Neg) - intersectCount(a.Neg, b.Pos)
}

// Cosine returns the cosine similarity of a and b, 0 if either is empty.
func Cosine(a, b sparse.Vec) float64 {
	return cosineFromDot(Dot(a, b), a.Nnz(), b.Nnz())
}

func cosineFromDot(dot, nnzA, nnzB int) float64 {
	if nnzA == 0 || nnzB == 0 {
		return 0
	}
	return float64(dot) / math.Sqrt(float64(nnzA)*float64(nnzB))
}

func union(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func intersect(a, b []uint32) []uint32 {
	var out []uint32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func intersectCount(a, b []uint32) int {
	n := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}

// difference returns a \ b.
func difference(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a))
	j := 0
	for _, x := range a {
		for j < len(b) && b[j] < x {
			j++
		}
		if j < len(b) && b[j] == x {
			continue
		}
		out = append(out, x)
	}
	return out
}
