package vsa

import (
	"cmp"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vsabench/sparse"
)

// Hit is a scored result.
type Hit struct {
	ID    uint64  `json:"id"`
	Score float64 `json:"score"`
}

// InvertedIndex maps every (coordinate, sign) to a roaring bitmap of the
// slots whose vector has that sign at that coordinate.
//
// Search accumulates dot products over the query's postings, keeps the
// candidateK best slots by dot product and reranks them by cosine. Slots
// with a non-positive dot product are never candidates, so recall can fall
// below 1 for queries with few overlapping coordinates.
type InvertedIndex struct {
	mu  sync.RWMutex
	pos map[uint32]*roaring.Bitmap
	neg map[uint32]*roaring.Bitmap
	ids []uint64
	nnz []int
}

// NewInvertedIndex returns an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		pos: make(map[uint32]*roaring.Bitmap),
		neg: make(map[uint32]*roaring.Bitmap),
	}
}

// Add indexes v under id.
func (x *InvertedIndex) Add(id uint64, v sparse.Vec) {
	x.mu.Lock()
	defer x.mu.Unlock()

	slot := uint32(len(x.ids))
	x.ids = append(x.ids, id)
	x.nnz = append(x.nnz, v.Nnz())

	for _, c := range v.Pos {
		posting(x.pos, c).Add(slot)
	}
	for _, c := range v.Neg {
		posting(x.neg, c).Add(slot)
	}
}

func posting(m map[uint32]*roaring.Bitmap, c uint32) *roaring.Bitmap {
	bm, ok := m[c]
	if !ok {
		bm = roaring.New()
		m[c] = bm
	}
	return bm
}

// Len returns the number of indexed vectors.
func (x *InvertedIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.ids)
}

// Postings returns the number of non-empty posting lists.
func (x *InvertedIndex) Postings() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.pos) + len(x.neg)
}

// TopK is Search with candidateK == k.
func (x *InvertedIndex) TopK(q sparse.Vec, k int) []Hit {
	return x.Search(q, k, k)
}

// Search returns up to k hits, highest cosine first, ties by insertion order.
func (x *InvertedIndex) Search(q sparse.Vec, candidateK, k int) []Hit {
	if k <= 0 {
		return nil
	}
	candidateK = max(candidateK, k)

	x.mu.RLock()
	defer x.mu.RUnlock()

	dots := make(map[uint32]int32)
	accumulate := func(m map[uint32]*roaring.Bitmap, coords []uint32, delta int32) {
		for _, c := range coords {
			bm, ok := m[c]
			if !ok {
				continue
			}
			it := bm.Iterator()
			for it.HasNext() {
				dots[it.Next()] += delta
			}
		}
	}
	accumulate(x.pos, q.Pos, 1)
	accumulate(x.neg, q.Neg, 1)
	accumulate(x.neg, q.Pos, -1)
	accumulate(x.pos, q.Neg, -1)

	type cand struct {
		slot uint32
		dot  int32
	}
	cands := make([]cand, 0, len(dots))
	for s, d := range dots {
		if d > 0 {
			cands = append(cands, cand{slot: s, dot: d})
		}
	}
	slices.SortFunc(cands, func(a, b cand) int {
		if c := cmp.Compare(b.dot, a.dot); c != 0 {
			return c
		}
		return cmp.Compare(a.slot, b.slot)
	})
	if len(cands) > candidateK {
		cands = cands[:candidateK]
	}

	type ranked struct {
		slot  uint32
		score float64
	}
	rerank := make([]ranked, len(cands))
	qn := q.Nnz()
	for i, c := range cands {
		rerank[i] = ranked{slot: c.slot, score: cosineFromDot(int(c.dot), qn, x.nnz[c.slot])}
	}
	slices.SortFunc(rerank, func(a, b ranked) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.slot, b.slot)
	})

	k = min(k, len(rerank))
	hits := make([]Hit, k)
	for i := range hits {
		hits[i] = Hit{ID: x.ids[rerank[i].slot], Score: rerank[i].score}
	}
	return hits
}
