package vsa

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vsabench/sparse"
)

// QueryBounds limits the work a hierarchical query may do.
type QueryBounds struct {
	// K is the number of results.
	K int `json:"k" yaml:"k"`
	// CandidateK caps the leaves reranked against the codebook.
	CandidateK int `json:"candidate_k" yaml:"candidate_k"`
	// BeamWidth is the number of nodes kept per level.
	BeamWidth int `json:"beam_width" yaml:"beam_width"`
	// MaxDepth caps the number of levels descended below the root.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	// MaxExpansions caps the total number of child nodes scored.
	MaxExpansions int `json:"max_expansions" yaml:"max_expansions"`
	// MaxOpenNodes caps the scored children held before beam selection.
	MaxOpenNodes int `json:"max_open_nodes" yaml:"max_open_nodes"`
}

// DefaultQueryBounds returns bounds suitable for small corpora.
func DefaultQueryBounds() QueryBounds {
	return QueryBounds{
		K:             20,
		CandidateK:    100,
		BeamWidth:     10,
		MaxDepth:      8,
		MaxExpansions: 1000,
		MaxOpenNodes:  100,
	}
}

type node struct {
	vec sparse.Vec
	// children index the level below, or codebook chunks on level 0.
	children []int
}

// Hierarchy is a tree of bundled nodes over a codebook. Level 0 groups
// chunks, every further level groups the level below, the last level holds
// the single root.
type Hierarchy struct {
	cb     *Codebook
	levels [][]node
	fanout int
}

// BuildHierarchy groups consecutive chunks (and then nodes) fanout at a time.
// Node vectors are majority bundles of their children.
func BuildHierarchy(ctx context.Context, cb *Codebook, fanout int) (*Hierarchy, error) {
	if fanout < 2 {
		return nil, ErrInvalidFanout
	}
	if cb.Len() == 0 {
		return nil, ErrEmptyCodebook
	}

	h := &Hierarchy{cb: cb, fanout: fanout}

	width := cb.Len()
	vector := cb.Vector
	for {
		level, err := buildLevel(ctx, width, fanout, vector)
		if err != nil {
			return nil, err
		}
		h.levels = append(h.levels, level)
		if len(level) == 1 {
			break
		}
		width = len(level)
		vector = func(i int) sparse.Vec { return level[i].vec }
	}
	return h, nil
}

func buildLevel(ctx context.Context, width, fanout int, vector func(int) sparse.Vec) ([]node, error) {
	level := make([]node, (width+fanout-1)/fanout)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers())
	for n := range level {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lo := n * fanout
			hi := min(lo+fanout, width)
			children := make([]int, 0, hi-lo)
			vecs := make([]sparse.Vec, 0, hi-lo)
			for i := lo; i < hi; i++ {
				children = append(children, i)
				vecs = append(vecs, vector(i))
			}
			level[n] = node{vec: BundleN(vecs...), children: children}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return level, nil
}

// Depth returns the number of levels including the root.
func (h *Hierarchy) Depth() int { return len(h.levels) }

// Nodes returns the total number of nodes.
func (h *Hierarchy) Nodes() int {
	n := 0
	for _, l := range h.levels {
		n += len(l)
	}
	return n
}

// QueryStats reports the work done by one query.
type QueryStats struct {
	Expansions int `json:"expansions"`
	Depth      int `json:"depth"`
	Candidates int `json:"candidates"`
}

type scoredNode struct {
	idx   int
	score float64
}

func byScoreDesc(a, b scoredNode) int {
	if c := cmp.Compare(b.score, a.score); c != 0 {
		return c
	}
	return cmp.Compare(a.idx, b.idx)
}

// Query beam-searches the tree from the root and reranks the reached
// chunks by cosine against q.
func (h *Hierarchy) Query(q sparse.Vec, b QueryBounds) []Hit {
	hits, _ := h.QueryWithStats(q, b)
	return hits
}

// QueryWithStats is Query that also reports the work done.
func (h *Hierarchy) QueryWithStats(q sparse.Vec, b QueryBounds) ([]Hit, QueryStats) {
	var st QueryStats
	if b.K <= 0 {
		return nil, st
	}
	beam := max(b.BeamWidth, 1)
	candidateK := max(b.CandidateK, b.K)

	top := len(h.levels) - 1
	frontier := []scoredNode{{idx: 0, score: Cosine(q, h.levels[top][0].vec)}}
	level := top

	for level > 0 && st.Depth < b.MaxDepth {
		var open []scoredNode
		budget := true
		for _, f := range frontier {
			for _, c := range h.levels[level][f.idx].children {
				if b.MaxExpansions > 0 && st.Expansions >= b.MaxExpansions {
					budget = false
					break
				}
				st.Expansions++
				open = append(open, scoredNode{idx: c, score: Cosine(q, h.levels[level-1][c].vec)})
				if b.MaxOpenNodes > 0 && len(open) > b.MaxOpenNodes {
					slices.SortFunc(open, byScoreDesc)
					open = open[:b.MaxOpenNodes]
				}
			}
			if !budget {
				break
			}
		}
		if len(open) == 0 {
			break
		}

		slices.SortFunc(open, byScoreDesc)
		if len(open) > beam {
			open = open[:beam]
		}
		frontier = open
		level--
		st.Depth++
	}

	// Collect chunks below the frontier, best nodes first.
	var chunks []int
	for _, f := range frontier {
		chunks = h.collect(level, f.idx, chunks, candidateK)
		if len(chunks) >= candidateK {
			break
		}
	}
	st.Candidates = len(chunks)

	ranked := make([]scoredNode, len(chunks))
	for i, c := range chunks {
		ranked[i] = scoredNode{idx: c, score: Cosine(q, h.cb.Vector(c))}
	}
	slices.SortFunc(ranked, byScoreDesc)

	k := min(b.K, len(ranked))
	hits := make([]Hit, k)
	for i := range hits {
		hits[i] = Hit{ID: h.cb.ID(ranked[i].idx), Score: ranked[i].score}
	}
	return hits, st
}

func (h *Hierarchy) collect(level, idx int, dst []int, limit int) []int {
	n := h.levels[level][idx]
	for _, c := range n.children {
		if len(dst) >= limit {
			return dst
		}
		if level == 0 {
			dst = append(dst, c)
			continue
		}
		dst = h.collect(level-1, c, dst, limit)
	}
	return dst
}
