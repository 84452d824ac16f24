// Package optimizer chooses the L-vector a static predictor speculates
// with: a variants generator enumerating candidate vectors and an optimizer
// scoring them in parallel against a probabilistic scheme.
package optimizer

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"spec-huffman/theory"
)

// VariantsGenerator enumerates candidate L-vectors from the set of codeword
// lengths in play.
type VariantsGenerator struct {
	lengths []int
}

// NewVariantsGenerator returns a generator over the given lengths.
func NewVariantsGenerator(lengths []int) *VariantsGenerator {
	return &VariantsGenerator{lengths: lengths}
}

// ForFuture returns every offset reachable as an intermediate cumulative sum
// of a multiset of r lengths, sorted.
func (g *VariantsGenerator) ForFuture(r int) []int {
	reachable := make(map[int]struct{})

	combo := make([]int, 0, r)
	var rec func(start int)
	rec = func(start int) {
		if len(combo) == r {
			sum := 0
			for _, l := range combo {
				sum += l
				reachable[sum] = struct{}{}
			}
			return
		}
		for i := start; i < len(g.lengths); i++ {
			combo = append(combo, g.lengths[i])
			rec(i)
			combo = combo[:len(combo)-1]
		}
	}
	rec(0)

	out := maps.Keys(reachable)
	slices.Sort(out)
	return out
}

// VSet returns all sorted w-combinations (without replacement) of the
// offsets reachable within an r-horizon.
func (g *VariantsGenerator) VSet(r, w int) [][]int {
	offsets := g.ForFuture(r)

	var variants [][]int
	combo := make([]int, 0, w)
	var rec func(start int)
	rec = func(start int) {
		if len(combo) == w {
			variants = append(variants, slices.Clone(combo))
			return
		}
		for i := start; i < len(offsets); i++ {
			combo = append(combo, offsets[i])
			rec(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	rec(0)

	return variants
}

// BaselineSet returns the n smallest offsets achievable as sums of at most j
// lengths, growing j until at least n offsets are reachable.
func (g *VariantsGenerator) BaselineSet(n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	hasPositive := false
	for _, l := range g.lengths {
		if l > 0 {
			hasPositive = true
			break
		}
	}
	if !hasPositive {
		return nil, fmt.Errorf("%w: %d offsets requested from a lattice that cannot grow", theory.ErrImpossibleRequest, n)
	}

	result := make(map[int]struct{})
	exact := []int{0} // sums of exactly j-1 terms
	for len(result) < n {
		next := make(map[int]struct{})
		for _, s := range exact {
			for _, l := range g.lengths {
				next[s+l] = struct{}{}
			}
		}
		exact = maps.Keys(next)
		for s := range next {
			result[s] = struct{}{}
		}
	}

	out := maps.Keys(result)
	slices.Sort(out)
	return out[:n], nil
}
