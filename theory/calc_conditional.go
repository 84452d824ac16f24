package theory

import (
	"hash/maphash"

	"github.com/dgryski/go-tinylfu"
	"golang.org/x/exp/slices"
)

// memoEntries bounds the conditional memo cache. The recursion state space
// grows with the number of contexts times the L-vector suffixes; eviction
// only costs a recompute, never a wrong value.
const memoEntries = 1 << 16

type condMemoKey struct {
	w   int
	l   string
	ctx string
}

var memoSeed = maphash.MakeSeed()

func condMemoHash(k condMemoKey) uint64 {
	return maphash.Comparable(memoSeed, k)
}

// ConditionalCalc computes, memoized, the expected chain length under a
// context-conditional length distribution. Instances are not safe for
// concurrent use; parallel callers must each own their own.
type ConditionalCalc struct {
	scheme *ConditionalScheme
	memo   *tinylfu.T[condMemoKey, float64]
}

// NewConditionalCalc returns a calculator over the scheme.
func NewConditionalCalc(scheme *ConditionalScheme) *ConditionalCalc {
	return &ConditionalCalc{
		scheme: scheme,
		memo:   tinylfu.New[condMemoKey, float64](memoEntries, memoEntries*10, condMemoHash),
	}
}

// Score canonicalizes the vector (sorted, non-positive entries dropped) and
// returns its context-complete expectation.
func (c *ConditionalCalc) Score(w int, lvec []int) float64 {
	sorted := slices.Clone(lvec)
	slices.Sort(sorted)
	sorted = slices.DeleteFunc(sorted, func(l int) bool { return l <= 0 })
	return c.CompleteExpectationSorted(w, sorted)
}

// ExpectationSorted is the conditional form of the chain-length expectation;
// the context transitions as ctx' = (ctx[1:], L[i]). The L-vector must be
// sorted with strictly positive entries canonicalized by the caller (Score
// does this), or equivalent states will miss the cache.
func (c *ConditionalCalc) ExpectationSorted(w int, lvec []int, ctx []int) float64 {
	if w == 0 || len(lvec) == 0 {
		return 0
	}
	if w > len(lvec) {
		w = len(lvec)
	}

	key := condMemoKey{w: w, l: Key(lvec), ctx: Key(ctx)}
	if v, ok := c.memo.Get(key); ok {
		return v
	}

	res := 0.0
	for i := 0; i < w; i++ {
		p := c.scheme.P(lvec[i], ctx)
		if p == 0 {
			continue
		}
		shifted := dropAndShift(lvec, i)
		next := make([]int, 0, len(ctx))
		next = append(next, ctx[1:]...)
		next = append(next, lvec[i])
		res += p * (1 + c.ExpectationSorted(len(shifted), shifted, next))
	}

	c.memo.Add(key, res)
	return res
}

// CompleteExpectationSorted weights the conditional expectation by the
// marginal context distribution.
func (c *ConditionalCalc) CompleteExpectationSorted(w int, lvec []int) float64 {
	res := 0.0
	for _, cp := range c.scheme.ContextsAndProbabilities() {
		res += cp.P * c.ExpectationSorted(w, lvec, cp.Context)
	}
	return res
}

// CompleteExpectationSortedWithG selects the L-vector per context through
// the assignment function g.
func (c *ConditionalCalc) CompleteExpectationSortedWithG(w int, g func(ctx []int) []int) float64 {
	res := 0.0
	for _, cp := range c.scheme.ContextsAndProbabilities() {
		res += cp.P * c.ExpectationSorted(w, g(cp.Context), cp.Context)
	}
	return res
}
