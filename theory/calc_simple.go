package theory

import (
	"strconv"

	"golang.org/x/exp/slices"
)

// SimpleCalc computes, memoized, the expected number of codewords a
// speculation chain commits given an L-vector, under a marginal length
// distribution. Instances are not safe for concurrent use; parallel callers
// must each own their own.
type SimpleCalc struct {
	scheme *SimpleScheme

	expectation map[string]float64
	delta       map[string]float64
}

// NewSimpleCalc returns a calculator over the scheme.
func NewSimpleCalc(scheme *SimpleScheme) *SimpleCalc {
	return &SimpleCalc{
		scheme:      scheme,
		expectation: make(map[string]float64),
		delta:       make(map[string]float64),
	}
}

// Score sorts the vector and returns its expectation.
func (c *SimpleCalc) Score(w int, lvec []int) float64 {
	sorted := slices.Clone(lvec)
	slices.Sort(sorted)
	return c.ExpectationSorted(w, sorted)
}

func memoKey(w int, lvec []int) string {
	return strconv.Itoa(w) + "|" + Key(lvec)
}

// dropAndShift rebases the tail of a sorted vector on its i-th entry,
// keeping only strictly positive offsets.
func dropAndShift(lvec []int, i int) []int {
	out := make([]int, 0, len(lvec)-i-1)
	for _, l := range lvec[i+1:] {
		if l > lvec[i] {
			out = append(out, l-lvec[i])
		}
	}
	return out
}

// ExpectationSorted is the expected chain length for a sorted L-vector of
// size w:
//
//	E(0, _) = 0
//	E(w, L) = sum_i p(L[i]) * (1 + E(|L'|, L'))    L' = dropAndShift(L, i)
func (c *SimpleCalc) ExpectationSorted(w int, lvec []int) float64 {
	if w == 0 || len(lvec) == 0 {
		return 0
	}
	if w > len(lvec) {
		w = len(lvec)
	}

	key := memoKey(w, lvec)
	if v, ok := c.expectation[key]; ok {
		return v
	}

	res := 0.0
	for i := 0; i < w; i++ {
		p := c.scheme.P(lvec[i])
		if p == 0 {
			continue
		}
		shifted := dropAndShift(lvec, i)
		res += p * (1 + c.ExpectationSorted(len(shifted), shifted))
	}

	c.expectation[key] = res
	return res
}

// DeltaSorted is the marginal contribution of the last entry of a sorted
// L-vector to the expectation: the gain from widening the speculation by
// that offset.
func (c *SimpleCalc) DeltaSorted(w int, lvec []int) float64 {
	if w == 0 || len(lvec) == 0 {
		return 0
	}
	if w > len(lvec) {
		w = len(lvec)
	}
	if w == 1 {
		return c.ExpectationSorted(1, lvec)
	}

	key := memoKey(w, lvec)
	if v, ok := c.delta[key]; ok {
		return v
	}

	res := c.scheme.P(lvec[w-1])
	for i := 0; i < w-1; i++ {
		shifted := dropAndShift(lvec, i)
		res += c.scheme.P(lvec[i]) * c.DeltaSorted(len(shifted), shifted)
	}

	c.delta[key] = res
	return res
}
