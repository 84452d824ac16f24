package optimizer

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"spec-huffman/theory"
)

// Calculator scores an L-vector; both the marginal and the conditional
// expectation calculators satisfy it.
type Calculator interface {
	Score(w int, lvec []int) float64
}

// Optimizer searches candidate L-vectors for the one with the highest
// expected chain length. Scoring fans out across workers; each worker owns
// its own calculator so the memoization tables are never shared.
type Optimizer struct {
	newCalc func() Calculator
	scheme  *theory.SimpleScheme // set only for marginal schemes; Greedy needs it
	workers int
}

// NewOptimizer returns an optimizer over a marginal scheme.
func NewOptimizer(scheme *theory.SimpleScheme) *Optimizer {
	return &Optimizer{
		newCalc: func() Calculator { return theory.NewSimpleCalc(scheme) },
		scheme:  scheme,
		workers: runtime.NumCPU(),
	}
}

// NewConditionalOptimizer returns an optimizer over a conditional scheme.
// Greedy is unavailable in this mode.
func NewConditionalOptimizer(scheme *theory.ConditionalScheme) *Optimizer {
	return &Optimizer{
		newCalc: func() Calculator { return theory.NewConditionalCalc(scheme) },
		workers: runtime.NumCPU(),
	}
}

// Optimize scores every candidate and returns the best (score, vector)
// under strict > comparison. A candidate scoring 0 never wins; with no
// scoring candidate the vector is nil.
func (o *Optimizer) Optimize(w int, variants [][]int) (float64, []int) {
	var (
		mu          sync.Mutex
		bestScore   float64
		bestVariant []int
	)

	jobs := make(chan []int)
	var eg errgroup.Group
	for i := 0; i < o.workers; i++ {
		eg.Go(func() error {
			calc := o.newCalc()
			localScore, localVariant := 0.0, []int(nil)
			for v := range jobs {
				if score := calc.Score(w, v); score > localScore {
					localScore, localVariant = score, v
				}
			}
			mu.Lock()
			if localScore > bestScore {
				bestScore, bestVariant = localScore, localVariant
			}
			mu.Unlock()
			return nil
		})
	}
	for _, v := range variants {
		jobs <- v
	}
	close(jobs)
	_ = eg.Wait() // workers never fail

	return bestScore, bestVariant
}

// Greedy skips the search: for r = 1 it takes the top-w outcomes by marginal
// probability; for r > 1 it accumulates, per outcome, the probabilities of
// the sum-of-r' schemes for r' = 1..r and takes the top-w by that priority.
// The returned vector is sorted and scored like any candidate.
func (o *Optimizer) Greedy(w, r int) (float64, []int, error) {
	if o.scheme == nil {
		return 0, nil, fmt.Errorf("greedy requires a marginal scheme")
	}

	var variant []int
	if r == 1 {
		top, err := o.scheme.GetTop(w)
		if err != nil {
			return 0, nil, err
		}
		variant = slices.Clone(top)
	} else {
		priorities := make(map[int]float64)
		for sum := 1; sum <= r; sum++ {
			future := o.scheme.SchemeForSum(sum)
			for i, outcome := range future.Outcomes {
				priorities[outcome] += future.Probabilities[i]
			}
		}
		if w > len(priorities) {
			return 0, nil, fmt.Errorf("%w: %d outcomes requested, max is %d", theory.ErrImpossibleRequest, w, len(priorities))
		}

		outcomes := maps.Keys(priorities)
		slices.SortFunc(outcomes, func(a, b int) int {
			if priorities[a] != priorities[b] {
				if priorities[a] > priorities[b] {
					return -1
				}
				return 1
			}
			return a - b
		})
		variant = outcomes[:w]
	}
	slices.Sort(variant)

	return o.newCalc().Score(w, variant), variant, nil
}
