package theory

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// OutcomeP pairs an outcome with a probability.
type OutcomeP struct {
	Outcome int
	P       float64
}

// ContextP pairs a context with its marginal probability.
type ContextP struct {
	Context []int
	P       float64
}

// AssignmentTable maps a context to the sorted L-vector to speculate with
// when that context is current.
type AssignmentTable struct {
	entries  map[string][]int
	contexts map[string][]int
}

// Get looks up the vector assigned to the context.
func (t *AssignmentTable) Get(ctx []int) ([]int, bool) {
	v, ok := t.entries[Key(ctx)]
	return v, ok
}

// Len is the number of contexts in the table.
func (t *AssignmentTable) Len() int {
	return len(t.entries)
}

// Contexts returns the table's contexts in canonical key order.
func (t *AssignmentTable) Contexts() [][]int {
	keys := maps.Keys(t.contexts)
	slices.Sort(keys)
	out := make([][]int, len(keys))
	for i, k := range keys {
		out[i] = t.contexts[k]
	}
	return out
}

// ConditionalScheme is, for each context of k-1 lengths, a distribution over
// the next length, together with a marginal distribution over the contexts
// themselves. It is built from an order-k k-gram model.
type ConditionalScheme struct {
	model *KGramModel

	dist     map[string]map[int]float64
	contexts map[string][]int
	contextP map[string]float64
}

// NewConditionalScheme splits every accumulated k-gram into (context,
// outcome) and normalizes the per-context counts into distributions.
func NewConditionalScheme(m *KGramModel) *ConditionalScheme {
	s := &ConditionalScheme{
		model:    m,
		dist:     make(map[string]map[int]float64),
		contexts: make(map[string][]int),
		contextP: make(map[string]float64),
	}

	contextCount := make(map[string]int)
	total := 0
	m.Grams(func(gram []int, count int) {
		ctx, outcome := gram[:len(gram)-1], gram[len(gram)-1]
		key := Key(ctx)
		if _, ok := s.dist[key]; !ok {
			s.dist[key] = make(map[int]float64)
			s.contexts[key] = slices.Clone(ctx)
		}
		s.dist[key][outcome] += float64(count)
		contextCount[key] += count
		total += count
	})

	for key, outcomes := range s.dist {
		for outcome := range outcomes {
			outcomes[outcome] /= float64(contextCount[key])
		}
		s.contextP[key] = float64(contextCount[key]) / float64(total)
	}

	return s
}

// P returns the probability of the outcome given the context, 0 outside the
// support.
func (s *ConditionalScheme) P(outcome int, ctx []int) float64 {
	return s.dist[Key(ctx)][outcome]
}

// PContext returns the marginal probability of the context.
func (s *ConditionalScheme) PContext(ctx []int) float64 {
	return s.contextP[Key(ctx)]
}

// ContextsAndProbabilities returns every observed context with its marginal
// probability, in canonical key order.
func (s *ConditionalScheme) ContextsAndProbabilities() []ContextP {
	keys := maps.Keys(s.contextP)
	slices.Sort(keys)
	out := make([]ContextP, len(keys))
	for i, key := range keys {
		out[i] = ContextP{Context: s.contexts[key], P: s.contextP[key]}
	}
	return out
}

// MostFrequentOutcomes returns the top-n outcomes by marginal frequency.
func (s *ConditionalScheme) MostFrequentOutcomes(n int) []int {
	return s.model.MostFrequentOutcomes(n)
}

// MostFrequentOutcomesOnContext returns the top-n outcomes of the context's
// distribution, most probable first. Ties resolve to the smaller outcome.
func (s *ConditionalScheme) MostFrequentOutcomesOnContext(n int, ctx []int) []OutcomeP {
	dist, ok := s.dist[Key(ctx)]
	if !ok {
		return nil
	}
	out := make([]OutcomeP, 0, len(dist))
	for outcome, p := range dist {
		out = append(out, OutcomeP{Outcome: outcome, P: p})
	}
	slices.SortFunc(out, func(a, b OutcomeP) int {
		if a.P != b.P {
			if a.P > b.P {
				return -1
			}
			return 1
		}
		return a.Outcome - b.Outcome
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// BuildAssignmentTable assigns every observed context its top-n outcomes,
// padded with globally most-frequent outcomes when the context has seen
// fewer than n, sorted ascending.
func (s *ConditionalScheme) BuildAssignmentTable(n int) *AssignmentTable {
	global := s.MostFrequentOutcomes(s.model.NumberOfOutcomes())

	table := &AssignmentTable{
		entries:  make(map[string][]int, len(s.dist)),
		contexts: make(map[string][]int, len(s.dist)),
	}
	for key, ctx := range s.contexts {
		mfo := s.MostFrequentOutcomesOnContext(n, ctx)
		vec := make([]int, 0, n)
		for _, op := range mfo {
			vec = append(vec, op.Outcome)
		}
		if len(vec) < n {
			for _, outcome := range global {
				if !slices.Contains(vec, outcome) {
					vec = append(vec, outcome)
				}
				if len(vec) == n {
					break
				}
			}
		}
		slices.Sort(vec)
		table.entries[key] = vec
		table.contexts[key] = ctx
	}
	return table
}
