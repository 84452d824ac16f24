package predictor

import (
	"golang.org/x/exp/slices"

	"spec-huffman/theory"
)

// Dynamic predicts conditionally on the recent codeword lengths: it keeps a
// sliding context window and looks the context up in an assignment table
// precomputed from a k-gram model, falling back to a fixed vector for
// unseen contexts.
type Dynamic struct {
	order int
	width int

	table    *theory.AssignmentTable
	context  []int
	fallback []int
}

// NewDynamic returns an untrained predictor whose context window holds order
// lengths; the table is built by TrainOnData.
func NewDynamic(order, width int) *Dynamic {
	return &Dynamic{order: order, width: width}
}

// NewDynamicFromTable wires a predictor to a prebuilt assignment table,
// primed with the given context. The fallback vector is sorted.
func NewDynamicFromTable(table *theory.AssignmentTable, initialContext, fallback []int) *Dynamic {
	sorted := slices.Clone(fallback)
	slices.Sort(sorted)
	return &Dynamic{
		order:    len(initialContext),
		width:    len(fallback),
		table:    table,
		context:  slices.Clone(initialContext),
		fallback: sorted,
	}
}

// TrainOnData builds a k-gram model of order p.order+1 over the length sequence and
// derives the assignment table, the initial context, and the fallback from
// its conditional scheme.
func (p *Dynamic) TrainOnData(lengths []int) {
	model := theory.NewKGramModel(p.order + 1)
	model.Train(lengths)
	scheme := theory.NewConditionalScheme(model)

	p.table = scheme.BuildAssignmentTable(p.width)
	p.context = scheme.MostFrequentOutcomes(p.order)
	p.fallback = slices.Clone(scheme.MostFrequentOutcomes(p.width))
	slices.Sort(p.fallback)
}

// Feed rotates the context window.
func (p *Dynamic) Feed(length int) {
	if len(p.context) == 0 {
		return
	}
	p.context = append(p.context[1:], length)
}

func (p *Dynamic) ImplicitlyPredict(n int) []int {
	vec := p.fallback
	if p.table != nil {
		if assigned, ok := p.table.Get(p.context); ok {
			vec = assigned
		}
	}
	if n > len(vec) {
		n = len(vec)
	}
	out := make([]int, n)
	copy(out, vec[:n])
	return out
}

func (p *Dynamic) Predict(previous, n int) []int {
	p.Feed(previous)
	return p.ImplicitlyPredict(n)
}

// Cardinality is the number of contexts the predictor distinguishes.
func (p *Dynamic) Cardinality() int {
	if p.table == nil {
		return 0
	}
	return p.table.Len()
}

func (p *Dynamic) Name() string {
	return "dynamic"
}

func (p *Dynamic) RequiresTraining() bool {
	return p.table == nil
}
