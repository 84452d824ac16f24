package predictor

// Static always predicts the same vector of lengths, typically one chosen
// offline by the optimizer. Feeding it is a no-op.
type Static struct {
	vector []int
}

// NewStatic returns a predictor pinned to the given vector.
func NewStatic(vector []int) *Static {
	return &Static{vector: vector}
}

func (p *Static) ImplicitlyPredict(n int) []int {
	if n > len(p.vector) {
		n = len(p.vector)
	}
	out := make([]int, n)
	copy(out, p.vector[:n])
	return out
}

func (p *Static) Feed(int) {}

func (p *Static) Predict(_, n int) []int {
	return p.ImplicitlyPredict(n)
}

func (p *Static) Cardinality() int {
	return len(p.vector)
}

func (p *Static) Name() string {
	return "static"
}

func (p *Static) RequiresTraining() bool {
	return false
}
