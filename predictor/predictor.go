// Package predictor provides the codeword-length predictors driving the
// speculative decoder. Predictors are a small capability bag: the core
// interface below, plus optional training capabilities discovered by type
// assertion.
package predictor

// Predictor predicts the bit-lengths of upcoming codewords.
type Predictor interface {
	// ImplicitlyPredict returns up to n predicted lengths from the
	// predictor's current state.
	ImplicitlyPredict(n int) []int
	// Feed informs the predictor of a committed codeword length.
	Feed(length int)
	// Predict is the convenience form: feed the previous length, then
	// predict.
	Predict(previous, n int) []int

	Cardinality() int
	Name() string
	RequiresTraining() bool
}

// Trainable predictors learn from a sequence of codeword lengths.
type Trainable interface {
	TrainOnData(lengths []int)
}

// Reconstructor predictors rebuild their state from raw bytes alone.
type Reconstructor interface {
	Reconstruct(data []byte)
}
