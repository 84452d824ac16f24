package predictor

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"spec-huffman/huffman"
	"spec-huffman/theory"
)

// ZeroOrder reconstructs a length distribution from raw bytes alone: it
// rebuilds the Huffman code of the data, counts how many symbols carry each
// code length, and scores length l by count(l)*2^-l. The prediction is the
// lengths in descending score order.
type ZeroOrder struct {
	codes      map[int]int // code length -> number of symbols with it
	prediction []int
}

// NewZeroOrder returns an empty reconstructor; call Reconstruct before use.
func NewZeroOrder() *ZeroOrder {
	return &ZeroOrder{codes: make(map[int]int)}
}

// Reconstruct rebuilds the prediction table from the data.
func (p *ZeroOrder) Reconstruct(data []byte) {
	histogram := make(map[byte]int)
	for _, b := range data {
		histogram[b]++
	}
	codes := huffman.Generate(histogram)
	_, lengthMap, _ := huffman.BitLengths(data, codes)

	p.codes = make(map[int]int)
	for _, length := range lengthMap {
		p.codes[length]++
	}

	lengths, _ := p.Scheme()
	p.prediction = lengths
}

// Scheme returns the induced length distribution, most probable first.
// Score ties resolve to the smaller length.
func (p *ZeroOrder) Scheme() ([]int, []float64) {
	lengths := maps.Keys(p.codes)
	slices.SortFunc(lengths, func(a, b int) int {
		pa := float64(p.codes[a]) * math.Pow(2, -float64(a))
		pb := float64(p.codes[b]) * math.Pow(2, -float64(b))
		if pa != pb {
			if pa > pb {
				return -1
			}
			return 1
		}
		return a - b
	})

	probabilities := make([]float64, len(lengths))
	for i, l := range lengths {
		probabilities[i] = float64(p.codes[l]) * math.Pow(2, -float64(l))
	}
	return lengths, probabilities
}

// ProbabilisticScheme exposes the reconstruction as a marginal scheme.
func (p *ZeroOrder) ProbabilisticScheme() *theory.SimpleScheme {
	lengths, probabilities := p.Scheme()
	return theory.NewSimpleScheme(lengths, probabilities)
}

func (p *ZeroOrder) ImplicitlyPredict(n int) []int {
	if n > len(p.prediction) {
		n = len(p.prediction)
	}
	out := make([]int, n)
	copy(out, p.prediction[:n])
	return out
}

func (p *ZeroOrder) Feed(int) {}

func (p *ZeroOrder) Predict(_, n int) []int {
	return p.ImplicitlyPredict(n)
}

func (p *ZeroOrder) Cardinality() int {
	return len(p.prediction)
}

func (p *ZeroOrder) Name() string {
	return "zero-order"
}

func (p *ZeroOrder) RequiresTraining() bool {
	return false
}
