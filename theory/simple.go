package theory

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrImpossibleRequest is returned when more outcomes are requested than the
// scheme supports.
var ErrImpossibleRequest = errors.New("request exceeds scheme support")

// machine epsilon for float64
var epsilon = math.Nextafter(1, 2) - 1

// SimpleScheme is a marginal distribution over codeword lengths: parallel
// Outcomes and Probabilities, the latter normalized to sum to 1.
type SimpleScheme struct {
	Outcomes      []int
	Probabilities []float64

	index map[int]float64
}

// NewSimpleScheme builds a scheme from parallel outcome and probability
// slices. Panics when the slices differ in length.
func NewSimpleScheme(outcomes []int, probabilities []float64) *SimpleScheme {
	if len(outcomes) != len(probabilities) {
		panic("outcomes and probabilities must be parallel")
	}
	index := make(map[int]float64, len(outcomes))
	for i, o := range outcomes {
		index[o] = probabilities[i]
	}
	return &SimpleScheme{Outcomes: outcomes, Probabilities: probabilities, index: index}
}

// P returns the probability of the outcome, 0 outside the support.
func (s *SimpleScheme) P(outcome int) float64 {
	return s.index[outcome]
}

// GetTop returns the n most probable outcomes. Probability ties resolve to
// the smaller outcome.
func (s *SimpleScheme) GetTop(n int) ([]int, error) {
	if n > len(s.Outcomes) {
		return nil, fmt.Errorf("%w: %d outcomes requested, max is %d", ErrImpossibleRequest, n, len(s.Outcomes))
	}
	top := slices.Clone(s.Outcomes)
	slices.SortFunc(top, func(a, b int) int {
		pa, pb := s.P(a), s.P(b)
		if pa != pb {
			if pa > pb {
				return -1
			}
			return 1
		}
		return a - b
	})
	return top[:n], nil
}

// SchemeForSum returns the distribution of the sum of r independent draws
// from the scheme, computed by raising the FFT of the probability vector to
// the r-th power. Outcomes smaller than r and probabilities at or below
// machine epsilon are discarded; the rest is renormalized.
func (s *SimpleScheme) SchemeForSum(r int) *SimpleScheme {
	maxOutcome := slices.Max(s.Outcomes)

	n := (maxOutcome + 1) * r
	base := make([]float64, n)
	for o := 0; o <= maxOutcome; o++ {
		base[o] = s.P(o)
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, base)
	for i := range coeffs {
		coeffs[i] = cmplx.Pow(coeffs[i], complex(float64(r), 0))
	}
	seq := fft.Sequence(nil, coeffs)

	var (
		outcomes      []int
		probabilities []float64
		total         float64
	)
	for outcome := r; outcome <= r*maxOutcome; outcome++ {
		p := seq[outcome] / float64(n)
		if p < 0 {
			p = 0 // numerical noise from the transform
		}
		if p > epsilon {
			outcomes = append(outcomes, outcome)
			probabilities = append(probabilities, p)
			total += p
		}
	}
	for i := range probabilities {
		probabilities[i] /= total
	}

	return NewSimpleScheme(outcomes, probabilities)
}
