package decoder

import "fmt"

// Statistics counts decode attempts. The counters are descriptive only and
// never influence decode output.
type Statistics struct {
	TotalDecodes        int
	SuccessfulDecodes   int
	FailedDecodes       int
	BitsProcessed       int
	SingleSymbolDecodes int
}

// SuccessRate is the fraction of attempts that decoded a symbol.
func (s Statistics) SuccessRate() float64 {
	if s.TotalDecodes == 0 {
		return 0
	}
	return float64(s.SuccessfulDecodes) / float64(s.TotalDecodes)
}

// AverageBitsPerDecode is the mean number of bits consumed per attempt.
func (s Statistics) AverageBitsPerDecode() float64 {
	if s.TotalDecodes == 0 {
		return 0
	}
	return float64(s.BitsProcessed) / float64(s.TotalDecodes)
}

// Reset zeros all counters.
func (s *Statistics) Reset() {
	*s = Statistics{}
}

func (s Statistics) String() string {
	return fmt.Sprintf("Statistics(success_rate=%.1f%%, total=%d, avg_bits=%.2f)",
		s.SuccessRate()*100, s.TotalDecodes, s.AverageBitsPerDecode())
}
