// Package theory holds the statistical machinery behind speculation
// planning: the k-gram model over codeword lengths, marginal and
// conditional probability schemes, and the memoized expectation of the
// number of codewords committed per speculation round.
package theory

import (
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Key canonicalizes an integer tuple into a map key.
func Key(tuple []int) string {
	var sb strings.Builder
	for i, v := range tuple {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// KGramModel accumulates sliding-window k-gram frequencies over a symbol
// stream, together with the marginal outcome frequencies. Windows at the
// start of the stream that are not yet fully populated are discarded.
type KGramModel struct {
	K int

	window []int
	fed    int
	primed bool // window has been fully populated on an earlier feed

	frequencies map[string]int
	grams       map[string][]int
	outcomes    map[int]int
	alphabet    map[int]struct{}
}

// NewKGramModel returns an empty model of order k.
func NewKGramModel(k int) *KGramModel {
	return &KGramModel{
		K:           k,
		window:      make([]int, k),
		frequencies: make(map[string]int),
		grams:       make(map[string][]int),
		outcomes:    make(map[int]int),
		alphabet:    make(map[int]struct{}),
	}
}

// Feed shifts the window and accounts for the symbol. The first fully
// populated window is not counted; k-gram counting starts on the feed after
// the window fills.
func (m *KGramModel) Feed(symbol int) {
	copy(m.window, m.window[1:])
	m.window[m.K-1] = symbol
	m.fed++

	m.outcomes[symbol]++
	m.alphabet[symbol] = struct{}{}

	if m.primed {
		key := Key(m.window)
		if _, ok := m.grams[key]; !ok {
			m.grams[key] = slices.Clone(m.window)
		}
		m.frequencies[key]++
	} else if m.fed >= m.K {
		m.primed = true
	}
}

// Train feeds the whole sample in order.
func (m *KGramModel) Train(sample []int) {
	for _, s := range sample {
		m.Feed(s)
	}
}

// Grams iterates the accumulated k-grams with their counts.
func (m *KGramModel) Grams(yield func(gram []int, count int)) {
	for key, gram := range m.grams {
		yield(gram, m.frequencies[key])
	}
}

// NumberOfOutcomes is the number of distinct symbols seen.
func (m *KGramModel) NumberOfOutcomes() int {
	return len(m.outcomes)
}

// Alphabet returns the distinct symbols seen, sorted.
func (m *KGramModel) Alphabet() []int {
	symbols := maps.Keys(m.alphabet)
	slices.Sort(symbols)
	return symbols
}

// MostFrequentOutcomes returns the top-n symbols by marginal frequency.
// Frequency ties resolve to the smaller symbol.
func (m *KGramModel) MostFrequentOutcomes(n int) []int {
	symbols := maps.Keys(m.outcomes)
	slices.SortFunc(symbols, func(a, b int) int {
		if m.outcomes[a] != m.outcomes[b] {
			return m.outcomes[b] - m.outcomes[a]
		}
		return a - b
	})
	if n < len(symbols) {
		symbols = symbols[:n]
	}
	return symbols
}
