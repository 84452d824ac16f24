package decoder

import (
	"cmp"

	"golang.org/x/exp/slices"

	"spec-huffman/huffman"
	"spec-huffman/predictor"
)

// Ratio reports how many of the attempted decodes committed a symbol.
type Ratio struct {
	Successes int
	Tries     int
}

// Speculative accelerates serial Huffman decoding by attempting w+1 decodes
// per round: one at the current position and w at offsets predicted by the
// predictor. Successful attempts that stitch into a consecutive chain are
// committed together.
//
// Every committed symbol equals what a non-speculative decoder would produce
// at that bit position; speculation can only shrink the chain, never
// misdecode.
type Speculative[S cmp.Ordered] struct {
	decoders   []*Single[S]
	width      int
	predictor  predictor.Predictor
	chainLimit int // 0 means no limit

	position    int
	previous    S
	hasPrevious bool
}

// NewSpeculative builds a speculative decoder of the given width over a
// shared decoding tree. chainLimit caps the number of codewords committed
// per round; 0 means unlimited.
func NewSpeculative[S cmp.Ordered](tree *huffman.Node[S], width int, p predictor.Predictor, chainLimit int) *Speculative[S] {
	decoders := make([]*Single[S], width+1)
	for i := range decoders {
		decoders[i] = NewSingle(tree)
	}
	return &Speculative[S]{
		decoders:   decoders,
		width:      width,
		predictor:  p,
		chainLimit: chainLimit,
	}
}

// Flush resets the cursor state.
func (sd *Speculative[S]) Flush() {
	sd.position = 0
	var zero S
	sd.previous = zero
	sd.hasPrevious = false
}

// Speculate performs one speculation round at the given position. It returns
// the maximal consecutive chain of successful decodes anchored at position,
// and 1 if the length actually committed first was among the speculative
// predictions (discounting the mandatory offset-0 attempt), else 0.
func (sd *Speculative[S]) Speculate(bits string, position int) ([]Result[S], int) {
	if position >= len(bits) {
		return nil, 0
	}

	predicted := sd.predictor.ImplicitlyPredict(sd.width)
	offsets := make([]int, 0, len(predicted)+1)
	offsets = append(offsets, 0)
	offsets = append(offsets, predicted...)

	results := make(map[int]Result[S], len(offsets))
	for i, offset := range offsets {
		if position+offset >= len(bits) {
			continue
		}
		if res := sd.decoders[i].Decode(bits, position+offset); res.WasDecoded {
			results[offset] = res
		}
	}

	// The chain must make forward progress from the current position; a
	// speculative hit with a gap in front of it is discarded.
	if _, ok := results[0]; !ok {
		return nil, 0
	}

	var chain []Result[S]
	for offset := 0; ; {
		res, ok := results[offset]
		if !ok {
			break
		}
		chain = append(chain, res)
		offset += res.Length
	}

	trulyGuessed := 0
	if slices.Contains(predicted, results[0].Length) {
		trulyGuessed = 1
	}

	if sd.chainLimit > 0 && len(chain) > sd.chainLimit {
		chain = chain[:sd.chainLimit]
	}
	return chain, trulyGuessed
}

// Decode decodes the entire bit string. It returns the decoded symbols, the
// success/attempt ratio, the number of committed codewords per round, and
// the truly-guessed flag per round. The loop stops at the first round that
// makes no progress; remaining bits are trailing.
func (sd *Speculative[S]) Decode(bits string) ([]S, Ratio, []int, []int) {
	var (
		out          []S
		ratio        Ratio
		commits      []int
		trulyGuessed []int
	)

	for sd.position < len(bits) {
		ratio.Tries += sd.width + 1

		chain, tg := sd.Speculate(bits, sd.position)
		if len(chain) == 0 {
			break
		}

		ratio.Successes += len(chain)
		commits = append(commits, len(chain))
		trulyGuessed = append(trulyGuessed, tg)

		sd.previous = chain[0].Symbol
		sd.hasPrevious = true

		total := 0
		for _, res := range chain {
			out = append(out, res.Symbol)
			sd.predictor.Feed(res.Length)
			total += res.Length
		}
		sd.position += total
	}

	return out, ratio, commits, trulyGuessed
}

// Position returns the current bit cursor.
func (sd *Speculative[S]) Position() int {
	return sd.position
}

// Width returns the speculation width w; attempts per round are w+1.
func (sd *Speculative[S]) Width() int {
	return sd.width
}
