package decoder

import (
	"cmp"

	"spec-huffman/huffman"
)

// Single decodes exactly one codeword from a bit string at an arbitrary
// offset. It is stateless between calls, which makes it suitable for random
// access; failed attempts are reported through the Result, never as an
// error, because failures at speculative offsets are expected and cheap.
type Single[S cmp.Ordered] struct {
	tree  *huffman.Node[S]
	stats Statistics
}

// NewSingle returns a decoder over the given decoding tree. The tree is
// shared, read-only.
func NewSingle[S cmp.Ordered](tree *huffman.Node[S]) *Single[S] {
	return &Single[S]{tree: tree}
}

// Decode attempts to consume one codeword starting at position.
func (d *Single[S]) Decode(bits string, position int) Result[S] {
	res := d.decode(bits, position)
	d.record(res)
	return res
}

func (d *Single[S]) decode(bits string, position int) Result[S] {
	if len(bits) == 0 || position >= len(bits) || d.tree == nil {
		return Result[S]{}
	}

	// A bare-leaf tree charges exactly one bit per symbol, regardless of
	// bit value. This keeps the compressed length of a single-symbol
	// alphabet equal to the input length.
	if d.tree.Leaf {
		return Result[S]{WasDecoded: true, Symbol: d.tree.Symbol, Length: 1}
	}

	cur := d.tree
	bitsConsumed := 0
	for i := position; i < len(bits); i++ {
		bitsConsumed++

		switch bits[i] {
		case '0':
			cur = cur.Left
		case '1':
			cur = cur.Right
		default:
			return Result[S]{Length: bitsConsumed}
		}
		if cur == nil {
			return Result[S]{Length: bitsConsumed}
		}

		if cur.Leaf {
			return Result[S]{WasDecoded: true, Symbol: cur.Symbol, Length: bitsConsumed}
		}
	}

	// Ran out of bits before reaching a leaf.
	return Result[S]{Length: bitsConsumed}
}

func (d *Single[S]) record(res Result[S]) {
	d.stats.TotalDecodes++
	d.stats.BitsProcessed += res.Length

	if res.WasDecoded {
		d.stats.SuccessfulDecodes++
		if res.Length == 1 && d.tree != nil && d.tree.Leaf {
			d.stats.SingleSymbolDecodes++
		}
	} else {
		d.stats.FailedDecodes++
	}
}

// Stats returns a snapshot of the decoder's counters.
func (d *Single[S]) Stats() Statistics {
	return d.stats
}

// ResetStatistics zeros the decoder's counters.
func (d *Single[S]) ResetStatistics() {
	d.stats.Reset()
}
