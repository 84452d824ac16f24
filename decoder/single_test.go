package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"spec-huffman/huffman"
)

// abcTree is the decoding tree for a = "1", b = "01", c = "00".
func abcTree() *huffman.Node[byte] {
	return huffman.BuildDecodingTree(huffman.Code[byte]{'a': "1", 'b': "01", 'c': "00"})
}

func TestSingleDecodeAtOffsets(t *testing.T) {
	d := NewSingle(abcTree())
	bits := "101100101" // abacab

	require.Equal(t, Result[byte]{WasDecoded: true, Symbol: 'a', Length: 1}, d.Decode(bits, 0))
	require.Equal(t, Result[byte]{WasDecoded: true, Symbol: 'b', Length: 2}, d.Decode(bits, 1))
	require.Equal(t, Result[byte]{WasDecoded: true, Symbol: 'a', Length: 1}, d.Decode(bits, 3))
	require.Equal(t, Result[byte]{WasDecoded: true, Symbol: 'c', Length: 2}, d.Decode(bits, 4))
}

func TestSingleDecodeBoundaries(t *testing.T) {
	d := NewSingle(abcTree())

	require.Equal(t, Result[byte]{}, d.Decode("", 0))
	require.Equal(t, Result[byte]{}, d.Decode("101", 3))
	require.Equal(t, Result[byte]{}, d.Decode("101", 7))

	var nilTree *huffman.Node[byte]
	require.Equal(t, Result[byte]{}, NewSingle(nilTree).Decode("101", 0))
}

func TestSingleDecodeTruncatedCodeword(t *testing.T) {
	d := NewSingle(abcTree())

	// "0" alone is a prefix of both b and c.
	res := d.Decode("0", 0)
	require.False(t, res.WasDecoded)
	require.Equal(t, 1, res.Length)
}

func TestSingleDecodeNullChild(t *testing.T) {
	tree := huffman.BuildDecodingTree(huffman.Code[byte]{'s': "0"})
	d := NewSingle(tree)

	res := d.Decode("1", 0)
	require.False(t, res.WasDecoded)
	require.Equal(t, 1, res.Length)
}

func TestSingleDecodeInvalidCharacter(t *testing.T) {
	d := NewSingle(abcTree())

	res := d.Decode("0x1", 0)
	require.False(t, res.WasDecoded)
	require.Equal(t, 2, res.Length)
}

func TestSingleSymbolFastPath(t *testing.T) {
	tree := huffman.BuildTree(map[byte]int{'x': 9})
	d := NewSingle(tree)

	// One bit per symbol, regardless of bit value.
	for pos := 0; pos < 4; pos++ {
		res := d.Decode("0110", pos)
		require.Equal(t, Result[byte]{WasDecoded: true, Symbol: 'x', Length: 1}, res)
	}
	require.Equal(t, Result[byte]{}, d.Decode("0110", 4))

	stats := d.Stats()
	require.Equal(t, 4, stats.SingleSymbolDecodes)
}

func TestSingleStatistics(t *testing.T) {
	d := NewSingle(abcTree())

	d.Decode("101100101", 0) // success, 1 bit
	d.Decode("101100101", 1) // success, 2 bits
	d.Decode("0", 0)         // failure, 1 bit
	d.Decode("", 0)          // failure, 0 bits

	stats := d.Stats()
	require.Equal(t, 4, stats.TotalDecodes)
	require.Equal(t, 2, stats.SuccessfulDecodes)
	require.Equal(t, 2, stats.FailedDecodes)
	require.Equal(t, 4, stats.BitsProcessed)
	require.Zero(t, stats.SingleSymbolDecodes)
	require.InDelta(t, 0.5, stats.SuccessRate(), 1e-12)
	require.InDelta(t, 1.0, stats.AverageBitsPerDecode(), 1e-12)

	d.ResetStatistics()
	require.Equal(t, Statistics{}, d.Stats())
	require.Zero(t, d.Stats().SuccessRate())
	require.Zero(t, d.Stats().AverageBitsPerDecode())
}
