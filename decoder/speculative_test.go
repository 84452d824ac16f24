package decoder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"spec-huffman/huffman"
	"spec-huffman/predictor"
)

func TestSpeculativeABACAB(t *testing.T) {
	histogram := map[byte]int{'a': 5, 'b': 2, 'c': 1}
	tree := huffman.BuildTree(histogram)
	codes := huffman.GenerateCodes(tree)

	encoded, err := huffman.Encode([]byte("abacab"), codes)
	require.NoError(t, err)

	sd := NewSpeculative(huffman.BuildDecodingTree(codes), 2, predictor.NewStatic([]int{1, 2}), 0)
	decoded, ratio, commits, _ := sd.Decode(encoded)

	require.Equal(t, []byte("abacab"), decoded)
	require.Equal(t, 6, ratio.Successes)
	require.LessOrEqual(t, ratio.Successes, ratio.Tries)
	require.NotEmpty(t, commits)
}

func TestSpeculativeSingleSymbolChain(t *testing.T) {
	tree := huffman.BuildTree(map[byte]int{'x': 1})
	codes := huffman.GenerateCodes(tree)

	encoded, err := huffman.Encode([]byte("xxxx"), codes)
	require.NoError(t, err)
	require.Equal(t, "0000", encoded)

	// Predictions 1,2,3 make every offset succeed: one round, chain of 4.
	sd := NewSpeculative(tree, 3, predictor.NewStatic([]int{1, 2, 3}), 0)
	decoded, _, commits, _ := sd.Decode(encoded)
	require.Equal(t, []byte("xxxx"), decoded)
	require.Equal(t, []int{4}, commits)

	// Out-of-range predictions still decode correctly, one commit per round.
	sd = NewSpeculative(tree, 3, predictor.NewStatic([]int{7, 8, 9}), 0)
	decoded, _, commits, _ = sd.Decode(encoded)
	require.Equal(t, []byte("xxxx"), decoded)
	require.Equal(t, []int{1, 1, 1, 1}, commits)
}

func TestSpeculativeMalformedStream(t *testing.T) {
	// Root with only a left child: "1" is undecodable.
	tree := huffman.BuildDecodingTree(huffman.Code[byte]{'s': "0"})

	_, err := huffman.Decode("1", tree)
	require.ErrorIs(t, err, huffman.ErrMalformed)

	sd := NewSpeculative(tree, 2, predictor.NewStatic([]int{1, 2}), 0)
	decoded, ratio, commits, trulyGuessed := sd.Decode("1")
	require.Empty(t, decoded)
	require.Empty(t, commits)
	require.Empty(t, trulyGuessed)
	require.Zero(t, ratio.Successes)
	require.Equal(t, 3, ratio.Tries)
}

func TestSpeculativeChainLengthLimit(t *testing.T) {
	tree := huffman.BuildTree(map[byte]int{'x': 1})
	sd := NewSpeculative(tree, 3, predictor.NewStatic([]int{1, 2, 3}), 2)

	decoded, _, commits, _ := sd.Decode("0000")
	require.Equal(t, []byte("xxxx"), decoded)
	for _, c := range commits {
		require.LessOrEqual(t, c, 2)
	}
	require.Equal(t, []int{2, 2}, commits)
}

func TestSpeculativeWrongPredictionStillCorrect(t *testing.T) {
	histogram := map[byte]int{'a': 5, 'b': 2, 'c': 1}
	tree := huffman.BuildTree(histogram)
	codes := huffman.GenerateCodes(tree)

	encoded, err := huffman.Encode([]byte("abacabcc"), codes)
	require.NoError(t, err)

	// A width-1 predictor that always predicts an impossible length: only
	// offset 0 ever commits.
	sd := NewSpeculative(huffman.BuildDecodingTree(codes), 1, predictor.NewStatic([]int{40}), 0)
	decoded, _, commits, trulyGuessed := sd.Decode(encoded)

	require.Equal(t, []byte("abacabcc"), decoded)
	for _, c := range commits {
		require.Equal(t, 1, c)
	}
	for _, tg := range trulyGuessed {
		require.Zero(t, tg)
	}
}

func TestSpeculativeTrulyGuessed(t *testing.T) {
	tree := huffman.BuildDecodingTree(huffman.Code[byte]{'a': "1", 'b': "01", 'c': "00"})

	// First codeword of "1..." has length 1, which is among the
	// predictions.
	sd := NewSpeculative(tree, 2, predictor.NewStatic([]int{1, 2}), 0)
	_, tg := sd.Speculate("101", 0)
	require.Equal(t, 1, tg)

	// Predictions (2, 2) miss the committed length 1.
	sd = NewSpeculative(tree, 2, predictor.NewStatic([]int{2, 2}), 0)
	_, tg = sd.Speculate("101", 0)
	require.Zero(t, tg)
}

func TestSpeculateDeterministic(t *testing.T) {
	tree := huffman.BuildDecodingTree(huffman.Code[byte]{'a': "1", 'b': "01", 'c': "00"})
	sd := NewSpeculative(tree, 2, predictor.NewStatic([]int{1, 2}), 0)

	chain1, tg1 := sd.Speculate("101100101", 0)
	chain2, tg2 := sd.Speculate("101100101", 0)
	require.Equal(t, chain1, chain2)
	require.Equal(t, tg1, tg2)
}

func TestFlushRestoresInitialState(t *testing.T) {
	tree := huffman.BuildDecodingTree(huffman.Code[byte]{'a': "1", 'b': "01", 'c': "00"})
	sd := NewSpeculative(tree, 2, predictor.NewStatic([]int{1, 2}), 0)

	first, _, _, _ := sd.Decode("101100101")
	require.NotZero(t, sd.Position())

	sd.Flush()
	require.Zero(t, sd.Position())

	second, _, _, _ := sd.Decode("101100101")
	require.Equal(t, first, second)
}

// Speculative decoding must equal non-speculative decoding for any
// predictor and any width.
func TestSpeculativeMatchesSerialDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec

	for trial := 0; trial < 20; trial++ {
		nbSymbols := 2 + rng.Intn(12)
		histogram := make(map[int]int)
		data := make([]int, 500)
		for i := range data {
			data[i] = rng.Intn(nbSymbols)
			histogram[data[i]]++
		}

		tree := huffman.BuildTree(histogram)
		codes := huffman.GenerateCodes(tree)
		encoded, err := huffman.Encode(data, codes)
		require.NoError(t, err)

		serial, err := huffman.Decode(encoded, tree)
		require.NoError(t, err)

		width := 1 + rng.Intn(4)
		vector := make([]int, width)
		for i := range vector {
			vector[i] = 1 + rng.Intn(8)
		}

		sd := NewSpeculative(huffman.BuildDecodingTree(codes), width, predictor.NewStatic(vector), 0)
		decoded, ratio, commits, _ := sd.Decode(encoded)

		require.Equal(t, serial, decoded)
		require.LessOrEqual(t, ratio.Successes, ratio.Tries)
		for _, c := range commits {
			require.GreaterOrEqual(t, c, 1)
		}
	}
}
