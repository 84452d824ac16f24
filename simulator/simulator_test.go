package simulator

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"spec-huffman/predictor"
)

// sampleText writes ~10 KiB of skewed text to a temp file.
func sampleText(t *testing.T, seed int64) string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec
	alphabet := []byte("etaoin shrdlu.ETAOIN")

	data := make([]byte, 10*1024)
	for i := range data {
		// Quadratic skew keeps the length distribution non-uniform.
		data[i] = alphabet[rng.Intn(len(alphabet))*rng.Intn(len(alphabet))/len(alphabet)]
	}

	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestSimulateWithStaticPredictor(t *testing.T) {
	path := sampleText(t, 1)

	sim := New(predictor.NewStatic([]int{3, 4}), Settings{
		SpeculationWidth: 2,
		TestFiles:        []string{path},
	}, zerolog.Nop())

	res, err := sim.Simulate()
	require.NoError(t, err)

	require.Equal(t, 2, res.SpeculationWidth)
	require.Equal(t, "static", res.PredictorName)
	require.Positive(t, res.SuccessfulDecodes)
	require.LessOrEqual(t, res.SuccessfulDecodes, res.TotalAttempts)
	require.GreaterOrEqual(t, res.MeanCodewords, 1.0)
	require.GreaterOrEqual(t, res.MaxCodewords, res.MinCodewords)
	require.GreaterOrEqual(t, res.MinCodewords, 1)
	require.NotEmpty(t, res.CodewordThroughputCounts)

	total := 0
	for _, count := range res.CodewordThroughputCounts {
		total += count
	}
	require.Equal(t, res.SuccessfulDecodes, totalCommits(res))
	require.Positive(t, total)
}

func totalCommits(res Result) int {
	sum := 0
	for commits, count := range res.CodewordThroughputCounts {
		sum += commits * count
	}
	return sum
}

func TestSimulateTrainsDynamicPredictor(t *testing.T) {
	train := sampleText(t, 2)
	test := sampleText(t, 3)

	sim := New(predictor.NewDynamic(2, 2), Settings{
		SpeculationWidth: 2,
		TrainingFiles:    []string{train},
		TestFiles:        []string{test},
	}, zerolog.Nop())

	res, err := sim.Simulate()
	require.NoError(t, err)
	require.Equal(t, "dynamic", res.PredictorName)
	require.Positive(t, res.PredictorCardinality)
	require.Positive(t, res.SuccessfulDecodes)
	require.GreaterOrEqual(t, res.MeanCodewords, 1.0)
}

func TestSimulateReconstructsZeroOrder(t *testing.T) {
	path := sampleText(t, 4)

	sim := New(predictor.NewZeroOrder(), Settings{
		SpeculationWidth: 2,
		TestFiles:        []string{path},
	}, zerolog.Nop())

	res, err := sim.Simulate()
	require.NoError(t, err)
	require.Equal(t, "zero-order", res.PredictorName)
	require.Positive(t, res.PredictorCardinality)
	require.Positive(t, res.SuccessfulDecodes)
}

func TestSimulateHonorsChainLengthLimit(t *testing.T) {
	path := sampleText(t, 5)

	sim := New(predictor.NewStatic([]int{3, 4}), Settings{
		SpeculationWidth: 2,
		TestFiles:        []string{path},
		ChainLengthLimit: 1,
	}, zerolog.Nop())

	res, err := sim.Simulate()
	require.NoError(t, err)
	require.Equal(t, 1, res.MaxCodewords)
}

func TestSimulateUseSameDataset(t *testing.T) {
	path := sampleText(t, 6)

	sim := New(predictor.NewDynamic(1, 2), Settings{
		SpeculationWidth: 2,
		TrainingFiles:    []string{path},
		UseSameDataset:   true,
	}, zerolog.Nop())

	res, err := sim.Simulate()
	require.NoError(t, err)
	require.Positive(t, res.SuccessfulDecodes)
}

func TestSimulateDatasetCaps(t *testing.T) {
	path := sampleText(t, 7)

	sim := New(predictor.NewStatic([]int{3}), Settings{
		SpeculationWidth: 1,
		TestFiles:        []string{path},
		TestDatasetSize:  128,
	}, zerolog.Nop())

	res, err := sim.Simulate()
	require.NoError(t, err)
	// 128 symbols decoded at most; every round commits at least one.
	require.LessOrEqual(t, res.SuccessfulDecodes, 128)
	require.Positive(t, res.SuccessfulDecodes)
}
