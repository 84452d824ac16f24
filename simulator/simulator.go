// Package simulator runs a speculative decoder over real datasets and
// measures its decode rate.
package simulator

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"spec-huffman/decoder"
	"spec-huffman/huffman"
	"spec-huffman/predictor"
	"spec-huffman/reader"
)

// Simulator trains (or reconstructs) a predictor, encodes the test dataset,
// and decodes it speculatively.
type Simulator struct {
	predictor predictor.Predictor
	settings  Settings
	log       zerolog.Logger
}

// New returns a simulator for the predictor under the given settings.
func New(p predictor.Predictor, settings Settings, log zerolog.Logger) *Simulator {
	return &Simulator{predictor: p, settings: settings, log: log}
}

func (s *Simulator) fullDataset() []string {
	return append(append([]string{}, s.settings.TestFiles...), s.settings.TrainingFiles...)
}

func (s *Simulator) trainDataset() []string {
	if s.settings.UseSameDataset {
		return s.fullDataset()
	}
	return s.settings.TrainingFiles
}

func (s *Simulator) testDataset() []string {
	if s.settings.UseSameDataset {
		return s.fullDataset()
	}
	return s.settings.TestFiles
}

func (s *Simulator) huffmanData(files []string, sizeLimit int) ([]byte, huffman.Code[byte]) {
	histogram, content := reader.NewBinaryReader(files, s.log).Read(sizeLimit)
	return content, huffman.Generate(histogram)
}

// Simulate runs the full flow and summarizes it. Trainable predictors that
// still require training learn from the code lengths of the training
// dataset; reconstructors rebuild themselves from the test content.
func (s *Simulator) Simulate() (Result, error) {
	if s.predictor.RequiresTraining() {
		trainable, ok := s.predictor.(predictor.Trainable)
		if !ok {
			return Result{}, fmt.Errorf("predictor %s requires training but is not trainable", s.predictor.Name())
		}
		content, codes := s.huffmanData(s.trainDataset(), s.settings.TrainingDatasetSize)
		lengths, _, _ := huffman.BitLengths(content, codes)
		trainable.TrainOnData(lengths)
	}

	content, codes := s.huffmanData(s.testDataset(), s.settings.TestDatasetSize)
	if rec, ok := s.predictor.(predictor.Reconstructor); ok {
		rec.Reconstruct(content)
	}

	encoded, err := huffman.Encode(content, codes)
	if err != nil {
		return Result{}, err
	}
	tree := huffman.BuildDecodingTree(codes)

	sd := decoder.NewSpeculative(tree, s.settings.SpeculationWidth, s.predictor, s.settings.ChainLengthLimit)
	decoded, ratio, commits, trulyGuessed := sd.Decode(encoded)

	if reader.Fingerprint(decoded) != reader.Fingerprint(content) {
		s.log.Warn().Msg("speculative decode does not match the input")
	}

	return s.summarize(ratio, commits, trulyGuessed), nil
}

func (s *Simulator) summarize(ratio decoder.Ratio, commits, trulyGuessed []int) Result {
	res := Result{
		SpeculationWidth:         s.settings.SpeculationWidth,
		PredictorName:            s.predictor.Name(),
		SuccessfulDecodes:        ratio.Successes,
		TotalAttempts:            ratio.Tries,
		CodewordThroughputCounts: make(map[int]int, len(commits)),
		PredictorCardinality:     s.predictor.Cardinality(),
	}
	if len(commits) == 0 {
		return res
	}

	series := make([]float64, len(commits))
	res.MinCodewords, res.MaxCodewords = commits[0], commits[0]
	for i, c := range commits {
		series[i] = float64(c)
		res.CodewordThroughputCounts[c]++
		if c < res.MinCodewords {
			res.MinCodewords = c
		}
		if c > res.MaxCodewords {
			res.MaxCodewords = c
		}
	}
	res.MeanCodewords = stat.Mean(series, nil)
	res.StdCodewords = stat.PopStdDev(series, nil)

	guesses := make([]float64, len(trulyGuessed))
	for i, g := range trulyGuessed {
		guesses[i] = float64(g)
	}
	res.MeanTrulyGuesses = stat.Mean(guesses, nil)

	return res
}
