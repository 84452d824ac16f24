package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	spechuff "spec-huffman"
	"spec-huffman/decoder"
	"spec-huffman/huffman"
	"spec-huffman/optimizer"
	"spec-huffman/predictor"
	"spec-huffman/reader"
	"spec-huffman/theory"
)

var (
	flagIn       = flag.String("i", "", "comma-separated input files (required)")
	flagOut      = flag.String("o", "", "write the packed encoded stream to this file")
	flagMode     = flag.String("mode", "static", "predictor mode: static or dynamic")
	flagWidth    = flag.Int("w", 2, "speculation width")
	flagOrder    = flag.Int("order", 3, "context length, i.e. k-gram model order minus one (dynamic mode)")
	flagFutureR  = flag.Int("r", 1, "future horizon for variant enumeration (static mode)")
	flagBaseline = flag.Bool("baseline", false, "use the baseline cumulative-sum L-vector instead of optimizing")
	flagInduced  = flag.Bool("induced", false, "derive length probabilities from the code instead of the data")
	flagLimit    = flag.Int("limit", 0, "chain length limit per round (0 = none)")
	flagMaxBytes = flag.Int("max_bytes", 0, "read at most this many bytes (0 = all)")
	flagVerbose  = flag.Bool("v", false, "debug logging")
)

func quitF(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		panic(err)
	}
	os.Exit(1)
}

func assertNoError(err error) {
	if err != nil {
		quitF("%v\n", err)
	}
}

func main() {
	flag.Parse()

	if *flagIn == "" {
		quitF("no input files specified\n")
	}
	files := strings.Split(*flagIn, ",")

	level := zerolog.InfoLevel
	if *flagVerbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	histogram, data := reader.NewBinaryReader(files, log).Read(*flagMaxBytes)
	if len(data) == 0 {
		quitF("no data read\n")
	}
	codes := huffman.Generate(histogram)
	lengths, _, _ := huffman.BitLengths(data, codes)

	var p predictor.Predictor
	switch *flagMode {
	case "static":
		p = staticPredictor(codes, lengths, len(data), log)
	case "dynamic":
		p = dynamicPredictor(lengths, log)
	default:
		quitF("unknown mode %q\n", *flagMode)
	}

	encoded, err := huffman.Encode(data, codes)
	assertNoError(err)
	tree := huffman.BuildDecodingTree(codes)

	fmt.Printf("original size           = %d bytes\n", len(data))
	fmt.Printf("compressed size         = %d bytes (%d bits)\n", (len(encoded)+7)/8, len(encoded))
	fmt.Printf("compression ratio       = %.4f\n", huffman.CompressionRatio(data, encoded, 8))

	if *flagOut != "" {
		assertNoError(os.WriteFile(*flagOut, spechuff.PackBits(encoded), 0600))
	}

	sd := decoder.NewSpeculative(tree, *flagWidth, p, *flagLimit)
	decoded, ratio, commits, _ := sd.Decode(encoded)

	series := make([]float64, len(commits))
	for i, c := range commits {
		series[i] = float64(c)
	}
	rate := 0.0
	if len(series) > 0 {
		rate = stat.Mean(series, nil)
	}

	fmt.Printf("decoded correctly       = %t\n", reader.Fingerprint(decoded) == reader.Fingerprint(data))
	fmt.Printf("efficiency              = %d/%d\n", ratio.Successes, ratio.Tries)
	fmt.Printf("real decoding rate      = %.4f\n", rate)
}

// staticPredictor picks an L-vector offline, either from the baseline
// lattice or by scoring every candidate, and pins a static predictor to it.
func staticPredictor(codes huffman.Code[byte], lengths []int, dataLen int, log zerolog.Logger) predictor.Predictor {
	probabilities := make(map[int]float64)
	if *flagInduced {
		for _, code := range codes {
			probabilities[len(code)] += math.Pow(2, -float64(len(code)))
		}
	} else {
		for _, l := range lengths {
			probabilities[l] += 1 / float64(dataLen)
		}
	}

	var (
		outcomes []int
		probs    []float64
	)
	for o, p := range probabilities {
		outcomes = append(outcomes, o)
		probs = append(probs, p)
	}
	scheme := theory.NewSimpleScheme(outcomes, probs)
	calc := theory.NewSimpleCalc(scheme)
	gen := optimizer.NewVariantsGenerator(outcomes)

	var (
		vector []int
		score  float64
	)
	if *flagBaseline {
		var err error
		vector, err = gen.BaselineSet(*flagWidth)
		assertNoError(err)
		score = calc.ExpectationSorted(*flagWidth, vector)
	} else {
		opt := optimizer.NewOptimizer(scheme)
		score, vector = opt.Optimize(*flagWidth, gen.VSet(*flagFutureR, *flagWidth))
	}

	log.Info().Ints("vector", vector).Float64("expected_total_rate", score+1).Msg("selected L-vector")
	return predictor.NewStatic(vector)
}

// dynamicPredictor derives an assignment table from an order-k conditional
// model of the length sequence.
func dynamicPredictor(lengths []int, log zerolog.Logger) predictor.Predictor {
	model := theory.NewKGramModel(*flagOrder + 1)
	model.Train(lengths)
	scheme := theory.NewConditionalScheme(model)
	calc := theory.NewConditionalCalc(scheme)

	table := scheme.BuildAssignmentTable(*flagWidth)
	initial := scheme.MostFrequentOutcomes(*flagOrder)
	fallback := scheme.MostFrequentOutcomes(*flagWidth)

	score := calc.CompleteExpectationSortedWithG(*flagWidth, func(ctx []int) []int {
		if vec, ok := table.Get(ctx); ok {
			return vec
		}
		return fallback
	})
	log.Info().Int("contexts", table.Len()).Float64("expected_total_rate", score+1).Msg("assignment table built")

	return predictor.NewDynamicFromTable(table, initial, fallback)
}
