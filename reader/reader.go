// Package reader loads training and test datasets from disk.
package reader

import (
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

// BinaryReader reads a list of files into one byte stream plus a symbol
// frequency histogram. Missing files are skipped with a warning.
type BinaryReader struct {
	files []string
	log   zerolog.Logger
}

// NewBinaryReader returns a reader over the given paths.
func NewBinaryReader(files []string, log zerolog.Logger) *BinaryReader {
	return &BinaryReader{files: files, log: log}
}

// Read reads the files in order, stopping once maxBytes have been read;
// maxBytes <= 0 means no cap. It returns the byte frequency histogram and
// the concatenated content.
func (r *BinaryReader) Read(maxBytes int) (map[byte]int, []byte) {
	histogram := make(map[byte]int)
	var content []byte

	for _, path := range r.files {
		if maxBytes > 0 && len(content) >= maxBytes {
			break
		}

		data, err := os.ReadFile(path)
		if err != nil {
			r.log.Warn().Str("path", path).Err(err).Msg("skipping unreadable file")
			continue
		}
		if maxBytes > 0 && len(content)+len(data) > maxBytes {
			data = data[:maxBytes-len(content)]
		}

		for _, b := range data {
			histogram[b]++
		}
		content = append(content, data...)
	}

	r.log.Debug().Int("bytes", len(content)).Uint64("fingerprint", Fingerprint(content)).Msg("dataset read")
	return histogram, content
}

// Fingerprint identifies a dataset for diagnostics and round-trip checks.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}
