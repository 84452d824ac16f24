// Package spechuff provides helpers for the textual bit strings used
// throughout the module. Encoded data is a string of '0'/'1' characters;
// PackBits and UnpackBits convert between that representation and packed
// bytes for storage.
package spechuff

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// ValidBits reports whether s consists solely of '0' and '1' characters.
func ValidBits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}
	return true
}

// PackBits packs a bit string MSB-first into bytes. The final partial byte,
// if any, is zero-padded. Panics on a character other than '0' or '1'.
func PackBits(bits string) []byte {
	bb := bytes.NewBuffer(make([]byte, 0, (len(bits)+7)/8))
	w := bitio.NewWriter(bb)
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
			w.TryWriteBool(false)
		case '1':
			w.TryWriteBool(true)
		default:
			panic(fmt.Sprintf("invalid bit character %q", bits[i]))
		}
	}
	if w.TryError == nil {
		w.TryError = w.Close()
	}
	if w.TryError != nil {
		panic(w.TryError) // cannot happen on a bytes.Buffer
	}
	return bb.Bytes()
}

// UnpackBits is the inverse of PackBits; n is the number of bits to recover.
func UnpackBits(p []byte, n int) (string, error) {
	if n > len(p)*8 {
		return "", fmt.Errorf("cannot unpack %d bits from %d bytes", n, len(p))
	}
	r := bitio.NewReader(bytes.NewReader(p))
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		if r.TryReadBool() {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	if r.TryError != nil {
		return "", r.TryError
	}
	return string(buf), nil
}
