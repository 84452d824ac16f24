package decoder

import "cmp"

// Result is the outcome of a single codeword decode attempt. Symbol is only
// meaningful when WasDecoded is true; Length is the number of bits consumed
// either way.
type Result[S cmp.Ordered] struct {
	WasDecoded bool
	Symbol     S
	Length     int
}
