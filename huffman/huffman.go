// Package huffman implements canonical Huffman coding over textual bit
// strings: tree construction from a frequency histogram, code generation,
// encoding and decoding, and reconstruction of a decoding tree from the
// codes alone.
package huffman

import (
	"cmp"
	"container/heap"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// ErrUnknownSymbol is returned by Encode when a symbol has no code.
	ErrUnknownSymbol = errors.New("symbol has no code")
	// ErrMalformed is returned by Decode when the bit string walks into a
	// null child of the decoding tree.
	ErrMalformed = errors.New("malformed codestream")
)

// Node is a node in the Huffman tree. Leaves carry a symbol and a frequency;
// internal nodes carry the sum of their children's frequencies. Trees built
// by BuildDecodingTree have zero frequencies throughout.
type Node[S cmp.Ordered] struct {
	Symbol    S
	Leaf      bool
	Frequency int
	Left      *Node[S]
	Right     *Node[S]
}

// Code maps symbols to their '0'/'1' codewords.
type Code[S cmp.Ordered] map[S]string

type heapEntry[S cmp.Ordered] struct {
	node *Node[S]
	seq  int // insertion order, breaks frequency ties
}

// priorityQueue implements a min-heap of tree nodes.
type priorityQueue[S cmp.Ordered] []heapEntry[S]

func (pq priorityQueue[S]) Len() int { return len(pq) }
func (pq priorityQueue[S]) Less(i, j int) bool {
	if pq[i].node.Frequency != pq[j].node.Frequency {
		return pq[i].node.Frequency < pq[j].node.Frequency
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue[S]) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue[S]) Push(x any) {
	*pq = append(*pq, x.(heapEntry[S]))
}

func (pq *priorityQueue[S]) Pop() any {
	n := len(*pq)
	item := (*pq)[n-1]
	*pq = (*pq)[:n-1]
	return item
}

// BuildTree builds a Huffman tree from a frequency histogram. It returns nil
// for an empty histogram and a solitary leaf for a single-entry histogram.
// A negative frequency will cause a panic.
func BuildTree[S cmp.Ordered](histogram map[S]int) *Node[S] {
	if len(histogram) == 0 {
		return nil
	}

	// Symbols are seeded in sorted order so identical inputs always
	// produce the same tree.
	symbols := maps.Keys(histogram)
	slices.Sort(symbols)

	if len(symbols) == 1 {
		if histogram[symbols[0]] < 0 {
			panic("negative frequency")
		}
		return &Node[S]{Symbol: symbols[0], Leaf: true, Frequency: histogram[symbols[0]]}
	}

	pq := make(priorityQueue[S], 0, len(symbols))
	seq := 0
	for _, s := range symbols {
		freq := histogram[s]
		if freq < 0 {
			panic("negative frequency")
		}
		pq = append(pq, heapEntry[S]{node: &Node[S]{Symbol: s, Leaf: true, Frequency: freq}, seq: seq})
		seq++
	}
	heap.Init(&pq)

	// Fuse the two smallest nodes until one remains.
	for pq.Len() > 1 {
		left := heap.Pop(&pq).(heapEntry[S])
		right := heap.Pop(&pq).(heapEntry[S])

		heap.Push(&pq, heapEntry[S]{
			node: &Node[S]{
				Frequency: left.node.Frequency + right.node.Frequency,
				Left:      left.node,
				Right:     right.node,
			},
			seq: seq,
		})
		seq++
	}

	return pq[0].node
}

// GenerateCodes emits the codeword for every leaf, '0' on a left descent and
// '1' on a right descent. A solitary leaf at the root gets the code "0".
func GenerateCodes[S cmp.Ordered](root *Node[S]) Code[S] {
	codes := make(Code[S])
	if root == nil {
		return codes
	}
	if root.Leaf {
		codes[root.Symbol] = "0"
		return codes
	}

	var traverse func(n *Node[S], prefix string)
	traverse = func(n *Node[S], prefix string) {
		if n == nil {
			return
		}
		if n.Leaf {
			codes[n.Symbol] = prefix
			return
		}
		traverse(n.Left, prefix+"0")
		traverse(n.Right, prefix+"1")
	}
	traverse(root, "")

	return codes
}

// Generate builds the tree and the codes in one step.
func Generate[S cmp.Ordered](histogram map[S]int) Code[S] {
	return GenerateCodes(BuildTree(histogram))
}

// Encode concatenates the codewords of data.
func Encode[S cmp.Ordered](data []S, codes Code[S]) (string, error) {
	var sb strings.Builder
	for _, s := range data {
		code, ok := codes[s]
		if !ok {
			return "", fmt.Errorf("%w: %v", ErrUnknownSymbol, s)
		}
		sb.WriteString(code)
	}
	return sb.String(), nil
}

// Decode walks the tree bit by bit, emitting a symbol and restarting at the
// root on every leaf. A single-symbol tree decodes every bit to that symbol.
func Decode[S cmp.Ordered](bits string, root *Node[S]) ([]S, error) {
	if len(bits) == 0 || root == nil {
		return nil, nil
	}

	if root.Leaf {
		out := make([]S, len(bits))
		for i := range out {
			out[i] = root.Symbol
		}
		return out, nil
	}

	var out []S
	cur := root
	for i := 0; i < len(bits); i++ {
		if bits[i] == '0' {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: no child at bit %d", ErrMalformed, i)
		}
		if cur.Leaf {
			out = append(out, cur.Symbol)
			cur = root
		}
	}
	return out, nil
}

// BuildDecodingTree reconstructs a decoding tree from the codes alone. The
// frequency fields of the result are zero; downstream code must not rely on
// them.
func BuildDecodingTree[S cmp.Ordered](codes Code[S]) *Node[S] {
	if len(codes) == 0 {
		return nil
	}

	root := &Node[S]{}
	for symbol, code := range codes {
		cur := root
		for i := 0; i < len(code); i++ {
			if code[i] == '0' {
				if cur.Left == nil {
					cur.Left = &Node[S]{}
				}
				cur = cur.Left
			} else {
				if cur.Right == nil {
					cur.Right = &Node[S]{}
				}
				cur = cur.Right
			}
		}
		cur.Symbol = symbol
		cur.Leaf = true
	}

	return root
}

// BitLengths returns the codeword bit-length of every symbol in data, the
// symbol-to-length map, and the longest length encountered. Symbols without
// a code contribute length 0.
func BitLengths[S cmp.Ordered](data []S, codes Code[S]) ([]int, map[S]int, int) {
	lengthMap := make(map[S]int)
	if len(data) == 0 || len(codes) == 0 {
		return nil, lengthMap, 0
	}

	maxLen := 0
	for _, s := range data {
		if code, ok := codes[s]; ok {
			lengthMap[s] = len(code)
			if len(code) > maxLen {
				maxLen = len(code)
			}
		}
	}

	lengths := make([]int, len(data))
	for i, s := range data {
		lengths[i] = lengthMap[s]
	}
	return lengths, lengthMap, maxLen
}

// CompressionRatio is (len(original)*charSize) / len(encodedBits). It is 0
// when either side is empty.
func CompressionRatio[S cmp.Ordered](original []S, encodedBits string, charSize int) float64 {
	if len(original) == 0 || len(encodedBits) == 0 {
		return 0
	}
	return float64(len(original)*charSize) / float64(len(encodedBits))
}
