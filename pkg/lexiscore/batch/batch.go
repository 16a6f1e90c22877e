package batch

import (
	"fmt"
	"iter"
	"slices"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

// DefaultSize bounds how many words go into a single request.
const DefaultSize = 100

// Batch is one bounded chunk of the word list.
type Batch struct {
	Index int // 1-based
	Total int
	Words []string
}

// Split partitions words into batches of at most size words, lazily and in
// order. The last batch may be shorter; an empty word list yields nothing.
func Split(words []string, size int) (iter.Seq[Batch], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", internalerr.ErrInvalidConfig, size)
	}
	total := Count(len(words), size)
	return func(yield func(Batch) bool) {
		idx := 0
		for chunk := range slices.Chunk(words, size) {
			idx++
			if !yield(Batch{Index: idx, Total: total, Words: chunk}) {
				return
			}
		}
	}, nil
}

// Count returns the number of batches Split produces for n words.
func Count(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
