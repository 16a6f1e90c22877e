package memstore

import (
	"context"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
)

// Store accumulates scored words across batches in arrival order. It is
// owned by a single scoring run and is not safe for concurrent use.
type Store struct {
	words []scored.Word
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Append adds one batch's results after everything appended before.
func (s *Store) Append(words []scored.Word) {
	s.words = append(s.words, words...)
}

// AppendBatch implements store.Sink.
func (s *Store) AppendBatch(_ context.Context, _ batch.Batch, words []scored.Word) error {
	s.Append(words)
	return nil
}

// Close implements store.Sink.
func (s *Store) Close() error { return nil }

// All returns a copy of the accumulated words.
func (s *Store) All() []scored.Word {
	out := make([]scored.Word, len(s.words))
	copy(out, s.words)
	return out
}

// Len reports how many words have been accumulated.
func (s *Store) Len() int { return len(s.words) }
