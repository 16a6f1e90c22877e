package batch

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

func collect(t *testing.T, words []string, size int) []Batch {
	t.Helper()
	seq, err := Split(words, size)
	require.NoError(t, err)
	var out []Batch
	for b := range seq {
		out = append(out, b)
	}
	return out
}

func TestSplitRecoversInput(t *testing.T) {
	faker := gofakeit.New(42)
	for round := 0; round < 50; round++ {
		n := faker.IntRange(0, 250)
		size := faker.IntRange(1, 40)
		words := make([]string, n)
		for i := range words {
			words[i] = faker.Noun()
		}

		batches := collect(t, words, size)
		assert.Len(t, batches, Count(n, size))

		var joined []string
		for i, b := range batches {
			assert.Equal(t, i+1, b.Index)
			assert.Equal(t, len(batches), b.Total)
			require.NotEmpty(t, b.Words)
			assert.LessOrEqual(t, len(b.Words), size)
			if i < len(batches)-1 {
				assert.Len(t, b.Words, size)
			}
			joined = append(joined, b.Words...)
		}
		if n == 0 {
			assert.Empty(t, joined)
			continue
		}
		assert.Equal(t, words, joined)
	}
}

func TestSplitEmptyYieldsNoBatches(t *testing.T) {
	assert.Empty(t, collect(t, nil, 10))
	assert.Empty(t, collect(t, []string{}, 1))
}

func TestSplitShortTail(t *testing.T) {
	batches := collect(t, []string{"a", "b", "c", "d", "e"}, 2)
	require.Len(t, batches, 3)
	assert.Equal(t, []string{"a", "b"}, batches[0].Words)
	assert.Equal(t, []string{"c", "d"}, batches[1].Words)
	assert.Equal(t, []string{"e"}, batches[2].Words)
}

func TestSplitRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		_, err := Split([]string{"a"}, size)
		assert.ErrorIs(t, err, internalerr.ErrInvalidConfig, "size %d", size)
	}
}

func TestSplitStopsEarly(t *testing.T) {
	seq, err := Split([]string{"a", "b", "c", "d"}, 1)
	require.NoError(t, err)
	seen := 0
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(0, 100))
	assert.Equal(t, 1, Count(1, 100))
	assert.Equal(t, 1, Count(100, 100))
	assert.Equal(t, 2, Count(101, 100))
	assert.Equal(t, 0, Count(10, 0))
}
