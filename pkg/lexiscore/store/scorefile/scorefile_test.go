package scorefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
)

var sample = []scored.Word{
	{Text: "elma", Score: 95},
	{Text: "özgürlük", Score: 80},
	{Text: "top:oyunu", Score: 75},
	{Text: "kalem", Score: 90},
	{Text: "elma", Score: 12},
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Write(path, sample))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestWriteFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale:1\nstale:2\nstale:3\n"), 0644))
	require.NoError(t, Write(path, sample[:2]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "elma:95\nözgürlük:80\n", string(data))
}

func TestReadMalformedScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	require.NoError(t, os.WriteFile(path, []byte("kalem:90\nelma:abc\n"), 0644))

	_, err := Read(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, internalerr.ErrMalformedScoreFile)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadMalformedNoColon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	require.NoError(t, os.WriteFile(path, []byte("kalem\n"), 0644))

	_, err := Read(path)
	assert.ErrorIs(t, err, internalerr.ErrMalformedScoreFile)
}

func TestReadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	require.NoError(t, os.WriteFile(path, []byte("\nelma:95\n\n  \nkalem:90\n"), 0644))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []scored.Word{{Text: "elma", Score: 95}, {Text: "kalem", Score: 90}}, got)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, internalerr.ErrIO)
}

func TestAppenderTruncatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous:1\n"), 0644))

	a, err := OpenAppender(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, a.AppendBatch(ctx, batch.Batch{Index: 1}, sample[:2]))
	// Visible on disk before the run finishes.
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, sample[:2], got)

	require.NoError(t, a.AppendBatch(ctx, batch.Batch{Index: 2}, nil))
	require.NoError(t, a.AppendBatch(ctx, batch.Batch{Index: 3}, sample[2:]))
	require.NoError(t, a.Close())

	got, err = Read(path)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
	assert.Equal(t, path, a.Path())
}

func TestOpenAppenderUnwritable(t *testing.T) {
	_, err := OpenAppender(filepath.Join(t.TempDir(), "no", "such", "dir.txt"))
	assert.ErrorIs(t, err, internalerr.ErrIO)
}
