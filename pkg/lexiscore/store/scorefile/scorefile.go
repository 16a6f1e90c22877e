// Package scorefile reads and writes the flat "word:score" scores file.
package scorefile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/parse"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
)

// DefaultPath is the conventional scores file name.
const DefaultPath = "all_words_scores.txt"

// Write overwrites path with one "word:score" line per entry, in order.
func Write(path string, words []scored.Word) error {
	if path == "" {
		return fmt.Errorf("%w: scores file path required", internalerr.ErrInvalidConfig)
	}
	if err := os.WriteFile(path, []byte(format(words)), 0644); err != nil {
		return fmt.Errorf("%w: write scores: %w", internalerr.ErrIO, err)
	}
	return nil
}

// Read parses a scores file written by Write or Appender. Blank lines are
// ignored; any other line that does not parse is ErrMalformedScoreFile.
func Read(path string) ([]scored.Word, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: scores file path required", internalerr.ErrInvalidConfig)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open scores: %w", internalerr.ErrIO, err)
	}
	defer f.Close()

	var words []scored.Word
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, err := parse.Line(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d %q: %v", internalerr.ErrMalformedScoreFile, path, lineNo, line, err)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read scores: %w", internalerr.ErrIO, err)
	}
	return words, nil
}

// Appender persists each batch as soon as it completes, so an interrupted
// run keeps every batch finished before the interruption.
type Appender struct {
	path string
	f    *os.File
}

// OpenAppender truncates path and returns a sink that appends to it.
func OpenAppender(path string) (*Appender, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: scores file path required", internalerr.ErrInvalidConfig)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open scores: %w", internalerr.ErrIO, err)
	}
	return &Appender{path: path, f: f}, nil
}

// AppendBatch implements store.Sink.
func (a *Appender) AppendBatch(_ context.Context, _ batch.Batch, words []scored.Word) error {
	if len(words) == 0 {
		return nil
	}
	if _, err := a.f.WriteString(format(words)); err != nil {
		return fmt.Errorf("%w: append scores to %s: %w", internalerr.ErrIO, a.path, err)
	}
	if err := a.f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", internalerr.ErrIO, a.path, err)
	}
	return nil
}

// Close implements store.Sink.
func (a *Appender) Close() error {
	return a.f.Close()
}

// Path returns the file being written.
func (a *Appender) Path() string { return a.path }

func format(words []scored.Word) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w.String())
		b.WriteByte('\n')
	}
	return b.String()
}
