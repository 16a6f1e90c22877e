package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
)

// Read loads a newline-delimited word list. Lines are trimmed and blank
// lines are dropped; order is preserved.
func Read(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: word list path required", internalerr.ErrInvalidConfig)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open word list: %w", internalerr.ErrIO, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read word list: %w", internalerr.ErrIO, err)
	}
	return words, nil
}

// ReadPrompt loads the scoring prompt with surrounding whitespace removed.
func ReadPrompt(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: prompt path required", internalerr.ErrInvalidConfig)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read prompt: %w", internalerr.ErrIO, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteLines overwrites path with one line per entry.
func WriteLines(path string, lines []string) error {
	if path == "" {
		return fmt.Errorf("%w: output path required", internalerr.ErrInvalidConfig)
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", internalerr.ErrIO, path, err)
	}
	return nil
}
