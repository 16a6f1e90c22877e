// Package parse turns "word:score" lines into scored words.
//
// Lines are split on the last colon so words that themselves contain a colon
// survive ("top:oyunu:80" is the word "top:oyunu" scored 80).
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
)

var (
	errNoColon   = errors.New("missing ':' separator")
	errEmptyWord = errors.New("empty word")
)

// Result holds what could be extracted from one model response.
type Result struct {
	Scores   []scored.Word
	Rejected []string
}

// Response extracts every parseable line from raw model output. Malformed
// lines land in Rejected; they never fail the batch.
func Response(text string) Result {
	var res Result
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w, err := Line(line)
		if err != nil {
			res.Rejected = append(res.Rejected, line)
			continue
		}
		res.Scores = append(res.Scores, w)
	}
	return res
}

// Line parses a single "word:score" line.
func Line(line string) (scored.Word, error) {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return scored.Word{}, errNoColon
	}
	word := strings.TrimSpace(line[:idx])
	if word == "" {
		return scored.Word{}, errEmptyWord
	}
	score, err := strconv.Atoi(strings.TrimSpace(line[idx+1:]))
	if err != nil {
		return scored.Word{}, fmt.Errorf("score %q: %w", strings.TrimSpace(line[idx+1:]), err)
	}
	return scored.Word{Text: word, Score: score}, nil
}
