// Package threshold selects words whose score meets a minimum.
//
// Filter does not deduplicate: a scores file merged from several runs may
// hold the same word more than once, and each occurrence is tested on its
// own. DedupeMax is available for callers that want one entry per word.
package threshold

import (
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
)

// DefaultMinScore is the default inclusive threshold.
const DefaultMinScore = 90

// Filter returns, in input order, the words scoring at least min.
func Filter(words []scored.Word, min int) []string {
	return lo.FilterMap(words, func(w scored.Word, _ int) (string, bool) {
		return w.Text, w.Score >= min
	})
}

// DedupeMax collapses repeated words to their highest score, keeping the
// position of the first occurrence.
func DedupeMax(words []scored.Word) []scored.Word {
	best := make(map[string]int, len(words))
	for _, w := range words {
		if s, ok := best[w.Text]; !ok || w.Score > s {
			best[w.Text] = w.Score
		}
	}
	return lo.Map(lo.UniqBy(words, func(w scored.Word) string { return w.Text }), func(w scored.Word, _ int) scored.Word {
		return scored.Word{Text: w.Text, Score: best[w.Text]}
	})
}

// Duplicates counts entries whose word already appeared earlier.
func Duplicates(words []scored.Word) int {
	return len(words) - len(lo.UniqBy(words, func(w scored.Word) string { return w.Text }))
}

// Sort orders words in place by the collation rules of lang, a BCP 47 tag
// such as "tr".
func Sort(words []string, lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("%w: collation language %q: %w", internalerr.ErrInvalidConfig, lang, err)
	}
	collate.New(tag).SortStrings(words)
	return nil
}
