package prompt

import (
	"strings"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
)

// Request is the payload for scoring one batch. Prompt is identical across
// batches so collaborators may mark it cacheable; Words changes per batch.
type Request struct {
	Prompt string
	Words  string
	Batch  batch.Batch
}

// Build joins the batch's words with newlines. Words are not escaped: a word
// containing ':' or a newline will confuse the response format.
func Build(prompt string, b batch.Batch) Request {
	return Request{
		Prompt: prompt,
		Words:  strings.Join(b.Words, "\n"),
		Batch:  b,
	}
}

// Text is the single-string form: the prompt followed by the words.
func (r Request) Text() string {
	if r.Prompt == "" {
		return r.Words
	}
	return r.Prompt + "\n" + r.Words
}
