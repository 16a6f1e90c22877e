package scored

import "strconv"

// Word is a word paired with the score the model assigned to it.
type Word struct {
	Text  string
	Score int
}

// String renders the word in the persisted "word:score" form.
func (w Word) String() string {
	return w.Text + ":" + strconv.Itoa(w.Score)
}

// Texts strips the scores, keeping order.
func Texts(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}
