package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
)

var sample = []scored.Word{
	{Text: "elma", Score: 95},
	{Text: "özgürlük", Score: 80},
	{Text: "mikroskop", Score: 75},
	{Text: "kalem", Score: 90},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		min  int
		want []string
	}{
		{"default threshold", 90, []string{"elma", "kalem"}},
		{"inclusive lower", 80, []string{"elma", "özgürlük", "kalem"}},
		{"everything", 0, []string{"elma", "özgürlük", "mikroskop", "kalem"}},
		{"nothing", 101, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(sample, tt.min))
		})
	}
}

func TestFilterKeepsDuplicates(t *testing.T) {
	words := []scored.Word{{Text: "elma", Score: 95}, {Text: "kalem", Score: 10}, {Text: "elma", Score: 91}}
	assert.Equal(t, []string{"elma", "elma"}, Filter(words, 90))
	assert.Equal(t, 1, Duplicates(words))
}

func TestDedupeMax(t *testing.T) {
	words := []scored.Word{
		{Text: "elma", Score: 40},
		{Text: "kalem", Score: 90},
		{Text: "elma", Score: 95},
		{Text: "kalem", Score: 20},
	}
	assert.Equal(t, []scored.Word{{Text: "elma", Score: 95}, {Text: "kalem", Score: 90}}, DedupeMax(words))
	assert.Empty(t, DedupeMax(nil))
}

func TestSortTurkish(t *testing.T) {
	words := []string{"şeker", "zil", "çay", "ılık", "cam", "incir", "ördek", "okul", "sabah"}
	require.NoError(t, Sort(words, "tr"))
	assert.Equal(t, []string{"cam", "çay", "ılık", "incir", "okul", "ördek", "sabah", "şeker", "zil"}, words)
}

func TestSortBadLanguage(t *testing.T) {
	err := Sort([]string{"a"}, "not a tag!")
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}
