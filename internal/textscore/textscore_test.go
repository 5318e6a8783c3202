package textscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var referenceKeywords = []string{
	"luxury", "penthouse", "spectacular", "views", "concierge",
	"elegant", "stunning", "spacious", "private", "renovated",
	"designer", "terrace", "exclusive", "premium",
}

func TestScoreReferenceDescription(t *testing.T) {
	scorer := New(referenceKeywords)

	text := `Spectacular penthouse with stunning views of the city.
		Enjoy a private terrace and exclusive concierge service.
		Fully renovated with elegant design.`

	assert.Equal(t, 10, scorer.Score(text))
}

func TestScoreEmptyText(t *testing.T) {
	scorer := New(referenceKeywords)
	assert.Equal(t, 0, scorer.Score(""))
}

func TestScoreCaseInsensitive(t *testing.T) {
	scorer := New(referenceKeywords)
	assert.Equal(t, scorer.Score("LUXURY PENTHOUSE"), scorer.Score("luxury penthouse"))
}

func TestScoreCountsKeywordOnce(t *testing.T) {
	scorer := New(referenceKeywords)
	assert.Equal(t, 1, scorer.Score("luxury luxury luxury"))
}

func TestScoreSubstringNotTokenMatch(t *testing.T) {
	scorer := New(referenceKeywords)
	// "viewshed" still contains "views" as a substring.
	assert.Equal(t, 1, scorer.Score("the viewshed is wide"))
}

func TestScoreIsPure(t *testing.T) {
	scorer := New(referenceKeywords)
	text := "private terrace with premium views"
	first := scorer.Score(text)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, scorer.Score(text))
	}
}
