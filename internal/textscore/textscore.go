package textscore

import "strings"

// Scorer counts luxury keyword occurrences in free text. The keyword list is
// a fitted artifact owned by the trainer; the scorer never mutates it.
type Scorer struct {
	keywords []string
}

// New constructs a Scorer over the given keyword vocabulary.
func New(keywords []string) *Scorer {
	kws := make([]string, len(keywords))
	copy(kws, keywords)
	return &Scorer{keywords: kws}
}

// Score returns how many keywords occur as substrings of the lower-cased
// text. Each keyword counts at most once regardless of repetition. Empty
// text scores zero.
func (s *Scorer) Score(text string) int {
	if text == "" {
		return 0
	}
	lowered := strings.ToLower(text)
	count := 0
	for _, kw := range s.keywords {
		if strings.Contains(lowered, kw) {
			count++
		}
	}
	return count
}

// Keywords returns a copy of the fitted keyword list.
func (s *Scorer) Keywords() []string {
	kws := make([]string, len(s.keywords))
	copy(kws, s.keywords)
	return kws
}
