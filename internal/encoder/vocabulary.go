package encoder

import "fmt"

// Vocabulary is an immutable mapping from category label to the integer
// index assigned at training time. Index equals the label's position in the
// fitted order.
type Vocabulary struct {
	labels []string
	index  map[string]int
}

// NewVocabulary builds a vocabulary from labels in fitted order.
func NewVocabulary(labels []string) (*Vocabulary, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("encoder: vocabulary must not be empty")
	}

	index := make(map[string]int, len(labels))
	stored := make([]string, len(labels))
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("encoder: vocabulary label %d is empty", i)
		}
		if _, dup := index[label]; dup {
			return nil, fmt.Errorf("encoder: duplicate vocabulary label %q", label)
		}
		index[label] = i
		stored[i] = label
	}

	return &Vocabulary{labels: stored, index: index}, nil
}

// Len returns the number of fitted labels.
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// Lookup returns the fitted index for a label.
func (v *Vocabulary) Lookup(label string) (int, bool) {
	idx, ok := v.index[label]
	return idx, ok
}

// Label returns the original label for a fitted index.
func (v *Vocabulary) Label(idx int) (string, bool) {
	if idx < 0 || idx >= len(v.labels) {
		return "", false
	}
	return v.labels[idx], true
}
