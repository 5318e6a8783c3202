package encoder

import (
	"fmt"
	"sync/atomic"
)

// Fallback selects how values absent from the vocabulary are resolved.
type Fallback int

const (
	// FallbackFirstKnown maps unseen values to the index of the
	// lexicographically smallest fitted label.
	FallbackFirstKnown Fallback = iota
	// FallbackZeroIndex maps unseen values to index 0 regardless of which
	// label holds that index.
	FallbackZeroIndex
)

// ParseFallback resolves a fallback strategy name.
func ParseFallback(name string) (Fallback, error) {
	switch name {
	case "first-known":
		return FallbackFirstKnown, nil
	case "zero-index":
		return FallbackZeroIndex, nil
	default:
		return 0, fmt.Errorf("encoder: unknown fallback strategy %q", name)
	}
}

// Encoder resolves raw category values to fitted integer indices. Unseen
// values never fail; they resolve to a deterministic fallback index and are
// counted for data-quality monitoring. Safe for concurrent use since the
// vocabulary is immutable.
type Encoder struct {
	vocab    *Vocabulary
	fallback int
	unseen   atomic.Int64
}

// New builds an encoder over a fitted vocabulary with the given strategy.
func New(vocab *Vocabulary, strategy Fallback) *Encoder {
	fallback := 0
	if strategy == FallbackFirstKnown {
		first := vocab.labels[0]
		for _, label := range vocab.labels[1:] {
			if label < first {
				first = label
			}
		}
		fallback = vocab.index[first]
	}
	return &Encoder{vocab: vocab, fallback: fallback}
}

// Encode resolves a single value. This is the online-path entry point and
// applies exactly the resolution logic of EncodeAll.
func (e *Encoder) Encode(value string) int {
	if idx, ok := e.vocab.Lookup(value); ok {
		return idx
	}
	e.unseen.Add(1)
	return e.fallback
}

// EncodeAll resolves a column of values.
func (e *Encoder) EncodeAll(values []string) []int {
	out := make([]int, len(values))
	for i, value := range values {
		out[i] = e.Encode(value)
	}
	return out
}

// FallbackIndex exposes the index unseen values resolve to.
func (e *Encoder) FallbackIndex() int {
	return e.fallback
}

// UnseenCount reports how many unseen values were encountered so far.
func (e *Encoder) UnseenCount() int64 {
	return e.unseen.Load()
}

// Vocabulary returns the fitted vocabulary backing this encoder.
func (e *Encoder) Vocabulary() *Vocabulary {
	return e.vocab
}
