package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyLookupRoundTrip(t *testing.T) {
	vocab, err := NewVocabulary([]string{"Entire home/apt", "Private room", "Shared room"})
	require.NoError(t, err)

	for i := 0; i < vocab.Len(); i++ {
		label, ok := vocab.Label(i)
		require.True(t, ok)
		idx, ok := vocab.Lookup(label)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestVocabularyRejectsDuplicates(t *testing.T) {
	_, err := NewVocabulary([]string{"Camden", "Camden"})
	assert.Error(t, err)
}

func TestVocabularyRejectsEmpty(t *testing.T) {
	_, err := NewVocabulary(nil)
	assert.Error(t, err)
}

func TestEncodeKnownValues(t *testing.T) {
	vocab, err := NewVocabulary([]string{"Westminster", "Camden", "Kensington"})
	require.NoError(t, err)

	enc := New(vocab, FallbackZeroIndex)
	assert.Equal(t, 0, enc.Encode("Westminster"))
	assert.Equal(t, 1, enc.Encode("Camden"))
	assert.Equal(t, 2, enc.Encode("Kensington"))
	assert.Equal(t, int64(0), enc.UnseenCount())
}

func TestEncodeUnseenFirstKnown(t *testing.T) {
	// Fitted order is not sorted; first-known resolves to the
	// lexicographically smallest label, which is Camden at index 1.
	vocab, err := NewVocabulary([]string{"Westminster", "Camden", "Kensington"})
	require.NoError(t, err)

	enc := New(vocab, FallbackFirstKnown)
	assert.Equal(t, 1, enc.FallbackIndex())
	assert.Equal(t, 1, enc.Encode("Atlantis"))
	assert.Equal(t, 1, enc.Encode("Atlantis"))
	assert.Equal(t, int64(2), enc.UnseenCount())
}

func TestEncodeUnseenZeroIndex(t *testing.T) {
	vocab, err := NewVocabulary([]string{"Westminster", "Camden"})
	require.NoError(t, err)

	enc := New(vocab, FallbackZeroIndex)
	assert.Equal(t, 0, enc.Encode("Atlantis"))
	assert.Equal(t, int64(1), enc.UnseenCount())
}

func TestEncodeUnseenInRange(t *testing.T) {
	vocab, err := NewVocabulary([]string{"Westminster", "Camden"})
	require.NoError(t, err)

	for _, strategy := range []Fallback{FallbackFirstKnown, FallbackZeroIndex} {
		enc := New(vocab, strategy)
		idx := enc.Encode("never seen during training")
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, vocab.Len())
	}
}

func TestEncodeAllMatchesSingle(t *testing.T) {
	vocab, err := NewVocabulary([]string{"Westminster", "Camden", "Kensington"})
	require.NoError(t, err)

	batch := New(vocab, FallbackFirstKnown)
	single := New(vocab, FallbackFirstKnown)

	values := []string{"Camden", "Atlantis", "Kensington", "Westminster", "Nowhere"}
	encoded := batch.EncodeAll(values)
	require.Len(t, encoded, len(values))
	for i, value := range values {
		assert.Equal(t, single.Encode(value), encoded[i])
	}
}

func TestParseFallback(t *testing.T) {
	fb, err := ParseFallback("first-known")
	require.NoError(t, err)
	assert.Equal(t, FallbackFirstKnown, fb)

	fb, err = ParseFallback("zero-index")
	require.NoError(t, err)
	assert.Equal(t, FallbackZeroIndex, fb)

	_, err = ParseFallback("random")
	assert.Error(t, err)
}
