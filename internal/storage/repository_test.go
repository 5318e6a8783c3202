package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreWithoutPool(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	err := store.UpsertScoredListings(ctx, []ScoredListing{{ListingID: "1"}})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = store.ListRecentScored(ctx, 10)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = store.CountScored(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = store.InsertRun(ctx, PipelineRun{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = store.ListRecentRuns(ctx, 10)
	assert.ErrorIs(t, err, ErrNotConfigured)

	// Close on an unconfigured store is a no-op.
	store.Close()
}
