package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScoredListing is one classified listing persisted for auditing and the
// show/export commands. Keyed on (listing_id, snapshot_date).
type ScoredListing struct {
	ListingID       string
	SnapshotDate    time.Time
	Neighbourhood   string
	RoomType        string
	Price           decimal.Decimal
	PredictedPrice  decimal.Decimal
	PriceDifference decimal.Decimal
	OpportunityType string
	LuxuryWordCount int
	RunID           uuid.UUID
	CreatedAt       time.Time
}

// PipelineRun records one end-to-end scoring run for data-quality history.
type PipelineRun struct {
	ID               uuid.UUID
	StartedAt        time.Time
	FinishedAt       time.Time
	SnapshotsLoaded  int
	SnapshotsFailed  int
	RowsScored       int
	HiddenGems       int
	Overpriced       int
	FairPriced       int
	UnseenCategories int64
}
