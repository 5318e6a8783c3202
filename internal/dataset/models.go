package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// Superhost sentinel values as they appear in the raw extracts.
const (
	SuperhostTrue  = "t"
	SuperhostFalse = "f"
)

// Record is one listing restricted to the canonical column set, tagged with
// the calendar date of the extract it came from. Price is always present;
// rows without a parseable price are dropped during ingestion.
type Record struct {
	ID                      string
	Name                    string
	Neighbourhood           string
	RoomType                string
	Price                   decimal.Decimal
	NumberOfReviews         int
	ReviewScoresRating      *float64
	Latitude                float64
	Longitude               float64
	Accommodates            int
	HostIsSuperhost         string
	ReviewScoresCleanliness *float64
	ReviewScoresLocation    *float64
	Availability365         int
	ReviewsPerMonth         *float64
	NumberOfReviewsLTM      *float64
	Description             string
	NeighborhoodOverview    string
	SnapshotDate            time.Time

	// Derived during the ETL run.
	LuxuryWordCount int
	IsSuperhost     int
	EngagementScore float64
}
