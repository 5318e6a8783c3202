package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	upsertScoredListingSQL = `INSERT INTO scored_listings (
        listing_id,
        snapshot_date,
        neighbourhood,
        room_type,
        price,
        predicted_price,
        price_difference,
        opportunity_type,
        luxury_word_count,
        run_id
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
    )
    ON CONFLICT (listing_id, snapshot_date) DO UPDATE
    SET
        neighbourhood     = EXCLUDED.neighbourhood,
        room_type         = EXCLUDED.room_type,
        price             = EXCLUDED.price,
        predicted_price   = EXCLUDED.predicted_price,
        price_difference  = EXCLUDED.price_difference,
        opportunity_type  = EXCLUDED.opportunity_type,
        luxury_word_count = EXCLUDED.luxury_word_count,
        run_id            = EXCLUDED.run_id;`

	listRecentScoredSQL = `SELECT
        listing_id,
        snapshot_date,
        neighbourhood,
        room_type,
        price,
        predicted_price,
        price_difference,
        opportunity_type,
        luxury_word_count,
        run_id,
        created_at
    FROM scored_listings
    ORDER BY created_at DESC, listing_id
    LIMIT $1;`

	countScoredSQL = `SELECT COUNT(*) FROM scored_listings;`

	insertRunSQL = `INSERT INTO pipeline_runs (
        id,
        started_at,
        finished_at,
        snapshots_loaded,
        snapshots_failed,
        rows_scored,
        hidden_gems,
        overpriced,
        fair_priced,
        unseen_categories
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
    );`

	listRecentRunsSQL = `SELECT
        id,
        started_at,
        finished_at,
        snapshots_loaded,
        snapshots_failed,
        rows_scored,
        hidden_gems,
        overpriced,
        fair_priced,
        unseen_categories
    FROM pipeline_runs
    ORDER BY finished_at DESC
    LIMIT $1;`
)

// ScoredListingStore defines persistence for classified listings.
type ScoredListingStore interface {
	UpsertScoredListings(ctx context.Context, listings []ScoredListing) error
	ListRecentScored(ctx context.Context, limit int) ([]ScoredListing, error)
	CountScored(ctx context.Context) (int64, error)
}

// RunStore defines persistence for pipeline run audit rows.
type RunStore interface {
	InsertRun(ctx context.Context, run PipelineRun) error
	ListRecentRuns(ctx context.Context, limit int) ([]PipelineRun, error)
}

// Store aggregates access to scored listings and run history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// UpsertScoredListings persists or updates a batch of classified listings.
func (s *Store) UpsertScoredListings(ctx context.Context, listings []ScoredListing) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, l := range listings {
		batch.Queue(upsertScoredListingSQL,
			l.ListingID,
			l.SnapshotDate,
			l.Neighbourhood,
			l.RoomType,
			l.Price.String(),
			l.PredictedPrice.String(),
			l.PriceDifference.String(),
			l.OpportunityType,
			l.LuxuryWordCount,
			l.RunID,
		)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for range listings {
		if _, execErr := results.Exec(); execErr != nil {
			return fmt.Errorf("upsert scored listing: %w", execErr)
		}
	}
	return nil
}

// ListRecentScored lists the most recently persisted classified listings.
func (s *Store) ListRecentScored(ctx context.Context, limit int) ([]ScoredListing, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentScoredSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent scored: %w", queryErr)
	}
	defer rows.Close()

	listings := make([]ScoredListing, 0, limit)
	for rows.Next() {
		listing, scanErr := scanScoredListing(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		listings = append(listings, listing)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return listings, nil
}

// CountScored counts persisted classified listings.
func (s *Store) CountScored(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countScoredSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count scored listings: %w", scanErr)
	}
	return count, nil
}

// InsertRun persists one pipeline run audit row.
func (s *Store) InsertRun(ctx context.Context, run PipelineRun) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	if _, execErr := pool.Exec(ctx, insertRunSQL,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.SnapshotsLoaded,
		run.SnapshotsFailed,
		run.RowsScored,
		run.HiddenGems,
		run.Overpriced,
		run.FairPriced,
		run.UnseenCategories,
	); execErr != nil {
		return fmt.Errorf("insert pipeline run: %w", execErr)
	}
	return nil
}

// ListRecentRuns lists the most recent pipeline runs.
func (s *Store) ListRecentRuns(ctx context.Context, limit int) ([]PipelineRun, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentRunsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent runs: %w", queryErr)
	}
	defer rows.Close()

	runs := make([]PipelineRun, 0, limit)
	for rows.Next() {
		var run PipelineRun
		if err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.SnapshotsLoaded,
			&run.SnapshotsFailed,
			&run.RowsScored,
			&run.HiddenGems,
			&run.Overpriced,
			&run.FairPriced,
			&run.UnseenCategories,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return runs, nil
}

func scanScoredListing(rows pgx.Rows) (ScoredListing, error) {
	var (
		listing      ScoredListing
		priceStr     string
		predictedStr string
		gapStr       string
		runID        uuid.UUID
		snapshotDate time.Time
	)

	if err := rows.Scan(
		&listing.ListingID,
		&snapshotDate,
		&listing.Neighbourhood,
		&listing.RoomType,
		&priceStr,
		&predictedStr,
		&gapStr,
		&listing.OpportunityType,
		&listing.LuxuryWordCount,
		&runID,
		&listing.CreatedAt,
	); err != nil {
		return ScoredListing{}, err
	}

	var convErr error
	listing.Price, convErr = decimal.NewFromString(priceStr)
	if convErr != nil {
		return ScoredListing{}, fmt.Errorf("parse price: %w", convErr)
	}
	listing.PredictedPrice, convErr = decimal.NewFromString(predictedStr)
	if convErr != nil {
		return ScoredListing{}, fmt.Errorf("parse predicted price: %w", convErr)
	}
	listing.PriceDifference, convErr = decimal.NewFromString(gapStr)
	if convErr != nil {
		return ScoredListing{}, fmt.Errorf("parse price difference: %w", convErr)
	}

	listing.SnapshotDate = snapshotDate
	listing.RunID = runID
	return listing, nil
}

var (
	_ ScoredListingStore = (*Store)(nil)
	_ RunStore           = (*Store)(nil)
)
