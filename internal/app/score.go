package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deividalexander/investment-opportunity-engine/internal/alerting"
	"github.com/deividalexander/investment-opportunity-engine/internal/artifacts"
	"github.com/deividalexander/investment-opportunity-engine/internal/dataset"
	"github.com/deividalexander/investment-opportunity-engine/internal/scoring"
	"github.com/deividalexander/investment-opportunity-engine/internal/storage"
)

// Score loads the normalized dataset from disk and runs the scoring stage.
func (a *App) Score(ctx context.Context, opts ScoreOptions) error {
	silverPath := opts.SilverPath
	if silverPath == "" {
		silverPath = a.Config.Pipeline.SilverPath
	}

	records, err := dataset.ReadSilver(silverPath)
	if err != nil {
		return err
	}

	return a.scoreRecords(ctx, records, ETLStats{Rows: len(records)}, opts)
}

// scoreRecords classifies an in-memory dataset, writes the gold artifact,
// and persists/announces the run where configured. Artifacts are loaded
// before any output is produced so a missing artifact aborts cleanly.
func (a *App) scoreRecords(ctx context.Context, records []dataset.Record, stats ETLStats, opts ScoreOptions) error {
	startedAt := time.Now().UTC()
	runID := uuid.New()
	logger := a.Logger.With().Str("run_id", runID.String()).Logger()

	bundle, err := artifacts.Load(a.artifactPaths())
	if err != nil {
		return err
	}

	scorer, err := a.newScorer(bundle)
	if err != nil {
		return err
	}

	scored, err := scorer.ScoreDataset(records)
	if err != nil {
		return err
	}

	goldPath := opts.GoldPath
	if goldPath == "" {
		goldPath = a.Config.Pipeline.GoldPath
	}
	if err := writeGold(goldPath, scored); err != nil {
		return err
	}

	run := storage.PipelineRun{
		ID:               runID,
		StartedAt:        startedAt,
		FinishedAt:       time.Now().UTC(),
		SnapshotsLoaded:  stats.SnapshotsLoaded,
		SnapshotsFailed:  stats.SnapshotsFailed,
		RowsScored:       len(scored),
		UnseenCategories: scorer.UnseenCategories(),
	}
	for i := range scored {
		switch scored[i].OpportunityType {
		case scoring.OpportunityHiddenGem:
			run.HiddenGems++
		case scoring.OpportunityOverpriced:
			run.Overpriced++
		default:
			run.FairPriced++
		}
	}

	if err := a.persistRun(ctx, run, scored, logger); err != nil {
		return err
	}

	if notifier := a.newNotifier(); notifier != nil {
		summary := alerting.RunSummary{
			RunID:            run.ID,
			FinishedAt:       run.FinishedAt,
			SnapshotsLoaded:  run.SnapshotsLoaded,
			SnapshotsFailed:  run.SnapshotsFailed,
			RowsScored:       run.RowsScored,
			HiddenGems:       run.HiddenGems,
			Overpriced:       run.Overpriced,
			FairPriced:       run.FairPriced,
			UnseenCategories: run.UnseenCategories,
		}
		if err := notifier.Notify(ctx, summary); err != nil {
			logger.Error().Err(err).Msg("failed to send run summary")
		}
	}

	logger.Info().
		Str("path", goldPath).
		Int("rows", run.RowsScored).
		Int("hidden_gems", run.HiddenGems).
		Int("overpriced", run.Overpriced).
		Int("fair_priced", run.FairPriced).
		Int64("unseen_categories", run.UnseenCategories).
		Msg("classified dataset written")

	return nil
}

// persistRun stores the classified rows and the run audit row when a
// database is configured. Persistence failures are logged, not fatal; the
// file artifact is already on disk.
func (a *App) persistRun(ctx context.Context, run storage.PipelineRun, scored []scoring.ScoredRecord, logger zerolog.Logger) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	if closeStore != nil {
		defer closeStore()
	}

	rows := make([]storage.ScoredListing, 0, len(scored))
	for i := range scored {
		rec := &scored[i]
		rows = append(rows, storage.ScoredListing{
			ListingID:       rec.ID,
			SnapshotDate:    rec.SnapshotDate,
			Neighbourhood:   rec.Neighbourhood,
			RoomType:        rec.RoomType,
			Price:           rec.Price,
			PredictedPrice:  rec.PredictedPrice,
			PriceDifference: rec.PriceDifference,
			OpportunityType: rec.OpportunityType,
			LuxuryWordCount: rec.LuxuryWordCount,
			RunID:           run.ID,
		})
	}

	if err := store.UpsertScoredListings(ctx, rows); err != nil {
		logger.Error().Err(err).Msg("failed to persist scored listings")
	}
	if err := store.InsertRun(ctx, run); err != nil {
		logger.Error().Err(err).Msg("failed to persist run audit row")
	}
	return nil
}

// writeGold persists the final classified output artifact.
func writeGold(path string, scored []scoring.ScoredRecord) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append(dataset.SilverColumns(), "predicted_price", "price_difference", "opportunity_type")
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := range scored {
		rec := &scored[i]
		row := append(dataset.SilverRow(&rec.Record),
			rec.PredictedPrice.StringFixed(2),
			rec.PriceDifference.StringFixed(2),
			rec.OpportunityType,
		)
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}
