package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/deividalexander/investment-opportunity-engine/internal/artifacts"
	"github.com/deividalexander/investment-opportunity-engine/internal/dataset"
	"github.com/deividalexander/investment-opportunity-engine/internal/ingest"
	"github.com/deividalexander/investment-opportunity-engine/internal/textscore"
)

// ETLStats summarises one ETL pass for run auditing.
type ETLStats struct {
	SnapshotsLoaded int
	SnapshotsFailed int
	Rows            int
	RowsDropped     int
}

// ETL ingests all configured snapshots, merges them, derives the text
// features, imputes nulls, and writes the normalized intermediate artifact.
func (a *App) ETL(ctx context.Context, opts ETLOptions) ([]dataset.Record, ETLStats, error) {
	records, stats, err := a.buildDataset(ctx)
	if err != nil {
		return nil, stats, err
	}

	silverPath := opts.SilverPath
	if silverPath == "" {
		silverPath = a.Config.Pipeline.SilverPath
	}

	if err := dataset.WriteSilver(silverPath, records); err != nil {
		return nil, stats, err
	}

	a.Logger.Info().
		Str("path", silverPath).
		Int("rows", len(records)).
		Int("snapshots_loaded", stats.SnapshotsLoaded).
		Int("snapshots_failed", stats.SnapshotsFailed).
		Msg("normalized dataset written")

	return records, stats, nil
}

func (a *App) buildDataset(ctx context.Context) ([]dataset.Record, ETLStats, error) {
	stats := ETLStats{}

	keywords, err := artifacts.LoadKeywords(a.artifactPaths())
	if err != nil {
		return nil, stats, err
	}

	sources, err := a.snapshotSources()
	if err != nil {
		return nil, stats, err
	}
	if len(sources) == 0 {
		return nil, stats, fmt.Errorf("no snapshots configured")
	}

	loader := ingest.NewLoader(a.Config.Pipeline.CanonicalCols, os.Stdout, a.Logger)
	results := loader.LoadAll(sources, a.Config.Pipeline.ParallelLoaders)

	select {
	case <-ctx.Done():
		return nil, stats, ctx.Err()
	default:
	}

	parts := make([][]dataset.Record, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			stats.SnapshotsFailed++
			continue
		}
		stats.SnapshotsLoaded++
		stats.RowsDropped += res.Dropped
		parts = append(parts, res.Records)
	}

	unified, err := dataset.Merge(parts)
	if err != nil {
		return nil, stats, fmt.Errorf("merge snapshots: %w", err)
	}
	stats.Rows = len(unified)

	dataset.ScoreText(unified, textscore.New(keywords))

	if err := dataset.Impute(unified, a.Config.Pipeline.ZeroFillCols, a.Config.Pipeline.MeanFillCols); err != nil {
		return nil, stats, err
	}
	dataset.DeriveMetrics(unified)

	a.renderQualityReport(unified)

	return unified, stats, nil
}

// renderQualityReport prints remaining null counts for the model-required
// columns of the merged dataset.
func (a *App) renderQualityReport(records []dataset.Record) {
	nullable := []struct {
		name  string
		value func(*dataset.Record) *float64
	}{
		{"review_scores_rating", func(r *dataset.Record) *float64 { return r.ReviewScoresRating }},
		{"review_scores_cleanliness", func(r *dataset.Record) *float64 { return r.ReviewScoresCleanliness }},
		{"review_scores_location", func(r *dataset.Record) *float64 { return r.ReviewScoresLocation }},
		{"reviews_per_month", func(r *dataset.Record) *float64 { return r.ReviewsPerMonth }},
		{"number_of_reviews_ltm", func(r *dataset.Record) *float64 { return r.NumberOfReviewsLTM }},
	}

	fmt.Fprintf(os.Stdout, "data quality (%d combined rows):\n", len(records))
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "COLUMN\tNON-NULL\tNULLS")
	for _, col := range nullable {
		nulls := 0
		for i := range records {
			if col.value(&records[i]) == nil {
				nulls++
			}
		}
		fmt.Fprintf(writer, "%s\t%d\t%d\n", col.name, len(records)-nulls, nulls)
	}
	writer.Flush()
}
