package app

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deividalexander/investment-opportunity-engine/internal/artifacts"
	"github.com/deividalexander/investment-opportunity-engine/internal/config"
	"github.com/deividalexander/investment-opportunity-engine/internal/dataset"
	"github.com/deividalexander/investment-opportunity-engine/internal/scoring"
)

// The model weights put all mass on accommodates, so a listing that sleeps
// four predicts 4 * 50 = 200 regardless of the other features.
const testModel = `{
	"version": "test",
	"intercept": 0,
	"features": [
		"accommodates", "room_type", "number_of_reviews_ltm",
		"review_scores_rating", "review_scores_cleanliness",
		"review_scores_location", "luxury_word_count", "is_superhost",
		"neighbourhood_cleansed"
	],
	"weights": [50, 0, 0, 0, 0, 0, 0, 0, 0]
}`

const testSnapshot = `id,name,neighbourhood_cleansed,room_type,price,accommodates,number_of_reviews,review_scores_rating,review_scores_cleanliness,review_scores_location,reviews_per_month,number_of_reviews_ltm,host_is_superhost,latitude,longitude,availability_365,description,neighborhood_overview
1,Gem,Camden,Entire home/apt,"$100.00",4,12,4.8,4.9,4.7,1.1,8,t,51.5,-0.14,100,luxury penthouse with terrace,quiet
2,Costly,Camden,Entire home/apt,260,4,5,4.1,4.0,4.2,0.5,3,f,51.51,-0.13,200,plain flat,busy
3,Fair,Hackney,Private room,180,4,0,,,,,,,51.54,-0.05,0,simple room,
4,NoPrice,Hackney,Private room,,2,0,,,,,,,51.55,-0.06,0,unused,
`

func writeTestArtifacts(t *testing.T) config.ArtifactsConfig {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"model.json":          testModel,
		"room_types.json":     `["Entire home/apt","Private room","Shared room"]`,
		"neighbourhoods.json": `["Camden","Hackney"]`,
		"keywords.json":       `["luxury","penthouse","terrace"]`,
	}
	for name, payload := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(payload), 0o644))
	}

	return config.ArtifactsConfig{
		Dir:               dir,
		ModelFile:         "model.json",
		RoomTypeFile:      "room_types.json",
		NeighbourhoodFile: "neighbourhoods.json",
		KeywordsFile:      "keywords.json",
	}
}

func newTestApp(t *testing.T, snapshots []config.SnapshotSource) (*App, string, string) {
	t.Helper()
	dir := t.TempDir()
	silver := filepath.Join(dir, "silver.csv")
	gold := filepath.Join(dir, "gold.csv")

	cfg := &config.Config{
		Pipeline: config.PipelineConfig{
			Snapshots:       snapshots,
			CanonicalCols:   config.DefaultCanonicalColumns(),
			ZeroFillCols:    []string{"reviews_per_month", "number_of_reviews_ltm"},
			MeanFillCols:    []string{"review_scores_rating", "review_scores_cleanliness", "review_scores_location"},
			SilverPath:      silver,
			GoldPath:        gold,
			ParallelLoaders: 2,
		},
		Artifacts: writeTestArtifacts(t),
		Scoring: config.ScoringConfig{
			GapThreshold:     50,
			FallbackStrategy: config.FallbackFirstKnown,
		},
	}

	return NewApp(cfg, zerolog.Nop()), silver, gold
}

func readCSV(t *testing.T, path string) (map[string]int, [][]string) {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}
	return cols, rows[1:]
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "2025-06-01.csv")
	require.NoError(t, os.WriteFile(snapshotPath, []byte(testSnapshot), 0o644))

	snapshots := []config.SnapshotSource{
		{Path: snapshotPath, Date: "2025-06-01", Policy: config.PolicyDirectRestrict},
		{Path: filepath.Join(dir, "2025-03-01.csv"), Date: "2025-03-01"},
	}

	a, silver, gold := newTestApp(t, snapshots)
	ctx := context.Background()

	records, stats, err := a.ETL(ctx, ETLOptions{})
	require.NoError(t, err)

	// One snapshot is missing and gets skipped; one row has no price.
	assert.Equal(t, 1, stats.SnapshotsLoaded)
	assert.Equal(t, 1, stats.SnapshotsFailed)
	assert.Equal(t, 1, stats.RowsDropped)
	require.Len(t, records, 3)

	// Row 3 arrived with null ratings; the mean fill must close them.
	require.NotNil(t, records[2].ReviewScoresRating)
	assert.InDelta(t, (4.8+4.1)/2, *records[2].ReviewScoresRating, 1e-9)
	assert.Equal(t, dataset.SuperhostFalse, records[2].HostIsSuperhost)
	assert.Equal(t, 3, records[0].LuxuryWordCount)
	assert.Equal(t, 1, records[0].IsSuperhost)

	_, err = os.Stat(silver)
	require.NoError(t, err)

	require.NoError(t, a.Score(ctx, ScoreOptions{}))

	cols, rows := readCSV(t, gold)
	require.Len(t, rows, 3)

	byID := make(map[string][]string, len(rows))
	for _, row := range rows {
		byID[row[cols["id"]]] = row
	}

	// Predicted 200 for every row: 100 asking is a gem, 260 is overpriced,
	// 180 sits inside the fair interval.
	assert.Equal(t, "200.00", byID["1"][cols["predicted_price"]])
	assert.Equal(t, "Hidden Gem", byID["1"][cols["opportunity_type"]])
	assert.Equal(t, "100.00", byID["1"][cols["price_difference"]])

	assert.Equal(t, "Overpriced", byID["2"][cols["opportunity_type"]])
	assert.Equal(t, "-60.00", byID["2"][cols["price_difference"]])

	assert.Equal(t, "Fair Price", byID["3"][cols["opportunity_type"]])
}

func TestRunOnce(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "2025-06-01.csv")
	require.NoError(t, os.WriteFile(snapshotPath, []byte(testSnapshot), 0o644))

	a, silver, gold := newTestApp(t, []config.SnapshotSource{
		{Path: snapshotPath, Date: "2025-06-01"},
	})

	require.NoError(t, a.Run(context.Background(), RunOptions{}))

	for _, path := range []string{silver, gold} {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestETLAllSnapshotsMissing(t *testing.T) {
	dir := t.TempDir()
	snapshots := []config.SnapshotSource{
		{Path: filepath.Join(dir, "a.csv"), Date: "2025-03-01"},
		{Path: filepath.Join(dir, "b.csv"), Date: "2025-06-01"},
	}

	a, silver, _ := newTestApp(t, snapshots)

	_, stats, err := a.ETL(context.Background(), ETLOptions{})
	require.ErrorIs(t, err, dataset.ErrNoData)
	assert.Equal(t, 2, stats.SnapshotsFailed)

	// Nothing gets written when the whole run fails.
	_, statErr := os.Stat(silver)
	assert.True(t, os.IsNotExist(statErr))
}

func TestETLNoSnapshotsConfigured(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	_, _, err := a.ETL(context.Background(), ETLOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshots configured")
}

func TestScoreMissingArtifactAborts(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "2025-06-01.csv")
	require.NoError(t, os.WriteFile(snapshotPath, []byte(testSnapshot), 0o644))

	a, _, gold := newTestApp(t, []config.SnapshotSource{
		{Path: snapshotPath, Date: "2025-06-01"},
	})
	ctx := context.Background()

	_, _, err := a.ETL(ctx, ETLOptions{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(a.Config.Artifacts.Dir, a.Config.Artifacts.ModelFile)))

	err = a.Score(ctx, ScoreOptions{})
	require.Error(t, err)

	// The gold artifact must not exist after an aborted scoring stage.
	_, statErr := os.Stat(gold)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPredictOnline(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	bundle, err := artifacts.Load(a.artifactPaths())
	require.NoError(t, err)

	scorer, err := a.newScorer(bundle)
	require.NoError(t, err)

	ltm, rating := 8.0, 4.8
	clean, loc := 4.9, 4.7
	predicted, label, err := scorer.ClassifyOne(scoring.OnlineListing{
		Accommodates:            4,
		RoomType:                "Entire home/apt",
		Neighbourhood:           "Camden",
		NumberOfReviewsLTM:      &ltm,
		ReviewScoresRating:      &rating,
		ReviewScoresCleanliness: &clean,
		ReviewScoresLocation:    &loc,
		Description:             "luxury penthouse",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "200", predicted.String())
	assert.Empty(t, label)
}
