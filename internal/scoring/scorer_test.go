package scoring

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deividalexander/investment-opportunity-engine/internal/dataset"
	"github.com/deividalexander/investment-opportunity-engine/internal/encoder"
	"github.com/deividalexander/investment-opportunity-engine/internal/textscore"
)

// predictorFunc adapts a plain function to the model interface.
type predictorFunc func(features []float64) (float64, error)

func (f predictorFunc) Predict(features []float64) (float64, error) { return f(features) }

func fixedPredictor(price float64) predictorFunc {
	return func([]float64) (float64, error) { return price, nil }
}

func newTestScorer(t *testing.T, p predictorFunc) *Scorer {
	t.Helper()

	rooms, err := encoder.NewVocabulary([]string{"Entire home/apt", "Private room", "Shared room"})
	require.NoError(t, err)
	hoods, err := encoder.NewVocabulary([]string{"Westminster", "Camden", "Hackney"})
	require.NoError(t, err)

	text := textscore.New([]string{"luxury", "terrace", "penthouse"})

	return New(
		p,
		encoder.New(rooms, encoder.FallbackFirstKnown),
		encoder.New(hoods, encoder.FallbackFirstKnown),
		text,
		decimal.NewFromInt(50),
		zerolog.Nop(),
	)
}

func fptr(v float64) *float64 { return &v }

func testRecord() dataset.Record {
	return dataset.Record{
		ID:                      "r1",
		Neighbourhood:           "Camden",
		RoomType:                "Entire home/apt",
		Price:                   decimal.NewFromInt(100),
		Accommodates:            4,
		NumberOfReviewsLTM:      fptr(8),
		ReviewScoresRating:      fptr(4.8),
		ReviewScoresCleanliness: fptr(4.9),
		ReviewScoresLocation:    fptr(4.7),
		Description:             "luxury penthouse",
		LuxuryWordCount:         2,
		IsSuperhost:             1,
	}
}

func TestClassifyBoundaries(t *testing.T) {
	s := newTestScorer(t, fixedPredictor(0))

	cases := []struct {
		gap  string
		want string
	}{
		{"50.01", OpportunityHiddenGem},
		{"50.00", OpportunityFairPrice},
		{"49.99", OpportunityFairPrice},
		{"0", OpportunityFairPrice},
		{"-49.99", OpportunityFairPrice},
		{"-50.00", OpportunityFairPrice},
		{"-50.01", OpportunityOverpriced},
		{"120", OpportunityHiddenGem},
		{"-300", OpportunityOverpriced},
	}

	for _, tc := range cases {
		gap := decimal.RequireFromString(tc.gap)
		assert.Equal(t, tc.want, s.Classify(gap), "gap=%s", tc.gap)
	}
}

func TestScoreDataset(t *testing.T) {
	s := newTestScorer(t, fixedPredictor(180))

	records := []dataset.Record{testRecord()}
	scored, err := s.ScoreDataset(records)
	require.NoError(t, err)
	require.Len(t, scored, 1)

	assert.Equal(t, "180", scored[0].PredictedPrice.String())
	assert.Equal(t, "80", scored[0].PriceDifference.String())
	assert.Equal(t, OpportunityHiddenGem, scored[0].OpportunityType)
	assert.Equal(t, "r1", scored[0].ID)
}

func TestScoreDatasetNullAfterImputation(t *testing.T) {
	s := newTestScorer(t, fixedPredictor(100))

	rec := testRecord()
	rec.ReviewScoresLocation = nil

	_, err := s.ScoreDataset([]dataset.Record{rec})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review_scores_location")
}

func TestBatchAndOnlineVectorsMatch(t *testing.T) {
	s := newTestScorer(t, fixedPredictor(100))

	rec := testRecord()
	batch, err := s.vectorFromRecord(&rec)
	require.NoError(t, err)

	online, err := s.BuildOnlineVector(OnlineListing{
		Accommodates:            rec.Accommodates,
		RoomType:                rec.RoomType,
		NumberOfReviewsLTM:      rec.NumberOfReviewsLTM,
		ReviewScoresRating:      rec.ReviewScoresRating,
		ReviewScoresCleanliness: rec.ReviewScoresCleanliness,
		ReviewScoresLocation:    rec.ReviewScoresLocation,
		IsSuperhost:             true,
		Neighbourhood:           rec.Neighbourhood,
		Description:             rec.Description,
	})
	require.NoError(t, err)

	assert.Equal(t, batch, online)
	assert.Equal(t, batch.Values(), online.Values())
}

func TestBuildOnlineVectorMissingField(t *testing.T) {
	s := newTestScorer(t, fixedPredictor(100))

	_, err := s.BuildOnlineVector(OnlineListing{
		Accommodates:            2,
		RoomType:                "Private room",
		Neighbourhood:           "Camden",
		NumberOfReviewsLTM:      fptr(3),
		ReviewScoresRating:      fptr(4.5),
		ReviewScoresCleanliness: fptr(4.5),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review_scores_location")
}

func TestUnseenNeighbourhoodFallsBack(t *testing.T) {
	var captured []float64
	s := newTestScorer(t, func(features []float64) (float64, error) {
		captured = features
		return 100, nil
	})

	rec := testRecord()
	rec.Neighbourhood = "Atlantis"

	_, err := s.ScoreDataset([]dataset.Record{rec})
	require.NoError(t, err)
	require.Len(t, captured, len(FeatureNames))

	// Fitted labels are Westminster, Camden, Hackney; first-known resolves
	// to Camden at index 1, and the index stays inside the fitted range.
	assert.Equal(t, 1.0, captured[8])
	assert.Equal(t, int64(1), s.UnseenCategories())
}

func TestClassifyOne(t *testing.T) {
	s := newTestScorer(t, fixedPredictor(200))

	in := OnlineListing{
		Accommodates:            4,
		RoomType:                "Entire home/apt",
		Neighbourhood:           "Camden",
		NumberOfReviewsLTM:      fptr(8),
		ReviewScoresRating:      fptr(4.8),
		ReviewScoresCleanliness: fptr(4.9),
		ReviewScoresLocation:    fptr(4.7),
		Description:             "penthouse with terrace",
	}

	asking := decimal.NewFromInt(120)
	predicted, label, err := s.ClassifyOne(in, &asking)
	require.NoError(t, err)
	assert.Equal(t, "200", predicted.String())
	assert.Equal(t, OpportunityHiddenGem, label)

	predicted, label, err = s.ClassifyOne(in, nil)
	require.NoError(t, err)
	assert.Equal(t, "200", predicted.String())
	assert.Empty(t, label)
}

func TestFeatureVectorValuesOrder(t *testing.T) {
	v := FeatureVector{
		Accommodates:            1,
		RoomTypeIndex:           2,
		NumberOfReviewsLTM:      3,
		ReviewScoresRating:      4,
		ReviewScoresCleanliness: 5,
		ReviewScoresLocation:    6,
		LuxuryWordCount:         7,
		IsSuperhost:             8,
		NeighbourhoodIndex:      9,
	}

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, v.Values())
	assert.Len(t, FeatureNames, 9)
}
