package scoring

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/deividalexander/investment-opportunity-engine/internal/dataset"
	"github.com/deividalexander/investment-opportunity-engine/internal/encoder"
	"github.com/deividalexander/investment-opportunity-engine/internal/model"
	"github.com/deividalexander/investment-opportunity-engine/internal/textscore"
)

// Opportunity categories derived from the predicted-vs-actual price gap.
const (
	OpportunityHiddenGem  = "Hidden Gem"
	OpportunityOverpriced = "Overpriced"
	OpportunityFairPrice  = "Fair Price"
)

// ScoredRecord is a normalized record augmented with the model prediction
// and its business classification.
type ScoredRecord struct {
	dataset.Record
	PredictedPrice  decimal.Decimal
	PriceDifference decimal.Decimal
	OpportunityType string
}

// Scorer runs the predictive model over encoded feature rows and applies
// the opportunity classification. The model, encoders, and text scorer are
// read-only for the lifetime of a run.
type Scorer struct {
	predictor      model.Predictor
	rooms          *encoder.Encoder
	neighbourhoods *encoder.Encoder
	text           *textscore.Scorer
	threshold      decimal.Decimal
	logger         zerolog.Logger
}

// New constructs a Scorer. The threshold is the half-width of the fair
// interval, in the same currency unit as price.
func New(predictor model.Predictor, rooms, neighbourhoods *encoder.Encoder, text *textscore.Scorer, threshold decimal.Decimal, logger zerolog.Logger) *Scorer {
	return &Scorer{
		predictor:      predictor,
		rooms:          rooms,
		neighbourhoods: neighbourhoods,
		text:           text,
		threshold:      threshold,
		logger:         logger.With().Str("component", "scorer").Logger(),
	}
}

// ScoreDataset predicts and classifies every record of the unified dataset.
func (s *Scorer) ScoreDataset(records []dataset.Record) ([]ScoredRecord, error) {
	scored := make([]ScoredRecord, 0, len(records))
	for i := range records {
		vector, err := s.vectorFromRecord(&records[i])
		if err != nil {
			return nil, err
		}

		predicted, err := s.predict(vector)
		if err != nil {
			return nil, fmt.Errorf("score record %s: %w", records[i].ID, err)
		}

		gap := predicted.Sub(records[i].Price)
		scored = append(scored, ScoredRecord{
			Record:          records[i],
			PredictedPrice:  predicted,
			PriceDifference: gap,
			OpportunityType: s.Classify(gap),
		})
	}

	s.logger.Info().
		Int("records", len(scored)).
		Int64("unseen_categories", s.UnseenCategories()).
		Msg("dataset scored")

	return scored, nil
}

// Classify maps a price gap to its opportunity category. Values exactly at
// the threshold fall on the fair side.
func (s *Scorer) Classify(gap decimal.Decimal) string {
	switch {
	case gap.GreaterThan(s.threshold):
		return OpportunityHiddenGem
	case gap.LessThan(s.threshold.Neg()):
		return OpportunityOverpriced
	default:
		return OpportunityFairPrice
	}
}

// UnseenCategories reports how many category values fell back to the
// default index across both categorical features.
func (s *Scorer) UnseenCategories() int64 {
	return s.rooms.UnseenCount() + s.neighbourhoods.UnseenCount()
}

func (s *Scorer) predict(vector FeatureVector) (decimal.Decimal, error) {
	price, err := s.predictor.Predict(vector.Values())
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromFloat(price), nil
}

// vectorFromRecord builds the batch-path feature row. Records must have
// passed imputation; a remaining null in a model field is a hard error
// rather than a silent zero.
func (s *Scorer) vectorFromRecord(rec *dataset.Record) (FeatureVector, error) {
	ltm, err := requireField(rec.NumberOfReviewsLTM, rec.ID, "number_of_reviews_ltm")
	if err != nil {
		return FeatureVector{}, err
	}
	rating, err := requireField(rec.ReviewScoresRating, rec.ID, "review_scores_rating")
	if err != nil {
		return FeatureVector{}, err
	}
	cleanliness, err := requireField(rec.ReviewScoresCleanliness, rec.ID, "review_scores_cleanliness")
	if err != nil {
		return FeatureVector{}, err
	}
	location, err := requireField(rec.ReviewScoresLocation, rec.ID, "review_scores_location")
	if err != nil {
		return FeatureVector{}, err
	}

	return FeatureVector{
		Accommodates:            float64(rec.Accommodates),
		RoomTypeIndex:           s.rooms.Encode(rec.RoomType),
		NumberOfReviewsLTM:      ltm,
		ReviewScoresRating:      rating,
		ReviewScoresCleanliness: cleanliness,
		ReviewScoresLocation:    location,
		LuxuryWordCount:         float64(rec.LuxuryWordCount),
		IsSuperhost:             float64(rec.IsSuperhost),
		NeighbourhoodIndex:      s.neighbourhoods.Encode(rec.Neighbourhood),
	}, nil
}

func requireField(v *float64, id, column string) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("record %s: %s is null after imputation", id, column)
	}
	return *v, nil
}
