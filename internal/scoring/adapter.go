package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OnlineListing is the single-record inference input: structurally a
// normalized record minus price. Numeric rating fields are pointers so that
// a missing value is distinguishable from zero; online records must arrive
// fully populated since no unified dataset exists to impute from.
type OnlineListing struct {
	Accommodates            int
	RoomType                string
	NumberOfReviewsLTM      *float64
	ReviewScoresRating      *float64
	ReviewScoresCleanliness *float64
	ReviewScoresLocation    *float64
	IsSuperhost             bool
	Neighbourhood           string
	Description             string
}

// BuildOnlineVector derives exactly one feature row from an online record,
// reusing the text scorer and the single-value encoder form so the online
// path cannot diverge from batch derivation. Missing required numeric
// fields are rejected outright rather than mean-imputed.
func (s *Scorer) BuildOnlineVector(in OnlineListing) (FeatureVector, error) {
	ltm, err := requireOnline(in.NumberOfReviewsLTM, "number_of_reviews_ltm")
	if err != nil {
		return FeatureVector{}, err
	}
	rating, err := requireOnline(in.ReviewScoresRating, "review_scores_rating")
	if err != nil {
		return FeatureVector{}, err
	}
	cleanliness, err := requireOnline(in.ReviewScoresCleanliness, "review_scores_cleanliness")
	if err != nil {
		return FeatureVector{}, err
	}
	location, err := requireOnline(in.ReviewScoresLocation, "review_scores_location")
	if err != nil {
		return FeatureVector{}, err
	}

	superhost := 0.0
	if in.IsSuperhost {
		superhost = 1.0
	}

	return FeatureVector{
		Accommodates:            float64(in.Accommodates),
		RoomTypeIndex:           s.rooms.Encode(in.RoomType),
		NumberOfReviewsLTM:      ltm,
		ReviewScoresRating:      rating,
		ReviewScoresCleanliness: cleanliness,
		ReviewScoresLocation:    location,
		LuxuryWordCount:         float64(s.text.Score(in.Description)),
		IsSuperhost:             superhost,
		NeighbourhoodIndex:      s.neighbourhoods.Encode(in.Neighbourhood),
	}, nil
}

// PredictOne returns the model price for a single online record.
func (s *Scorer) PredictOne(in OnlineListing) (decimal.Decimal, error) {
	vector, err := s.BuildOnlineVector(in)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return s.predict(vector)
}

// ClassifyOne predicts a price and, when an asking price is supplied,
// classifies the gap with the same rule as the batch path.
func (s *Scorer) ClassifyOne(in OnlineListing, askingPrice *decimal.Decimal) (decimal.Decimal, string, error) {
	predicted, err := s.PredictOne(in)
	if err != nil {
		return decimal.Decimal{}, "", err
	}
	if askingPrice == nil {
		return predicted, "", nil
	}
	return predicted, s.Classify(predicted.Sub(*askingPrice)), nil
}

func requireOnline(v *float64, column string) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("online record: %s is required", column)
	}
	return *v, nil
}
