package scoring

// FeatureNames is the model contract: column names in the exact order the
// trainer fitted them. Values() must stay in lockstep with this list.
var FeatureNames = []string{
	"accommodates",
	"room_type",
	"number_of_reviews_ltm",
	"review_scores_rating",
	"review_scores_cleanliness",
	"review_scores_location",
	"luxury_word_count",
	"is_superhost",
	"neighbourhood_cleansed",
}

// FeatureVector is one fixed-shape model input row. Categorical fields hold
// encoder-relative integer indices, never raw labels. Batch and online
// paths build this struct through the same code.
type FeatureVector struct {
	Accommodates            float64
	RoomTypeIndex           int
	NumberOfReviewsLTM      float64
	ReviewScoresRating      float64
	ReviewScoresCleanliness float64
	ReviewScoresLocation    float64
	LuxuryWordCount         float64
	IsSuperhost             float64
	NeighbourhoodIndex      int
}

// Values flattens the vector into the model's input order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.Accommodates,
		float64(f.RoomTypeIndex),
		f.NumberOfReviewsLTM,
		f.ReviewScoresRating,
		f.ReviewScoresCleanliness,
		f.ReviewScoresLocation,
		f.LuxuryWordCount,
		f.IsSuperhost,
		float64(f.NeighbourhoodIndex),
	}
}
