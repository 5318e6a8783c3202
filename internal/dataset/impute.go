package dataset

import "fmt"

// numericField maps a canonical column name to its nullable field on a
// record. Only columns with a per-class null policy are addressable here.
func numericField(rec *Record, column string) (**float64, error) {
	switch column {
	case "reviews_per_month":
		return &rec.ReviewsPerMonth, nil
	case "number_of_reviews_ltm":
		return &rec.NumberOfReviewsLTM, nil
	case "review_scores_rating":
		return &rec.ReviewScoresRating, nil
	case "review_scores_cleanliness":
		return &rec.ReviewScoresCleanliness, nil
	case "review_scores_location":
		return &rec.ReviewScoresLocation, nil
	default:
		return nil, fmt.Errorf("dataset: column %q has no null policy", column)
	}
}

// Impute applies the per-column-class null policy over the unified dataset.
// Count-like columns fill with zero; rating columns fill with the arithmetic
// mean of non-null values across all snapshots combined. The superhost flag
// fills with the false sentinel. Must run after Merge so means reflect the
// full population.
func Impute(records []Record, zeroFill, meanFill []string) error {
	for _, column := range zeroFill {
		for i := range records {
			field, err := numericField(&records[i], column)
			if err != nil {
				return err
			}
			if *field == nil {
				zero := 0.0
				*field = &zero
			}
		}
	}

	for _, column := range meanFill {
		mean, err := columnMean(records, column)
		if err != nil {
			return err
		}
		for i := range records {
			field, err := numericField(&records[i], column)
			if err != nil {
				return err
			}
			if *field == nil {
				fill := mean
				*field = &fill
			}
		}
	}

	for i := range records {
		if records[i].HostIsSuperhost == "" {
			records[i].HostIsSuperhost = SuperhostFalse
		}
	}

	return nil
}

func columnMean(records []Record, column string) (float64, error) {
	sum := 0.0
	n := 0
	for i := range records {
		field, err := numericField(&records[i], column)
		if err != nil {
			return 0, err
		}
		if *field != nil {
			sum += **field
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// DeriveMetrics computes the superhost flag and engagement score. Requires
// Impute to have run so the inputs are non-null.
func DeriveMetrics(records []Record) {
	for i := range records {
		rec := &records[i]
		if rec.HostIsSuperhost == SuperhostTrue {
			rec.IsSuperhost = 1
		} else {
			rec.IsSuperhost = 0
		}

		var ltm, rating float64
		if rec.NumberOfReviewsLTM != nil {
			ltm = *rec.NumberOfReviewsLTM
		}
		if rec.ReviewScoresRating != nil {
			rating = *rec.ReviewScoresRating
		}
		rec.EngagementScore = ltm * rating / 100
	}
}
