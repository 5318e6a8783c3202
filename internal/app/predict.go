package app

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/deividalexander/investment-opportunity-engine/internal/artifacts"
	"github.com/deividalexander/investment-opportunity-engine/internal/scoring"
)

// Predict scores one online record through the same encoding logic as the
// batch path and prints the result.
func (a *App) Predict(ctx context.Context, opts PredictOptions) error {
	bundle, err := artifacts.Load(a.artifactPaths())
	if err != nil {
		return err
	}

	scorer, err := a.newScorer(bundle)
	if err != nil {
		return err
	}

	listing := scoring.OnlineListing{
		Accommodates:            opts.Accommodates,
		RoomType:                opts.RoomType,
		NumberOfReviewsLTM:      &opts.NumberOfReviewsLTM,
		ReviewScoresRating:      &opts.ReviewScoresRating,
		ReviewScoresCleanliness: &opts.ReviewScoresCleanliness,
		ReviewScoresLocation:    &opts.ReviewScoresLocation,
		IsSuperhost:             opts.IsSuperhost,
		Neighbourhood:           opts.Neighbourhood,
		Description:             opts.Description,
	}

	var asking *decimal.Decimal
	if opts.AskingPrice != nil {
		price := decimal.NewFromFloat(*opts.AskingPrice)
		asking = &price
	}

	predicted, opportunity, err := scorer.ClassifyOne(listing, asking)
	if err != nil {
		return err
	}

	if unseen := scorer.UnseenCategories(); unseen > 0 {
		a.Logger.Warn().Int64("unseen_categories", unseen).Msg("record contains categories unknown to the encoders")
	}

	fmt.Fprintf(os.Stdout, "recommended price: %s\n", predicted.StringFixed(2))
	if opportunity != "" {
		fmt.Fprintf(os.Stdout, "asking price: %s\n", asking.StringFixed(2))
		fmt.Fprintf(os.Stdout, "opportunity: %s\n", opportunity)
	}
	return nil
}
