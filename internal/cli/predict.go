package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/deividalexander/investment-opportunity-engine/internal/app"
)

var (
	predictAccommodates  int
	predictRoomType      string
	predictReviewsLTM    float64
	predictRating        float64
	predictCleanliness   float64
	predictLocation      float64
	predictSuperhost     bool
	predictNeighbourhood string
	predictDescription   string
	predictAskingPrice   float64
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the price for a single listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if predictRoomType == "" || predictNeighbourhood == "" {
			return errors.New("--room-type and --neighbourhood must be provided")
		}
		if predictAccommodates <= 0 {
			return errors.New("--accommodates must be greater than zero")
		}

		opts := app.PredictOptions{
			Accommodates:            predictAccommodates,
			RoomType:                predictRoomType,
			NumberOfReviewsLTM:      predictReviewsLTM,
			ReviewScoresRating:      predictRating,
			ReviewScoresCleanliness: predictCleanliness,
			ReviewScoresLocation:    predictLocation,
			IsSuperhost:             predictSuperhost,
			Neighbourhood:           predictNeighbourhood,
			Description:             predictDescription,
		}

		if cmd.Flags().Changed("asking-price") {
			opts.AskingPrice = &predictAskingPrice
		}

		return getApp().Predict(cmd.Context(), opts)
	},
}

func init() {
	predictCmd.Flags().IntVar(&predictAccommodates, "accommodates", 0, "Guest capacity")
	predictCmd.Flags().StringVar(&predictRoomType, "room-type", "", "Room type category")
	predictCmd.Flags().Float64Var(&predictReviewsLTM, "reviews-ltm", 0, "Review count over the last twelve months")
	predictCmd.Flags().Float64Var(&predictRating, "rating", 0, "Overall review score")
	predictCmd.Flags().Float64Var(&predictCleanliness, "cleanliness", 0, "Cleanliness review score")
	predictCmd.Flags().Float64Var(&predictLocation, "location", 0, "Location review score")
	predictCmd.Flags().BoolVar(&predictSuperhost, "superhost", false, "Host is a superhost")
	predictCmd.Flags().StringVar(&predictNeighbourhood, "neighbourhood", "", "Neighbourhood category")
	predictCmd.Flags().StringVar(&predictDescription, "description", "", "Listing description text")
	predictCmd.Flags().Float64Var(&predictAskingPrice, "asking-price", 0, "Actual asking price for opportunity classification")
}
