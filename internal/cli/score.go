package cli

import (
	"github.com/spf13/cobra"

	"github.com/deividalexander/investment-opportunity-engine/internal/app"
)

var (
	scoreSilverPath string
	scoreGoldPath   string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the normalized dataset and write the classified output",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ScoreOptions{
			SilverPath: scoreSilverPath,
			GoldPath:   scoreGoldPath,
		}
		return getApp().Score(cmd.Context(), opts)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreSilverPath, "in", "", "Normalized dataset to score (defaults to config)")
	scoreCmd.Flags().StringVar(&scoreGoldPath, "out", "", "Output path for the classified dataset (defaults to config)")
}
