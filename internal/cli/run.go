package cli

import (
	"github.com/spf13/cobra"

	"github.com/deividalexander/investment-opportunity-engine/internal/app"
)

var runWatch bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest, normalize, score, classify",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Run(cmd.Context(), app.RunOptions{Watch: runWatch})
	},
}

func init() {
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run the pipeline on the configured interval")
}
