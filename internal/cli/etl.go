package cli

import (
	"github.com/spf13/cobra"

	"github.com/deividalexander/investment-opportunity-engine/internal/app"
)

var etlSilverPath string

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Ingest snapshots and write the normalized dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, err := getApp().ETL(cmd.Context(), app.ETLOptions{SilverPath: etlSilverPath})
		return err
	},
}

func init() {
	etlCmd.Flags().StringVar(&etlSilverPath, "out", "", "Output path for the normalized dataset (defaults to config)")
}
