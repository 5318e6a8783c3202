package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// Show prints recently persisted scored listings, or run history with the
// runs option.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show history")
	}
	if closeStore != nil {
		defer closeStore()
	}

	if opts.Runs {
		runs, err := store.ListRecentRuns(ctx, opts.Limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stdout, "no runs found")
			return nil
		}

		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "Run\tFinished (UTC)\tSnapshots\tRows\tGems\tOverpriced\tFair\tUnseen")
		for _, run := range runs {
			fmt.Fprintf(
				writer,
				"%s\t%s\t%d/%d\t%d\t%d\t%d\t%d\t%d\n",
				shortID(run.ID.String()),
				run.FinishedAt.UTC().Format(time.RFC3339),
				run.SnapshotsLoaded,
				run.SnapshotsLoaded+run.SnapshotsFailed,
				run.RowsScored,
				run.HiddenGems,
				run.Overpriced,
				run.FairPriced,
				run.UnseenCategories,
			)
		}
		writer.Flush()
		return nil
	}

	listings, err := store.ListRecentScored(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Fprintln(os.Stdout, "no scored listings found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Listing\tSnapshot\tNeighbourhood\tRoom Type\tPrice\tPredicted\tGap\tOpportunity")
	for _, listing := range listings {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			listing.ListingID,
			listing.SnapshotDate.Format("2006-01-02"),
			sanitizeInline(listing.Neighbourhood),
			listing.RoomType,
			listing.Price.StringFixed(2),
			listing.PredictedPrice.StringFixed(2),
			listing.PriceDifference.StringFixed(2),
			listing.OpportunityType,
		)
	}
	writer.Flush()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
