package dataset

import (
	"errors"
	"strings"

	"github.com/deividalexander/investment-opportunity-engine/internal/textscore"
)

// ErrNoData signals that no snapshot produced any records, so the pipeline
// has nothing to build a dataset from.
var ErrNoData = errors.New("dataset: no snapshot data available")

const missingOverview = "no overview available"

// Merge concatenates per-snapshot record sets into one unified dataset,
// preserving per-snapshot relative order and the given snapshot order.
func Merge(parts [][]Record) ([]Record, error) {
	if len(parts) == 0 {
		return nil, ErrNoData
	}

	total := 0
	for _, part := range parts {
		total += len(part)
	}

	unified := make([]Record, 0, total)
	for _, part := range parts {
		unified = append(unified, part...)
	}
	return unified, nil
}

// ScoreText lowercases the free-text fields, substitutes the placeholder for
// missing overviews, and derives the luxury word count from the description.
func ScoreText(records []Record, scorer *textscore.Scorer) {
	for i := range records {
		rec := &records[i]
		rec.Description = strings.ToLower(rec.Description)
		if strings.TrimSpace(rec.NeighborhoodOverview) == "" {
			rec.NeighborhoodOverview = missingOverview
		} else {
			rec.NeighborhoodOverview = strings.ToLower(rec.NeighborhoodOverview)
		}
		rec.LuxuryWordCount = scorer.Score(rec.Description)
	}
}
