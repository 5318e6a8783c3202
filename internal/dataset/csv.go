package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// silverHeader is the canonical column set plus the derived ETL columns.
var silverHeader = []string{
	"id", "name", "neighbourhood_cleansed", "room_type",
	"price", "number_of_reviews", "review_scores_rating",
	"latitude", "longitude", "accommodates",
	"host_is_superhost",
	"review_scores_cleanliness",
	"review_scores_location",
	"availability_365",
	"reviews_per_month",
	"number_of_reviews_ltm",
	"description",
	"neighborhood_overview",
	"snapshot_date",
	"luxury_word_count",
	"is_superhost",
	"engagement_score",
}

// SilverColumns returns the header of the normalized intermediate artifact.
func SilverColumns() []string {
	cols := make([]string, len(silverHeader))
	copy(cols, silverHeader)
	return cols
}

// SilverRow serialises one record in SilverColumns order.
func SilverRow(rec *Record) []string {
	return silverRow(rec)
}

// WriteSilver persists the normalized dataset, creating directories on
// demand.
func WriteSilver(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dataset: create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(silverHeader); err != nil {
		return err
	}

	for i := range records {
		if err := writer.Write(silverRow(&records[i])); err != nil {
			return err
		}
	}
	return writer.Error()
}

func silverRow(rec *Record) []string {
	return []string{
		rec.ID,
		rec.Name,
		rec.Neighbourhood,
		rec.RoomType,
		rec.Price.String(),
		strconv.Itoa(rec.NumberOfReviews),
		formatNullable(rec.ReviewScoresRating),
		strconv.FormatFloat(rec.Latitude, 'f', -1, 64),
		strconv.FormatFloat(rec.Longitude, 'f', -1, 64),
		strconv.Itoa(rec.Accommodates),
		rec.HostIsSuperhost,
		formatNullable(rec.ReviewScoresCleanliness),
		formatNullable(rec.ReviewScoresLocation),
		strconv.Itoa(rec.Availability365),
		formatNullable(rec.ReviewsPerMonth),
		formatNullable(rec.NumberOfReviewsLTM),
		rec.Description,
		rec.NeighborhoodOverview,
		rec.SnapshotDate.Format(dateLayout),
		strconv.Itoa(rec.LuxuryWordCount),
		strconv.Itoa(rec.IsSuperhost),
		strconv.FormatFloat(rec.EngagementScore, 'f', -1, 64),
	}
}

// ReadSilver loads a previously written normalized dataset.
func ReadSilver(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: %s is empty", path)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}
	for _, name := range silverHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset: %s missing column %q", path, name)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := silverRecord(row, cols)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func silverRecord(row []string, cols map[string]int) (Record, error) {
	get := func(name string) string { return row[cols[name]] }

	price, err := decimal.NewFromString(get("price"))
	if err != nil {
		return Record{}, fmt.Errorf("dataset: parse price %q: %w", get("price"), err)
	}

	snapshotDate, err := time.Parse(dateLayout, get("snapshot_date"))
	if err != nil {
		return Record{}, fmt.Errorf("dataset: parse snapshot_date %q: %w", get("snapshot_date"), err)
	}

	rec := Record{
		ID:                   get("id"),
		Name:                 get("name"),
		Neighbourhood:        get("neighbourhood_cleansed"),
		RoomType:             get("room_type"),
		Price:                price,
		HostIsSuperhost:      get("host_is_superhost"),
		Description:          get("description"),
		NeighborhoodOverview: get("neighborhood_overview"),
		SnapshotDate:         snapshotDate,
	}

	rec.NumberOfReviews = parseIntLoose(get("number_of_reviews"))
	rec.Latitude = parseFloatLoose(get("latitude"))
	rec.Longitude = parseFloatLoose(get("longitude"))
	rec.Accommodates = parseIntLoose(get("accommodates"))
	rec.Availability365 = parseIntLoose(get("availability_365"))
	rec.ReviewScoresRating = parseNullable(get("review_scores_rating"))
	rec.ReviewScoresCleanliness = parseNullable(get("review_scores_cleanliness"))
	rec.ReviewScoresLocation = parseNullable(get("review_scores_location"))
	rec.ReviewsPerMonth = parseNullable(get("reviews_per_month"))
	rec.NumberOfReviewsLTM = parseNullable(get("number_of_reviews_ltm"))
	rec.LuxuryWordCount = parseIntLoose(get("luxury_word_count"))
	rec.IsSuperhost = parseIntLoose(get("is_superhost"))
	rec.EngagementScore = parseFloatLoose(get("engagement_score"))

	return rec, nil
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseNullable(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatLoose(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseIntLoose(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// Some extracts serialise integer columns as floats.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
