package ingest

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/deividalexander/investment-opportunity-engine/internal/dataset"
)

// Ingestion policies. AuditThenRestrict runs the full column audit before
// narrowing to the canonical set; DirectRestrict narrows immediately.
const (
	DirectRestrict    = "direct-restrict"
	AuditThenRestrict = "audit-then-restrict"
)

// Source identifies one snapshot file and its associated calendar date.
type Source struct {
	Path   string
	Date   time.Time
	Policy string
}

// Result reports the outcome of loading one snapshot. A nil Err with zero
// records means the snapshot loaded but no row survived price filtering.
type Result struct {
	Source  Source
	Records []dataset.Record
	Dropped int
	Err     error
}

// Loader resolves raw snapshots against the canonical column set.
type Loader struct {
	canonical []string
	auditOut  io.Writer
	auditMu   sync.Mutex
	logger    zerolog.Logger
}

// NewLoader constructs a snapshot loader. Audit reports are rendered to
// auditOut for snapshots using the audit-then-restrict policy.
func NewLoader(canonical []string, auditOut io.Writer, logger zerolog.Logger) *Loader {
	cols := make([]string, len(canonical))
	copy(cols, canonical)
	return &Loader{
		canonical: cols,
		auditOut:  auditOut,
		logger:    logger.With().Str("component", "ingest").Logger(),
	}
}

// LoadAll loads every configured snapshot. Loads run on up to `workers`
// goroutines; each snapshot is an isolated failure domain and results are
// reassembled into configured source order regardless of completion order.
func (l *Loader) LoadAll(sources []Source, workers int) []Result {
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(sources))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, src Source) {
			defer wg.Done()
			defer func() { <-sem }()
			records, dropped, err := l.Load(src)
			results[i] = Result{Source: src, Records: records, Dropped: dropped, Err: err}
		}(i, src)
	}
	wg.Wait()

	for _, res := range results {
		switch {
		case res.Err != nil:
			l.logger.Error().Err(res.Err).Str("snapshot", res.Source.Path).Msg("snapshot skipped")
		default:
			l.logger.Info().
				Str("snapshot", res.Source.Path).
				Str("date", res.Source.Date.Format("2006-01-02")).
				Int("rows", len(res.Records)).
				Int("dropped_price_null", res.Dropped).
				Msg("snapshot loaded")
		}
	}

	return results
}

// Load reads one snapshot, applies its ingestion policy, and returns the
// normalized records plus the number of rows dropped for missing price.
func (l *Loader) Load(src Source) ([]dataset.Record, int, error) {
	header, rows, err := l.readTable(src.Path)
	if err != nil {
		return nil, 0, err
	}

	if src.Policy == AuditThenRestrict {
		profiles := ProfileColumns(header, rows)
		l.auditMu.Lock()
		RenderAudit(l.auditOut, src.Path, len(rows), profiles)
		l.auditMu.Unlock()
	}

	cols := make(map[string]int, len(l.canonical))
	for _, name := range l.canonical {
		for i, h := range header {
			if h == name {
				cols[name] = i
				break
			}
		}
	}
	if _, ok := cols["price"]; !ok {
		return nil, 0, fmt.Errorf("snapshot %s: price column not present", src.Path)
	}

	records := make([]dataset.Record, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		rec, ok := buildRecord(row, cols, src.Date)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	return records, dropped, nil
}

func (l *Loader) readTable(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("snapshot file not found: %s", path)
		}
		return nil, nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip snapshot %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	table, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("snapshot %s: empty file", path)
	}

	return table[0], table[1:], nil
}

func buildRecord(row []string, cols map[string]int, date time.Time) (dataset.Record, bool) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	price, ok := NormalizePrice(get("price"))
	if !ok {
		return dataset.Record{}, false
	}

	rec := dataset.Record{
		ID:                   get("id"),
		Name:                 get("name"),
		Neighbourhood:        get("neighbourhood_cleansed"),
		RoomType:             get("room_type"),
		Price:                price,
		HostIsSuperhost:      get("host_is_superhost"),
		Description:          get("description"),
		NeighborhoodOverview: get("neighborhood_overview"),
		SnapshotDate:         date,
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

	return rec, true
}

// NormalizePrice strips a leading currency symbol and thousands separators
// and parses the remainder as a decimal. Unparsable values report ok=false
// and the row is treated as missing its price.
func NormalizePrice(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	cleaned = strings.TrimLeftFunc(cleaned, func(r rune) bool {
		return r != '-' && r != '.' && (r < '0' || r > '9')
	})
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}
