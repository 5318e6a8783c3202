package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

// goldPoint is one classified row reduced to the exportable fields.
type goldPoint struct {
	SnapshotDate    time.Time
	Price           float64
	PredictedPrice  float64
	PriceDifference float64
	OpportunityType string
}

// Export renders the classified dataset as CSV and/or a PNG chart of
// average actual vs. predicted price per snapshot period.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	goldPath := opts.GoldPath
	if goldPath == "" {
		goldPath = a.Config.Pipeline.GoldPath
	}

	points, err := readGoldPoints(goldPath)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		a.Logger.Info().Str("path", goldPath).Msg("no classified rows to export")
		return nil
	}

	maxPoints := a.Config.ResolveMaxPoints(opts.MaxPoints)
	downsampled := downsamplePoints(points, maxPoints)
	a.Logger.Info().Int("total", len(points)).Int("exported", len(downsampled)).Msg("exporting classified rows")

	if opts.CSVPath != "" {
		if err := writePointsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writePricePNG(opts.PNGPath, points); err != nil {
			return err
		}
	}

	return nil
}

func readGoldPoints(path string) ([]goldPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}
	for _, name := range []string{"snapshot_date", "price", "predicted_price", "price_difference", "opportunity_type"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s missing column %q", path, name)
		}
	}

	points := make([]goldPoint, 0, len(rows)-1)
	for _, row := range rows[1:] {
		date, err := time.Parse("2006-01-02", row[cols["snapshot_date"]])
		if err != nil {
			return nil, fmt.Errorf("parse snapshot_date: %w", err)
		}
		points = append(points, goldPoint{
			SnapshotDate:    date,
			Price:           parseFloatCol(row[cols["price"]]),
			PredictedPrice:  parseFloatCol(row[cols["predicted_price"]]),
			PriceDifference: parseFloatCol(row[cols["price_difference"]]),
			OpportunityType: row[cols["opportunity_type"]],
		})
	}
	return points, nil
}

func parseFloatCol(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func downsamplePoints(points []goldPoint, max int) []goldPoint {
	if max <= 0 || len(points) <= max {
		return points
	}

	result := make([]goldPoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func writePointsCSV(path string, points []goldPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"snapshot_date", "price", "predicted_price", "price_difference", "opportunity_type"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range points {
		record := []string{
			p.SnapshotDate.Format("2006-01-02"),
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatFloat(p.PredictedPrice, 'f', 2, 64),
			strconv.FormatFloat(p.PriceDifference, 'f', 2, 64),
			p.OpportunityType,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// writePricePNG charts average actual and predicted price per snapshot
// period, with the average gap on a secondary axis.
func writePricePNG(path string, points []goldPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	type agg struct {
		price     float64
		predicted float64
		gap       float64
		n         int
	}
	byDate := make(map[time.Time]*agg)
	for _, p := range points {
		entry := byDate[p.SnapshotDate]
		if entry == nil {
			entry = &agg{}
			byDate[p.SnapshotDate] = entry
		}
		entry.price += p.Price
		entry.predicted += p.PredictedPrice
		entry.gap += p.PriceDifference
		entry.n++
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	x := make([]time.Time, len(dates))
	actual := make([]float64, len(dates))
	predicted := make([]float64, len(dates))
	gap := make([]float64, len(dates))
	for i, date := range dates {
		entry := byDate[date]
		x[i] = date
		actual[i] = entry.price / float64(entry.n)
		predicted[i] = entry.predicted / float64(entry.n)
		gap[i] = entry.gap / float64(entry.n)
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Avg price",
			ValueFormatter: priceFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Avg gap",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Actual",
				XValues: x,
				YValues: actual,
			},
			chart.TimeSeries{
				Name:    "Predicted",
				XValues: x,
				YValues: predicted,
			},
			chart.TimeSeries{
				Name:    "Gap",
				XValues: x,
				YValues: gap,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
