package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ColumnProfile describes one column of a raw snapshot for the deep audit.
type ColumnProfile struct {
	Name     string
	DType    string
	NonNull  int
	Nulls    int
	Distinct int
	Class    string
}

// ProfileColumns derives per-column diagnostics for a raw table: inferred
// data type, null counts, distinct counts, and a variable-class label based
// on distinct count relative to row count and value domain.
func ProfileColumns(header []string, rows [][]string) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(header))

	for col, name := range header {
		distinct := make(map[string]struct{})
		nonNull := 0
		numeric := true
		integral := true

		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			value := row[col]
			if value == "" {
				continue
			}
			nonNull++
			distinct[value] = struct{}{}
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				numeric = false
				integral = false
			} else if _, err := strconv.Atoi(value); err != nil {
				integral = false
			}
		}

		if nonNull == 0 {
			numeric = false
			integral = false
		}

		profiles = append(profiles, ColumnProfile{
			Name:     name,
			DType:    inferDType(numeric, integral),
			NonNull:  nonNull,
			Nulls:    len(rows) - nonNull,
			Distinct: len(distinct),
			Class:    inferClass(name, numeric, len(distinct), len(rows), distinct),
		})
	}

	return profiles
}

func inferDType(numeric, integral bool) string {
	switch {
	case integral:
		return "int"
	case numeric:
		return "float"
	default:
		return "string"
	}
}

func inferClass(name string, numeric bool, distinct, rowCount int, values map[string]struct{}) string {
	if numeric {
		switch {
		case distinct == 2:
			return "Binary (0/1)"
		case distinct < 20:
			return fmt.Sprintf("Categorical Num (%d)", distinct)
		default:
			return "Continuous Numeric"
		}
	}

	switch {
	case strings.Contains(name, "date"):
		return "Date"
	case distinct <= 2 && isBoolDomain(values):
		return "Binary (t/f)"
	case distinct < 50:
		return fmt.Sprintf("Categorical Txt (%d)", distinct)
	case distinct == rowCount && rowCount > 0:
		return "Unique ID"
	default:
		return "Free Text"
	}
}

func isBoolDomain(values map[string]struct{}) bool {
	for value := range values {
		if value != "t" && value != "f" {
			return false
		}
	}
	return len(values) > 0
}

// RenderAudit prints the deep-diagnosis table for an audited snapshot.
func RenderAudit(out io.Writer, source string, rowCount int, profiles []ColumnProfile) {
	fmt.Fprintf(out, "deep diagnosis: %s (%d rows)\n", source, rowCount)

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "COLUMN\tTYPE\tNON-NULL\tNULLS\tDISTINCT\tVARIABLE CLASS")
	for _, p := range profiles {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%d\t%s\n", p.Name, p.DType, p.NonNull, p.Nulls, p.Distinct, p.Class)
	}
	writer.Flush()
}
