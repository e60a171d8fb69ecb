// Package ingest turns delimited travel-diary exports into ordered traces.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/trip-activity-go/internal/models"
)

// Options describes the column layout of a diary export.
// Columns are 0-based; a negative CategoryColumn means the file carries no labels.
type Options struct {
	Delimiter       rune
	TimestampColumn int
	LatitudeColumn  int
	LongitudeColumn int
	AccuracyColumn  int
	CategoryColumn  int
}

// DefaultOptions matches the eleven-column diary layout: phone number,
// timestamp (ms), latitude, longitude, accuracy, battery, sampling rate,
// accelerometer, inferred activity, ground truth, mode/purpose.
func DefaultOptions() Options {
	return Options{
		Delimiter:       ',',
		TimestampColumn: 1,
		LatitudeColumn:  2,
		LongitudeColumn: 3,
		AccuracyColumn:  4,
		CategoryColumn:  9,
	}
}

// Report summarises one ingest pass
type Report struct {
	Rows       int `json:"rows"`       // Records read, including skipped ones
	Fixes      int `json:"fixes"`      // Records turned into fixes
	Skipped    int `json:"skipped"`    // Records missing a required numeric field
	Labelled   int `json:"labelled"`   // Fixes with a Trip/Activity label
	OutOfOrder int `json:"outOfOrder"` // Fixes older than their predecessor (kept as is)
}

var (
	errMissingField = errors.New("missing field")
	errNotFinite    = errors.New("value is not finite")
)

// ReadCSV parses fixes from r. Rows whose timestamp, position or accuracy
// cannot be parsed (header lines included) are skipped and counted. The
// order of the input is preserved.
func ReadCSV(r io.Reader, opts Options) ([]models.GPSFix, Report, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var (
		fixes  []models.GPSFix
		report Report
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("failed to read record %d: %w", report.Rows+1, err)
		}
		report.Rows++

		fix, err := parseRecord(record, opts)
		if err != nil {
			report.Skipped++
			continue
		}

		if n := len(fixes); n > 0 && fix.TimestampMs < fixes[n-1].TimestampMs {
			report.OutOfOrder++
		}
		if fix.Category != models.CategoryUnknown {
			report.Labelled++
		}
		fixes = append(fixes, fix)
	}

	report.Fixes = len(fixes)
	return fixes, report, nil
}

// ReadCSVFile opens path and parses it with ReadCSV
func ReadCSVFile(path string, opts Options) ([]models.GPSFix, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()

	fixes, report, err := ReadCSV(f, opts)
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", path, err)
	}
	return fixes, report, nil
}

func parseRecord(record []string, opts Options) (models.GPSFix, error) {
	ts, err := floatAt(record, opts.TimestampColumn)
	if err != nil {
		return models.GPSFix{}, err
	}
	lat, err := floatAt(record, opts.LatitudeColumn)
	if err != nil {
		return models.GPSFix{}, err
	}
	lon, err := floatAt(record, opts.LongitudeColumn)
	if err != nil {
		return models.GPSFix{}, err
	}
	acc, err := floatAt(record, opts.AccuracyColumn)
	if err != nil {
		return models.GPSFix{}, err
	}

	fix := models.GPSFix{
		TimestampMs: int64(ts),
		Latitude:    lat,
		Longitude:   lon,
		Accuracy:    acc,
	}
	if opts.CategoryColumn >= 0 && opts.CategoryColumn < len(record) {
		fix.Category = models.ParseCategory(record[opts.CategoryColumn])
	}
	return fix, nil
}

// floatAt parses column i; timestamps may be exported in exponent form.
// NaN and infinities are rejected.
func floatAt(record []string, i int) (float64, error) {
	if i < 0 || i >= len(record) {
		return 0, errMissingField
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
