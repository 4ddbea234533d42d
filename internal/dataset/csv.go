// Package dataset reads and writes the plain-text artifacts exchanged between
// pipeline stages: torque time series, spectra and the dominant frequency file.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RMahshie/resonara/pkg/models"
)

// Column names used by the torque data files
const (
	TimeColumn      = "Time (s)"
	TorqueColumn    = "Torque (Nm)"
	FrequencyColumn = "Frequency (Hz)"
	AmplitudeColumn = "Amplitude (Nm)"
	ResponseColumn  = "Response amplitude (mm)"
)

// ErrMissingColumn is returned when a required CSV column is absent
var ErrMissingColumn = errors.New("missing column")

// ReadTimeSeries parses a CSV with a header row into a time series. The
// measurement is taken from valueColumn (TorqueColumn when empty).
func ReadTimeSeries(r io.Reader, valueColumn string) (*models.TimeSeries, error) {
	if valueColumn == "" {
		valueColumn = TorqueColumn
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty time series file")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	timeIdx, valueIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case TimeColumn:
			timeIdx = i
		case valueColumn:
			valueIdx = i
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, TimeColumn)
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, valueColumn)
	}

	ts := &models.TimeSeries{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid time %q: %w", line, record[timeIdx], err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[valueIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value %q: %w", line, record[valueIdx], err)
		}
		ts.Append(models.Sample{Time: t, Value: v})
	}

	return ts, nil
}

// WriteTimeSeries writes ts as CSV with a header row
func WriteTimeSeries(w io.Writer, ts *models.TimeSeries, valueColumn string) error {
	if valueColumn == "" {
		valueColumn = TorqueColumn
	}
	if len(ts.Time) != len(ts.Value) {
		return fmt.Errorf("time series columns differ in length: %d vs %d", len(ts.Time), len(ts.Value))
	}

	samples := ts.Samples()
	rows := make([][2]float64, len(samples))
	for i, s := range samples {
		rows[i] = [2]float64{s.Time, s.Value}
	}
	return writeColumns(w, [2]string{TimeColumn, valueColumn}, rows)
}

// WriteSpectrum writes frequency points as CSV. valueColumn names the amplitude column.
func WriteSpectrum(w io.Writer, points []models.FrequencyPoint, valueColumn string) error {
	if valueColumn == "" {
		valueColumn = AmplitudeColumn
	}

	rows := make([][2]float64, len(points))
	for i, p := range points {
		rows[i] = [2]float64{p.Frequency, p.Amplitude}
	}
	return writeColumns(w, [2]string{FrequencyColumn, valueColumn}, rows)
}

func writeColumns(w io.Writer, header [2]string, rows [][2]float64) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header[:]); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatFloat(row[0], 'g', -1, 64),
			strconv.FormatFloat(row[1], 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDominantFrequency writes f with two decimals and no trailing newline
func WriteDominantFrequency(w io.Writer, f float64) error {
	_, err := io.WriteString(w, strconv.FormatFloat(f, 'f', 2, 64))
	return err
}

// ReadDominantFrequency parses the first line of a dominant frequency file
func ReadDominantFrequency(r io.Reader) (float64, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("empty dominant frequency file")
	}

	line := strings.TrimSpace(scanner.Text())
	f, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dominant frequency %q: %w", line, err)
	}
	return f, nil
}
