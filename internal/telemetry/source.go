package telemetry

import (
	"bytes"
	"encoding/csv"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"

	"autosync/serving/internal/domain"
)

//go:embed data/obd_simulation.csv
var defaultDataset []byte

// Source is an ordered, finite, restartable sequence of readings. It is
// loaded once at startup and shared read-only across all sessions.
type Source struct {
	readings []domain.Reading
}

// Load builds a source from the CSV at path, or from the embedded demo
// dataset when path is empty. A missing or empty dataset is a startup
// failure; no session may begin without data.
func Load(path string) (*Source, error) {
	var r io.Reader
	if path == "" {
		r = bytes.NewReader(defaultDataset)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open telemetry dataset: %w", err)
		}
		defer f.Close()
		r = f
	}

	readings, err := parse(r)
	if err != nil {
		return nil, err
	}
	return NewSource(readings), nil
}

// NewSource wraps an already-parsed sequence.
func NewSource(readings []domain.Reading) *Source {
	return &Source{readings: readings}
}

// Readings returns the full sequence in source order. Callers must not
// mutate the returned slice.
func (s *Source) Readings() []domain.Reading {
	return s.readings
}

func (s *Source) Len() int {
	return len(s.readings)
}

// Dataset columns, in the exporter's OBD PID naming.
var expectedHeader = []string{"Timestamp", "010C_RPM", "010D_SPEED", "0105_ECT", "DTC_CODE"}

func parse(r io.Reader) ([]domain.Reading, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("unexpected dataset header: %v", header)
	}
	for i, col := range expectedHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected dataset column %q, want %q", header[i], col)
		}
	}

	var readings []domain.Reading
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row %d: %w", len(readings)+1, err)
		}

		rpm, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad rpm %q", len(readings)+1, row[1])
		}
		speed, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad speed %q", len(readings)+1, row[2])
		}
		temp, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad temperature %q", len(readings)+1, row[3])
		}

		reading := domain.Reading{
			Timestamp: row[0],
			RPM:       rpm,
			Speed:     speed,
			Temp:      temp,
		}
		if row[4] != "" {
			code := row[4]
			reading.DTC = &code
		}
		readings = append(readings, reading)
	}

	if len(readings) == 0 {
		return nil, fmt.Errorf("telemetry dataset contains no readings")
	}
	return readings, nil
}
