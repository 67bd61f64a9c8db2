package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// CSVWriter appends WindowStats records to a single CSV file, writing
// the header row only on the first write.
type CSVWriter struct {
	file          *os.File
	headerWritten bool
}

// NewCSVWriter creates (or truncates) the file at path and returns a
// writer ready to receive WindowStats records. Returns nil, nil if
// path is empty, so callers can treat telemetry as optional without
// branching on every write.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating %s: %w", path, err)
	}
	return &CSVWriter{file: f}, nil
}

// Write appends one WindowStats record, writing a header first if this
// is the writer's first call.
func (w *CSVWriter) Write(stats WindowStats) error {
	if w == nil {
		return nil
	}
	records := []WindowStats{stats}
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("telemetry: writing header+row: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("telemetry: writing row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *CSVWriter) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	return w.file.Close()
}
