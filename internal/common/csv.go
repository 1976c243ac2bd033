// Package common provides the shared CSV import/export plumbing used by
// the pipeline commands and the query layer.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/dispute-assist/internal/logging"

	"github.com/gocarina/gocsv"
)

// CSVIO reads and writes the flat tabular files the pipeline consumes and
// produces. The delimiter is configurable; everything else follows the
// struct csv tags.
type CSVIO struct {
	delimiter rune
	logger    logging.Logger
}

// NewCSVIO creates a CSV reader/writer with the given delimiter.
func NewCSVIO(delimiter rune, logger logging.Logger) *CSVIO {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVIO{delimiter: delimiter, logger: logger}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns. A missing input
// file is a fatal error for the run, surfaced before any classification.
func ReadCSVFile[TCSVRow any](c *CSVIO, filePath string) ([]TCSVRow, error) {
	c.logger.WithField("file", filePath).Info("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file %s: %w", filePath, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	// A configured *csv.Reader satisfies gocsv's CSVReader, which keeps the
	// delimiter setting local instead of mutating gocsv's global reader.
	reader := csv.NewReader(file)
	reader.Comma = c.delimiter

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file %s: %w", filePath, err)
	}

	c.logger.WithField("count", len(rows)).Info("Successfully read CSV data")
	return rows, nil
}

// WriteCSVFile writes a slice of structs to a CSV file, creating parent
// directories as needed.
func WriteCSVFile[TCSVRow any](c *CSVIO, rows []TCSVRow, filePath string) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}

	c.logger.WithFields(
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "count", Value: len(rows)},
	).Info("Writing CSV file")

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating CSV file %s: %w", filePath, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = c.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data to %s: %w", filePath, err)
	}

	c.logger.WithFields(
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "count", Value: len(rows)},
	).Info("Successfully wrote CSV file")

	return nil
}
