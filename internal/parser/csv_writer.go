package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteProfileCSV writes a converted profile as a temp,salt,p CSV, the
// layout the plotting commands read back.
func WriteProfileCSV(filepath string, profile *Profile) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create profile CSV: %w", err)
	}
	defer file.Close()
	if err := writeProfileCSV(file, profile); err != nil {
		return err
	}
	return file.Close()
}

func writeProfileCSV(w io.Writer, profile *Profile) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{colTemp, colSalt, colDepth}); err != nil {
		return fmt.Errorf("failed to write profile CSV header: %w", err)
	}
	for _, s := range profile.Samples {
		record := []string{formatFloat(s.Temperature), formatFloat(s.Salinity), formatFloat(s.Depth)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write profile CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSubsampleCSV writes the accumulated subsample rows of an animation
// run, one row per retained point with provenance and phase offset.
func WriteSubsampleCSV(filepath string, rows []SubsampleRow) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create subsample CSV: %w", err)
	}
	defer file.Close()
	if err := writeSubsampleCSV(file, rows); err != nil {
		return err
	}
	return file.Close()
}

func writeSubsampleCSV(w io.Writer, rows []SubsampleRow) error {
	writer := csv.NewWriter(w)
	header := []string{colInstrument, colInstrID, colProfile, colOffset, colTemp, colSalt, colDepth}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write subsample CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Instrument,
			r.InstrumentID,
			r.ProfileNumber,
			strconv.Itoa(r.Offset),
			formatFloat(r.Sample.Temperature),
			formatFloat(r.Sample.Salinity),
			formatFloat(r.Sample.Depth),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write subsample CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
