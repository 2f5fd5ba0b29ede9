package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Column names used by converted profile CSVs and subsample CSVs. The
// short temp/salt/p names are kept from the original conversion output so
// files produced by earlier runs stay readable.
const (
	colTemp       = "temp"
	colSalt       = "salt"
	colDepth      = "p"
	colInstrument = "instrument"
	colInstrID    = "instrument_id"
	colProfile    = "profile"
	colOffset     = "i_offset"
)

// SubsampleRow is one line of a subsample CSV: a sample plus the
// provenance columns identifying where it came from and which animation
// phase offset produced it.
type SubsampleRow struct {
	Instrument    string
	InstrumentID  string
	ProfileNumber string
	Offset        int
	Sample        Sample
}

// columnIndex maps header names to field positions. A leading unnamed
// column (the row index pandas used to write) is tolerated and ignored.
func columnIndex(header []string, want []string) (map[string]int, error) {
	idx := make(map[string]int, len(want))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrUnrecognizedSchema, name)
		}
	}
	return idx, nil
}

// LoadProfileCSV reads a converted profile CSV (temp,salt,p columns) and
// attaches the given provenance. Rows with missing or unparseable values
// are dropped with a warning.
func LoadProfileCSV(filepath, instrument, instrumentID, profileNumber string) (*Profile, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile CSV header: %w", err)
	}
	idx, err := columnIndex(header, []string{colTemp, colSalt, colDepth})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}

	profile := &Profile{
		Instrument:    instrument,
		InstrumentID:  instrumentID,
		ProfileNumber: profileNumber,
	}

	rowNo := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read profile CSV row: %w", err)
		}
		rowNo++
		sample, ok := parseSampleFields(row[idx[colDepth]], row[idx[colTemp]], row[idx[colSalt]])
		if !ok {
			profile.ParseWarnings = append(profile.ParseWarnings,
				fmt.Sprintf("row %d: non-numeric or missing value; row dropped", rowNo))
			continue
		}
		profile.Samples = append(profile.Samples, sample)
	}

	if len(profile.Samples) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyProfile, filepath)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// LoadSubsampleCSV reads back a subsample CSV written by WriteSubsampleCSV.
// Rows are returned in file order; unparseable rows fail the load since the
// file is produced by this tool rather than an instrument.
func LoadSubsampleCSV(filepath string) ([]SubsampleRow, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open subsample CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read subsample CSV header: %w", err)
	}
	idx, err := columnIndex(header, []string{colInstrument, colInstrID, colProfile, colOffset, colTemp, colSalt, colDepth})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}

	var rows []SubsampleRow
	rowNo := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read subsample CSV row: %w", err)
		}
		rowNo++
		offset, err := strconv.Atoi(row[idx[colOffset]])
		if err != nil {
			return nil, fmt.Errorf("subsample CSV row %d: bad %s value %q: %w", rowNo, colOffset, row[idx[colOffset]], err)
		}
		sample, ok := parseSampleFields(row[idx[colDepth]], row[idx[colTemp]], row[idx[colSalt]])
		if !ok {
			return nil, fmt.Errorf("subsample CSV row %d: non-numeric sample value", rowNo)
		}
		rows = append(rows, SubsampleRow{
			Instrument:    row[idx[colInstrument]],
			InstrumentID:  row[idx[colInstrID]],
			ProfileNumber: row[idx[colProfile]],
			Offset:        offset,
			Sample:        sample,
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyProfile, filepath)
	}
	return rows, nil
}
