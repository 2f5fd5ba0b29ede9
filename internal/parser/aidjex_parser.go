package parser

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Number of free-form preamble lines before the column-name row in an
// AIDJEX station file.
const aidjexHeaderLines = 3

// Column names expected in the AIDJEX station file header row.
const (
	aidjexDepthCol = "Depth(m)"
	aidjexTempCol  = "Temp(C)"
	aidjexSaltCol  = "Sal(PPT)"
)

// LoadAIDJEX reads one profile from an AIDJEX station file: a
// whitespace-delimited table with three preamble lines, then a header row
// naming at least the Depth(m), Temp(C) and Sal(PPT) columns, then one row
// per sample. Rows with missing or unparseable values are dropped with a
// warning rather than failing the whole load.
func LoadAIDJEX(filepath, station, profileNumber string) (*Profile, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open AIDJEX file: %w", err)
	}
	defer file.Close()

	profile := &Profile{
		Instrument:    "AIDJEX",
		InstrumentID:  station,
		ProfileNumber: profileNumber,
	}

	scanner := bufio.NewScanner(file)

	// Skip the preamble.
	for i := 0; i < aidjexHeaderLines; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("%w: file ends inside the %d-line preamble", ErrUnrecognizedSchema, aidjexHeaderLines)
		}
	}

	// Header row: locate the three columns we care about. Extra columns are
	// allowed and ignored.
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing column header row", ErrUnrecognizedSchema)
	}
	header := strings.Fields(scanner.Text())
	depthIdx, tempIdx, saltIdx := -1, -1, -1
	for i, name := range header {
		switch name {
		case aidjexDepthCol:
			depthIdx = i
		case aidjexTempCol:
			tempIdx = i
		case aidjexSaltCol:
			saltIdx = i
		}
	}
	if depthIdx < 0 || tempIdx < 0 || saltIdx < 0 {
		return nil, fmt.Errorf("%w: header %q lacks %s/%s/%s columns",
			ErrUnrecognizedSchema, strings.Join(header, " "), aidjexDepthCol, aidjexTempCol, aidjexSaltCol)
	}
	maxIdx := depthIdx
	if tempIdx > maxIdx {
		maxIdx = tempIdx
	}
	if saltIdx > maxIdx {
		maxIdx = saltIdx
	}

	lineNo := aidjexHeaderLines + 1
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) <= maxIdx {
			profile.ParseWarnings = append(profile.ParseWarnings,
				fmt.Sprintf("line %d: %d fields, need at least %d; row dropped", lineNo, len(fields), maxIdx+1))
			continue
		}
		sample, ok := parseSampleFields(fields[depthIdx], fields[tempIdx], fields[saltIdx])
		if !ok {
			profile.ParseWarnings = append(profile.ParseWarnings,
				fmt.Sprintf("line %d: non-numeric or missing value; row dropped", lineNo))
			continue
		}
		profile.Samples = append(profile.Samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read AIDJEX file: %w", err)
	}

	if len(profile.Samples) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyProfile, filepath)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// parseSampleFields converts one row's depth/temperature/salinity strings.
// Unparseable text or NaN values report ok=false so the caller can drop
// the row (the equivalent of pandas dropna in the original workflow).
func parseSampleFields(depthStr, tempStr, saltStr string) (Sample, bool) {
	depth, err1 := strconv.ParseFloat(depthStr, 64)
	temp, err2 := strconv.ParseFloat(tempStr, 64)
	salt, err3 := strconv.ParseFloat(saltStr, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return Sample{}, false
	}
	if math.IsNaN(depth) || math.IsNaN(temp) || math.IsNaN(salt) {
		return Sample{}, false
	}
	return Sample{Depth: depth, Temperature: temp, Salinity: salt}, true
}
