package sensor

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tremorlab/tremor-analyzer/pkg/logging"
)

// Recordings are flat CSVs with the header
//
//	Timestamp,Ax,Ay,Az,Gx,Gy,Gz
//
// or the accelerometer-only variant
//
//	Timestamp,Ax,Ay,Az
//
// Anything before the header line, blank lines and lines starting with '#'
// are metadata and skipped. Malformed rows (wrong column count, non-numeric
// fields) are skipped individually; the load fails only when no valid row
// survives the whole file.

// LoadCSV reads a recording from a CSV file
func LoadCSV(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewAnalysisError("load", ErrCodeMalformedRecord, "cannot open recording", err)
	}
	defer f.Close()

	rec, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}
	rec.Source = path
	return rec, nil
}

// ReadCSV parses a recording from a reader
func ReadCSV(r io.Reader) (*Recording, error) {
	logger := logging.WithFields(logging.Fields{"component": "csv_reader"})

	rec := &Recording{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inData := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !inData {
			if strings.HasPrefix(line, "Timestamp,") {
				inData = true
				rec.HasGyro = strings.Contains(line, "Gx")
				continue
			}
			// Preamble before the header; headerless files start directly
			// with numeric rows, so try the line as data too.
			if !looksNumeric(line) {
				continue
			}
			inData = true
		}

		sample, hasGyro, ok := parseRow(line)
		if !ok {
			rec.SkippedRows++
			continue
		}
		if hasGyro {
			rec.HasGyro = true
		}
		// Enforce strictly increasing timestamps; duplicates and
		// rewinds come from serial buffer glitches.
		if n := len(rec.Samples); n > 0 && sample.TimestampMS <= rec.Samples[n-1].TimestampMS {
			rec.SkippedRows++
			continue
		}
		rec.Samples = append(rec.Samples, sample)
	}

	if err := scanner.Err(); err != nil {
		return nil, NewAnalysisError("load", ErrCodeMalformedRecord, "read failed", err)
	}

	if len(rec.Samples) == 0 {
		return nil, NewAnalysisError("load", ErrCodeMalformedRecord, "no valid rows in recording", nil)
	}

	if rec.SkippedRows > 0 {
		logger.Warn("Skipped malformed rows", logging.Fields{
			"skipped": rec.SkippedRows,
			"kept":    len(rec.Samples),
		})
	}

	return rec, nil
}

func looksNumeric(line string) bool {
	first, _, _ := strings.Cut(line, ",")
	_, err := strconv.ParseInt(strings.TrimSpace(first), 10, 64)
	return err == nil
}

func parseRow(line string) (Sample, bool, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 7 && len(parts) != 4 {
		return Sample{}, false, false
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || ts < 0 {
		return Sample{}, false, false
	}

	values := make([]float64, len(parts)-1)
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Sample{}, false, false
		}
		values[i] = v
	}

	s := Sample{TimestampMS: ts}
	copy(s.Accel[:], values[:3])
	if len(values) == 6 {
		copy(s.Gyro[:], values[3:])
	}
	return s, len(values) == 6, true
}
