package results

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// FormatSeconds renders a timing the way the plotting scripts expect: up to
// six significant digits, exponent form for very small values.
func FormatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'g', 6, 64)
}

type csvSink struct {
	h      Header
	w      *csv.Writer
	record []string
}

func newCSVSink(w io.Writer, h Header) (*csvSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(h.Labels()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &csvSink{
		h:      h,
		w:      cw,
		record: make([]string, len(h.Algorithms)+1),
	}, nil
}

func (s *csvSink) Write(row Row) error {
	if err := checkWidth(s.h, row); err != nil {
		return err
	}
	s.record[0] = strconv.Itoa(row.Key)
	for i, sec := range row.Seconds {
		s.record[i+1] = FormatSeconds(sec)
	}
	return s.w.Write(s.record)
}

func (s *csvSink) Close() error {
	s.w.Flush()
	return s.w.Error()
}

// Table is a result file read back into memory.
type Table struct {
	// Labels is the header row.
	Labels []string
	// Keys holds the first column of every row.
	Keys []int
	// Columns holds one slice of timings per algorithm column.
	Columns [][]float64
}

// newResultsReader creates a csv.Reader that reuses record slices and
// requires every row to match the header width.
func newResultsReader(r io.Reader) *csv.Reader {
	csvr := csv.NewReader(r)
	csvr.ReuseRecord = true
	csvr.FieldsPerRecord = 0
	return csvr
}

// decompressReader wraps a reader with gzip decompression if the path ends in .gz.
// Returns the reader (possibly wrapped), a closer function that must be called,
// and any error. The closer may be nil if no decompression wrapper was added.
func decompressReader(r io.Reader, path string) (io.Reader, func() error, error) {
	if !isGzip(path) {
		return r, nil, nil
	}

	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return gzr, gzr.Close, nil
}

// ReadCSV reads a CSV result file, optionally gzip-compressed.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	r, closer, err := decompressReader(f, path)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer()
	}
	return readTable(r)
}

func readTable(r io.Reader) (*Table, error) {
	csvr := newResultsReader(r)

	header, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty results file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header has %d columns, want at least 2", len(header))
	}

	t := &Table{
		Labels:  append([]string(nil), header...),
		Columns: make([][]float64, len(header)-1),
	}

	for line := 2; ; line++ {
		record, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		key, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse key %q: %w", line, record[0], err)
		}
		t.Keys = append(t.Keys, key)

		for i, field := range record[1:] {
			sec, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, t.Labels[i+1], err)
			}
			t.Columns[i] = append(t.Columns[i], sec)
		}
	}

	return t, nil
}
