// Package results writes benchmark timings for later plotting and reads them
// back for summaries.
//
// A result file has one row per measurement: a key (the run number of a
// boxplot file or the array size of a sweep file) followed by the time in
// seconds each algorithm took. CSV is the primary format; Parquet stores the
// same data in long form (one row per key and algorithm).
package results

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/naastyyshha/sortbench/pkg/fileutil"
	"github.com/naastyyshha/sortbench/pkg/sorting"
)

// ErrRowWidth is returned when a row does not carry one timing per algorithm.
var ErrRowWidth = errors.New("row width does not match header")

// Kind says what the key column of a result file holds.
type Kind int

const (
	// Boxplot files repeat one size; the key is the 1-based run number.
	Boxplot Kind = iota + 1
	// Sweep files grow the size; the key is the array size.
	Sweep
)

func (k Kind) String() string {
	switch k {
	case Boxplot:
		return "run"
	case Sweep:
		return "size"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column labels, as expected by the plotting scripts.
var (
	keyLabels = map[Kind]string{
		Boxplot: "Запуск",
		Sweep:   "РазмерМассива",
	}
	columnLabels = map[Kind]map[sorting.Algorithm]string{
		Boxplot: {
			sorting.Selection: "Сортировка_выбором",
			sorting.Tree:      "Сортировка_деревом",
			sorting.Counting:  "Сортировка_подсчётом",
		},
		Sweep: {
			sorting.Selection: "СортировкаВыбором",
			sorting.Tree:      "СортировкаДеревом",
			sorting.Counting:  "СортировкаПодсчётом",
		},
	}
)

// Header describes the columns of a result file.
type Header struct {
	Kind       Kind
	Algorithms []sorting.Algorithm
}

// Labels returns the header row: the key label then one label per algorithm.
func (h Header) Labels() []string {
	labels := make([]string, 0, len(h.Algorithms)+1)
	labels = append(labels, keyLabels[h.Kind])
	for _, alg := range h.Algorithms {
		labels = append(labels, columnLabel(h.Kind, alg))
	}
	return labels
}

func columnLabel(kind Kind, alg sorting.Algorithm) string {
	if label, ok := columnLabels[kind][alg]; ok {
		return label
	}
	return alg.String()
}

// Row is one measurement: a key and the seconds taken per algorithm, in
// header order.
type Row struct {
	Key     int
	Seconds []float64
}

// Sink receives rows as they are measured.
type Sink interface {
	Write(row Row) error
}

// Format is the on-disk encoding of a result file.
type Format int

const (
	CSV Format = iota
	Parquet
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .parquet is written as CSV; a .gz suffix adds gzip compression.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".parquet") {
		return Parquet
	}
	return CSV
}

// ParseFormat parses a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return CSV, nil
	case "parquet":
		return Parquet, nil
	default:
		return CSV, fmt.Errorf("unknown format: %s", s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == Parquet {
		return ".parquet"
	}
	return ".csv"
}

// sink is a Sink that must be flushed before the file is closed.
type sink interface {
	Sink
	Close() error
}

// WriteFile creates path and streams the rows produced by fill into it.
// The file is created before fill runs, so an unwritable path fails without
// running any benchmark. The file only appears at path once fill succeeds.
func WriteFile(path string, h Header, fill func(Sink) error) error {
	return fileutil.WriteTmpThenMove(path, func(f *os.File) error {
		var w io.Writer = f
		var gz *gzip.Writer
		if isGzip(path) {
			gz = gzip.NewWriter(f)
			w = gz
		}

		var s sink
		switch FormatFromPath(strings.TrimSuffix(path, ".gz")) {
		case Parquet:
			s = newParquetSink(w, h)
		default:
			var err error
			if s, err = newCSVSink(w, h); err != nil {
				return err
			}
		}

		if err := fill(s); err != nil {
			return err
		}
		if err := s.Close(); err != nil {
			return fmt.Errorf("flush %s: %w", path, err)
		}
		if gz != nil {
			if err := gz.Close(); err != nil {
				return fmt.Errorf("close gzip %s: %w", path, err)
			}
		}
		return nil
	})
}

// ReadTable reads a result file written by WriteFile, picking the reader
// from the file extension.
func ReadTable(path string) (*Table, error) {
	if FormatFromPath(strings.TrimSuffix(path, ".gz")) != Parquet {
		return ReadCSV(path)
	}
	rows, err := ReadParquet(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t, err := pivot(rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

func checkWidth(h Header, row Row) error {
	if len(row.Seconds) != len(h.Algorithms) {
		return fmt.Errorf("%w: got %d timings, want %d", ErrRowWidth, len(row.Seconds), len(h.Algorithms))
	}
	return nil
}
