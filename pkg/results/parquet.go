package results

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/naastyyshha/sortbench/pkg/sorting"
)

// TimingRow is the Parquet schema: one row per measurement and algorithm.
type TimingRow struct {
	Kind      string  `parquet:"kind"`
	Key       int64   `parquet:"key"`
	Algorithm string  `parquet:"algorithm"`
	Seconds   float64 `parquet:"seconds"`
}

type parquetSink struct {
	h   Header
	w   *parquet.GenericWriter[TimingRow]
	buf []TimingRow
}

func newParquetSink(w io.Writer, h Header) *parquetSink {
	return &parquetSink{
		h:   h,
		w:   parquet.NewGenericWriter[TimingRow](w),
		buf: make([]TimingRow, len(h.Algorithms)),
	}
}

func (s *parquetSink) Write(row Row) error {
	if err := checkWidth(s.h, row); err != nil {
		return err
	}
	for i, alg := range s.h.Algorithms {
		s.buf[i] = TimingRow{
			Kind:      s.h.Kind.String(),
			Key:       int64(row.Key),
			Algorithm: alg.String(),
			Seconds:   row.Seconds[i],
		}
	}
	_, err := s.w.Write(s.buf)
	return err
}

func (s *parquetSink) Close() error {
	return s.w.Close()
}

// ReadParquet reads a Parquet result file written by WriteFile.
func ReadParquet(path string) ([]TimingRow, error) {
	if !isGzip(path) {
		return parquet.ReadFile[TimingRow](path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	defer gz.Close()
	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("read gzip %s: %w", path, err)
	}
	return parquet.Read[TimingRow](bytes.NewReader(data), int64(len(data)))
}

// pivot turns long-form rows back into a Table. Keys and algorithms keep
// the order in which they first appear; every key needs exactly one timing
// per algorithm.
func pivot(rows []TimingRow) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty results file")
	}
	kind, err := parseKind(rows[0].Kind)
	if err != nil {
		return nil, err
	}

	var algs []string
	var keys []int64
	algIdx := make(map[string]int)
	keyIdx := make(map[int64]int)
	for _, r := range rows {
		if r.Kind != rows[0].Kind {
			return nil, fmt.Errorf("mixed row kinds %q and %q", rows[0].Kind, r.Kind)
		}
		if _, ok := algIdx[r.Algorithm]; !ok {
			algIdx[r.Algorithm] = len(algs)
			algs = append(algs, r.Algorithm)
		}
		if _, ok := keyIdx[r.Key]; !ok {
			keyIdx[r.Key] = len(keys)
			keys = append(keys, r.Key)
		}
	}

	t := &Table{
		Labels:  []string{keyLabels[kind]},
		Keys:    make([]int, len(keys)),
		Columns: make([][]float64, len(algs)),
	}
	for i, k := range keys {
		t.Keys[i] = int(k)
	}
	for i, name := range algs {
		label := name
		if alg, err := sorting.ParseAlgorithm(name); err == nil {
			label = columnLabel(kind, alg)
		}
		t.Labels = append(t.Labels, label)
		t.Columns[i] = make([]float64, len(keys))
	}

	if len(rows) != len(keys)*len(algs) {
		return nil, fmt.Errorf("%w: %d timings for %d keys and %d algorithms",
			ErrRowWidth, len(rows), len(keys), len(algs))
	}
	seen := make([]bool, len(keys)*len(algs))
	for _, r := range rows {
		k, a := keyIdx[r.Key], algIdx[r.Algorithm]
		if seen[k*len(algs)+a] {
			return nil, fmt.Errorf("duplicate timing for key %d, %s", r.Key, r.Algorithm)
		}
		seen[k*len(algs)+a] = true
		t.Columns[a][k] = r.Seconds
	}
	return t, nil
}

func parseKind(s string) (Kind, error) {
	for _, k := range []Kind{Boxplot, Sweep} {
		if s == k.String() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown row kind: %q", s)
}
