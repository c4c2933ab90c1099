package results

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/naastyyshha/sortbench/pkg/fileutil"
	"github.com/naastyyshha/sortbench/pkg/sorting"
)

func boxplotHeader() Header {
	return Header{Kind: Boxplot, Algorithms: sorting.All()}
}

func writeRows(rows ...Row) func(Sink) error {
	return func(s Sink) error {
		for _, r := range rows {
			if err := s.Write(r); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestHeaderLabels(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Boxplot, "Запуск,Сортировка_выбором,Сортировка_деревом,Сортировка_подсчётом"},
		{Sweep, "РазмерМассива,СортировкаВыбором,СортировкаДеревом,СортировкаПодсчётом"},
	}

	for _, tt := range tests {
		h := Header{Kind: tt.kind, Algorithms: sorting.All()}
		if got := strings.Join(h.Labels(), ","); got != tt.want {
			t.Errorf("%v labels = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{0.5, "0.5"},
		{0.123456789, "0.123457"},
		{0.000012, "1.2e-05"},
		{12.75, "12.75"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.input); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxplot_10k.csv")

	err := WriteFile(path, boxplotHeader(), writeRows(
		Row{Key: 1, Seconds: []float64{0.25, 0.001, 0.0005}},
		Row{Key: 2, Seconds: []float64{0.5, 0.002, 0.000012}},
	))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Запуск,Сортировка_выбором,Сортировка_деревом,Сортировка_подсчётом\n" +
		"1,0.25,0.001,0.0005\n" +
		"2,0.5,0.002,1.2e-05\n"
	if string(got) != want {
		t.Errorf("file content:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteFileRowWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")

	err := WriteFile(path, boxplotHeader(), writeRows(Row{Key: 1, Seconds: []float64{0.1}}))
	if !errors.Is(err, ErrRowWidth) {
		t.Fatalf("expected ErrRowWidth, got %v", err)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("failed write left a result file behind")
	}
}

func TestWriteFileUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ran := false
	err := WriteFile(filepath.Join(blocker, "out.csv"), boxplotHeader(), func(Sink) error {
		ran = true
		return nil
	})
	if !errors.Is(err, fileutil.ErrCreate) {
		t.Fatalf("expected ErrCreate, got %v", err)
	}
	if ran {
		t.Error("fill ran although the file could not be opened")
	}
}

func TestCSVRoundTripGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorting_performance.csv.gz")
	h := Header{Kind: Sweep, Algorithms: sorting.All()}

	err := WriteFile(path, h, writeRows(
		Row{Key: 1000, Seconds: []float64{0.002, 0.0001, 0.00002}},
		Row{Key: 2000, Seconds: []float64{0.008, 0.0002, 0.00004}},
	))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	table, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(table.Labels) != 4 || table.Labels[0] != "РазмерМассива" {
		t.Errorf("labels = %v", table.Labels)
	}
	if len(table.Keys) != 2 || table.Keys[0] != 1000 || table.Keys[1] != 2000 {
		t.Errorf("keys = %v", table.Keys)
	}
	if table.Columns[0][1] != 0.008 || table.Columns[2][0] != 0.00002 {
		t.Errorf("columns = %v", table.Columns)
	}
}

func TestReadCSVErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "", "empty results file"},
		{"narrow_header", "Запуск\n1\n", "at least 2"},
		{"bad_key", "Запуск,a\nx,0.1\n", "parse key"},
		{"bad_timing", "Запуск,a\n1,fast\n", "column a"},
		{"ragged", "Запуск,a,b\n1,0.1\n", "read line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadCSV(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadCSV error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if _, err := ReadCSV(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteFileParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxplot_10k.parquet")

	err := WriteFile(path, boxplotHeader(), writeRows(
		Row{Key: 1, Seconds: []float64{0.25, 0.001, 0.0005}},
		Row{Key: 2, Seconds: []float64{0.5, 0.002, 0.0006}},
	))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rows, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}

	want := TimingRow{Kind: "run", Key: 2, Algorithm: "tree", Seconds: 0.002}
	if rows[4] != want {
		t.Errorf("rows[4] = %+v, want %+v", rows[4], want)
	}
}

func TestFormats(t *testing.T) {
	if FormatFromPath("a/b.parquet") != Parquet {
		t.Error("expected Parquet for .parquet")
	}
	if FormatFromPath("a/b.csv") != CSV {
		t.Error("expected CSV for .csv")
	}

	f, err := ParseFormat("PARQUET")
	if err != nil || f != Parquet {
		t.Errorf("ParseFormat(PARQUET) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("expected error for unknown format")
	}
	if CSV.Ext() != ".csv" || Parquet.Ext() != ".parquet" {
		t.Error("unexpected extensions")
	}
}

func TestSummarize(t *testing.T) {
	table := &Table{
		Labels: []string{"Запуск", "a", "b"},
		Keys:   []int{1, 2, 3, 4, 5},
		Columns: [][]float64{
			{5, 1, 4, 2, 3},
			{},
		},
	}

	got := Summarize(table)
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}

	want := ColumnSummary{Label: "a", Count: 5, Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5, Mean: 3}
	if got[0] != want {
		t.Errorf("summary = %+v, want %+v", got[0], want)
	}
	if got[1].Count != 0 || got[1].Label != "b" {
		t.Errorf("empty column summary = %+v", got[1])
	}
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := quantile(sorted, 0.5); got != 2.5 {
		t.Errorf("median of %v = %v, want 2.5", sorted, got)
	}
	if got := quantile(sorted, 1); got != 4 {
		t.Errorf("max quantile = %v, want 4", got)
	}
	if got := quantile([]float64{7}, 0.25); got != 7 {
		t.Errorf("single value quantile = %v, want 7", got)
	}
}

func TestReadTableParquet(t *testing.T) {
	for _, name := range []string{"boxplot_10k.parquet", "boxplot_10k.parquet.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			err := WriteFile(path, boxplotHeader(), writeRows(
				Row{Key: 1, Seconds: []float64{0.25, 0.001, 0.0005}},
				Row{Key: 2, Seconds: []float64{0.5, 0.002, 0.0006}},
			))
			if err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			table, err := ReadTable(path)
			if err != nil {
				t.Fatalf("ReadTable: %v", err)
			}
			if got := strings.Join(table.Labels, ","); got != strings.Join(boxplotHeader().Labels(), ",") {
				t.Errorf("labels = %q", got)
			}
			if len(table.Keys) != 2 || table.Keys[0] != 1 || table.Keys[1] != 2 {
				t.Errorf("keys = %v", table.Keys)
			}
			if len(table.Columns) != 3 || table.Columns[0][1] != 0.5 || table.Columns[2][0] != 0.0005 {
				t.Errorf("columns = %v", table.Columns)
			}
		})
	}
}

func TestReadTableCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.csv")
	h := Header{Kind: Sweep, Algorithms: []sorting.Algorithm{sorting.Counting}}
	if err := WriteFile(path, h, writeRows(Row{Key: 1000, Seconds: []float64{0.01}})); err != nil {
		t.Fatal(err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if table.Labels[1] != "СортировкаПодсчётом" || table.Keys[0] != 1000 {
		t.Errorf("table = %+v", table)
	}
}

func TestPivotErrors(t *testing.T) {
	tests := []struct {
		name    string
		rows    []TimingRow
		wantErr string
	}{
		{"empty", nil, "empty results file"},
		{"kind", []TimingRow{{Kind: "depth", Key: 1, Algorithm: "tree"}}, "unknown row kind"},
		{"mixed", []TimingRow{
			{Kind: "run", Key: 1, Algorithm: "tree"},
			{Kind: "size", Key: 1, Algorithm: "tree"},
		}, "mixed row kinds"},
		{"missing", []TimingRow{
			{Kind: "run", Key: 1, Algorithm: "tree"},
			{Kind: "run", Key: 1, Algorithm: "counting"},
			{Kind: "run", Key: 2, Algorithm: "tree"},
		}, "row width"},
		{"duplicate", []TimingRow{
			{Kind: "run", Key: 1, Algorithm: "tree"},
			{Kind: "run", Key: 1, Algorithm: "tree"},
			{Kind: "run", Key: 2, Algorithm: "tree"},
			{Kind: "run", Key: 2, Algorithm: "counting"},
		}, "duplicate timing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pivot(tt.rows)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("pivot error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPivotUnknownAlgorithmKeepsName(t *testing.T) {
	table, err := pivot([]TimingRow{
		{Kind: "size", Key: 10, Algorithm: "bogo", Seconds: 1},
		{Kind: "size", Key: 10, Algorithm: "selection", Seconds: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "РазмерМассива,bogo,СортировкаВыбором"
	if got := strings.Join(table.Labels, ","); got != want {
		t.Errorf("labels = %q, want %q", got, want)
	}
}
