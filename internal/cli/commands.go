package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/naastyyshha/sortbench/internal/logctx"
	"github.com/naastyyshha/sortbench/pkg/harness"
	"github.com/naastyyshha/sortbench/pkg/inputgen"
	"github.com/naastyyshha/sortbench/pkg/logging"
	"github.com/naastyyshha/sortbench/pkg/results"
	"github.com/naastyyshha/sortbench/pkg/sorting"
)

// Console labels.
var (
	caseLabels = map[inputgen.Case]string{
		inputgen.Best:    "Лучший случай:  ",
		inputgen.Average: "Средний случай: ",
		inputgen.Worst:   "Худший случай:  ",
	}
	progressLabels = map[sorting.Algorithm]string{
		sorting.Selection: "выбором",
		sorting.Tree:      "деревом",
		sorting.Counting:  "подсчётом",
	}
)

func passLabel(ok bool) string {
	if ok {
		return "Пройден"
	}
	return "Не пройден"
}

func runCheck(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	n := fs.Int("n", harness.DefaultCheckSize, "input length per case")

	if done, err := parseFlags(fs, args, stdout); done {
		return err
	}
	if *n <= 0 {
		return fmt.Errorf("--n must be positive, got %d", *n)
	}
	algs, err := common.algorithms()
	if err != nil {
		return err
	}

	e, cleanup, err := common.setup(ctx, "check")
	if err != nil {
		return err
	}
	defer cleanup()

	h := harness.New(e.budget, algs...)
	failed := 0
	for _, alg := range h.Algorithms() {
		report, err := h.Check(e.ctx, alg, *n)
		if err != nil {
			return fmt.Errorf("check %s: %w", alg, err)
		}

		fmt.Fprintf(stdout, "\nТестирование: %s\n", alg.Title())
		for _, res := range report.Results {
			fmt.Fprintf(stdout, "%s%s\n", caseLabels[res.Case], passLabel(res.Passed()))
		}
		if report.Passed() {
			fmt.Fprintln(stdout, "Итог: Все тесты пройдены")
		} else {
			fmt.Fprintln(stdout, "Итог: Есть проваленные тесты")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d algorithms failed the correctness check", failed, len(h.Algorithms()))
	}
	return nil
}

func runBoxplot(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("boxplot", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	outDir := fs.String("out-dir", ".", "directory for boxplot_<size>.csv files")
	runs := fs.Int("runs", harness.DefaultRuns, "measurements per size")
	sizesFlag := fs.String("sizes", "10000,100000", "comma-separated array sizes")
	formatFlag := fs.String("format", "csv", "output format: csv or parquet")
	uploadURI := fs.String("upload", "", "upload result files to s3://bucket/prefix")

	if done, err := parseFlags(fs, args, stdout); done {
		return err
	}
	if *runs <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", *runs)
	}
	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		return err
	}
	format, err := results.ParseFormat(*formatFlag)
	if err != nil {
		return fmt.Errorf("invalid --format: %w", err)
	}
	if err := validateUploadURI(*uploadURI); err != nil {
		return err
	}
	algs, err := common.algorithms()
	if err != nil {
		return err
	}

	e, cleanup, err := common.setup(ctx, "boxplot")
	if err != nil {
		return err
	}
	defer cleanup()

	paths := make([]string, len(sizes))
	for i, size := range sizes {
		paths[i] = filepath.Join(*outDir, "boxplot_"+sizeLabel(size)+format.Ext())
	}
	removeStaleTmp(e.ctx, paths...)

	h := harness.New(e.budget, algs...)
	var written []string
	var errs []error
	for i, size := range sizes {
		path := paths[i]
		e.tracker.SetPhase(fmt.Sprintf("boxplot n=%d", size))

		err := writeBoxplot(e.ctx, h, path, harness.BoxplotConfig{Size: size, Runs: *runs}, stdout)
		if err != nil {
			if harness.IsCanceled(err) {
				return err
			}
			log := logctx.FromContext(e.ctx)
			log.Error().Err(err).Str("file", path).Msg("boxplot failed")
			errs = append(errs, err)
			continue
		}
		written = append(written, path)
		e.tracker.LogWithBudget("boxplot file written", e.budget)
	}

	if err := upload(e.ctx, *uploadURI, written...); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	fmt.Fprintln(stdout, "Все данные для boxplot успешно сгенерированы")
	return nil
}

func writeBoxplot(ctx context.Context, h *harness.Harness, path string, cfg harness.BoxplotConfig, stdout io.Writer) error {
	start := time.Now()
	err := results.WriteFile(path, h.Header(results.Boxplot), func(sink results.Sink) error {
		fmt.Fprintf(stdout, "Генерация данных для boxplot: n = %d, запусков = %d\n", cfg.Size, cfg.Runs)
		return h.Boxplot(ctx, cfg, sink)
	})
	if err != nil {
		return fmt.Errorf("boxplot %s: %w", path, err)
	}

	logging.FileWritten(logctx.FromContext(ctx), "boxplot", time.Since(start)).
		Str("file", path).
		Bytes("size", fileSize(path)).
		Count("n", int64(cfg.Size)).
		Int("runs", cfg.Runs).
		Log("boxplot file written")
	fmt.Fprintf(stdout, "Данные сохранены в файл: %s\n\n", path)
	return nil
}

func runSweep(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	out := fs.String("out", "sorting_performance.csv", "output file (.csv, .csv.gz or .parquet)")
	start := fs.Int("start", harness.DefaultSweepStart, "first array size")
	end := fs.Int("end", harness.DefaultSweepEnd, "last array size")
	step := fs.Int("step", harness.DefaultSweepStep, "size increment")
	logEvery := fs.Int("log-every", harness.DefaultLogEvery, "report progress for sizes divisible by this")
	uploadURI := fs.String("upload", "", "upload the result file to s3://bucket/prefix")

	if done, err := parseFlags(fs, args, stdout); done {
		return err
	}
	if *start <= 0 || *step <= 0 || *logEvery <= 0 {
		return errors.New("--start, --step and --log-every must be positive")
	}
	if *end < *start {
		return fmt.Errorf("--end %d is below --start %d", *end, *start)
	}
	if err := validateUploadURI(*uploadURI); err != nil {
		return err
	}
	algs, err := common.algorithms()
	if err != nil {
		return err
	}

	e, cleanup, err := common.setup(ctx, "sweep")
	if err != nil {
		return err
	}
	defer cleanup()

	removeStaleTmp(e.ctx, *out)
	h := harness.New(e.budget, algs...)
	cfg := harness.SweepConfig{
		Start:    *start,
		End:      *end,
		Step:     *step,
		LogEvery: *logEvery,
		Progress: func(row results.Row) {
			fmt.Fprint(stdout, progressLine(h.Algorithms(), row))
		},
	}

	began := time.Now()
	err = results.WriteFile(*out, h.Header(results.Sweep), func(sink results.Sink) error {
		fmt.Fprintf(stdout, "Диапазон размеров: от %d до %d с шагом %d\n", cfg.Start, cfg.End, cfg.Step)
		return h.Sweep(e.ctx, cfg, sink)
	})
	if err != nil {
		return fmt.Errorf("sweep %s: %w", *out, err)
	}
	e.tracker.LogWithBudget("sweep file written", e.budget)

	logging.FileWritten(logctx.FromContext(e.ctx), "sweep", time.Since(began)).
		Str("file", *out).
		Bytes("size", fileSize(*out)).
		Count("points", int64(cfg.Points())).
		Log("sweep file written")
	fmt.Fprintf(stdout, "\nДанные сохранены в файл: %s\n", *out)
	fmt.Fprintf(stdout, "Всего точек данных: %d\n", cfg.Points())

	return upload(e.ctx, *uploadURI, *out)
}

// progressLine renders a sweep progress row for the console.
func progressLine(algs []sorting.Algorithm, row results.Row) string {
	line := fmt.Sprintf("Обработан размер: %d (", row.Key)
	for i, alg := range algs {
		if i > 0 {
			line += ", "
		}
		line += fmt.Sprintf("%s: %s c", progressLabels[alg], results.FormatSeconds(row.Seconds[i]))
	}
	return line + ")\n"
}

func runSummary(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	if done, err := parseFlags(fs, args, stdout); done {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("at least one result file is required")
	}

	for _, path := range fs.Args() {
		table, err := results.ReadTable(path)
		if err != nil {
			return fmt.Errorf("summary %s: %w", path, err)
		}
		if err := printSummary(stdout, path, results.Summarize(table)); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(w io.Writer, path string, summaries []results.ColumnSummary) error {
	fmt.Fprintf(w, "%s\n", path)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Столбец\tN\tМин\tQ1\tМедиана\tQ3\tМакс\tСреднее")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Label, s.Count,
			results.FormatSeconds(s.Min),
			results.FormatSeconds(s.Q1),
			results.FormatSeconds(s.Median),
			results.FormatSeconds(s.Q3),
			results.FormatSeconds(s.Max),
			results.FormatSeconds(s.Mean))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}
