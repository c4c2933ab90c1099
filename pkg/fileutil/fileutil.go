// Package fileutil writes result files with tmp+mv semantics so an
// interrupted benchmark never leaves a truncated CSV behind.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/naastyyshha/sortbench/pkg/logging"
)

// TmpSuffix marks files that are still being written.
const TmpSuffix = ".tmp"

// ErrCreate is returned when the output file cannot be opened for writing.
var ErrCreate = errors.New("cannot open output file")

// WriteTmpThenMove creates outPath+".tmp" next to outPath, hands it to
// writeFunc, fsyncs it and renames it over outPath. The temporary file is
// created before writeFunc runs, so an unwritable destination fails with
// ErrCreate before any work is done. On error the temporary file is removed
// and outPath is left untouched.
func WriteTmpThenMove(outPath string, writeFunc func(f *os.File) error) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w %s: %w", ErrCreate, outPath, err)
		}
	}

	tmpPath := outPath + TmpSuffix
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrCreate, outPath, err)
	}

	if err := writeFunc(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to final: %w", err)
	}

	return nil
}

// RemoveStaleTmp removes the temporary files a killed run may have left
// next to outPaths. Only outPath+TmpSuffix regular files are touched.
func RemoveStaleTmp(outPaths ...string) error {
	log := logging.L()

	var errs []error
	removed := 0
	for _, outPath := range outPaths {
		tmpPath := outPath + TmpSuffix
		info, err := os.Lstat(tmpPath)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := os.Remove(tmpPath); err != nil {
			errs = append(errs, fmt.Errorf("remove stale %s: %w", tmpPath, err))
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Debug().Int("files_removed", removed).Msg("removed stale tmp files")
	}
	return errors.Join(errs...)
}
