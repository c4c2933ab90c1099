package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestWriteTmpThenMove(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "nested", "boxplot_10k.csv")

	content := []byte("Запуск,Сортировка_выбором\n1,0.5\n")
	err := WriteTmpThenMove(outPath, func(f *os.File) error {
		if f.Name() != outPath+TmpSuffix {
			t.Errorf("writeFunc got %s, want %s", f.Name(), outPath+TmpSuffix)
		}
		_, err := f.Write(content)
		return err
	})
	if err != nil {
		t.Fatalf("WriteTmpThenMove failed: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Content mismatch: got %q, want %q", got, content)
	}

	if exists(outPath + TmpSuffix) {
		t.Error("Tmp file still exists after successful write")
	}
}

func TestWriteTmpThenMoveError(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "output.csv")

	err := WriteTmpThenMove(outPath, func(f *os.File) error {
		return os.ErrPermission
	})
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected writeFunc error, got %v", err)
	}

	if exists(outPath + TmpSuffix) {
		t.Error("Tmp file exists after failed write")
	}
	if exists(outPath) {
		t.Error("Output file exists after failed write")
	}
}

func TestWriteTmpThenMoveKeepsOldFileOnError(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "output.csv")
	if err := os.WriteFile(outPath, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	_ = WriteTmpThenMove(outPath, func(f *os.File) error {
		f.WriteString("partial")
		return errors.New("interrupted")
	})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Errorf("old file replaced after failed write: %q", got)
	}
}

func TestWriteTmpThenMoveUnwritable(t *testing.T) {
	// A regular file cannot act as a parent directory.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	called := false
	err := WriteTmpThenMove(filepath.Join(blocker, "out.csv"), func(f *os.File) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCreate) {
		t.Errorf("expected ErrCreate, got %v", err)
	}
	if called {
		t.Error("writeFunc ran although the file could not be created")
	}
}

func TestRemoveStaleTmp(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "boxplot_10k.csv")

	stale := outPath + TmpSuffix
	foreign := filepath.Join(dir, "notes", "draft.tmp")
	sibling := filepath.Join(dir, "other.csv.tmp")
	if err := os.MkdirAll(filepath.Dir(foreign), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{stale, foreign, sibling} {
		if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := RemoveStaleTmp(outPath, filepath.Join(dir, "boxplot_100k.csv")); err != nil {
		t.Fatalf("RemoveStaleTmp failed: %v", err)
	}

	if exists(stale) {
		t.Error("stale tmp file still exists")
	}
	if !exists(foreign) {
		t.Error("unrelated tmp file in a subdirectory was removed")
	}
	if !exists(sibling) {
		t.Error("tmp file of another output was removed")
	}
}

func TestRemoveStaleTmpSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.csv")
	if err := os.Mkdir(outPath+TmpSuffix, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := RemoveStaleTmp(outPath); err != nil {
		t.Fatalf("RemoveStaleTmp failed: %v", err)
	}
	if !exists(outPath + TmpSuffix) {
		t.Error("directory was removed")
	}
}
