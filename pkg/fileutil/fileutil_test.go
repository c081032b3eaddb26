package fileutil

import (
	"crypto/sha256"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCopyFileExclusive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileExclusive(src, dst); err != nil {
		t.Fatal(err)
	}
	if err := CopyModTime(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), mtime)
	}

	// Source must be left intact
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source removed: %v", err)
	}
}

func TestVerifyCopy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "copy.jpg")
	if err := os.WriteFile(path, []byte("copied bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	good := sha256.Sum256([]byte("copied bytes"))
	bad := sha256.Sum256([]byte("source bytes"))

	tests := []struct {
		name    string
		size    int64
		digest  []byte
		wantErr bool
	}{
		{"match", 12, good[:], false},
		{"size differs", 20, good[:], true},
		{"content differs", 12, bad[:], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyCopy(path, tt.size, tt.digest)
			if (err != nil) != tt.wantErr {
				t.Errorf("verifyCopy() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := verifyCopy(filepath.Join(dir, "missing"), 0, good[:]); err == nil {
		t.Error("verifyCopy() on a missing file should fail")
	}
}

func TestCopyModTime_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.jpg")
	if err := os.WriteFile(dst, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyModTime(filepath.Join(dir, "missing"), dst); err == nil {
		t.Error("CopyModTime() with a missing source should fail")
	}
}

func TestCopyFileExclusive_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.png")

	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := CopyFileExclusive(src, dst)
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected os.ErrExist, got %v", err)
	}

	got, _ := os.ReadFile(dst)
	if string(got) != "old" {
		t.Errorf("existing file overwritten: %q", got)
	}
}

func TestCopyFileExclusive_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst")

	if err := CopyFileExclusive(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("destination should not exist, stat err = %v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")

	if err := os.WriteFile(path, []byte("before"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "after")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "after" {
		t.Errorf("got %q, want %q", got, "after")
	}
}

func TestWriteFileAtomic_WriterErrorKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")

	if err := os.WriteFile(path, []byte("before"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "before" {
		t.Errorf("original clobbered: %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}
