package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDigest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ref.rttm")

	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Digest(src)
	if err != nil {
		t.Fatal(err)
	}
	const want = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got.SHA256 != want {
		t.Fatalf("digest mismatch: got %q, want %q", got.SHA256, want)
	}
	if got.Size != 11 || got.Path != src {
		t.Fatalf("unexpected fingerprint: %+v", got)
	}
}

func TestDigest_MissingSource(t *testing.T) {
	_, err := Digest(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
