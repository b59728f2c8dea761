package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSum(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different input, same sum")
	}
}

func TestFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := File(p)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got != Sum([]byte("[]")) {
		t.Errorf("File = %s", got)
	}
	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
