package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<movie><title>x</title></movie>"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFindsNestedNFOFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.nfo"))
	touch(t, filepath.Join(root, "a.nfo"))
	touch(t, filepath.Join(root, "sub", "deep", "c.nfo"))
	touch(t, filepath.Join(root, "readme.txt"))
	touch(t, filepath.Join(root, "poster.jpg"))

	files, err := NewScanner(0).Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3: %v", len(files), files)
	}
	// Sorted directory reads make the order deterministic
	want := []string{
		filepath.Join(root, "a.nfo"),
		filepath.Join(root, "b.nfo"),
		filepath.Join(root, "sub", "deep", "c.nfo"),
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}
}

func TestScanOrderingStable(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zz.nfo", "aa.nfo", "mm.nfo"} {
		touch(t, filepath.Join(root, name))
	}

	s := NewScanner(0)
	first, err := s.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("order unstable at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestScanSkipsDotEntries(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.nfo"))
	touch(t, filepath.Join(root, ".hidden.nfo"))
	touch(t, filepath.Join(root, ".git", "objects", "sneaky.nfo"))

	files, err := NewScanner(0).Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "keep.nfo" {
		t.Errorf("got %v, want only keep.nfo", files)
	}
}

func TestScanExtensionCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "upper.NFO"))
	touch(t, filepath.Join(root, "mixed.Nfo"))

	files, err := NewScanner(0).Scan(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2: %v", len(files), files)
	}
}

func TestScanDepthLimit(t *testing.T) {
	root := t.TempDir()
	deep := root
	for i := 0; i < 5; i++ {
		deep = filepath.Join(deep, "d")
	}
	touch(t, filepath.Join(deep, "bottom.nfo"))

	if _, err := NewScanner(3).Scan(root); err == nil {
		t.Fatal("expected depth error")
	} else {
		var de *DepthError
		if !errors.As(err, &de) {
			t.Fatalf("got %T, want *DepthError", err)
		}
		if !errors.Is(err, ErrResourceLimit) {
			t.Error("DepthError should match ErrResourceLimit")
		}
	}

	// Same tree passes with a generous limit
	files, err := NewScanner(10).Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want 1", len(files))
	}
}

func TestScanSkipsUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "ok.nfo"))
	locked := filepath.Join(root, "locked")
	touch(t, filepath.Join(locked, "secret.nfo"))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	files, err := NewScanner(0).Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "ok.nfo" {
		t.Errorf("got %v, want only ok.nfo", files)
	}
}
