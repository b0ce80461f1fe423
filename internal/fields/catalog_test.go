package fields

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	tests := []struct {
		field string
		want  Multiplicity
	}{
		{"studio", Single},
		{"genre", Multi},
		{"director", Multi},
	}
	for _, tt := range tests {
		got, ok := cat.Lookup(tt.field)
		if !ok {
			t.Errorf("Lookup(%q): not found", tt.field)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.field, got, tt.want)
		}
	}

	if _, ok := cat.Lookup("title"); ok {
		t.Error("title should not be batch-editable")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Default().Names()
	want := []string{"director", "genre", "studio"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat) != len(Default()) {
		t.Errorf("got %d fields, want %d", len(cat), len(Default()))
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	content := "tag: multi\nstudio: multi\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, _ := cat.Lookup("tag"); got != Multi {
		t.Errorf("tag: got %s, want multi", got)
	}
	// Override wins over the built-in entry
	if got, _ := cat.Lookup("studio"); got != Multi {
		t.Errorf("studio: got %s, want multi", got)
	}
	if got, _ := cat.Lookup("genre"); got != Multi {
		t.Errorf("genre: got %s, want multi", got)
	}
}

func TestLoadRejectsBadMultiplicity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("tag: repeated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid multiplicity")
	}
}
