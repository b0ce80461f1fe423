package batch

import (
	"errors"
	"testing"

	"github.com/nfoedit/nfoedit/internal/domain"
	"github.com/nfoedit/nfoedit/internal/fields"
	"github.com/nfoedit/nfoedit/internal/nfo"
)

func TestMutateSingleField(t *testing.T) {
	m := NewMutator(fields.Default())

	got, err := m.Mutate("studio", []string{"Old Studio"}, "Netflix", domain.ModeOverwrite)
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if len(got) != 1 || got[0] != "Netflix" {
		t.Errorf("got %v, want [Netflix]", got)
	}

	// Overwrite works the same on an unset field
	got, err = m.Mutate("studio", nil, "Netflix", domain.ModeOverwrite)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "Netflix" {
		t.Errorf("got %v, want [Netflix]", got)
	}

	// Append is meaningless for a single-valued field
	if _, err := m.Mutate("studio", nil, "Netflix", domain.ModeAppend); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("append on single field: got %v, want ErrInvalidMode", err)
	}
}

func TestMutateMultiField(t *testing.T) {
	m := NewMutator(fields.Default())
	current := []string{"Action", "Drama"}

	got, err := m.Mutate("genre", current, "Horror", domain.ModeOverwrite)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "Horror" {
		t.Errorf("overwrite: got %v, want [Horror]", got)
	}

	got, err = m.Mutate("genre", current, "Horror", domain.ModeAppend)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != "Horror" {
		t.Errorf("append: got %v, want [Action Drama Horror]", got)
	}
	// The input list is never mutated
	if len(current) != 2 {
		t.Errorf("input mutated: %v", current)
	}
}

func TestMutateAppendNoDedup(t *testing.T) {
	m := NewMutator(fields.Default())

	got, err := m.Mutate("genre", []string{"Horror"}, "Horror", domain.ModeAppend)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "Horror" || got[1] != "Horror" {
		t.Errorf("got %v, want [Horror Horror]", got)
	}
}

func TestMutateUnknownField(t *testing.T) {
	m := NewMutator(fields.Default())
	if _, err := m.Mutate("plot", nil, "x", domain.ModeOverwrite); !errors.Is(err, ErrUnknownField) {
		t.Errorf("got %v, want ErrUnknownField", err)
	}
}

func TestMutateIsPure(t *testing.T) {
	m := NewMutator(fields.Default())
	current := []string{"Action"}

	first, err := m.Mutate("genre", current, "Horror", domain.ModeAppend)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Mutate("genre", current, "Horror", domain.ModeAppend)
	if err != nil {
		t.Fatal(err)
	}
	if Render(first) != Render(second) {
		t.Errorf("same inputs gave %v then %v", first, second)
	}
}

func TestApplyMutatesRecord(t *testing.T) {
	m := NewMutator(fields.Default())
	rec := &nfo.Record{Genres: []string{"Action"}}

	if err := m.Apply(rec, "genre", "Horror", domain.ModeAppend); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(rec.Genres) != 2 || rec.Genres[1] != "Horror" {
		t.Errorf("got genres %v", rec.Genres)
	}

	if err := m.Apply(rec, "studio", "A24", domain.ModeOverwrite); err != nil {
		t.Fatal(err)
	}
	if rec.Studio != "A24" {
		t.Errorf("got studio %q", rec.Studio)
	}
}

func TestRender(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := Render([]string{"Action", "Drama"}); got != "Action, Drama" {
		t.Errorf("got %q", got)
	}
}
