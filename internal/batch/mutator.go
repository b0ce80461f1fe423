package batch

import (
	"fmt"
	"strings"

	"github.com/nfoedit/nfoedit/internal/domain"
	"github.com/nfoedit/nfoedit/internal/fields"
	"github.com/nfoedit/nfoedit/internal/nfo"
)

// Mutator computes field mutations. It is pure: the same inputs always
// yield the same output, and both preview and apply go through Mutate, so
// what the preview shows is exactly what apply writes.
type Mutator struct {
	catalog fields.Catalog
}

// NewMutator creates a mutator over the given field catalog
func NewMutator(catalog fields.Catalog) *Mutator {
	return &Mutator{catalog: catalog}
}

// Catalog returns the mutator's field catalog
func (m *Mutator) Catalog() fields.Catalog {
	return m.catalog
}

// Mutate returns the field's new value list given its current list.
// Single-valued fields accept overwrite only. Multi-valued fields accept
// overwrite (replace the whole list) or append, which adds the value to
// the end with no deduplication: appending the same value twice yields it
// twice, by contract.
func (m *Mutator) Mutate(field string, current []string, value string, mode domain.Mode) ([]string, error) {
	mult, ok := m.catalog.Lookup(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	switch mult {
	case fields.Single:
		if mode != domain.ModeOverwrite {
			return nil, fmt.Errorf("%w: %q does not support mode %q", ErrInvalidMode, field, mode)
		}
		return []string{value}, nil
	case fields.Multi:
		switch mode {
		case domain.ModeOverwrite:
			return []string{value}, nil
		case domain.ModeAppend:
			out := make([]string, 0, len(current)+1)
			out = append(out, current...)
			out = append(out, value)
			return out, nil
		default:
			return nil, fmt.Errorf("%w: %q does not support mode %q", ErrInvalidMode, field, mode)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// Apply mutates a record's field in place
func (m *Mutator) Apply(r *nfo.Record, field, value string, mode domain.Mode) error {
	current, ok := r.FieldValues(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	next, err := m.Mutate(field, current, value, mode)
	if err != nil {
		return err
	}
	r.SetFieldValues(field, next)
	return nil
}

// Render is the display form of a value list, shared by preview records
// and status output
func Render(values []string) string {
	return strings.Join(values, ", ")
}
