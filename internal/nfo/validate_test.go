package nfo

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		ok   bool
	}{
		{"all empty", Record{}, true},
		{"valid", Record{Year: "1995", Rating: "8.3", Runtime: "170"}, true},
		{"year lower bound", Record{Year: "1900"}, true},
		{"year upper bound", Record{Year: "2100"}, true},
		{"year below range", Record{Year: "1899"}, false},
		{"year above range", Record{Year: "2101"}, false},
		{"year not a number", Record{Year: "soon"}, false},
		{"rating zero", Record{Rating: "0"}, true},
		{"rating ten", Record{Rating: "10"}, true},
		{"rating negative", Record{Rating: "-0.5"}, false},
		{"rating above ten", Record{Rating: "10.1"}, false},
		{"rating NaN", Record{Rating: "NaN"}, false},
		{"rating Inf", Record{Rating: "+Inf"}, false},
		{"rating garbage", Record{Rating: "great"}, false},
		{"runtime positive", Record{Runtime: "90"}, true},
		{"runtime zero", Record{Runtime: "0"}, false},
		{"runtime negative", Record{Runtime: "-5"}, false},
		{"runtime fractional", Record{Runtime: "90.5"}, false},
		{"whitespace only", Record{Year: "  ", Rating: " "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, errs := Validate(&tt.rec)
			if ok != tt.ok {
				t.Errorf("got ok=%v (errs=%v), want %v", ok, errs, tt.ok)
			}
			if !ok && len(errs) == 0 {
				t.Error("invalid record must carry at least one message")
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	rec := Record{Year: "abc", Rating: "11", Runtime: "-1"}
	ok, errs := Validate(&rec)
	if ok {
		t.Fatal("expected invalid")
	}
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}
	for i, prefix := range []string{"year:", "rating:", "runtime:"} {
		if !strings.HasPrefix(errs[i], prefix) {
			t.Errorf("errs[%d] = %q, want prefix %q", i, errs[i], prefix)
		}
	}
}
