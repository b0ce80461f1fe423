package nfo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validate checks a record's numeric fields. Empty values are valid since
// every field is optional; a populated value must be well-formed and in
// range. Returns false plus one message per failing field.
func Validate(r *Record) (bool, []string) {
	var errs []string

	if msg := validateYear(r.Year); msg != "" {
		errs = append(errs, msg)
	}
	if msg := validateRating(r.Rating); msg != "" {
		errs = append(errs, msg)
	}
	if msg := validateRuntime(r.Runtime); msg != "" {
		errs = append(errs, msg)
	}

	return len(errs) == 0, errs
}

func validateYear(year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return fmt.Sprintf("year: must be a valid integer, got %q", year)
	}
	if n < 1900 || n > 2100 {
		return fmt.Sprintf("year: must be between 1900 and 2100, got %d", n)
	}
	return ""
}

func validateRating(rating string) string {
	rating = strings.TrimSpace(rating)
	if rating == "" {
		return ""
	}
	f, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return fmt.Sprintf("rating: must be a valid number, got %q", rating)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprintf("rating: must be a finite number, got %q", rating)
	}
	if f < 0 || f > 10 {
		return fmt.Sprintf("rating: must be between 0 and 10, got %v", f)
	}
	return ""
}

func validateRuntime(runtime string) string {
	runtime = strings.TrimSpace(runtime)
	if runtime == "" {
		return ""
	}
	n, err := strconv.Atoi(runtime)
	if err != nil {
		return fmt.Sprintf("runtime: must be a valid integer, got %q", runtime)
	}
	if n <= 0 {
		return fmt.Sprintf("runtime: must be a positive integer, got %d", n)
	}
	return ""
}
