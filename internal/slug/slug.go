// Package slug derives the public URL identifiers of vehicle listings.
//
// A slug is built in two steps. Normalize turns (year, make, model) into a
// canonical base slug such as "2020-mercedes-benz-c-class". A Resolver then
// checks the base against stored listings and appends the first free numeric
// suffix ("-1", "-2", ...) when the base is already taken.
//
// The resolver's check is only an optimization: two concurrent writers can
// both see a candidate as free. The unique index on active slugs is the real
// guard, and callers retry through the resolver when it rejects a write.
package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

var (
	// disallowed matches any run of characters outside the slug alphabet.
	disallowed = regexp.MustCompile(`[^a-z0-9-]+`)
	// hyphenRuns collapses consecutive hyphens into one.
	hyphenRuns = regexp.MustCompile(`-{2,}`)
	// pattern is the shape every stored slug must have.
	pattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	// alnum detects whether a segment has anything left after cleaning.
	alnum = regexp.MustCompile(`[a-z0-9]`)
)

// Normalize returns the base slug for a vehicle: "{year}-{make}-{model}",
// lowercased, with every character outside [a-z0-9-] replaced by a hyphen,
// hyphen runs collapsed and leading/trailing hyphens trimmed.
//
// It fails with domain.ErrValidation when make or model is blank, when year
// is not positive, or when make or model has no ASCII letter or digit at all
// (e.g. "日産"), since that segment would vanish from the slug.
func Normalize(year int, vehicleMake, vehicleModel string) (string, error) {
	vehicleMake = strings.TrimSpace(vehicleMake)
	vehicleModel = strings.TrimSpace(vehicleModel)

	switch {
	case vehicleMake == "":
		return "", fmt.Errorf("%w: make is required", domain.ErrValidation)
	case vehicleModel == "":
		return "", fmt.Errorf("%w: model is required", domain.ErrValidation)
	case year <= 0:
		return "", fmt.Errorf("%w: year must be a positive integer", domain.ErrValidation)
	}

	if !alnum.MatchString(strings.ToLower(vehicleMake)) {
		return "", fmt.Errorf("%w: make %q has no characters usable in a slug", domain.ErrValidation, vehicleMake)
	}
	if !alnum.MatchString(strings.ToLower(vehicleModel)) {
		return "", fmt.Errorf("%w: model %q has no characters usable in a slug", domain.ErrValidation, vehicleModel)
	}

	s := Clean(fmt.Sprintf("%d-%s-%s", year, vehicleMake, vehicleModel))
	if s == "" {
		return "", fmt.Errorf("%w: slug is empty after normalization", domain.ErrValidation)
	}
	return s, nil
}

// Clean applies the string-level slug transform on its own: lowercase,
// replace disallowed characters with "-", collapse hyphen runs and trim.
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	s = strings.ToLower(s)
	s = disallowed.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether s is a well-formed slug: lowercase alphanumeric
// tokens separated by single hyphens.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// WithSuffix returns the n-th disambiguated candidate for base ("base-n").
func WithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

// DerivesFrom reports whether s is base itself or one of its suffixed
// candidates ("base-1", "base-2", ...).
func DerivesFrom(s, base string) bool {
	if s == base {
		return true
	}
	rest, ok := strings.CutPrefix(s, base+"-")
	if !ok || rest == "" || rest[0] == '0' {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
