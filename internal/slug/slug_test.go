package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/slug"
)

// ---- Normalize -------------------------------------------------------------

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		make     string
		model    string
		expected string
	}{
		{name: "simple", year: 2020, make: "Toyota", model: "Corolla", expected: "2020-toyota-corolla"},
		{name: "hyphenated make and model", year: 2020, make: "Mercedes-Benz", model: "C-Class", expected: "2020-mercedes-benz-c-class"},
		{name: "multi word model", year: 2019, make: "Land Rover", model: "Range Rover Sport", expected: "2019-land-rover-range-rover-sport"},
		{name: "punctuation collapses", year: 2021, make: "Rolls--Royce!", model: "  Ghost (II) ", expected: "2021-rolls-royce-ghost-ii"},
		{name: "non ascii becomes hyphen", year: 2018, make: "Citroën", model: "C4", expected: "2018-citro-n-c4"},
		{name: "digits in model", year: 2022, make: "BMW", model: "330i xDrive", expected: "2022-bmw-330i-xdrive"},
		{name: "dots and slashes", year: 2015, make: "Mazda", model: "MX-5 Miata R.F./Club", expected: "2015-mazda-mx-5-miata-r-f-club"},
		{name: "underscores", year: 2023, make: "Tesla", model: "Model_3", expected: "2023-tesla-model-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := slug.Normalize(tt.year, tt.make, tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, slug.Valid(got), "slug %q should match the slug pattern", got)
		})
	}
}

func TestNormalize_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		make  string
		model string
	}{
		{name: "empty make", year: 2020, make: "", model: "Corolla"},
		{name: "blank make", year: 2020, make: "   ", model: "Corolla"},
		{name: "empty model", year: 2020, make: "Toyota", model: ""},
		{name: "blank model", year: 2020, make: "Toyota", model: "\t"},
		{name: "zero year", year: 0, make: "Toyota", model: "Corolla"},
		{name: "negative year", year: -1999, make: "Toyota", model: "Corolla"},
		{name: "make without usable characters", year: 2020, make: "日産", model: "Note"},
		{name: "model only punctuation", year: 2020, make: "Ford", model: "!!! ---"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := slug.Normalize(tt.year, tt.make, tt.model)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	a, err := slug.Normalize(2020, "Mercedes-Benz", "C-Class")
	require.NoError(t, err)
	b, err := slug.Normalize(2020, "Mercedes-Benz", "C-Class")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestClean_IdempotentOnNormalizedOutput(t *testing.T) {
	inputs := [][2]string{
		{"Mercedes-Benz", "C-Class"},
		{"Alfa Romeo", "Giulia Quadrifoglio"},
		{"Škoda", "Octavia RS"},
		{"  Ford ", "F-150 -- Raptor"},
	}

	for _, in := range inputs {
		s, err := slug.Normalize(2020, in[0], in[1])
		require.NoError(t, err)
		assert.Equal(t, s, slug.Clean(s), "Clean must leave %q unchanged", s)
	}
}

// FuzzNormalize checks that every successful Normalize result is a valid,
// stable slug. The seed corpus runs as part of the regular test suite.
func FuzzNormalize(f *testing.F) {
	f.Add(2020, "Mercedes-Benz", "C-Class")
	f.Add(1999, "Citroën", "2CV")
	f.Add(2024, "Land  Rover", "Defender 110")
	f.Add(1, "a", "b")
	f.Add(2021, "--Kia--", "__EV6__")
	f.Add(2010, "VW", "Golf/GTI (Mk6)")

	f.Fuzz(func(t *testing.T, year int, mk, model string) {
		s, err := slug.Normalize(year, mk, model)
		if err != nil {
			return
		}
		if !slug.Valid(s) {
			t.Fatalf("Normalize(%d, %q, %q) = %q, not a valid slug", year, mk, model, s)
		}
		if slug.Clean(s) != s {
			t.Fatalf("Clean(%q) = %q, want unchanged", s, slug.Clean(s))
		}
	})
}

// ---- Valid / WithSuffix ----------------------------------------------------

func TestValid(t *testing.T) {
	assert.True(t, slug.Valid("2020-toyota-corolla"))
	assert.True(t, slug.Valid("x"))
	assert.True(t, slug.Valid("x-1"))

	assert.False(t, slug.Valid(""))
	assert.False(t, slug.Valid("-x"))
	assert.False(t, slug.Valid("x-"))
	assert.False(t, slug.Valid("x--1"))
	assert.False(t, slug.Valid("X-1"))
	assert.False(t, slug.Valid("x_1"))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "2020-toyota-corolla-1", slug.WithSuffix("2020-toyota-corolla", 1))
	assert.Equal(t, "x-12", slug.WithSuffix("x", 12))
}

func TestDerivesFrom(t *testing.T) {
	tests := []struct {
		s, base string
		want    bool
	}{
		{"2020-toyota-corolla", "2020-toyota-corolla", true},
		{"2020-toyota-corolla-3", "2020-toyota-corolla", true},
		{"2020-toyota-corolla-12", "2020-toyota-corolla", true},
		{"2020-toyota-corolla-cross", "2020-toyota-corolla", false},
		{"2020-toyota-corolla-0", "2020-toyota-corolla", false},
		{"2020-toyota-corolla-", "2020-toyota-corolla", false},
		{"2021-toyota-corolla", "2020-toyota-corolla", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, slug.DerivesFrom(tc.s, tc.base), "DerivesFrom(%q, %q)", tc.s, tc.base)
	}
}
