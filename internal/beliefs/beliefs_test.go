// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package beliefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arXiv/arxiv-references/pkg/types"
)

func TestIntegerLike(t *testing.T) {
	tests := []struct {
		value string
		want  float64
	}{
		{"12", 1},
		{" 12 ", 1},
		{"209 4", 0.8},
		{"209 4.0000", 0.4},
		{"abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, integerLike(tt.value), 1e-9, "value %q", tt.value)
	}
}

func TestYearChecks(t *testing.T) {
	assert.Equal(t, 1.0, year("2010"))
	assert.Equal(t, 0.0, year("1600"))
	assert.Equal(t, 0.0, year("2100"))
	assert.Equal(t, 0.0, year("twenty ten"))

	assert.Equal(t, 1.0, yearLike("blah 2010"))
	assert.Equal(t, 0.0, yearLike("blah 201"))
	assert.Equal(t, 0.0, yearLike("blah"))
}

func TestPages(t *testing.T) {
	assert.Equal(t, 1.0, pages("20 - 30"))
	assert.Equal(t, 1.0, pages("20-30"))
	assert.Equal(t, 0.5, pages("20 - 10"))
	assert.Equal(t, 0.0, pages("20 - "))
	assert.Equal(t, 0.0, pages("pp. 20"))
}

func TestScore(t *testing.T) {
	text := types.TextValue
	tests := []struct {
		name  string
		field types.Field
		value types.Value
		want  float64
	}{
		{"year", types.FieldYear, text("2011"), 1},
		{"year out of range", types.FieldYear, text("1500"), 0.5},
		{"volume number", types.FieldVolume, text("12"), 1},
		{"volume floor", types.FieldVolume, text("baz"), 0.8},
		{"short title", types.FieldTitle, text("abc"), 0.5},
		{"title", types.FieldTitle, text("Deep nets"), 1},
		{"doi", types.FieldDOI, text("10.123/123.4566"), 1},
		{"nonsense doi", types.FieldDOI, text("nonsense"), 0.25},
		{"source naming arxiv", types.FieldSource, text("ArXiv e-prints"), 0},
		{"source", types.FieldSource, text("Phys Rev Lett"), 1},
		{"pages", types.FieldPages, text("20 - 30"), (6.0/7 + 1) / 2},
		{"bare arxiv id", types.FieldArxivID, text("1607.00021"), 1},
		{"prefixed arxiv id", types.FieldArxivID, text("arXiv:1607.00021"), 1},
		{"bad arxiv id", types.FieldArxivID, text("foo"), 0},
		{"raw", types.FieldRaw, text("anything"), 1},
		{"unknown field", types.Field("foo"), text("bar"), 1},
		{
			"authors",
			types.FieldAuthors,
			types.AuthorsValue([]types.Author{{Surname: "van der Berg"}, {Surname: "Smith"}}),
			(1.0/3 + 1) / 2,
		},
		{
			"identifiers",
			types.FieldIdentifiers,
			types.IdentifiersValue([]types.Identifier{{Type: "isbn", Value: "978-3-16-148410-0"}, {Type: "isbn", Value: "12"}}),
			0.5,
		},
		{
			"arxiv identifier",
			types.FieldIdentifiers,
			types.IdentifiersValue([]types.Identifier{{Type: "arxiv", Value: "hep-th/0306165"}}),
			1,
		},
		{
			"unchecked identifier type",
			types.FieldIdentifiers,
			types.IdentifiersValue([]types.Identifier{{Type: "ads", Value: "2011ApJ...1"}}),
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.field, tt.value)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func group() types.AlignedGroup {
	return types.AlignedGroup{
		{Extractor: "cermine", Reference: types.Reference{Title: types.Str("Deep nets"), Year: types.Str("2011")}},
		{Extractor: "grobid", Reference: types.Reference{Title: types.Str("deep nets."), Year: types.Str("2012"), Volume: types.Str("")}},
	}
}

func TestValidateShape(t *testing.T) {
	groups := []types.AlignedGroup{group(), {{Extractor: "refextract", Reference: types.Reference{Raw: types.Str("x")}}}}

	got, err := Validate(groups, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []types.ExtractorName{"cermine", "grobid"}, got[0].Extractors())
	assert.Equal(t, []types.ExtractorName{"refextract"}, got[1].Extractors())

	assert.NotContains(t, got[0][0].Fields, types.FieldVolume, "absent fields get no estimate")
	assert.Equal(t, 1.0, got[0][1].Fields[types.FieldVolume], "blank values are plausible")
	assert.Equal(t, 1.0, got[0][0].Fields[types.FieldYear])
	assert.Equal(t, 1.0, got[1][0].Fields[types.FieldRaw])
}

func TestValidateAgreement(t *testing.T) {
	got, err := Validate([]types.AlignedGroup{group()}, 0.2)
	require.NoError(t, err)

	cermine, grobid := got[0][0].Fields, got[0][1].Fields
	assert.InDelta(t, 1.0, cermine[types.FieldTitle], 1e-9, "titles agree after cleaning")
	assert.InDelta(t, 0.8, cermine[types.FieldYear], 1e-9)
	assert.InDelta(t, 1.0, grobid[types.FieldTitle], 1e-9)
	assert.InDelta(t, 0.8, grobid[types.FieldYear], 1e-9)
	assert.Equal(t, 1.0, grobid[types.FieldVolume])
}

func TestValidateSingletonIgnoresAgreement(t *testing.T) {
	g := types.AlignedGroup{{Extractor: "cermine", Reference: types.Reference{Volume: types.Str("baz")}}}

	got, err := Validate([]types.AlignedGroup{g}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got[0][0].Fields[types.FieldVolume], 1e-9)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		groups []types.AlignedGroup
		weight float64
	}{
		{"empty group", []types.AlignedGroup{{}}, 0},
		{"duplicate extractor", []types.AlignedGroup{{{Extractor: "a"}, {Extractor: "a"}}}, 0},
		{"unnamed extractor", []types.AlignedGroup{{{Extractor: ""}}}, 0},
		{"weight out of range", nil, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.groups, tt.weight)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidateEmpty(t *testing.T) {
	got, err := Validate(nil, 0.2)
	require.NoError(t, err)
	assert.Empty(t, got)
}
