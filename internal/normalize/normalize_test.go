// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arXiv/arxiv-references/pkg/types"
)

func TestNormalizeFieldRules(t *testing.T) {
	in := []types.Reference{{
		Title:   types.Str(`  "Deep   learning."  `),
		Source:  types.Str("phys. rev. lett."),
		ArxivID: types.Str("hepth/0306165"),
		DOI:     types.Str("https://doi.org/10.1103/PhysRevLett.1.1"),
		Authors: []types.Author{
			{GivenNames: "j. r. r.", Surname: "Tolkien"},
			{FullName: "a.  smith"},
		},
		Extra: map[string]string{"note": "  keep   me  "},
	}}

	out := Normalize(in)
	require.Len(t, out, 1)
	r := out[0]

	assert.Equal(t, "Deep learning", *r.Title)
	assert.Equal(t, "Phys Rev Lett", *r.Source)
	assert.Equal(t, "hep-th/0306165", *r.ArxivID)
	assert.Equal(t, "10.1103/PhysRevLett.1.1", *r.DOI)
	assert.Equal(t, []types.Author{
		{GivenNames: "J R R", Surname: "Tolkien"},
		{FullName: "A Smith"},
	}, r.Authors)
	assert.Equal(t, "  keep   me  ", r.Extra["note"], "extra fields are untouched")
}

func TestNormalizeExtractsIdentifiersFromRaw(t *testing.T) {
	in := []types.Reference{{
		Raw: types.Str("A. Smith, Phys. Rev. D 71 (2005), arXiv:hepth/0501562, doi:10.1103/PhysRevD.71.063534."),
	}}

	r := Normalize(in)[0]

	require.NotNil(t, r.DOI)
	assert.Equal(t, "10.1103/PhysRevD.71.063534", *r.DOI)
	require.NotNil(t, r.ArxivID)
	assert.Equal(t, "hep-th/0501562", *r.ArxivID)
	assert.Equal(t, []types.Identifier{{Type: "arxiv", Value: "hep-th/0501562"}}, r.Identifiers)
}

func TestNormalizeKeepsExistingIdentifiers(t *testing.T) {
	in := []types.Reference{{
		Raw:         types.Str("see arXiv:1607.00021 and doi:10.1000/other"),
		DOI:         types.Str("10.1000/xyz123"),
		Identifiers: []types.Identifier{{Type: "ARXIV", Value: "1607.00021"}},
	}}

	r := Normalize(in)[0]

	assert.Equal(t, "10.1000/xyz123", *r.DOI)
	assert.Equal(t, []types.Identifier{{Type: "arxiv", Value: "1607.00021"}}, r.Identifiers)
}

func TestNormalizeNeverDropsRecords(t *testing.T) {
	in := []types.Reference{{}, {Raw: types.Str("nothing to find")}, {Title: types.Str("")}}

	out := Normalize(in)

	require.Len(t, out, 3)
	assert.True(t, out[0].IsEmpty())
	assert.Equal(t, "nothing to find", *out[1].Raw)
	assert.Nil(t, out[1].DOI)
	require.NotNil(t, out[2].Title)
	assert.Equal(t, "", *out[2].Title)
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	title := " Title. "
	in := []types.Reference{{Title: &title}}

	Normalize(in)

	assert.Equal(t, " Title. ", title)
}
