// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package priors

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arXiv/arxiv-references/pkg/types"
)

func TestDefault(t *testing.T) {
	table := Default()

	assert.Equal(t, []types.ExtractorName{"cermine", "grobid", "href", "refextract", "scienceparse"}, Extractors(table))

	w, ok := table[types.ExtractorRefExtract].Weight(types.FieldAuthors)
	require.True(t, ok)
	assert.Equal(t, 0.5, w)

	w, ok = table[types.ExtractorCermine].Weight(types.FieldTitle)
	require.True(t, ok, "__all__ covers unlisted fields")
	assert.Equal(t, 1.0, w)
}

func TestDefaultReturnsFreshCopy(t *testing.T) {
	a := Default()
	a[types.ExtractorCermine].Fields[types.FieldAuthors] = 0
	*a[types.ExtractorCermine].Default = 0

	b := Default()
	assert.Equal(t, 0.9, b[types.ExtractorCermine].Fields[types.FieldAuthors])
	assert.Equal(t, 1.0, *b[types.ExtractorCermine].Default)
}

func TestParse(t *testing.T) {
	data := []byte(`
cermine:
  title: 0.8
  doi: 0.9
refextract:
  __all__: 0.5
  doi: 0.2
  foo: 1
`)
	table, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, table, 2)

	cermine := table["cermine"]
	assert.Nil(t, cermine.Default)
	_, ok := cermine.Weight(types.FieldVolume)
	assert.False(t, ok, "no fallback without __all__")

	refextract := table["refextract"]
	require.NotNil(t, refextract.Default)
	assert.Equal(t, 0.5, *refextract.Default)
	w, _ := refextract.Weight("foo")
	assert.Equal(t, 1.0, w)
	w, _ = refextract.Weight(types.FieldVolume)
	assert.Equal(t, 0.5, w)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not a table", "- cermine"},
		{"weight above one", "cermine:\n  title: 1.5\n"},
		{"negative weight", "cermine:\n  __all__: -0.1\n"},
		{"non numeric", "cermine:\n  title: high\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Default()))
	assert.Contains(t, buf.String(), "__all__: 1")

	table, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Default(), table)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grobid:\n  __all__: 0.7\n"), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	w, ok := table["grobid"].Weight(types.FieldTitle)
	require.True(t, ok)
	assert.Equal(t, 0.7, w)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
