// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arXiv/arxiv-references/pkg/types"
)

const extractionJSON = `{
  "document": "1704.01689",
  "extractions": {
    "ext1": [
      {"source": "Matthew", "volume": "uuddlrlrba", "year": 2011},
      {"source": "Erick P", "volume": "babaudbalrba", "year": 2013}
    ],
    "ext2": [
      {"source": "Matthew", "volume": "uuddlrlrbaba", "year": 2011}
    ],
    "ext3": [
      {"source": "Johnathan", "volume": "start", "year": 2010},
      {"source": "Eric Pe", "volume": "babaudbalrba", "year": 2013}
    ]
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type recordingSink struct {
	saved []types.MergeResult
}

func (s *recordingSink) Save(_ context.Context, r types.MergeResult) (string, error) {
	s.saved = append(s.saved, r)
	return "id", nil
}

func TestMergeAllPreservesOrder(t *testing.T) {
	cfg := types.DefaultMergeConfig()
	cfg.Workers = 2
	m := New(simplePriors(), cfg)

	jobs := []Job{
		{Document: "a", Extractions: simpleDocs()},
		{Document: "b", Extractions: types.Extractions{"unknown": {ref("x", "y", "2000")}}},
		{Document: "c", Extractions: simpleDocs()},
	}
	out := m.MergeAll(context.Background(), jobs)

	require.Len(t, out, 3)
	assert.NoError(t, out[0].Err)
	assert.Equal(t, "a", out[0].Result.Document)
	assert.Error(t, out[1].Err, "a failed document does not stop the batch")
	assert.NoError(t, out[2].Err)
	assert.Equal(t, "c", out[2].Result.Document)
}

func TestMergeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := New(simplePriors(), types.DefaultMergeConfig()).MergeAll(ctx, []Job{{Document: "a", Extractions: simpleDocs()}})
	require.Len(t, out, 1)
	assert.ErrorIs(t, out[0].Err, context.Canceled)
}

func TestMergeFiles(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "merged")
	good := writeFile(t, in, "good.json", extractionJSON)
	bad := writeFile(t, in, "bad.json", "{not json")
	sink := &recordingSink{}

	m := New(simplePriors(), types.DefaultMergeConfig())
	var log bytes.Buffer
	summary, err := m.MergeFiles(context.Background(), []string{good, bad}, FileOptions{OutDir: outDir, Sink: sink}, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Merged)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())
	assert.Equal(t, 2, summary.Total())
	assert.Contains(t, log.String(), "merged 1704.01689 (3 references")
	require.Len(t, sink.saved, 1)

	data, err := os.ReadFile(filepath.Join(outDir, "1704.01689.merged.json"))
	require.NoError(t, err)
	var result struct {
		Document   string                   `json:"document"`
		References []map[string]interface{} `json:"references"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "1704.01689", result.Document)
	require.Len(t, result.References, 3)
	assert.Equal(t, "Matthew", result.References[0]["source"])
	assert.Contains(t, result.References[0], "score")

	// Second run skips the unchanged document.
	log.Reset()
	summary, err = m.MergeFiles(context.Background(), []string{good}, FileOptions{OutDir: outDir}, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, log.String(), "skipped 1704.01689")

	summary, err = m.MergeFiles(context.Background(), []string{good}, FileOptions{OutDir: outDir, Force: true}, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Merged)
}

func TestMergeFilesYAML(t *testing.T) {
	in := t.TempDir()
	path := writeFile(t, in, "doc.json", extractionJSON)
	outDir := t.TempDir()

	var log bytes.Buffer
	summary, err := New(simplePriors(), types.DefaultMergeConfig()).
		MergeFiles(context.Background(), []string{path}, FileOptions{OutDir: outDir, Format: "yaml"}, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Merged)

	data, err := os.ReadFile(filepath.Join(outDir, "1704.01689.merged.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1704.01689")
	assert.Contains(t, string(data), "source: Matthew")
}

func TestMergeFilesRejectsFormat(t *testing.T) {
	_, err := New(simplePriors(), types.DefaultMergeConfig()).
		MergeFiles(context.Background(), nil, FileOptions{OutDir: t.TempDir(), Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestReadJobDefaultsDocumentName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "2101.00001.json", `{"extractions": {"cermine": [{"title": "x"}]}}`)

	job, err := ReadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "2101.00001", job.Document)
	require.Len(t, job.Extractions["cermine"], 1)
	assert.Equal(t, "x", *job.Extractions["cermine"][0].Title)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "hep-th_0306165.merged.json", OutputName("hep-th/0306165", "json"))
}
