// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/arXiv/arxiv-references/pkg/types"
)

// Job is one document's extractions.
type Job struct {
	Document    string            `json:"document"`
	Extractions types.Extractions `json:"extractions"`
}

// Outcome is the result of merging one Job.
type Outcome struct {
	Result types.MergeResult
	Err    error
}

// MergeAll merges jobs concurrently, at most m's configured worker count
// at a time, and returns one outcome per job in input order. A failing job
// does not stop the others. Jobs not started before ctx is cancelled fail
// with the context's error.
func (m *Merger) MergeAll(ctx context.Context, jobs []Job) []Outcome {
	workers := m.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Outcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range jobs {
		i := i // per-iteration copy for Go < 1.22 loop semantics
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Result, out[i].Err = m.MergeRecords(jobs[i].Document, jobs[i].Extractions)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Sink receives merged results, e.g. a database.
type Sink interface {
	Save(ctx context.Context, result types.MergeResult) (string, error)
}

// FileOptions controls MergeFiles.
type FileOptions struct {
	OutDir string
	Format string // "json" (default) or "yaml"
	Force  bool   // re-merge even when the output is newer than the input
	Sink   Sink   // optional
}

// BatchSummary holds counts from a MergeFiles run.
type BatchSummary struct {
	Merged  int
	Skipped int
	Failed  int
}

// Total returns the number of input files processed.
func (s BatchSummary) Total() int {
	return s.Merged + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// MergeFiles reads each extraction file, merges the documents whose output
// is missing or older than the input, and writes <document>.merged.<format>
// into opts.OutDir. Progress lines go to w.
func (m *Merger) MergeFiles(ctx context.Context, paths []string, opts FileOptions, w io.Writer) (BatchSummary, error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "yaml" {
		return BatchSummary{}, fmt.Errorf("unsupported output format %q", opts.Format)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	var summary BatchSummary
	var jobs []Job
	var outPaths []string

	for _, path := range paths {
		job, err := ReadJob(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		outPath := filepath.Join(opts.OutDir, OutputName(job.Document, format))

		if !opts.Force {
			changed, err := hasChanged(path, outPath)
			if err != nil {
				fmt.Fprintf(w, "failed  %s: %v\n", job.Document, err)
				summary.Failed++
				continue
			}
			if !changed {
				fmt.Fprintf(w, "skipped %s\n", job.Document)
				summary.Skipped++
				continue
			}
		}

		fmt.Fprintf(w, "merging %s\n", job.Document)
		jobs = append(jobs, job)
		outPaths = append(outPaths, outPath)
	}

	for i, o := range m.MergeAll(ctx, jobs) {
		doc := jobs[i].Document
		if o.Err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", doc, o.Err)
			summary.Failed++
			continue
		}
		if err := writeResult(outPaths[i], format, o.Result); err != nil {
			fmt.Fprintf(w, "failed  %s: write error: %v\n", doc, err)
			summary.Failed++
			continue
		}
		if opts.Sink != nil {
			if _, err := opts.Sink.Save(ctx, o.Result); err != nil {
				fmt.Fprintf(w, "failed  %s: store error: %v\n", doc, err)
				summary.Failed++
				continue
			}
		}
		fmt.Fprintf(w, "merged %s (%d references, score %.3f)\n", doc, len(o.Result.References), o.Result.Score)
		summary.Merged++
	}

	return summary, nil
}

// ReadJob decodes an extraction file. A file without a document name is
// named after its base name.
func ReadJob(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if job.Document == "" {
		job.Document = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return job, nil
}

// OutputName returns the file name a merged document is written to.
// Slashes in old-style arXiv ids become underscores.
func OutputName(document, format string) string {
	return strings.ReplaceAll(document, "/", "_") + ".merged." + format
}

// hasChanged reports whether the input file is newer than the output file.
// Returns true if the output does not exist.
func hasChanged(inPath, outPath string) (bool, error) {
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return false, fmt.Errorf("stat input %s: %w", inPath, err)
	}
	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}
	return inInfo.ModTime().After(outInfo.ModTime()), nil
}

func writeResult(path, format string, result types.MergeResult) error {
	var data []byte
	var err error
	if format == "yaml" {
		data, err = yaml.Marshal(result)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
