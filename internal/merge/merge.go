// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge runs the reconciliation pipeline for one document:
// normalize, align, validate, arbitrate, filter. A document either merges
// completely or fails with a StageError; partial lists are never returned.
package merge

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arXiv/arxiv-references/internal/align"
	"github.com/arXiv/arxiv-references/internal/arbitrate"
	"github.com/arXiv/arxiv-references/internal/beliefs"
	"github.com/arXiv/arxiv-references/internal/normalize"
	"github.com/arXiv/arxiv-references/pkg/types"
)

// Stage names a pipeline step.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageAlign     Stage = "align"
	StageValidate  Stage = "validate"
	StageArbitrate Stage = "arbitrate"
	StageFilter    Stage = "filter"
)

// StageError reports which stage failed for which document.
type StageError struct {
	Document string
	Stage    Stage
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("merging %s: %s: %v", e.Document, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Merger holds everything a merge needs besides the document itself. It
// is safe for concurrent use once built.
type Merger struct {
	priors  types.PriorTable
	cfg     types.MergeConfig
	aligner align.Aligner
	log     zerolog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithAligner replaces the default greedy aligner.
func WithAligner(a align.Aligner) Option {
	return func(m *Merger) { m.aligner = a }
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Merger) { m.log = l }
}

// New returns a Merger that weighs votes with priors.
func New(priors types.PriorTable, cfg types.MergeConfig, opts ...Option) *Merger {
	m := &Merger{
		priors:  priors,
		cfg:     cfg,
		aligner: align.NewGreedy(cfg.Align),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MergeRecords merges one document's extractions with a default Merger.
func MergeRecords(document string, extractions types.Extractions, priors types.PriorTable, cfg types.MergeConfig) (types.MergeResult, error) {
	return New(priors, cfg).MergeRecords(document, extractions)
}

// MergeRecords returns the authoritative reference list for document.
func (m *Merger) MergeRecords(document string, extractions types.Extractions) (types.MergeResult, error) {
	log := m.log.With().Str("document", document).Logger()
	fail := func(stage Stage, err error) (types.MergeResult, error) {
		log.Error().Err(err).Str("stage", string(stage)).Msg("merge failed")
		return types.MergeResult{}, &StageError{Document: document, Stage: stage, Err: err}
	}

	normalized := make(types.Extractions, len(extractions))
	records := 0
	for _, name := range extractions.Names() {
		normalized[name] = normalize.Normalize(extractions[name])
		records += len(extractions[name])
	}
	log.Debug().Str("stage", string(StageNormalize)).
		Int("extractors", len(extractions)).
		Int("records", records).
		Msg("stage complete")

	groups, err := m.aligner.Align(normalized)
	if err != nil {
		return fail(StageAlign, err)
	}
	log.Debug().Str("stage", string(StageAlign)).Int("groups", len(groups)).Msg("stage complete")

	validity, err := beliefs.Validate(groups, m.cfg.AgreementWeight)
	if err != nil {
		return fail(StageValidate, err)
	}
	log.Debug().Str("stage", string(StageValidate)).Msg("stage complete")

	arbitrated, err := arbitrate.ArbitrateAll(groups, validity, m.priors, arbitrate.Options{
		SimilarityThreshold: m.cfg.SimilarityThreshold,
		Workers:             m.cfg.Workers,
	})
	if err != nil {
		return fail(StageArbitrate, err)
	}
	log.Debug().Str("stage", string(StageArbitrate)).Int("records", len(arbitrated)).Msg("stage complete")

	kept, score, err := normalize.Filter(arbitrated, m.cfg.MinScore)
	if err != nil {
		return fail(StageFilter, err)
	}
	log.Info().
		Int("references", len(kept)).
		Int("dropped", len(arbitrated)-len(kept)).
		Float64("score", score).
		Msg("merged")

	return types.MergeResult{Document: document, Score: score, References: kept}, nil
}
