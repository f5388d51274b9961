// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package priors builds the per-extractor, per-field trust table that
// weights arbitration votes. Tables are plain values passed to the merge
// pipeline; nothing here is held in package state.
package priors

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/arXiv/arxiv-references/pkg/types"
)

// AllFields is the key that sets an extractor's fallback weight.
const AllFields = "__all__"

// ErrInvalid reports a prior table that cannot be used.
var ErrInvalid = errors.New("invalid prior table")

// Default returns the built-in table. Each call returns a fresh copy.
func Default() types.PriorTable {
	return types.PriorTable{
		types.ExtractorRefExtract: build(1.0, map[types.Field]float64{
			types.FieldAuthors: 0.5,
			types.FieldRaw:     0.8,
			types.FieldIssue:   0.6,
			types.FieldSource:  1.0,
		}),
		types.ExtractorCermine: build(1.0, map[types.Field]float64{
			types.FieldAuthors: 0.9,
			types.FieldRaw:     1.0,
			types.FieldIssue:   0.9,
			types.FieldSource:  0.9,
		}),
		types.ExtractorGROBID: build(1.0, map[types.Field]float64{
			types.FieldAuthors: 1.0,
			types.FieldRaw:     0.8,
			types.FieldIssue:   0.8,
			types.FieldSource:  0.9,
		}),
		types.ExtractorScienceParse: build(1.0, map[types.Field]float64{
			types.FieldAuthors: 0.9,
			types.FieldRaw:     0.8,
			types.FieldIssue:   0.8,
			types.FieldSource:  0.9,
		}),
		types.ExtractorHref: build(1.0, nil),
	}
}

func build(all float64, fields map[types.Field]float64) types.ExtractorPriors {
	if fields == nil {
		fields = map[types.Field]float64{}
	}
	return types.ExtractorPriors{Fields: fields, Default: &all}
}

// Load reads a YAML prior table from path.
func Load(path string) (types.PriorTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading priors %s: %w", path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse decodes a YAML prior table of the form
//
//	cermine:
//	  __all__: 1.0
//	  authors: 0.9
//
// Every weight must lie in [0,1].
func Parse(data []byte) (types.PriorTable, error) {
	var raw map[string]map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no extractors", ErrInvalid)
	}
	table := make(types.PriorTable, len(raw))
	for name, weights := range raw {
		if name == "" {
			return nil, fmt.Errorf("%w: extractor with empty name", ErrInvalid)
		}
		p := types.ExtractorPriors{Fields: make(map[types.Field]float64, len(weights))}
		for key, w := range weights {
			if math.IsNaN(w) || w < 0 || w > 1 {
				return nil, fmt.Errorf("%w: %s.%s weight %v outside [0,1]", ErrInvalid, name, key, w)
			}
			if key == AllFields {
				all := w
				p.Default = &all
				continue
			}
			p.Fields[types.Field(key)] = w
		}
		table[types.ExtractorName(name)] = p
	}
	return table, nil
}

// Write encodes table as YAML in the format Parse reads.
func Write(w io.Writer, table types.PriorTable) error {
	raw := make(map[string]map[string]float64, len(table))
	for name, p := range table {
		weights := make(map[string]float64, len(p.Fields)+1)
		if p.Default != nil {
			weights[AllFields] = *p.Default
		}
		for f, v := range p.Fields {
			weights[string(f)] = v
		}
		raw[string(name)] = weights
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("encoding priors: %w", err)
	}
	return enc.Close()
}

// Extractors returns the table's extractor names, sorted.
func Extractors(table types.PriorTable) []types.ExtractorName {
	names := make([]types.ExtractorName, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
