package main

import (
	"github.com/spf13/viper"

	"github.com/arXiv/arxiv-references/internal/priors"
	"github.com/arXiv/arxiv-references/pkg/types"
)

// Configuration keys. Flags bind to the same keys so a flag, an
// environment variable (REFMERGE_MERGE_MIN_SCORE), and refmerge.yaml can
// each set a value.
const (
	keyPriorsFile          = "merge.priors_file"
	keyMinScore            = "merge.min_score"
	keySimilarityThreshold = "merge.similarity_threshold"
	keyAgreementWeight     = "merge.agreement_weight"
	keyWorkers             = "merge.workers"
	keyCutoffFloor         = "align.cutoff_floor"
	keyCutoffCeiling       = "align.cutoff_ceiling"
	keyStorePath           = "store.path"
)

func setDefaults(v *viper.Viper) {
	d := types.DefaultMergeConfig()
	v.SetDefault(keyMinScore, d.MinScore)
	v.SetDefault(keySimilarityThreshold, d.SimilarityThreshold)
	v.SetDefault(keyAgreementWeight, d.AgreementWeight)
	v.SetDefault(keyWorkers, d.Workers)
	v.SetDefault(keyCutoffFloor, d.Align.CutoffFloor)
	v.SetDefault(keyCutoffCeiling, d.Align.CutoffCeiling)
	v.SetDefault(keyStorePath, "references.db")
}

// loadConfig assembles the pipeline configuration from v.
func loadConfig(v *viper.Viper) types.PipelineConfig {
	return types.PipelineConfig{
		Merge: types.MergeConfig{
			PriorsFile:          v.GetString(keyPriorsFile),
			MinScore:            v.GetFloat64(keyMinScore),
			SimilarityThreshold: v.GetFloat64(keySimilarityThreshold),
			AgreementWeight:     v.GetFloat64(keyAgreementWeight),
			Workers:             v.GetInt(keyWorkers),
			Align: types.AlignConfig{
				CutoffFloor:   v.GetFloat64(keyCutoffFloor),
				CutoffCeiling: v.GetFloat64(keyCutoffCeiling),
			},
		},
		Store: types.StoreConfig{
			Path: v.GetString(keyStorePath),
		},
	}
}

// loadPriors returns the prior table named by cfg, or the built-in table.
func loadPriors(cfg types.MergeConfig) (types.PriorTable, error) {
	if cfg.PriorsFile == "" {
		return priors.Default(), nil
	}
	return priors.Load(cfg.PriorsFile)
}
