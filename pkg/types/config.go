package types

// AlignConfig holds settings for cross-extractor alignment.
type AlignConfig struct {
	// CutoffFloor is the lowest similarity cutoff the aligner will use
	// (default 0.2). Matches must score strictly above the cutoff.
	CutoffFloor float64 `json:"cutoff_floor" yaml:"cutoff_floor"`

	// CutoffCeiling caps the data-derived cutoff (default 0.6) so that a
	// document whose extractors agree everywhere still aligns.
	CutoffCeiling float64 `json:"cutoff_ceiling" yaml:"cutoff_ceiling"`
}

// MergeConfig holds settings for the reconciliation pipeline.
type MergeConfig struct {
	// PriorsFile is a YAML prior table. Empty selects the built-in table.
	PriorsFile string `json:"priors_file,omitempty" yaml:"priors_file,omitempty"`

	// MinScore drops arbitrated records scoring below it (default 0, keep all).
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// SimilarityThreshold enables fuzzy vote bucketing for text fields when
	// in (0,1). Zero keeps exact-value bucketing.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// AgreementWeight blends cross-extractor agreement into validity
	// estimates (default 0.2). Zero uses format checks only.
	AgreementWeight float64 `json:"agreement_weight" yaml:"agreement_weight"`

	// Workers bounds concurrent group arbitration and document merges.
	// Zero or less uses runtime.GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`

	Align AlignConfig `json:"align" yaml:"align"`
}

// StoreConfig holds settings for the SQLite result store.
type StoreConfig struct {
	// Path is the database file (default "references.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all configuration for the CLI.
type PipelineConfig struct {
	Merge MergeConfig `json:"merge" yaml:"merge"`
	Store StoreConfig `json:"store" yaml:"store"`
}

// DefaultMergeConfig returns the settings used when nothing is configured.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		AgreementWeight: 0.2,
		Align: AlignConfig{
			CutoffFloor:   0.2,
			CutoffCeiling: 0.6,
		},
	}
}
