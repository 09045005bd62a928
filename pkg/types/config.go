package types

// FilterConfig holds settings for the hit filter stage.
type FilterConfig struct {
	// BlocklistPath points to a blocklist YAML file. Empty selects the
	// built-in lists.
	BlocklistPath string `json:"blocklist" yaml:"blocklist" mapstructure:"blocklist"`

	// Anchor enables the 3' anchoring check.
	Anchor bool `json:"anchor" yaml:"anchor" mapstructure:"anchor"`

	// Offset is the number of query positions a hit may stop short of the
	// priming end and still count as anchored (default 0).
	Offset int `json:"offset" yaml:"offset" mapstructure:"offset"`
}

// EvaluateConfig holds settings for the cross-reactivity evaluator.
type EvaluateConfig struct {
	// Distance is the largest subject start separation at which two facing
	// hits are still considered able to co-amplify (default 20000).
	// Zero or less disables the gate.
	Distance int `json:"distance" yaml:"distance" mapstructure:"distance"`

	// Workers bounds the number of concurrent evaluation shards. Zero or
	// less uses the number of CPUs.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// ReduceConfig holds settings for the grouping reducer.
type ReduceConfig struct {
	// AnchorLength is the number of 3'-terminal bases that form the grouping
	// key (default 15).
	AnchorLength int `json:"anchor_length" yaml:"anchor_length" mapstructure:"anchor_length"`

	// SafePairs switches the output to mutually safe group pairs.
	SafePairs bool `json:"safe_pairs" yaml:"safe_pairs" mapstructure:"safe_pairs"`

	// RowPairs switches the output to pairs of individual survivor rows
	// whose off-targets do not overlap.
	RowPairs bool `json:"row_pairs" yaml:"row_pairs" mapstructure:"row_pairs"`
}

// StoreConfig holds settings for the survivor database.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "survivors.db").
	DBPath string `json:"db" yaml:"db" mapstructure:"db"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Filter   FilterConfig   `json:"filter" yaml:"filter" mapstructure:"filter"`
	Evaluate EvaluateConfig `json:"evaluate" yaml:"evaluate" mapstructure:"evaluate"`
	Reduce   ReduceConfig   `json:"reduce" yaml:"reduce" mapstructure:"reduce"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
}

// Default values shared by the CLI and tests.
const (
	DefaultDistance     = 20000
	DefaultAnchorLength = 15
	DefaultOutputPrefix = "final_result"
	DefaultDBPath       = "survivors.db"
)

// DefaultPipelineConfig returns the configuration used when no config file
// or flag overrides a value.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Filter:   FilterConfig{Anchor: true},
		Evaluate: EvaluateConfig{Distance: DefaultDistance},
		Reduce:   ReduceConfig{AnchorLength: DefaultAnchorLength},
		Store:    StoreConfig{DBPath: DefaultDBPath},
	}
}
