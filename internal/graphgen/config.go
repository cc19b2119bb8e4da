package graphgen

// Config bounds a graph generation run.
type Config struct {
	// BatchSize is the number of questions sent per model call.
	BatchSize int

	// MaxTokens caps each model response.
	MaxTokens int

	// Temperature for generation. Low values keep node naming stable
	// across batches, which matters for the merge pass.
	Temperature float64
}

// DefaultConfig returns the limits used by the CLI.
func DefaultConfig() Config {
	return Config{
		BatchSize:   8,
		MaxTokens:   8192,
		Temperature: 0.2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = d.Temperature
	}
	return c
}
