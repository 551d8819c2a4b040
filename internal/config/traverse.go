package config

// TraverseConfig holds traversal configuration
type TraverseConfig struct {
	// StatusEvery controls how many newly yielded files inside one directory
	// pass between interim status events. It throttles status verbosity, not
	// tree fetches.
	StatusEvery int
}

// DefaultTraverseConfig returns the default traversal configuration
func DefaultTraverseConfig() *TraverseConfig {
	return &TraverseConfig{
		StatusEvery: 5,
	}
}
