package domain

const (
	DefaultTopK            = 5
	DefaultMaxSearchRounds = 3
)

// Options configures a tool-search client. The zero value is not valid; use
// DefaultOptions and override.
type Options struct {
	// TopK bounds how many tool names one search call may surface.
	TopK int
	// AlwaysAvailable lists tool names visible from the first request
	// without requiring a search.
	AlwaysAvailable []string
	// MaxSearchRounds bounds how many times a single Create call may
	// resubmit the request after intercepting search calls.
	MaxSearchRounds int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		TopK:            DefaultTopK,
		MaxSearchRounds: DefaultMaxSearchRounds,
	}
}

// Validate rejects non-positive bounds.
func (o Options) Validate() error {
	if o.TopK < 1 {
		return E(CodeInvalidArgument, "options.validate", "topK must be >= 1", nil)
	}
	if o.MaxSearchRounds < 1 {
		return E(CodeInvalidArgument, "options.validate", "maxSearchRounds must be >= 1", nil)
	}
	return nil
}
