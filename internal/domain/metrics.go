package domain

import "time"

// SearchRoundMetric captures one intercepted search round.
type SearchRoundMetric struct {
	Provider string
	Round    int
	Queries  int
	Matched  int
	Duration time.Duration
}

// Metrics receives observations from the index and the interception loop.
// Implementations must be safe for concurrent use.
type Metrics interface {
	ObserveSearchRound(m SearchRoundMetric)
	ObserveRoundLimitExhausted(provider string)
	SetIndexSize(documents int)
	SetDiscoveredTools(count int)
}
