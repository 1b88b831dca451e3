// Package analytics publishes query events to Kafka with in-memory
// batching, so the search path never blocks on the broker.
package analytics

import "time"

// Mode identifies which evaluation path produced a result.
type Mode string

const (
	ModeBoolean Mode = "boolean"
	ModeRanked  Mode = "ranked"
)

// QueryEvent describes one served query.
type QueryEvent struct {
	Mode        Mode      `json:"mode"`
	Query       string    `json:"query"`
	Terms       []string  `json:"terms"`
	TotalHits   int       `json:"total_hits"`
	Returned    int       `json:"returned"`
	SyntaxError bool      `json:"syntax_error"`
	CacheHit    bool      `json:"cache_hit"`
	LatencyMs   int64     `json:"latency_ms"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id"`
}
