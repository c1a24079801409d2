package store

import (
	"context"
	"time"
)

// QueryOpts configures history queries.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // only this session when set
	Before    int64  // sequence < Before when non-zero
}

// LLMRequestEventData captures a single LLM request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo records LLM requests.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns the newest events first.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)
}
