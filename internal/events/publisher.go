package events

import "context"

// AccrualEvent is emitted after each daily accrual run.
type AccrualEvent struct {
	Date           string  `json:"date"`
	EarningBalance int64   `json:"earning_balance"`
	Rate           float64 `json:"rate"`
	DailyInterest  int64   `json:"daily_interest"`
	TotalInterest  int64   `json:"total_interest"`
	FinalBalance   int64   `json:"final_balance"`
}

// Publisher emits accrual events for downstream consumers.
type Publisher interface {
	PublishAccrual(ctx context.Context, evt *AccrualEvent) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (n *NoopPublisher) PublishAccrual(_ context.Context, _ *AccrualEvent) error { return nil }
func (n *NoopPublisher) Close() error                                            { return nil }
