package recorder

import "time"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAccrual(_ *AccrualSnapshot) error { return nil }
func (n *NoopRecorder) RecordBenchmark(_ *BenchmarkRun) error  { return nil }
func (n *NoopRecorder) PruneBefore(_ time.Time) error          { return nil }
func (n *NoopRecorder) Close() error                           { return nil }
