package recorder

import "time"

// AccrualSnapshot holds the result of one daily accrual run.
type AccrualSnapshot struct {
	Date                   string // ISO day the accrual covers
	InterestEarningBalance int64
	Rate                   float64
	DailyInterest          int64
	CumulativeInterest     int64
	FinalBalance           int64
	BusinessDays           int
	NonBusinessDays        int
}

// BenchmarkRun records one execution of the ranking resolver.
type BenchmarkRun struct {
	Items      int
	GroupSize  int
	Races      int
	Correct    bool // ranking matched the speed-sorted order
	DurationMs float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordAccrual(snap *AccrualSnapshot) error
	RecordBenchmark(run *BenchmarkRun) error
	PruneBefore(cutoff time.Time) error
	Close() error
}
