package model

import "time"

// Transaction is a single ledger entry in currency minor units.
// Positive amounts are deposits, negative amounts are withdrawals.
type Transaction struct {
	Date   time.Time
	Amount int64
}

// InterestRate is one window of the annual rate history.
// A nil EffectiveTo means the window is open-ended.
type InterestRate struct {
	AnnualRatePercent float64
	EffectiveFrom     time.Time
	EffectiveTo       *time.Time
}
