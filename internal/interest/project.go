package interest

import (
	"time"

	"WalletSentinel/internal/calendar"
	"WalletSentinel/internal/model"
)

// Fixed business-day counts used by the estimate helpers. These are
// documented approximations, not simulated calendars.
const (
	avgBusinessDaysPerMonth = 22
	avgBusinessDaysPerYear  = 260
)

// ProjectionParams are the inputs to Project. A zero StartDate means today.
type ProjectionParams struct {
	CurrentBalance int64
	CurrentRate    float64
	Holidays       calendar.HolidaySet
	Days           int
	StartDate      time.Time
}

// Project simulates future compounding at a single flat rate, assuming no
// further transactions. One row is emitted per calendar day, non-business
// days included with zero daily interest.
func Project(p ProjectionParams) []model.InterestProjection {
	start := p.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	start = calendar.Day(start)

	balance := p.CurrentBalance
	var cumulative int64
	rows := make([]model.InterestProjection, 0, p.Days)

	for i := 0; i < p.Days; i++ {
		day := start.AddDate(0, 0, i)
		businessDay := calendar.IsBusinessDay(day, p.Holidays)

		var earned int64
		if businessDay && balance > 0 && p.CurrentRate > 0 {
			earned = DailyInterest(balance, p.CurrentRate)
			balance += earned
		}
		cumulative += earned

		rows = append(rows, model.InterestProjection{
			Date:               calendar.FormatDate(day),
			Balance:            balance,
			Rate:               p.CurrentRate,
			DailyInterest:      earned,
			IsBusinessDay:      businessDay,
			CumulativeInterest: cumulative,
		})
	}
	return rows
}

// FindPendingDeposits returns the deposits whose interest has not started as
// of the given day, with how many calendar days remain.
func FindPendingDeposits(transactions []model.Transaction, holidays calendar.HolidaySet, asOf time.Time) []model.PendingDeposit {
	day := calendar.Day(asOf)
	var pending []model.PendingDeposit
	for _, tx := range transactions {
		if tx.Amount <= 0 {
			continue
		}
		start := calendar.InterestStartDate(tx.Date, holidays)
		if !start.After(day) {
			continue
		}
		pending = append(pending, model.PendingDeposit{
			Transaction:    tx,
			Date:           calendar.FormatDate(tx.Date),
			Amount:         tx.Amount,
			InterestStart:  calendar.FormatDate(start),
			DaysUntilStart: calendar.DaysUntilInterestStarts(tx.Date, holidays, day),
		})
	}
	return pending
}

// EstimateMonthlyInterest extrapolates one day of interest across an average
// month of 22 business days. Single-point, non-compounding.
func EstimateMonthlyInterest(balance int64, annualRatePercent float64) int64 {
	return DailyInterest(balance, annualRatePercent) * avgBusinessDaysPerMonth
}

// EstimateYearlyInterest extrapolates one day of interest across an average
// year of 260 business days. Single-point, non-compounding.
func EstimateYearlyInterest(balance int64, annualRatePercent float64) int64 {
	return DailyInterest(balance, annualRatePercent) * avgBusinessDaysPerYear
}
