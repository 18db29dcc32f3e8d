package interest

import (
	"math"
	"sort"
	"time"

	"WalletSentinel/internal/calendar"
	"WalletSentinel/internal/model"
)

// DailyInterest returns one day of interest on the given balance in minor
// units: floor(balance x rate/100/365). Truncation, not rounding, to match
// the provider's documented formula. Zero when balance or rate is not
// positive.
func DailyInterest(balance int64, annualRatePercent float64) int64 {
	if balance <= 0 || annualRatePercent <= 0 {
		return 0
	}
	return int64(math.Floor(float64(balance) * annualRatePercent / 100 / 365))
}

// RateForDate returns the annual rate covering the given date, selecting by
// most recent EffectiveFrom when windows overlap. The second return is false
// when no window covers the date.
func RateForDate(date time.Time, rates []model.InterestRate) (float64, bool) {
	day := calendar.Day(date)

	sorted := make([]model.InterestRate, len(rates))
	copy(sorted, rates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.After(sorted[j].EffectiveFrom)
	})

	for _, r := range sorted {
		from := calendar.Day(r.EffectiveFrom)
		if day.Before(from) {
			continue
		}
		if r.EffectiveTo != nil && day.After(calendar.Day(*r.EffectiveTo)) {
			continue
		}
		return r.AnnualRatePercent, true
	}
	return 0, false
}

// CalculationParams are the inputs to Calculate. The date range is inclusive
// on both ends; only transactions dated inside it are applied, earlier
// history belongs in InitialBalance.
type CalculationParams struct {
	Transactions   []model.Transaction
	Rates          []model.InterestRate
	Holidays       calendar.HolidaySet
	From           time.Time
	To             time.Time
	InitialBalance int64
}

// depositEntry is one slot of the FIFO deposit tracker: the portion of a
// deposit still held, and the day it starts (or started) earning interest.
type depositEntry struct {
	remaining     int64
	interestStart time.Time
}

// Calculate walks the date range day by day, applies ledger transactions,
// and compounds truncated daily interest on the interest-eligible balance.
//
// Deposits begin earning on the next business day after their date;
// withdrawals take effect immediately and consume tracked deposits
// oldest-first. Interest earned compounds the same day it is credited.
// Missing rates and non-positive balances degrade to zero interest for the
// day, never to an error.
func Calculate(p CalculationParams) model.InterestCalculationResult {
	txs := make([]model.Transaction, len(p.Transactions))
	copy(txs, p.Transactions)
	// Stable keeps same-day transactions in insertion order.
	sort.SliceStable(txs, func(i, j int) bool {
		return calendar.Day(txs[i].Date).Before(calendar.Day(txs[j].Date))
	})

	var tracker []depositEntry
	balance := p.InitialBalance
	if p.InitialBalance > 0 {
		// The opening balance is eligible from day one.
		tracker = append(tracker, depositEntry{remaining: p.InitialBalance})
	}

	from, to := calendar.Day(p.From), calendar.Day(p.To)
	var result model.InterestCalculationResult
	var totalInterest int64
	txIdx := 0

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		// Skip ledger entries dated before the range.
		for txIdx < len(txs) && calendar.Day(txs[txIdx].Date).Before(from) {
			txIdx++
		}
		for txIdx < len(txs) && calendar.Day(txs[txIdx].Date).Equal(day) {
			tx := txs[txIdx]
			balance += tx.Amount
			if tx.Amount > 0 {
				tracker = append(tracker, depositEntry{
					remaining:     tx.Amount,
					interestStart: calendar.InterestStartDate(day, p.Holidays),
				})
			} else if tx.Amount < 0 {
				tracker = consumeDeposits(tracker, -tx.Amount)
			}
			txIdx++
		}

		var eligible int64
		for _, e := range tracker {
			if !e.interestStart.After(day) {
				eligible += e.remaining
			}
		}

		rate, hasRate := RateForDate(day, p.Rates)
		businessDay := calendar.IsBusinessDay(day, p.Holidays)

		var earned int64
		if businessDay && hasRate && eligible > 0 {
			earned = DailyInterest(eligible, rate)
			if earned > 0 {
				// Credited interest compounds starting today, unlike
				// deposits which wait for the next business day.
				balance += earned
				tracker = append(tracker, depositEntry{remaining: earned, interestStart: day})
			}
		}

		totalInterest += earned
		if businessDay {
			result.BusinessDays++
		} else {
			result.NonBusinessDays++
		}
		result.Days = append(result.Days, model.DailyInterestResult{
			Date:                   calendar.FormatDate(day),
			InterestEarningBalance: eligible,
			Rate:                   rate,
			DailyInterest:          earned,
			IsBusinessDay:          businessDay,
			CumulativeInterest:     totalInterest,
		})
	}

	result.TotalInterest = totalInterest
	result.FinalBalance = balance
	return result
}

// consumeDeposits draws the withdrawal amount from the front of the tracker,
// partially consuming the head entry when it is larger than the remainder.
// Entries never go negative; a withdrawal exceeding all tracked deposits
// leaves the tracker empty and only the running balance reflects the excess.
func consumeDeposits(tracker []depositEntry, amount int64) []depositEntry {
	for amount > 0 && len(tracker) > 0 {
		head := &tracker[0]
		if head.remaining > amount {
			head.remaining -= amount
			return tracker
		}
		amount -= head.remaining
		tracker = tracker[1:]
	}
	return tracker
}
