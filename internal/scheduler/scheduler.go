package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"WalletSentinel/internal/calendar"
	"WalletSentinel/internal/events"
	"WalletSentinel/internal/interest"
	"WalletSentinel/internal/notify"
	"WalletSentinel/internal/observability"
	"WalletSentinel/internal/recorder"
	"WalletSentinel/internal/store"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the recurring accrual and retention tasks.
type Scheduler struct {
	Cron          *cron.Cron
	Store         store.Store
	Recorder      recorder.Recorder
	Publisher     events.Publisher
	Notifier      *notify.WebhookNotifier
	Metrics       *observability.Metrics
	Holidays      calendar.HolidaySet
	Anchor        time.Time
	RetentionDays int
	Ctx           context.Context
}

// NewScheduler creates a new Scheduler. Notifier may be nil when no webhook
// is configured. Anchor is the first day of the simulation window; when zero
// the earliest ledger transaction is used.
func NewScheduler(ctx context.Context, st store.Store, rec recorder.Recorder, pub events.Publisher,
	wn *notify.WebhookNotifier, metrics *observability.Metrics, holidays calendar.HolidaySet,
	anchor time.Time, retentionDays int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Store:         st,
		Recorder:      rec,
		Publisher:     pub,
		Notifier:      wn,
		Metrics:       metrics,
		Holidays:      holidays,
		Anchor:        anchor,
		RetentionDays: retentionDays,
		Ctx:           ctx,
	}
}

// RegisterAll registers the daily accrual task and the weekly retention task.
func (s *Scheduler) RegisterAll(accrualCron, retentionCron string) error {
	if _, err := s.Cron.AddFunc(accrualCron, s.accrualTask); err != nil {
		return fmt.Errorf("register accrual task: %w", err)
	}
	if _, err := s.Cron.AddFunc(retentionCron, s.retentionTask); err != nil {
		return fmt.Errorf("register retention task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunAccrualNow executes the accrual task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunAccrualNow() {
	s.accrualTask()
}

func (s *Scheduler) retentionTask() {
	if s.RetentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -s.RetentionDays)
	if err := s.Recorder.PruneBefore(cutoff); err != nil {
		log.Printf("[ERROR] prune history: %v", err)
		return
	}
	log.Printf("[INFO] retention complete: kept last %d days", s.RetentionDays)
}

func (s *Scheduler) accrualTask() {
	log.Println("[INFO] running daily accrual")

	txs, err := s.Store.Transactions()
	if err != nil {
		log.Printf("[ERROR] accrual load transactions: %v", err)
		s.Metrics.AccrualError()
		return
	}
	rates, err := s.Store.Rates()
	if err != nil {
		log.Printf("[ERROR] accrual load rates: %v", err)
		s.Metrics.AccrualError()
		return
	}
	storeHolidays, err := s.Store.Holidays()
	if err != nil {
		log.Printf("[ERROR] accrual load holidays: %v", err)
		s.Metrics.AccrualError()
		return
	}

	holidays := make(calendar.HolidaySet, len(s.Holidays)+len(storeHolidays))
	for d := range s.Holidays {
		holidays[d] = struct{}{}
	}
	for _, d := range storeHolidays {
		holidays[d] = struct{}{}
	}

	today := calendar.Day(time.Now())
	from := s.Anchor
	if from.IsZero() {
		if len(txs) == 0 {
			log.Println("[INFO] accrual skipped: empty ledger and no anchor date")
			return
		}
		from = calendar.Day(txs[0].Date)
		for _, tx := range txs[1:] {
			if tx.Date.Before(from) {
				from = calendar.Day(tx.Date)
			}
		}
	}
	if from.After(today) {
		log.Println("[INFO] accrual skipped: anchor date is in the future")
		return
	}

	result := interest.Calculate(interest.CalculationParams{
		Transactions: txs,
		Rates:        rates,
		Holidays:     holidays,
		From:         from,
		To:           today,
	})
	s.Metrics.CalculationRun()

	last := result.Days[len(result.Days)-1]
	snap := &recorder.AccrualSnapshot{
		Date:                   last.Date,
		InterestEarningBalance: last.InterestEarningBalance,
		Rate:                   last.Rate,
		DailyInterest:          last.DailyInterest,
		CumulativeInterest:     last.CumulativeInterest,
		FinalBalance:           result.FinalBalance,
		BusinessDays:           result.BusinessDays,
		NonBusinessDays:        result.NonBusinessDays,
	}
	if err := s.Recorder.RecordAccrual(snap); err != nil {
		log.Printf("[ERROR] record accrual: %v", err)
	}

	evt := &events.AccrualEvent{
		Date:           last.Date,
		EarningBalance: last.InterestEarningBalance,
		Rate:           last.Rate,
		DailyInterest:  last.DailyInterest,
		TotalInterest:  result.TotalInterest,
		FinalBalance:   result.FinalBalance,
	}
	if err := s.Publisher.PublishAccrual(s.Ctx, evt); err != nil {
		log.Printf("[ERROR] publish accrual event: %v", err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendWithRetry(s.Ctx, evt, 3); err != nil {
			log.Printf("[ERROR] send accrual webhook: %v", err)
		}
	}

	log.Printf("[INFO] accrual complete: %s earned %d (total %d, balance %d)",
		last.Date, last.DailyInterest, result.TotalInterest, result.FinalBalance)
}
