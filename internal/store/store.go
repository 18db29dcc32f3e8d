package store

import "WalletSentinel/internal/model"

// Store persists the wallet ledger: transactions, rate history, and the
// holiday calendar.
type Store interface {
	Transactions() ([]model.Transaction, error)
	AddTransaction(tx model.Transaction) error
	Rates() ([]model.InterestRate, error)
	AddRate(rate model.InterestRate) error
	Holidays() ([]string, error)
	AddHoliday(date string) error
	Close() error
}
