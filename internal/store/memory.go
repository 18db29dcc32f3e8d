package store

import (
	"sort"
	"sync"

	"WalletSentinel/internal/model"
)

// MemoryStore is an in-memory Store for tests and development.
type MemoryStore struct {
	mu       sync.Mutex
	txs      []model.Transaction
	rates    []model.InterestRate
	holidays []string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Transactions() ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := make([]model.Transaction, len(m.txs))
	copy(txs, m.txs)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return txs, nil
}

func (m *MemoryStore) AddTransaction(tx model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, tx)
	return nil
}

func (m *MemoryStore) Rates() ([]model.InterestRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rates := make([]model.InterestRate, len(m.rates))
	copy(rates, m.rates)
	return rates, nil
}

func (m *MemoryStore) AddRate(rate model.InterestRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates = append(m.rates, rate)
	return nil
}

func (m *MemoryStore) Holidays() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dates := make([]string, len(m.holidays))
	copy(dates, m.holidays)
	return dates, nil
}

func (m *MemoryStore) AddHoliday(date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.holidays {
		if d == date {
			return nil
		}
	}
	m.holidays = append(m.holidays, date)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
