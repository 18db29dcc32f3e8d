package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"WalletSentinel/internal/calendar"
	"WalletSentinel/internal/model"
)

// SQLiteStore keeps the ledger in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the ledger database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the API can read while the accrual task writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] ledger store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			date   TEXT    NOT NULL,
			amount INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_date ON transactions(date)`,

		`CREATE TABLE IF NOT EXISTS rates (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			annual_rate    REAL NOT NULL,
			effective_from TEXT NOT NULL,
			effective_to   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rates_from ON rates(effective_from)`,

		`CREATE TABLE IF NOT EXISTS holidays (
			date TEXT PRIMARY KEY
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Transactions returns all ledger transactions ordered by date, then id.
func (s *SQLiteStore) Transactions() ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date, amount FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var dateStr string
		var amount int64
		if err := rows.Scan(&dateStr, &amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := calendar.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		txs = append(txs, model.Transaction{Date: date, Amount: amount})
	}
	return txs, rows.Err()
}

func (s *SQLiteStore) AddTransaction(tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO transactions (date, amount) VALUES (?, ?)`,
		calendar.FormatDate(tx.Date), tx.Amount)
	return err
}

// Rates returns the full rate history ordered by effective_from.
func (s *SQLiteStore) Rates() ([]model.InterestRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT annual_rate, effective_from, effective_to FROM rates ORDER BY effective_from, id`)
	if err != nil {
		return nil, fmt.Errorf("query rates: %w", err)
	}
	defer rows.Close()

	var rates []model.InterestRate
	for rows.Next() {
		var rate float64
		var fromStr string
		var toStr sql.NullString
		if err := rows.Scan(&rate, &fromStr, &toStr); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		from, err := calendar.ParseDate(fromStr)
		if err != nil {
			return nil, fmt.Errorf("parse rate effective_from %q: %w", fromStr, err)
		}
		r := model.InterestRate{AnnualRatePercent: rate, EffectiveFrom: from}
		if toStr.Valid {
			to, err := calendar.ParseDate(toStr.String)
			if err != nil {
				return nil, fmt.Errorf("parse rate effective_to %q: %w", toStr.String, err)
			}
			r.EffectiveTo = &to
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func (s *SQLiteStore) AddRate(rate model.InterestRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var to interface{}
	if rate.EffectiveTo != nil {
		to = calendar.FormatDate(*rate.EffectiveTo)
	}
	_, err := s.db.Exec(`INSERT INTO rates (annual_rate, effective_from, effective_to) VALUES (?, ?, ?)`,
		rate.AnnualRatePercent, calendar.FormatDate(rate.EffectiveFrom), to)
	return err
}

func (s *SQLiteStore) Holidays() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *SQLiteStore) AddHoliday(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR IGNORE INTO holidays (date) VALUES (?)`, date)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing ledger store")
	return s.db.Close()
}
