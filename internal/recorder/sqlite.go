package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while the service writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accrual_snapshots (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			date                TEXT    NOT NULL,
			earning_balance     INTEGER,
			rate                REAL,
			daily_interest      INTEGER,
			cumulative_interest INTEGER,
			final_balance       INTEGER,
			business_days       INTEGER,
			non_business_days   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accrual_ts ON accrual_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_accrual_date ON accrual_snapshots(date)`,

		`CREATE TABLE IF NOT EXISTS benchmark_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			items       INTEGER,
			group_size  INTEGER,
			races       INTEGER,
			correct     INTEGER,
			duration_ms REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_benchmark_ts ON benchmark_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAccrual(snap *AccrualSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO accrual_snapshots
		(timestamp, date, earning_balance, rate, daily_interest,
		 cumulative_interest, final_balance, business_days, non_business_days)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Date, snap.InterestEarningBalance, snap.Rate,
		snap.DailyInterest, snap.CumulativeInterest, snap.FinalBalance,
		snap.BusinessDays, snap.NonBusinessDays,
	)
	return err
}

func (r *SQLiteRecorder) RecordBenchmark(run *BenchmarkRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	correct := 0
	if run.Correct {
		correct = 1
	}
	_, err := r.db.Exec(`INSERT INTO benchmark_runs
		(timestamp, items, group_size, races, correct, duration_ms)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), run.Items, run.GroupSize, run.Races, correct, run.DurationMs,
	)
	return err
}

// PruneBefore deletes snapshots and benchmark runs recorded before cutoff.
func (r *SQLiteRecorder) PruneBefore(cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`DELETE FROM accrual_snapshots WHERE timestamp < ?`, cutoff.Unix())
	if err != nil {
		return fmt.Errorf("prune accrual_snapshots: %w", err)
	}
	snapshots, _ := res.RowsAffected()

	res, err = r.db.Exec(`DELETE FROM benchmark_runs WHERE timestamp < ?`, cutoff.Unix())
	if err != nil {
		return fmt.Errorf("prune benchmark_runs: %w", err)
	}
	runs, _ := res.RowsAffected()

	if snapshots > 0 || runs > 0 {
		log.Printf("[INFO] pruned history before %s: %d snapshots, %d benchmark runs",
			cutoff.Format("2006-01-02"), snapshots, runs)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
