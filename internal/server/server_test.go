package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"WalletSentinel/internal/cache"
	"WalletSentinel/internal/model"
	"WalletSentinel/internal/observability"
	"WalletSentinel/internal/recorder"
	"WalletSentinel/internal/store"
)

// Registered once: prometheus panics on duplicate collector registration.
var testMetrics = observability.NewMetrics()

func newTestServer() *Server {
	return New(store.NewMemoryStore(), recorder.NewNoopRecorder(), cache.NewMockCache(), testMetrics, time.Minute)
}

func TestHandleCalculate_WeekendRange(t *testing.T) {
	srv := newTestServer()

	body := []byte(`{
		"rates": [{"annual_rate_percent": 4.0, "effective_from": "2020-01-01"}],
		"from": "2025-06-07",
		"to": "2025-06-08",
		"initial_balance": 10000000
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interest/calculate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	srv.handleCalculate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result model.InterestCalculationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.BusinessDays != 0 || result.TotalInterest != 0 {
		t.Errorf("weekend range should earn nothing: %+v", result)
	}
	if len(result.Days) != 2 {
		t.Errorf("expected 2 rows, got %d", len(result.Days))
	}
}

func TestHandleCalculate_CachesResult(t *testing.T) {
	srv := newTestServer()

	body := `{
		"rates": [{"annual_rate_percent": 4.0, "effective_from": "2020-01-01"}],
		"from": "2025-06-02",
		"to": "2025-06-06",
		"initial_balance": 10000000
	}`

	first := httptest.NewRecorder()
	srv.handleCalculate(first, httptest.NewRequest(http.MethodPost, "/api/v1/interest/calculate", bytes.NewBufferString(body)))
	second := httptest.NewRecorder()
	srv.handleCalculate(second, httptest.NewRequest(http.MethodPost, "/api/v1/interest/calculate", bytes.NewBufferString(body)))

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached response should be byte-identical")
	}
}

func TestHandleCalculate_BadDate(t *testing.T) {
	srv := newTestServer()

	body := []byte(`{"from": "06/02/2025", "to": "2025-06-06"}`)
	w := httptest.NewRecorder()
	srv.handleCalculate(w, httptest.NewRequest(http.MethodPost, "/api/v1/interest/calculate", bytes.NewBuffer(body)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleBenchmark(t *testing.T) {
	srv := newTestServer()

	body := []byte(`{"speeds": [5, 7, 3, 1, 6, 2, 4], "group_size": 3}`)
	w := httptest.NewRecorder()
	srv.handleBenchmark(w, httptest.NewRequest(http.MethodPost, "/api/v1/rankings/benchmark", bytes.NewBuffer(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp benchmarkResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Correct {
		t.Errorf("expected a correct ranking, got %v", resp.Ranking)
	}
	if resp.Ranking[0] != 3 || resp.Ranking[len(resp.Ranking)-1] != 1 {
		t.Errorf("expected fastest 3 and slowest 1, got %v", resp.Ranking)
	}
	if resp.Races == 0 {
		t.Error("expected at least one race")
	}
}

func TestHandleBenchmark_GroupTooSmall(t *testing.T) {
	srv := newTestServer()

	body := []byte(`{"speeds": [3, 1, 2], "group_size": 1}`)
	w := httptest.NewRecorder()
	srv.handleBenchmark(w, httptest.NewRequest(http.MethodPost, "/api/v1/rankings/benchmark", bytes.NewBuffer(body)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleEstimate(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	srv.handleEstimate(w, httptest.NewRequest(http.MethodGet, "/api/v1/interest/estimate?balance=10000000&rate=4", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["daily_interest"] != 1095 {
		t.Errorf("expected daily interest 1095, got %d", resp["daily_interest"])
	}
	if resp["monthly_estimate"] != 1095*22 || resp["yearly_estimate"] != 1095*260 {
		t.Errorf("unexpected estimates: %v", resp)
	}
}

func TestHandleAddAndListTransactions(t *testing.T) {
	srv := newTestServer()

	add := httptest.NewRecorder()
	srv.handleAddTransaction(add, httptest.NewRequest(http.MethodPost, "/api/v1/ledger/transactions",
		bytes.NewBufferString(`{"date": "2025-06-02", "amount": 1000000}`)))
	if add.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", add.Code)
	}

	list := httptest.NewRecorder()
	srv.handleListTransactions(list, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/transactions", nil))
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", list.Code)
	}
	var resp struct {
		Transactions []transactionDTO `json:"transactions"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.Transactions[0].Amount != 1000000 {
		t.Errorf("unexpected transactions: %v", resp.Transactions)
	}
}

func TestMetricsMiddlewarePreservesFlusher(t *testing.T) {
	sawFlusher := false
	h := MetricsMiddleware(testMetrics, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		sawFlusher = ok
		if ok {
			f.Flush()
		}
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !sawFlusher {
		t.Error("wrapped writer should still satisfy http.Flusher")
	}
	if !w.Flushed {
		t.Error("flush was not forwarded to the underlying writer")
	}
}
