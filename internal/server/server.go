package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"WalletSentinel/internal/cache"
	"WalletSentinel/internal/calendar"
	"WalletSentinel/internal/interest"
	"WalletSentinel/internal/model"
	"WalletSentinel/internal/observability"
	"WalletSentinel/internal/ranking"
	"WalletSentinel/internal/recorder"
	"WalletSentinel/internal/store"
)

// Server exposes the interest engine, the ranking resolver, and thin ledger
// access over HTTP.
type Server struct {
	store    store.Store
	recorder recorder.Recorder
	cache    cache.Cache
	metrics  *observability.Metrics
	cacheTTL time.Duration
}

func New(st store.Store, rec recorder.Recorder, c cache.Cache, metrics *observability.Metrics, cacheTTL time.Duration) *Server {
	return &Server{
		store:    st,
		recorder: rec,
		cache:    c,
		metrics:  metrics,
		cacheTTL: cacheTTL,
	}
}

// Router assembles all routes and middleware.
func (s *Server) Router(limiter *RateLimiter) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/interest/calculate", s.handleCalculate).Methods("POST")
	api.HandleFunc("/interest/project", s.handleProject).Methods("POST")
	api.HandleFunc("/interest/pending", s.handlePending).Methods("GET")
	api.HandleFunc("/interest/estimate", s.handleEstimate).Methods("GET")
	api.HandleFunc("/rankings/benchmark", s.handleBenchmark).Methods("POST")
	api.HandleFunc("/ledger/transactions", s.handleListTransactions).Methods("GET")
	api.HandleFunc("/ledger/transactions", s.handleAddTransaction).Methods("POST")
	api.HandleFunc("/ledger/rates", s.handleListRates).Methods("GET")
	api.HandleFunc("/ledger/rates", s.handleAddRate).Methods("POST")
	api.Use(func(next http.Handler) http.Handler {
		return RateLimitMiddleware(limiter, next)
	})

	r.Use(RequestIDMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return MetricsMiddleware(s.metrics, next)
	})

	return handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stdout, r))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type transactionDTO struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

type rateDTO struct {
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	EffectiveFrom     string  `json:"effective_from"`
	EffectiveTo       string  `json:"effective_to,omitempty"`
}

type calculateRequest struct {
	Transactions   []transactionDTO `json:"transactions"`
	Rates          []rateDTO        `json:"rates"`
	Holidays       []string         `json:"holidays"`
	From           string           `json:"from"`
	To             string           `json:"to"`
	InitialBalance int64            `json:"initial_balance"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params, err := req.toParams()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key, err := digest(req)
	if err == nil {
		if cached, ok := s.cache.Get(key); ok {
			s.metrics.CacheHit()
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
		s.metrics.CacheMiss()
	}

	result := interest.Calculate(params)
	s.metrics.CalculationRun()

	body, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "encode result", http.StatusInternalServerError)
		return
	}
	if key != "" {
		if err := s.cache.Set(key, string(body), s.cacheTTL); err != nil {
			log.Printf("[WARN] cache set failed: %v", err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (req calculateRequest) toParams() (interest.CalculationParams, error) {
	var params interest.CalculationParams

	from, err := calendar.ParseDate(req.From)
	if err != nil {
		return params, err
	}
	to, err := calendar.ParseDate(req.To)
	if err != nil {
		return params, err
	}

	txs := make([]model.Transaction, 0, len(req.Transactions))
	for _, dto := range req.Transactions {
		date, err := calendar.ParseDate(dto.Date)
		if err != nil {
			return params, err
		}
		txs = append(txs, model.Transaction{Date: date, Amount: dto.Amount})
	}

	rates := make([]model.InterestRate, 0, len(req.Rates))
	for _, dto := range req.Rates {
		rate, err := dto.toModel()
		if err != nil {
			return params, err
		}
		rates = append(rates, rate)
	}

	params = interest.CalculationParams{
		Transactions:   txs,
		Rates:          rates,
		Holidays:       calendar.NewHolidaySet(req.Holidays),
		From:           from,
		To:             to,
		InitialBalance: req.InitialBalance,
	}
	return params, nil
}

func (dto rateDTO) toModel() (model.InterestRate, error) {
	from, err := calendar.ParseDate(dto.EffectiveFrom)
	if err != nil {
		return model.InterestRate{}, err
	}
	rate := model.InterestRate{AnnualRatePercent: dto.AnnualRatePercent, EffectiveFrom: from}
	if dto.EffectiveTo != "" {
		to, err := calendar.ParseDate(dto.EffectiveTo)
		if err != nil {
			return model.InterestRate{}, err
		}
		rate.EffectiveTo = &to
	}
	return rate, nil
}

type projectRequest struct {
	Balance   int64    `json:"balance"`
	Rate      float64  `json:"rate"`
	Holidays  []string `json:"holidays"`
	Days      int      `json:"days"`
	StartDate string   `json:"start_date,omitempty"`
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := interest.ProjectionParams{
		CurrentBalance: req.Balance,
		CurrentRate:    req.Rate,
		Holidays:       calendar.NewHolidaySet(req.Holidays),
		Days:           req.Days,
	}
	if req.StartDate != "" {
		start, err := calendar.ParseDate(req.StartDate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		params.StartDate = start
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days": interest.Project(params),
	})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := calendar.ParseDate(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		asOf = parsed
	}

	txs, err := s.store.Transactions()
	if err != nil {
		http.Error(w, "load transactions", http.StatusInternalServerError)
		return
	}
	holidayDates, err := s.store.Holidays()
	if err != nil {
		http.Error(w, "load holidays", http.StatusInternalServerError)
		return
	}

	pending := interest.FindPendingDeposits(txs, calendar.NewHolidaySet(holidayDates), asOf)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"as_of":   calendar.FormatDate(asOf),
		"pending": pending,
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	balance, err := strconv.ParseInt(r.URL.Query().Get("balance"), 10, 64)
	if err != nil {
		http.Error(w, "invalid balance", http.StatusBadRequest)
		return
	}
	rate, err := strconv.ParseFloat(r.URL.Query().Get("rate"), 64)
	if err != nil {
		http.Error(w, "invalid rate", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"daily_interest":   interest.DailyInterest(balance, rate),
		"monthly_estimate": interest.EstimateMonthlyInterest(balance, rate),
		"yearly_estimate":  interest.EstimateYearlyInterest(balance, rate),
	})
}

type benchmarkRequest struct {
	Speeds    []int `json:"speeds"`
	GroupSize int   `json:"group_size"`
}

type benchmarkResponse struct {
	Ranking    []int   `json:"ranking"`
	Races      int     `json:"races"`
	Correct    bool    `json:"correct"`
	DurationMs float64 `json:"duration_ms"`
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	var req benchmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	races := 0
	compare := func(indices []int) ([]int, error) {
		races++
		ordered := make([]int, len(indices))
		copy(ordered, indices)
		sort.SliceStable(ordered, func(i, j int) bool {
			return req.Speeds[ordered[i]] < req.Speeds[ordered[j]]
		})
		return ordered, nil
	}

	start := time.Now()
	result, err := ranking.Resolve(len(req.Speeds), req.GroupSize, compare)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	elapsed := time.Since(start)

	expected := make([]int, len(req.Speeds))
	for i := range expected {
		expected[i] = i
	}
	sort.SliceStable(expected, func(i, j int) bool {
		return req.Speeds[expected[i]] < req.Speeds[expected[j]]
	})
	correct := len(result) == len(expected)
	for i := range result {
		if result[i] != expected[i] {
			correct = false
			break
		}
	}

	s.metrics.BenchmarkRaces(races)
	if err := s.recorder.RecordBenchmark(&recorder.BenchmarkRun{
		Items:      len(req.Speeds),
		GroupSize:  req.GroupSize,
		Races:      races,
		Correct:    correct,
		DurationMs: float64(elapsed.Microseconds()) / 1000,
	}); err != nil {
		log.Printf("[ERROR] record benchmark: %v", err)
	}

	writeJSON(w, http.StatusOK, benchmarkResponse{
		Ranking:    result,
		Races:      races,
		Correct:    correct,
		DurationMs: float64(elapsed.Microseconds()) / 1000,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, _ *http.Request) {
	txs, err := s.store.Transactions()
	if err != nil {
		http.Error(w, "load transactions", http.StatusInternalServerError)
		return
	}
	dtos := make([]transactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, transactionDTO{Date: calendar.FormatDate(tx.Date), Amount: tx.Amount})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": dtos})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var dto transactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	date, err := calendar.ParseDate(dto.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.AddTransaction(model.Transaction{Date: date, Amount: dto.Amount}); err != nil {
		http.Error(w, "save transaction", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (s *Server) handleListRates(w http.ResponseWriter, _ *http.Request) {
	rates, err := s.store.Rates()
	if err != nil {
		http.Error(w, "load rates", http.StatusInternalServerError)
		return
	}
	dtos := make([]rateDTO, 0, len(rates))
	for _, rate := range rates {
		dto := rateDTO{
			AnnualRatePercent: rate.AnnualRatePercent,
			EffectiveFrom:     calendar.FormatDate(rate.EffectiveFrom),
		}
		if rate.EffectiveTo != nil {
			dto.EffectiveTo = calendar.FormatDate(*rate.EffectiveTo)
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rates": dtos})
}

func (s *Server) handleAddRate(w http.ResponseWriter, r *http.Request) {
	var dto rateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rate, err := dto.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.AddRate(rate); err != nil {
		http.Error(w, "save rate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// digest builds a stable cache key from the canonical JSON of the request.
func digest(req calculateRequest) (string, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return "calc:" + hex.EncodeToString(sum[:]), nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
