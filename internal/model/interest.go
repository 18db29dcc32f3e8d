package model

// DailyInterestResult is one row of the day-by-day breakdown. Non-business
// days appear with a zero DailyInterest so the series has no calendar gaps.
type DailyInterestResult struct {
	Date                   string  `json:"date"`
	InterestEarningBalance int64   `json:"interest_earning_balance"`
	Rate                   float64 `json:"rate"`
	DailyInterest          int64   `json:"daily_interest"`
	IsBusinessDay          bool    `json:"is_business_day"`
	CumulativeInterest     int64   `json:"cumulative_interest"`
}

// InterestCalculationResult aggregates a full simulation run.
type InterestCalculationResult struct {
	Days            []DailyInterestResult `json:"days"`
	TotalInterest   int64                 `json:"total_interest"`
	FinalBalance    int64                 `json:"final_balance"`
	BusinessDays    int                   `json:"business_days"`
	NonBusinessDays int                   `json:"non_business_days"`
}

// InterestProjection is one row of a forward projection assuming no further
// transactions.
type InterestProjection struct {
	Date               string  `json:"date"`
	Balance            int64   `json:"balance"`
	Rate               float64 `json:"rate"`
	DailyInterest      int64   `json:"daily_interest"`
	IsBusinessDay      bool    `json:"is_business_day"`
	CumulativeInterest int64   `json:"cumulative_interest"`
}

// PendingDeposit describes a deposit whose interest has not yet started.
type PendingDeposit struct {
	Transaction    Transaction `json:"-"`
	Date           string      `json:"date"`
	Amount         int64       `json:"amount"`
	InterestStart  string      `json:"interest_start"`
	DaysUntilStart int         `json:"days_until_start"`
}
