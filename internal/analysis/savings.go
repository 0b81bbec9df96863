package analysis

import (
	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/shopspring/decimal"
)

// Assumptions is the single source of truth for the business constants behind
// the savings estimate. It is built once from config and injected, never
// inlined.
type Assumptions struct {
	SpreadBps     int64
	DayCount      int64
	FallbackPrice decimal.Decimal
}

type Estimator struct {
	assumptions Assumptions
}

func NewEstimator(assumptions Assumptions) *Estimator {
	return &Estimator{assumptions: assumptions}
}

// Estimate sums the located float and prices the daily benefit of direct
// borrowing: (marketValue * spreadBps/10000) / dayCount. Zero-weight records
// contribute nothing but are never skipped upstream, so the estimate and the
// counterparty table always describe the same rows.
func (e *Estimator) Estimate(records []model.HolderRecord, price decimal.Decimal) model.SavingsEstimate {
	totalShares := decimal.Zero
	for _, rec := range records {
		totalShares = totalShares.Add(rec.Shares)
	}

	marketValue := totalShares.Mul(price)

	dailySavings := marketValue.
		Mul(decimal.NewFromInt(e.assumptions.SpreadBps)).
		Div(decimal.NewFromInt(10000)).
		Div(decimal.NewFromInt(e.assumptions.DayCount))

	return model.SavingsEstimate{
		TotalShares:  totalShares,
		MarketValue:  marketValue,
		DailySavings: dailySavings,
	}
}
