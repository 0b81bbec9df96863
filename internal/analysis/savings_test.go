package analysis

import (
	"testing"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestEstimator() *Estimator {
	return NewEstimator(Assumptions{
		SpreadBps:     200,
		DayCount:      360,
		FallbackPrice: decimal.RequireFromString("10.00"),
	})
}

func TestEstimate(t *testing.T) {
	e := newTestEstimator()

	records := []model.HolderRecord{
		{Name: "California Teachers Retirement System", Shares: decimal.NewFromInt(1000000)},
		{Name: "Vanguard Group", Shares: decimal.NewFromInt(500000)},
		{Name: "1234567890", Shares: decimal.Zero}, // degraded row still counts
	}

	est := e.Estimate(records, decimal.RequireFromString("10.00"))

	assert.True(t, est.TotalShares.Equal(decimal.NewFromInt(1500000)))
	assert.True(t, est.MarketValue.Equal(decimal.NewFromInt(15000000)))
	// (15,000,000 * 200/10000) / 360 = 833.33...
	assert.Equal(t, "833.33", est.DailySavings.StringFixed(2))
}

func TestEstimateMarketValueInvariant(t *testing.T) {
	e := newTestEstimator()

	records := []model.HolderRecord{
		{Shares: decimal.NewFromInt(123456)},
		{Shares: decimal.NewFromInt(789)},
	}
	price := decimal.RequireFromString("17.35")

	est := e.Estimate(records, price)

	assert.True(t, est.MarketValue.Equal(est.TotalShares.Mul(price)))
}

func TestEstimateLinearity(t *testing.T) {
	e := newTestEstimator()
	price := decimal.RequireFromString("42.17")

	records := []model.HolderRecord{
		{Shares: decimal.NewFromInt(100)},
		{Shares: decimal.NewFromInt(2500)},
		{Shares: decimal.Zero},
		{Shares: decimal.NewFromInt(31337)},
		{Shares: decimal.NewFromInt(7)},
	}

	whole := e.Estimate(records, price)
	left := e.Estimate(records[:2], price)
	right := e.Estimate(records[2:], price)

	assert.True(t, whole.TotalShares.Equal(left.TotalShares.Add(right.TotalShares)))
	assert.True(t, whole.MarketValue.Equal(left.MarketValue.Add(right.MarketValue)))
}

func TestEstimateNoRecords(t *testing.T) {
	e := newTestEstimator()

	est := e.Estimate(nil, decimal.NewFromInt(10))

	assert.True(t, est.TotalShares.IsZero())
	assert.True(t, est.MarketValue.IsZero())
	assert.True(t, est.DailySavings.IsZero())
}
