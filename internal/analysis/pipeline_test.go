package analysis

import (
	"context"
	"testing"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/akarpov87/locate_helper_bot/internal/model/marketModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTable() marketModel.RawHolderTable {
	return marketModel.RawHolderTable{
		Columns: []string{"Holder", "Shares"},
		Data: [][]any{
			{"California Teachers Retirement System", "1,000,000"},
			{"Vanguard Group", float64(500000)},
			{float64(1234567890), "abc"}, // malformed timestamp-like row
		},
	}
}

func runPipeline(t *testing.T, table marketModel.RawHolderTable) ([]model.HolderRecord, model.SavingsEstimate) {
	t.Helper()

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)

	c := newTestClassifier()
	for i := range records {
		records[i].Tier = c.Classify(records[i].Name)
	}

	Rank(records)

	est := newTestEstimator().Estimate(records, decimal.RequireFromString("10.00"))

	return records, est
}

func TestPipelineEndToEnd(t *testing.T) {
	records, est := runPipeline(t, scenarioTable())
	require.Len(t, records, 3)

	assert.Equal(t, "California Teachers Retirement System", records[0].Name)
	assert.Equal(t, model.TierDirect, records[0].Tier)

	assert.Equal(t, "Vanguard Group", records[1].Name)
	assert.Equal(t, model.TierAggregator, records[1].Tier)

	assert.Equal(t, "1234567890", records[2].Name)
	assert.Equal(t, model.TierStandard, records[2].Tier)
	assert.True(t, records[2].Shares.IsZero())

	assert.True(t, est.TotalShares.Equal(decimal.NewFromInt(1500000)))
	assert.True(t, est.MarketValue.Equal(decimal.NewFromInt(15000000)))
	assert.Equal(t, "833.33", est.DailySavings.StringFixed(2))
}

func TestPipelineIdempotent(t *testing.T) {
	records1, est1 := runPipeline(t, scenarioTable())
	records2, est2 := runPipeline(t, scenarioTable())

	assert.Equal(t, records1, records2)
	assert.Equal(t, est1, est2)
}
