package telebotConverter

import (
	"strings"
	"testing"
	"time"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalysis() model.Analysis {
	return model.Analysis{
		Ticker: "GME",
		CIK:    "0001326380",
		Price:  decimal.RequireFromString("10.00"),
		Holders: []model.HolderRecord{
			{Name: "California Teachers Retirement System", Shares: decimal.NewFromInt(1000000), Tier: model.TierDirect},
			{Name: "Vanguard Group", Shares: decimal.NewFromInt(500000), Tier: model.TierAggregator},
		},
		Estimate: model.SavingsEstimate{
			TotalShares:  decimal.NewFromInt(1500000),
			MarketValue:  decimal.NewFromInt(15000000),
			DailySavings: decimal.RequireFromString("833.33"),
		},
	}
}

func TestAskTickerResponse(t *testing.T) {
	text, markup := AskTickerResponse("")

	assert.Contains(t, text, "ticker")
	assert.Empty(t, markup.InlineKeyboard)
}

func TestAskTickerResponseOffersRerun(t *testing.T) {
	_, markup := AskTickerResponse("GME")

	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)

	btn := markup.InlineKeyboard[0][0]
	assert.Equal(t, "Re-run GME", btn.Text)
	// the callback payload carries the ticker for AnalyzeCallback
	assert.Contains(t, btn.Data, "GME")
}

func TestAnalysisResponse(t *testing.T) {
	generatedAt := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)

	text, markup := AnalysisResponse(testAnalysis(), 10, generatedAt)

	assert.Contains(t, text, "Direct Borrow Analysis: GME")
	assert.Contains(t, text, "Est. daily cost savings: $833.33")
	assert.Contains(t, text, "SEC CIK:  0001326380")
	assert.Contains(t, text, "identified 2 potential 'bona fide' arrangements")
	assert.Contains(t, text, "Priced at the current $10.00.")

	// ranked order survives rendering
	direct := strings.Index(text, "California Teachers Retirement System")
	aggregator := strings.Index(text, "Vanguard Group")
	assert.Less(t, direct, aggregator)

	require.Len(t, markup.InlineKeyboard, 1)
	assert.Len(t, markup.InlineKeyboard[0], 2)
}

func TestAnalysisResponseFallbackPriceSurfaced(t *testing.T) {
	a := testAnalysis()
	a.PriceIsFallback = true
	a.CIK = ""

	text, _ := AnalysisResponse(a, 10, time.Now())

	assert.Contains(t, text, "fallback")
	assert.Contains(t, text, "SEC CIK:  not verified")
}

func TestAnalysisResponseTruncatesToTopN(t *testing.T) {
	a := testAnalysis()

	text, _ := AnalysisResponse(a, 1, time.Now())

	assert.Contains(t, text, "California Teachers Retirement System")
	assert.NotContains(t, text, "2. Vanguard Group")
	assert.Contains(t, text, "and 1 more in the full report")
}
