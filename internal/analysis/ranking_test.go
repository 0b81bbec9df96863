package analysis

import (
	"testing"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRankTierBeforeShares(t *testing.T) {
	records := []model.HolderRecord{
		{Name: "Big Fund", Shares: decimal.NewFromInt(9000000), Tier: model.TierStandard},
		{Name: "Small Pension", Shares: decimal.NewFromInt(100), Tier: model.TierDirect},
		{Name: "Vanguard", Shares: decimal.NewFromInt(500000), Tier: model.TierAggregator},
	}

	Rank(records)

	// a direct lender precedes an aggregator precedes a standard manager,
	// regardless of share counts
	assert.Equal(t, "Small Pension", records[0].Name)
	assert.Equal(t, "Vanguard", records[1].Name)
	assert.Equal(t, "Big Fund", records[2].Name)
}

func TestRankSharesDescendingWithinTier(t *testing.T) {
	records := []model.HolderRecord{
		{Name: "Pension A", Shares: decimal.NewFromInt(100), Tier: model.TierDirect},
		{Name: "Pension B", Shares: decimal.NewFromInt(300), Tier: model.TierDirect},
		{Name: "Pension C", Shares: decimal.NewFromInt(200), Tier: model.TierDirect},
	}

	Rank(records)

	assert.Equal(t, "Pension B", records[0].Name)
	assert.Equal(t, "Pension C", records[1].Name)
	assert.Equal(t, "Pension A", records[2].Name)
}

func TestRankStableOnFullTies(t *testing.T) {
	records := []model.HolderRecord{
		{Name: "First Disclosed", Shares: decimal.NewFromInt(500), Tier: model.TierStandard},
		{Name: "Second Disclosed", Shares: decimal.NewFromInt(500), Tier: model.TierStandard},
		{Name: "Third Disclosed", Shares: decimal.NewFromInt(500), Tier: model.TierStandard},
	}

	Rank(records)

	assert.Equal(t, "First Disclosed", records[0].Name)
	assert.Equal(t, "Second Disclosed", records[1].Name)
	assert.Equal(t, "Third Disclosed", records[2].Name)
}
