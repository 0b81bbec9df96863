package analysis

import (
	"context"
	"testing"

	"github.com/akarpov87/locate_helper_bot/internal/model/marketModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmptyTable(t *testing.T) {
	table := marketModel.RawHolderTable{
		Columns: []string{"Holder", "Shares"},
		Data:    [][]any{},
	}

	_, err := Normalize(context.Background(), table)
	require.ErrorIs(t, err, ErrEmptyTable)
}

func TestNormalizeNamedColumns(t *testing.T) {
	table := marketModel.RawHolderTable{
		Columns: []string{"Date Reported", "Holder", "pctHeld", "Shares"},
		Data: [][]any{
			{"2026-06-30", "California Teachers Retirement System", 1.2, float64(1000000)},
			{"2026-06-30", "Vanguard Group", 0.6, float64(500000)},
		},
	}

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "California Teachers Retirement System", records[0].Name)
	assert.True(t, records[0].Shares.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, "Vanguard Group", records[1].Name)
	assert.True(t, records[1].Shares.Equal(decimal.NewFromInt(500000)))
}

func TestNormalizeNameFallbackFirstTextColumn(t *testing.T) {
	// no column names match; the text column wins over position 1
	table := marketModel.RawHolderTable{
		Columns: []string{"c0", "c1", "c2"},
		Data: [][]any{
			{float64(100), "Acme Capital", float64(1)},
			{float64(200), "Beta Partners", float64(2)},
		},
	}

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Acme Capital", records[0].Name)
	// shares: first numeric column that is not the name column
	assert.True(t, records[0].Shares.Equal(decimal.NewFromInt(100)))
	assert.True(t, records[1].Shares.Equal(decimal.NewFromInt(200)))
}

func TestNormalizeNameFallbackPositionOne(t *testing.T) {
	// no text column at all: position 1 becomes the name and is stringified
	table := marketModel.RawHolderTable{
		Columns: []string{"c0", "c1"},
		Data: [][]any{
			{float64(300), float64(1234567890)},
		},
	}

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "1234567890", records[0].Name)
	assert.True(t, records[0].Shares.Equal(decimal.NewFromInt(300)))
}

func TestNormalizeSharesFallbackPositionTwoForFiveColumnTable(t *testing.T) {
	// unnamed 5-column table without any numeric column: shares come from
	// position 2 of the assumed fixed layout
	table := marketModel.RawHolderTable{
		Columns: []string{"x0", "x1", "x2", "x3", "x4"},
		Data: [][]any{
			{"State Pension Board", "a", "1,000", "b", "c"},
		},
	}

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "State Pension Board", records[0].Name)
	assert.True(t, records[0].Shares.Equal(decimal.NewFromInt(1000)))
}

func TestNormalizeSharesFallbackPositionZero(t *testing.T) {
	// unnamed, non-5-column table without any numeric column: shares fall
	// back to position 0 and degrade to zero when that cell is not a number
	table := marketModel.RawHolderTable{
		Columns: []string{"a", "b"},
		Data: [][]any{
			{"Acme Capital", "xyz"},
			{"2,500", "zzz"},
		},
	}

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Acme Capital", records[0].Name)
	assert.True(t, records[0].Shares.IsZero())

	// position 0 really is the shares source, not just a zero sink
	assert.True(t, records[1].Shares.Equal(decimal.NewFromInt(2500)))
}

func TestNormalizeWideTableTruncatesToFixedLayout(t *testing.T) {
	table := marketModel.RawHolderTable{
		Columns: []string{"a", "b", "c", "d", "e", "f", "g"},
		Data: [][]any{
			{"Teachers Retirement Fund", float64(42), "2026-06-30", 0.1, float64(420), "junk", "junk"},
		},
	}

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// truncation assigns [Holder, Shares, ...], so name rule 1 resolves both
	assert.Equal(t, "Teachers Retirement Fund", records[0].Name)
	assert.True(t, records[0].Shares.Equal(decimal.NewFromInt(42)))
}

func TestNormalizeCoercionDegradations(t *testing.T) {
	table := marketModel.RawHolderTable{
		Columns: []string{"Holder", "Shares"},
		Data: [][]any{
			{nil, "abc"},
			{"Negative Corp", float64(-5)},
			{float64(1234567890), nil},
			{"Comma Corp", "1,000,000"},
		},
	}

	records, err := Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 4, "no row may be dropped")

	assert.Equal(t, "", records[0].Name)
	assert.True(t, records[0].Shares.IsZero())

	assert.True(t, records[1].Shares.IsZero(), "negative values clamp to zero")

	assert.Equal(t, "1234567890", records[2].Name)
	assert.True(t, records[2].Shares.IsZero())

	assert.True(t, records[3].Shares.Equal(decimal.NewFromInt(1000000)))

	for _, rec := range records {
		assert.False(t, rec.Shares.IsNegative())
	}
}
