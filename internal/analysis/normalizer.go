package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/akarpov87/locate_helper_bot/internal/model/marketModel"
	"github.com/akarpov87/locate_helper_bot/utils"
	"github.com/shopspring/decimal"
)

// fixedLayout is the classic 13F holder table shape. Tables wider than it are
// truncated and renamed to it before column resolution runs.
var fixedLayout = []string{"Holder", "Shares", "DateReported", "PercentOut", "Value"}

// Normalize turns a raw disclosure table of unknown column layout into one
// HolderRecord per input row. Column resolution, in order, first match wins:
//
//  1. a column name containing "holder" is the name column, one containing
//     "share" is the shares column (case-insensitive);
//  2. no name column: the first all-text column, else position 1 (position 0
//     is assumed to be a disclosure-date column);
//  3. no shares column: the first numeric column, else position 2 for an
//     unnamed 5-column table, else position 0.
//
// Cell values degrade instead of failing: any name value is stringified, any
// share value that does not parse as a non-negative number becomes zero. Each
// degradation is logged so data-quality drift stays visible.
func Normalize(ctx context.Context, table marketModel.RawHolderTable) ([]model.HolderRecord, error) {
	if len(table.Data) == 0 {
		return nil, ErrEmptyTable
	}

	columns := table.Columns
	if len(columns) > len(fixedLayout) {
		columns = fixedLayout
	}

	nameIdx, sharesIdx := resolveByName(columns)

	if nameIdx < 0 {
		nameIdx = firstTextColumn(table.Data, len(columns), sharesIdx)
	}
	if nameIdx < 0 {
		if len(columns) > 1 {
			nameIdx = 1
		} else {
			nameIdx = 0
		}
	}

	if sharesIdx < 0 {
		sharesIdx = firstNumericColumn(table.Data, len(columns), nameIdx)
	}
	if sharesIdx < 0 {
		if len(columns) == len(fixedLayout) {
			sharesIdx = 2
		} else {
			sharesIdx = 0
		}
	}

	records := make([]model.HolderRecord, 0, len(table.Data))
	for i, row := range table.Data {
		records = append(records, model.HolderRecord{
			Name:   coerceName(cell(row, nameIdx)),
			Shares: coerceShares(ctx, i, cell(row, sharesIdx)),
		})
	}

	return records, nil
}

func resolveByName(columns []string) (nameIdx, sharesIdx int) {
	nameIdx, sharesIdx = -1, -1
	for i, c := range columns {
		lc := strings.ToLower(c)
		if nameIdx < 0 && strings.Contains(lc, "holder") {
			nameIdx = i
			continue
		}
		if sharesIdx < 0 && strings.Contains(lc, "share") {
			sharesIdx = i
		}
	}
	return nameIdx, sharesIdx
}

// firstTextColumn returns the first column whose populated cells are all
// strings, or -1. Columns with no populated cells don't count as text.
func firstTextColumn(rows [][]any, width, skipIdx int) int {
	for j := 0; j < width; j++ {
		if j == skipIdx {
			continue
		}
		seen := false
		text := true
		for _, row := range rows {
			v := cell(row, j)
			if v == nil {
				continue
			}
			if _, ok := v.(string); !ok {
				text = false
				break
			}
			seen = true
		}
		if seen && text {
			return j
		}
	}
	return -1
}

func firstNumericColumn(rows [][]any, width, skipIdx int) int {
	for j := 0; j < width; j++ {
		if j == skipIdx {
			continue
		}
		seen := false
		numeric := true
		for _, row := range rows {
			v := cell(row, j)
			if v == nil {
				continue
			}
			if !isNumeric(v) {
				numeric = false
				break
			}
			seen = true
		}
		if seen && numeric {
			return j
		}
	}
	return -1
}

func isNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// coerceName never fails: whatever the provider put into the name column
// (including date-like numbers in malformed tables) becomes its text form.
func coerceName(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// coerceShares parses a share count, tolerating thousands separators. A value
// that fails to parse, or is negative, degrades to zero so the row survives
// as a zero-weight record.
func coerceShares(ctx context.Context, rowIdx int, v any) decimal.Decimal {
	var (
		d   decimal.Decimal
		err error
	)

	switch t := v.(type) {
	case nil:
		err = fmt.Errorf("share cell is empty")
	case float64:
		d = decimal.NewFromFloat(t)
	case float32:
		d = decimal.NewFromFloat32(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	case int32:
		d = decimal.NewFromInt32(t)
	case int64:
		d = decimal.NewFromInt(t)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		d, err = decimal.NewFromString(s)
	default:
		err = fmt.Errorf("share cell has unsupported type %T", v)
	}

	if err != nil {
		slog.Warn(
			"share value degraded to zero",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int("row", rowIdx),
			slog.Any("value", v),
			slog.String("reason", err.Error()),
		)
		return decimal.Zero
	}

	if d.IsNegative() {
		slog.Warn(
			"negative share value degraded to zero",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.Int("row", rowIdx),
			slog.Any("value", v),
		)
		return decimal.Zero
	}

	return d
}
