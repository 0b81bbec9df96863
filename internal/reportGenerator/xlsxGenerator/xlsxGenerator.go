package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/akarpov87/locate_helper_bot/utils"
	"github.com/xuri/excelize/v2"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders one analysis run as a workbook: the savings metrics, the
// ranked counterparty list and the verification block. generatedAt comes from
// the caller, the core analysis itself is time-free.
func (g *XLSXGenerator) Generate(ctx context.Context, analysis model.Analysis, generatedAt time.Time) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", analysis.Ticker))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	sheetName := fmt.Sprintf("%s Counterparties", analysis.Ticker)
	if _, err := f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := g.fillSheet(f, sheetName, analysis, generatedAt); err != nil {
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, sheetName string, analysis model.Analysis, generatedAt time.Time) error {
	// metrics block
	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", "Savings Estimate")

	if err := g.styleHeader(f, sheetName, "A1", "#cfe2f3"); err != nil {
		return err
	}

	price := fmt.Sprintf("current price $%s", analysis.Price.StringFixed(2))
	if analysis.PriceIsFallback {
		price = fmt.Sprintf("fallback price $%s (live quote unavailable)", analysis.Price.StringFixed(2))
	}

	_ = f.SetCellStr(sheetName, "A2", "institutional float located")
	_ = f.SetCellValue(sheetName, "B2", analysis.Estimate.TotalShares.InexactFloat64())
	_ = f.SetCellStr(sheetName, "A3", "market value of float")
	_ = f.SetCellValue(sheetName, "B3", analysis.Estimate.MarketValue.InexactFloat64())
	_ = f.SetCellStr(sheetName, "A4", "est. daily cost savings")
	_ = f.SetCellValue(sheetName, "B4", analysis.Estimate.DailySavings.InexactFloat64())
	_ = f.SetCellStr(sheetName, "A5", "pricing basis")
	_ = f.SetCellStr(sheetName, "B5", price)

	// counterparty table
	if err := f.MergeCell(sheetName, "A7", "D7"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A7", "Target Counterparty List")

	if err := g.styleHeader(f, sheetName, "A7", "#d9ead3"); err != nil {
		return err
	}

	_ = f.SetCellStr(sheetName, "A8", "holder")
	_ = f.SetCellStr(sheetName, "B8", "lending category")
	_ = f.SetCellStr(sheetName, "C8", "shares")
	_ = f.SetCellStr(sheetName, "D8", "est. value")

	for i, holder := range analysis.Holders {
		row := i + 9
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), holder.Name)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), holder.Tier.String())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), holder.Shares.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), holder.Shares.Mul(analysis.Price).InexactFloat64())
	}

	// verification block
	rowNum := len(analysis.Holders) + 11

	if err := f.MergeCell(sheetName, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("B%d", rowNum)); err != nil {
		return err
	}
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), "Regulatory Verification")

	if err := g.styleHeader(f, sheetName, fmt.Sprintf("A%d", rowNum), "#cccccc"); err != nil {
		return err
	}

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "generated at")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), generatedAt.Format("2006-01-02 15:04:05 MST"))
	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "SEC CIK")
	cik := analysis.CIK
	if cik == "" {
		cik = "not verified"
	}
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), cik)
	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "statute")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), "17 CFR § 242.203(b)(1)(i)")
	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "potential arrangements")
	_ = f.SetCellInt(sheetName, fmt.Sprintf("B%d", rowNum), int64(len(analysis.Holders)))

	return nil
}

func (g *XLSXGenerator) styleHeader(f *excelize.File, sheetName, cellRef, color string) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, cellRef, cellRef, styleID); err != nil {
		return fmt.Errorf("failed to apply style: %w", err)
	}

	return nil
}
