package locateService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/internal/analysis"
	"github.com/akarpov87/locate_helper_bot/internal/externalApi"
	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/akarpov87/locate_helper_bot/internal/model/marketModel"
	"github.com/akarpov87/locate_helper_bot/internal/service"
	"github.com/akarpov87/locate_helper_bot/utils"
	"github.com/shopspring/decimal"
)

type MarketApi interface {
	GetInstitutionalHolders(ctx context.Context, ticker string) (marketModel.RawHolderTable, error)
	GetQuote(ctx context.Context, ticker string) (marketModel.Quote, error)
	GetNews(ctx context.Context, ticker string, limit int) ([]marketModel.NewsItem, error)
}

type SecApi interface {
	GetRegistry(ctx context.Context) (map[string]string, error)
}

type Cache interface {
	GetCIK(ctx context.Context, ticker string) (string, error)
	SetRegistry(ctx context.Context, registry map[string]string) error
	GetQuote(ctx context.Context, ticker string) (marketModel.Quote, error)
	SetQuote(ctx context.Context, quote marketModel.Quote) error
}

type MemoGenerator interface {
	GenerateMemo(ctx context.Context, analysis model.Analysis, news []model.NewsItem) (string, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, analysis model.Analysis, generatedAt time.Time) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type LocateService struct {
	cfg           *config.Config
	cache         Cache
	secApi        SecApi
	marketApi     MarketApi
	memoGen       MemoGenerator
	reportGen     ReportGenerator
	cloudStorage  CloudStorage
	classifier    *analysis.Classifier
	estimator     *analysis.Estimator
	fallbackPrice decimal.Decimal
}

func New(
	cfg *config.Config,
	cache Cache,
	secApi SecApi,
	marketApi MarketApi,
	memoGen MemoGenerator,
	reportGen ReportGenerator,
	cloudStorage CloudStorage,
) *LocateService {
	assumptions := analysis.Assumptions{
		SpreadBps:     cfg.Analysis.SpreadBps,
		DayCount:      cfg.Analysis.DayCount,
		FallbackPrice: cfg.Analysis.FallbackPrice,
	}

	return &LocateService{
		cfg:           cfg,
		cache:         cache,
		secApi:        secApi,
		marketApi:     marketApi,
		memoGen:       memoGen,
		reportGen:     reportGen,
		cloudStorage:  cloudStorage,
		classifier:    analysis.NewClassifier(cfg.Analysis.DirectKeywords, cfg.Analysis.AggregatorKeywords),
		estimator:     analysis.NewEstimator(assumptions),
		fallbackPrice: assumptions.FallbackPrice,
	}
}

// AnalyzeTicker runs the full pipeline for one ticker: fetch holders,
// normalize, classify, rank, price, estimate. Only an empty holder table
// terminates the run; a dead quote source degrades to the fallback price and
// a dead registry leaves the CIK empty.
func (s *LocateService) AnalyzeTicker(ctx context.Context, ticker string) (model.Analysis, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LocateService.AnalyzeTicker"
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	slog.Debug("AnalyzeTicker start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	defer func() {
		slog.Debug("AnalyzeTicker finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
	}()

	table, err := s.marketApi.GetInstitutionalHolders(ctx, ticker)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return model.Analysis{}, service.ErrNoHoldings
		}
		slog.Error("got error from marketApi.GetInstitutionalHolders", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Analysis{}, err
	}

	records, err := analysis.Normalize(ctx, table)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyTable) {
			slog.Warn("holder table is empty", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
			return model.Analysis{}, service.ErrNoHoldings
		}
		return model.Analysis{}, err
	}

	for i := range records {
		records[i].Tier = s.classifier.Classify(records[i].Name)
	}

	analysis.Rank(records)

	price, priceIsFallback := s.getPrice(ctx, ticker)

	// the estimate depends only on the records and the price, not on ranking
	estimate := s.estimator.Estimate(records, price)

	return model.Analysis{
		Ticker:          ticker,
		CIK:             s.verifyTicker(ctx, ticker),
		Price:           price,
		PriceIsFallback: priceIsFallback,
		Holders:         records,
		Estimate:        estimate,
	}, nil
}

// getPrice tries cache, then the live quote, then the configured fallback.
// The fallback is surfaced to the caller, never substituted silently.
func (s *LocateService) getPrice(ctx context.Context, ticker string) (price decimal.Decimal, isFallback bool) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LocateService.getPrice"

	quote, err := s.cache.GetQuote(ctx, ticker)
	if err == nil {
		return quote.Price, false
	}

	quote, err = s.marketApi.GetQuote(ctx, ticker)
	if err != nil {
		slog.Warn(
			"quote unavailable, using fallback price",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("ticker", ticker),
			slog.String("fallbackPrice", s.fallbackPrice.String()),
			slog.String("err", err.Error()),
		)
		return s.fallbackPrice, true
	}

	go s.cache.SetQuote(context.WithoutCancel(ctx), quote)

	return quote.Price, false
}

// verifyTicker resolves the SEC CIK for display. Best effort: any failure
// returns an empty CIK and never blocks the analysis.
func (s *LocateService) verifyTicker(ctx context.Context, ticker string) string {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LocateService.verifyTicker"

	cik, err := s.cache.GetCIK(ctx, ticker)
	if err == nil {
		return cik
	}

	registry, err := s.secApi.GetRegistry(ctx)
	if err != nil {
		slog.Warn("SEC registry unavailable, skipping verification", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return ""
	}

	go s.cache.SetRegistry(context.WithoutCancel(ctx), registry)

	cik, ok := registry[ticker]
	if !ok {
		slog.Warn("ticker not present in SEC registry", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker))
		return ""
	}

	return cik
}

// GenerateMemo produces the optional AI deal memo for a finished analysis.
// Headlines are best effort: a dead news endpoint just means a memo without
// news context.
func (s *LocateService) GenerateMemo(ctx context.Context, a model.Analysis) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LocateService.GenerateMemo"

	slog.Debug("GenerateMemo start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", a.Ticker))
	defer func() {
		slog.Debug("GenerateMemo finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", a.Ticker))
	}()

	var news []model.NewsItem
	rawNews, err := s.marketApi.GetNews(ctx, a.Ticker, s.cfg.Analysis.HoldersInMemo)
	if err != nil {
		slog.Warn("news unavailable, memo will go without headlines", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	} else {
		news = make([]model.NewsItem, 0, len(rawNews))
		for _, item := range rawNews {
			news = append(news, model.NewsItem{Title: item.Title, Publisher: item.Publisher})
		}
	}

	memo, err := s.memoGen.GenerateMemo(ctx, a, news)
	if err != nil {
		slog.Error("got error from memoGen.GenerateMemo", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	return memo, nil
}

// ExportReport renders the counterparty workbook and picks the delivery
// route: inline document, or a cloud link when the file exceeds Telegram's
// size limit.
func (s *LocateService) ExportReport(ctx context.Context, a model.Analysis) (model.Report, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LocateService.ExportReport"

	slog.Debug("ExportReport start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", a.Ticker))
	defer func() {
		slog.Debug("ExportReport finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", a.Ticker))
	}()

	generatedAt := time.Now()

	fileBytes, fileExtension, err := s.reportGen.Generate(ctx, a, generatedAt)
	if err != nil {
		slog.Error("got error from reportGen.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, err
	}

	filename := fmt.Sprintf("%s_counterparties_%s%s", a.Ticker, generatedAt.Format("20060102_150405"), fileExtension)

	if len(fileBytes) <= s.cfg.Telegram.FileLimitInBytes {
		return model.Report{Filename: filename, FileBytes: fileBytes}, nil
	}

	link, err := s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
	if err != nil {
		slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, err
	}

	return model.Report{Filename: filename, DownloadLink: link}, nil
}

// RefreshRegistry pre-warms the ticker -> CIK cache; runs on the scheduler.
func (s *LocateService) RefreshRegistry(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "LocateService.RefreshRegistry"

	registry, err := s.secApi.GetRegistry(ctx)
	if err != nil {
		slog.Error("got error from secApi.GetRegistry", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return s.cache.SetRegistry(ctx, registry)
}
