package marketApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/internal/externalApi"
	"github.com/akarpov87/locate_helper_bot/internal/model/marketModel"
	"github.com/akarpov87/locate_helper_bot/utils"
	"github.com/go-resty/resty/v2"
)

// MarketApi talks to the market-data provider: institutional-holder
// disclosures, last-trade quotes and headlines. The holder endpoint returns a
// columns+rows table whose schema drifts across provider versions, so it is
// passed through untouched for the normalizer to resolve.
type MarketApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *MarketApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.MarketApi.Url)
	return &MarketApi{client: client}
}

func (a *MarketApi) GetInstitutionalHolders(ctx context.Context, ticker string) (marketModel.RawHolderTable, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start MarketApi.GetInstitutionalHolders request", slog.String("rqID", rqID), slog.String("ticker", ticker))

	resp, err := a.client.R().
		SetHeader("Accept", "application/json").
		SetPathParam("ticker", ticker).
		Get("/v1/stocks/{ticker}/institutional-holders")

	if err != nil {
		slog.Error("error while dialing MarketApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return marketModel.RawHolderTable{}, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		slog.Warn("no holder data for ticker", slog.String("rqID", rqID), slog.String("ticker", ticker))
		return marketModel.RawHolderTable{}, externalApi.ErrNotFound
	}

	if resp.IsError() {
		slog.Error("MarketApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return marketModel.RawHolderTable{}, fmt.Errorf("holders request failed with status %d", resp.StatusCode())
	}

	table := marketModel.RawHolderTable{}
	err = json.Unmarshal(resp.Body(), &table)
	if err != nil {
		slog.Error("can't unmarshall response into marketModel.RawHolderTable", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return marketModel.RawHolderTable{}, err
	}

	slog.Debug("MarketApi.GetInstitutionalHolders request complete", slog.String("rqID", rqID), slog.Int("rows", len(table.Data)))

	return table, nil
}

func (a *MarketApi) GetQuote(ctx context.Context, ticker string) (marketModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start MarketApi.GetQuote request", slog.String("rqID", rqID), slog.String("ticker", ticker))

	resp, err := a.client.R().
		SetHeader("Accept", "application/json").
		SetPathParam("ticker", ticker).
		Get("/v1/stocks/{ticker}/quote")

	if err != nil {
		slog.Error("error while dialing MarketApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return marketModel.Quote{}, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return marketModel.Quote{}, externalApi.ErrNotFound
	}

	if resp.IsError() {
		slog.Error("MarketApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return marketModel.Quote{}, fmt.Errorf("quote request failed with status %d", resp.StatusCode())
	}

	quote := marketModel.Quote{}
	err = json.Unmarshal(resp.Body(), &quote)
	if err != nil {
		slog.Error("can't unmarshall response into marketModel.Quote", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return marketModel.Quote{}, err
	}

	if quote.Price.IsNegative() {
		return marketModel.Quote{}, fmt.Errorf("provider returned negative price %s for %s", quote.Price, ticker)
	}

	slog.Debug("MarketApi.GetQuote request complete", slog.String("rqID", rqID))

	return quote, nil
}

func (a *MarketApi) GetNews(ctx context.Context, ticker string, limit int) ([]marketModel.NewsItem, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start MarketApi.GetNews request", slog.String("rqID", rqID), slog.String("ticker", ticker))

	resp, err := a.client.R().
		SetHeader("Accept", "application/json").
		SetPathParam("ticker", ticker).
		SetQueryParam("limit", fmt.Sprint(limit)).
		Get("/v1/stocks/{ticker}/news")

	if err != nil {
		slog.Error("error while dialing MarketApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if resp.IsError() {
		slog.Error("MarketApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return nil, fmt.Errorf("news request failed with status %d", resp.StatusCode())
	}

	var news []marketModel.NewsItem
	err = json.Unmarshal(resp.Body(), &news)
	if err != nil {
		slog.Error("can't unmarshall response into []marketModel.NewsItem", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	slog.Debug("MarketApi.GetNews request complete", slog.String("rqID", rqID), slog.Int("items", len(news)))

	return news, nil
}
