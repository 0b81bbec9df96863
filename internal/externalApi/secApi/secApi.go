package secApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/utils"
	"github.com/go-resty/resty/v2"
)

const registryPath = "/files/company_tickers.json"

type SecApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *SecApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.SecApi.Url).
		SetHeader("User-Agent", cfg.API.SecApi.UserAgent) // SEC rejects anonymous clients
	return &SecApi{client: client}
}

type registryEntry struct {
	CikStr int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// GetRegistry downloads the full SEC ticker directory and returns
// ticker -> CIK, with CIKs zero-padded to the 10-digit EDGAR form.
func (a *SecApi) GetRegistry(ctx context.Context) (map[string]string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start SecApi.GetRegistry request", slog.String("rqID", rqID))

	resp, err := a.client.R().
		SetHeader("Accept", "application/json").
		Get(registryPath)

	if err != nil {
		slog.Error("error while dialing SecApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if resp.IsError() {
		slog.Error("SecApi returned error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqID))
		return nil, fmt.Errorf("sec registry request failed with status %d", resp.StatusCode())
	}

	// The registry is keyed by meaningless ordinal strings ("0", "1", ...).
	rawEntries := map[string]registryEntry{}
	err = json.Unmarshal(resp.Body(), &rawEntries)
	if err != nil {
		slog.Error("can't unmarshall SEC registry response", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	registry := make(map[string]string, len(rawEntries))
	for _, entry := range rawEntries {
		if entry.Ticker == "" {
			continue
		}
		registry[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CikStr)
	}

	slog.Debug("SecApi.GetRegistry request complete", slog.String("rqID", rqID), slog.Int("tickers", len(registry)))

	return registry, nil
}
