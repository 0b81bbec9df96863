package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/internal/model/marketModel"
	"github.com/akarpov87/locate_helper_bot/utils"
	"github.com/redis/go-redis/v9"
)

const (
	cikKeyPrefix   = "cik:"
	quoteKeyPrefix = "quote:"
)

// RedisCache holds only third-party data with TTLs: the SEC ticker registry
// and recent quotes. No analysis result is ever cached, each run recomputes
// from source.
type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

// SetRegistry stores the full ticker -> CIK directory in one pipeline pass.
func (r *RedisCache) SetRegistry(ctx context.Context, registry map[string]string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start SetRegistry", slog.String("rqID", rqID), slog.Int("tickers", len(registry)))

	pipe := r.redis.Pipeline()
	for ticker, cik := range registry {
		pipe.Set(ctx, cikKeyPrefix+ticker, cik, r.cfg.Cache.RegistryExpiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetRegistry completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetCIK(ctx context.Context, ticker string) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	cik, err := r.redis.Get(ctx, cikKeyPrefix+ticker).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", cikKeyPrefix+ticker))
		}
		return "", err
	}

	return cik, nil
}

func (r *RedisCache) SetQuote(ctx context.Context, quote marketModel.Quote) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	quoteJson, err := json.Marshal(quote)
	if err != nil {
		slog.Error("can't marshall quote in SetQuote", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Any("quote", quote))
		return errors.New("can't marshall quote")
	}

	_, err = r.redis.Set(ctx, quoteKeyPrefix+quote.Ticker, quoteJson, r.cfg.Cache.QuoteExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.Any("quote", quote))
		return err
	}

	return nil
}

func (r *RedisCache) GetQuote(ctx context.Context, ticker string) (marketModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, quoteKeyPrefix+ticker).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", quoteKeyPrefix+ticker))
		}
		return marketModel.Quote{}, err
	}

	quote := marketModel.Quote{}
	err = json.Unmarshal([]byte(res), &quote)
	if err != nil {
		slog.Error("can't unmarshall quote in GetQuote", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("resultFromRedis", res))
		return marketModel.Quote{}, fmt.Errorf("can't unmarshall quote: %w", err)
	}

	return quote, nil
}
