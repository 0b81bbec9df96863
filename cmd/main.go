package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/data"
	"github.com/akarpov87/locate_helper_bot/data/cache"
	"github.com/akarpov87/locate_helper_bot/data/session"
	"github.com/akarpov87/locate_helper_bot/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/akarpov87/locate_helper_bot/internal/externalApi/marketApi"
	"github.com/akarpov87/locate_helper_bot/internal/externalApi/secApi"
	"github.com/akarpov87/locate_helper_bot/internal/memoGenerator/geminiGenerator"
	"github.com/akarpov87/locate_helper_bot/internal/reportGenerator/xlsxGenerator"
	"github.com/akarpov87/locate_helper_bot/internal/scheduler"
	"github.com/akarpov87/locate_helper_bot/internal/service/locateService"
	"github.com/akarpov87/locate_helper_bot/internal/tgbot"
	"github.com/akarpov87/locate_helper_bot/internal/transport/telegram"
	"google.golang.org/genai"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	redisSession := session.NewRedisSession(redisClient, cfg)

	secApiClient := secApi.New(cfg)
	marketApiClient := marketApi.New(cfg)

	// picks up GEMINI_API_KEY from the environment
	genaiClient, err := genai.NewClient(ctx, nil)
	if err != nil {
		slog.Error("failed on genai.NewClient", slog.String("err", err.Error()))
		panic(err)
	}

	memoGenerator := geminiGenerator.New(genaiClient, cfg)

	reportGenerator := xlsxGenerator.New()

	googleCloudStorage := googleDriveApi.New(ctx, cfg)

	locateSrv := locateService.New(cfg, redisCache, secApiClient, marketApiClient, memoGenerator, reportGenerator, googleCloudStorage)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh sec registry", locateSrv.RefreshRegistry, cfg.Jobs.RefreshRegistryInterval, true)
	sched.NewCrontabJob("cleanup drive reports", googleCloudStorage.DeleteOldFiles, cfg.Jobs.DriveCleanupCrontab, false)
	sched.Start()
	defer sched.Stop()

	tgController := telegram.NewController(cfg, locateSrv, redisSession)

	tgBot := tgbot.New(cfg, tgController, redisSession)
	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
