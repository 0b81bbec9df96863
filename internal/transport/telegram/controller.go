package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/data/session"
	"github.com/akarpov87/locate_helper_bot/internal/converter/telebotConverter"
	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/akarpov87/locate_helper_bot/internal/service"
	"github.com/akarpov87/locate_helper_bot/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg  = "something went wrong, try again later"
	noHoldingsMsg   = "No institutional holding data found. Try a larger market cap company."
	memoFailedMsg   = "Deal memo is unavailable right now, the analysis above still stands."
	reportFailedMsg = "Could not build the report right now, try again later."
	unknownStateMsg = "Send /analyze to start an analysis"
)

type LocateService interface {
	AnalyzeTicker(ctx context.Context, ticker string) (model.Analysis, error)
	GenerateMemo(ctx context.Context, analysis model.Analysis) (string, error)
	ExportReport(ctx context.Context, analysis model.Analysis) (model.Report, error)
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, chatSession model.Session) error
}

type Controller struct {
	cfg           *config.Config
	locateService LocateService
	session       Session
}

func NewController(cfg *config.Config, locateService LocateService, session Session) *Controller {
	return &Controller{
		cfg:           cfg,
		locateService: locateService,
		session:       session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Send("Direct Borrow Analysis bot.\n\nSend /analyze and a ticker to size up direct stock-borrow counterparties under Reg SHO Rule 203(b)(1).")
}

// InitAnalyze handles /analyze. With an argument it runs straight away,
// otherwise it asks for a ticker and remembers the expectation in the session.
func (ctrl *Controller) InitAnalyze(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	if len(c.Args()) > 0 {
		return ctrl.analyze(ctx, c, c.Args()[0])
	}

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return c.Send(internalErrMsg)
	}

	chatSession.State = model.ExpectingTicker
	err = ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	text, markup := telebotConverter.AskTickerResponse(chatSession.LastTicker)
	return c.Send(text, markup)
}

// AnalyzeCallback handles the "Re-run" button; the payload is the ticker.
func (ctrl *Controller) AnalyzeCallback(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	ticker := strings.TrimSpace(c.Data())
	if ticker == "" {
		return c.Send(unknownStateMsg)
	}

	return ctrl.analyze(ctx, c, ticker)
}

// ProcessAnalyze consumes the ticker the user was asked for.
func (ctrl *Controller) ProcessAnalyze(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	return ctrl.analyze(ctx, c, c.Message().Text)
}

func (ctrl *Controller) analyze(ctx context.Context, c tele.Context, ticker string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return c.Send(internalErrMsg)
	}

	defer func() {
		chatSession.State = model.DefaultState
		chatSession.LastTicker = ticker
		_ = ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession)
	}()

	analysis, err := ctrl.locateService.AnalyzeTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, service.ErrNoHoldings) {
			return c.Send(noHoldingsMsg)
		}
		slog.Error("got error from locateService.AnalyzeTicker", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	text, markup := telebotConverter.AnalysisResponse(analysis, ctrl.cfg.Analysis.HoldersInMemo, time.Now())
	return c.Send(text, markup)
}

// Memo handles the "Deal memo" button; the callback payload is the ticker.
func (ctrl *Controller) Memo(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	ticker := strings.TrimSpace(c.Data())
	if ticker == "" {
		return c.Send(unknownStateMsg)
	}

	_ = c.Notify(tele.Typing)

	analysis, err := ctrl.locateService.AnalyzeTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, service.ErrNoHoldings) {
			return c.Send(noHoldingsMsg)
		}
		slog.Error("got error from locateService.AnalyzeTicker", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	memo, err := ctrl.locateService.GenerateMemo(ctx, analysis)
	if err != nil {
		// memo is optional by design, degrade to a notice
		return c.Send(memoFailedMsg)
	}

	return c.Send(memo)
}

// Report handles the "XLSX report" button.
func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	ticker := strings.TrimSpace(c.Data())
	if ticker == "" {
		return c.Send(unknownStateMsg)
	}

	_ = c.Notify(tele.UploadingDocument)

	analysis, err := ctrl.locateService.AnalyzeTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, service.ErrNoHoldings) {
			return c.Send(noHoldingsMsg)
		}
		slog.Error("got error from locateService.AnalyzeTicker", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	report, err := ctrl.locateService.ExportReport(ctx, analysis)
	if err != nil {
		return c.Send(reportFailedMsg)
	}

	if report.DownloadLink != "" {
		return c.Send("The report is too large for Telegram, download it here: " + report.DownloadLink)
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(report.FileBytes)),
		FileName: report.Filename,
	}
	return c.Send(doc)
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
		return model.Session{}, err
	}
	return chatSession, nil
}
