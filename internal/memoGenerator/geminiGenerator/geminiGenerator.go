package geminiGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akarpov87/locate_helper_bot/config"
	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/akarpov87/locate_helper_bot/utils"
	"google.golang.org/genai"
)

// GeminiGenerator writes the free-text deal memo from an already-computed
// analysis. It is strictly optional: the caller treats any failure here as a
// "memo unavailable" state, never as an analysis failure.
type GeminiGenerator struct {
	client *genai.Client
	cfg    *config.Config
}

func New(client *genai.Client, cfg *config.Config) *GeminiGenerator {
	return &GeminiGenerator{client: client, cfg: cfg}
}

func (g *GeminiGenerator) GenerateMemo(ctx context.Context, analysis model.Analysis, news []model.NewsItem) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GeminiGenerator.GenerateMemo"

	slog.Debug("GenerateMemo start", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", analysis.Ticker))

	prompt := g.buildPrompt(analysis, news)

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Gemini.Model, genai.Text(prompt), nil)
	if err != nil {
		slog.Error("failed on Models.GenerateContent", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		slog.Error("empty response from gemini", slog.String("rqID", rqID), slog.String("op", op))
		return "", errors.New("empty response from gemini")
	}

	slog.Debug("GenerateMemo completed", slog.String("rqID", rqID), slog.String("op", op))

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiGenerator) buildPrompt(analysis model.Analysis, news []model.NewsItem) string {
	var sb strings.Builder

	sb.WriteString("You are a securities-lending analyst. Write a short deal memo (3-4 paragraphs, plain text) ")
	sb.WriteString("on sourcing a direct stock borrow under Regulation SHO Rule 203(b)(1) instead of a prime-broker locate.\n\n")

	sb.WriteString(fmt.Sprintf("Ticker: %s\n", analysis.Ticker))
	if analysis.CIK != "" {
		sb.WriteString(fmt.Sprintf("SEC CIK: %s\n", analysis.CIK))
	}
	sb.WriteString(fmt.Sprintf("Reference price: $%s", analysis.Price.StringFixed(2)))
	if analysis.PriceIsFallback {
		sb.WriteString(" (stand-in price, live quote unavailable)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Institutional float located: %s shares\n", analysis.Estimate.TotalShares.StringFixed(0)))
	sb.WriteString(fmt.Sprintf("Market value of float: $%s\n", analysis.Estimate.MarketValue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Estimated daily savings vs prime broker: $%s\n\n", analysis.Estimate.DailySavings.StringFixed(2)))

	sb.WriteString("Top counterparty candidates (tier, shares):\n")
	top := analysis.Holders
	if len(top) > g.cfg.Analysis.HoldersInMemo {
		top = top[:g.cfg.Analysis.HoldersInMemo]
	}
	for _, holder := range top {
		sb.WriteString(fmt.Sprintf("- %s | %s | %s\n", holder.Name, holder.Tier.Short(), holder.Shares.StringFixed(0)))
	}

	if len(news) > 0 {
		sb.WriteString("\nRecent headlines:\n")
		for _, item := range news {
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", item.Title, item.Publisher))
		}
	}

	sb.WriteString("\nFocus on which holders to approach first for a master securities lending agreement and why. ")
	sb.WriteString("State clearly that the savings figure is an informational estimate, not a legal determination.")

	return sb.String()
}
