package telebotConverter

import (
	"fmt"
	"strings"
	"time"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/akarpov87/locate_helper_bot/internal/model/tg/tgCallback"
	tele "gopkg.in/telebot.v4"
)

// AskTickerResponse prompts for a ticker; when the chat already analyzed
// one, a button offers to re-run it.
func AskTickerResponse(lastTicker string) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}

	if lastTicker != "" {
		rerunBtn := markup.Data("Re-run "+lastTicker, tgCallback.Analyze, lastTicker)
		markup.Inline(markup.Row(rerunBtn))
	}

	return "Send me a ticker symbol (e.g. GME):", markup
}

// AnalysisResponse renders one analysis run as a chat message: savings
// metrics, the top of the ranked counterparty table and the verification log.
// generatedAt is stamped by the transport layer, the analysis itself carries
// no clock.
func AnalysisResponse(a model.Analysis, topN int, generatedAt time.Time) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Direct Borrow Analysis: %s\n\n", a.Ticker))

	sb.WriteString(fmt.Sprintf("Institutional float located: %s\n", a.Estimate.TotalShares.StringFixed(0)))
	sb.WriteString(fmt.Sprintf("Market value of float: $%s\n", a.Estimate.MarketValue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Est. daily cost savings: $%s\n", a.Estimate.DailySavings.StringFixed(2)))

	if a.PriceIsFallback {
		sb.WriteString(fmt.Sprintf("Priced at the fallback of $%s (live quote unavailable), treat the numbers as rough.\n", a.Price.StringFixed(2)))
	} else {
		sb.WriteString(fmt.Sprintf("Priced at the current $%s.\n", a.Price.StringFixed(2)))
	}

	sb.WriteString("\nTarget counterparty list:\n")
	holders := a.Holders
	if len(holders) > topN {
		holders = holders[:topN]
	}
	for i, holder := range holders {
		name := holder.Name
		if name == "" {
			name = "(unnamed)"
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %s, %s shares\n", i+1, name, holder.Tier, holder.Shares.StringFixed(0)))
	}
	if len(a.Holders) > len(holders) {
		sb.WriteString(fmt.Sprintf("... and %d more in the full report\n", len(a.Holders)-len(holders)))
	}

	sb.WriteString("\nVerification log:\n")
	sb.WriteString(fmt.Sprintf("[%s]\n", generatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("ASSET:    %s\n", a.Ticker))
	if a.CIK != "" {
		sb.WriteString(fmt.Sprintf("SEC CIK:  %s\n", a.CIK))
	} else {
		sb.WriteString("SEC CIK:  not verified\n")
	}
	sb.WriteString("STATUTE:  17 CFR § 242.203(b)(1)(i)\n")
	sb.WriteString(fmt.Sprintf("ACTION:   identified %d potential 'bona fide' arrangements\n", len(a.Holders)))

	memoBtn := markup.Data("Deal memo", tgCallback.Memo, a.Ticker)
	reportBtn := markup.Data("XLSX report", tgCallback.Report, a.Ticker)
	markup.Inline(markup.Row(memoBtn, reportBtn))

	return sb.String(), markup
}
