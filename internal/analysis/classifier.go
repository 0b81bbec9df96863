package analysis

import (
	"strings"

	"github.com/akarpov87/locate_helper_bot/internal/model"
)

// Classifier assigns a lending-stickiness tier to a holder name by keyword
// membership. Direct keywords are checked strictly before aggregator
// keywords: a name matching both ("Vanguard ... Trust") is a direct lender,
// the beneficial-owner signal dominates.
type Classifier struct {
	direct      []string
	aggregators []string
}

func NewClassifier(directKeywords, aggregatorKeywords []string) *Classifier {
	return &Classifier{
		direct:      upperAll(directKeywords),
		aggregators: upperAll(aggregatorKeywords),
	}
}

// Classify is pure and total: any string, including empty or punctuation-only
// names, gets a tier.
func (c *Classifier) Classify(name string) model.Tier {
	upper := strings.ToUpper(name)

	for _, kw := range c.direct {
		if strings.Contains(upper, kw) {
			return model.TierDirect
		}
	}

	for _, kw := range c.aggregators {
		if strings.Contains(upper, kw) {
			return model.TierAggregator
		}
	}

	return model.TierStandard
}

func upperAll(keywords []string) []string {
	res := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		res = append(res, strings.ToUpper(strings.TrimSpace(kw)))
	}
	return res
}
