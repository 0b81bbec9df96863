package analysis

import (
	"testing"

	"github.com/akarpov87/locate_helper_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func newTestClassifier() *Classifier {
	return NewClassifier(
		[]string{"PENSION", "RETIREMENT", "TEACHERS", "SYSTEM", "TRUST", "UNIVERSITY", "ENDOWMENT", "BOARD", "STATE OF", "FOUNDATION"},
		[]string{"VANGUARD", "BLACKROCK", "STATE STREET", "FIDELITY", "CAPITAL GROUP"},
	)
}

func TestClassify(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		want model.Tier
	}{
		{"UVA Pension Trust", model.TierDirect},
		{"California Teachers Retirement System", model.TierDirect},
		{"Vanguard Group Inc", model.TierAggregator},
		{"BlackRock Inc.", model.TierAggregator},
		{"Renaissance Technologies LLC", model.TierStandard},
		// tie-break: a name matching both keyword sets is a direct lender
		{"Vanguard Trust Company", model.TierDirect},
		// case-insensitive
		{"state street corp", model.TierAggregator},
		// total for any text
		{"", model.TierStandard},
		{"!!! 12345 ???", model.TierStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.name))
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier()

	for _, name := range []string{"UVA Pension Trust", "Vanguard Group", "Citadel LLC", ""} {
		assert.Equal(t, c.Classify(name), c.Classify(name))
	}
}
