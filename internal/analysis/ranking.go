package analysis

import (
	"sort"

	"github.com/akarpov87/locate_helper_bot/internal/model"
)

// Rank orders classified records for presentation: tier priority first, then
// share count descending. The sort is stable, so full ties keep disclosure
// order and identical reruns render identically.
func Rank(records []model.HolderRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Tier != records[j].Tier {
			return records[i].Tier < records[j].Tier
		}
		return records[i].Shares.GreaterThan(records[j].Shares)
	})
}
