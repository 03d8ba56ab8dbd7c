// internal/matching/rank.go
package matching

import (
	"sort"

	"rpa-match-workers/internal/models"
)

// Rank filters, orders and paginates scored results. The sort is stable:
// equal scores keep their repository retrieval order, which is the entire
// tie-break policy. The returned hasMore flag is the approximation
// len(page) == limit, a hint for callers rather than a guarantee that more
// rows exist.
func Rank(results []models.MatchResult, opts models.MatchOptions) (page []models.MatchResult, hasMore bool) {
	kept := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		if opts.RequireAvailability && r.Availability.UnitsAvailable == 0 {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(kept) {
		return []models.MatchResult{}, false
	}

	end := len(kept)
	if opts.Limit > 0 && offset+opts.Limit < end {
		end = offset + opts.Limit
	}

	page = kept[offset:end]
	hasMore = opts.Limit > 0 && len(page) == opts.Limit
	return page, hasMore
}
