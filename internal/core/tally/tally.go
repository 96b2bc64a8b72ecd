// Package tally converts the reaction state of a poll message into votes.
package tally

import "github.com/vncsmyrnk/chatpoll/internal/core/domain"

// seedReactions is the number of reactions per marker the service adds
// itself when the poll opens.
const seedReactions = 1

// Count returns the votes per option index. Every index from 1 to
// domain.OptionCount is present in the result; markers that are not option
// markers are ignored.
func Count(reactions []domain.Reaction) domain.Tally {
	raw := make(map[int]int, domain.OptionCount)
	for _, r := range reactions {
		if idx := domain.IndexForMarker(r.Marker); idx > 0 {
			raw[idx] += r.Count
		}
	}

	result := make(domain.Tally, domain.OptionCount)
	for i := 1; i <= domain.OptionCount; i++ {
		result[i] = max(raw[i]-seedReactions, 0)
	}
	return result
}
