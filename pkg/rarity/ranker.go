package rarity

import (
	"sort"

	"github.com/dtnitsch/nft-rarity/models"
)

// RankByScore orders tokens by score descending and assigns Rank = position + 1.
// The input slice is left untouched. Equal scores keep their input order
// under TieBreakInsertion and fall back to id ascending under TieBreakID.
func RankByScore(tokens []*models.Token, policy models.TieBreak) []*models.Token {
	ranked := make([]*models.Token, len(tokens))
	copy(ranked, tokens)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if policy == models.TieBreakID {
			return ranked[i].ID < ranked[j].ID
		}
		return false
	})

	for i, tok := range ranked {
		tok.Rank = i + 1
	}
	return ranked
}

// RankByID orders tokens by id ascending. Ranks are not changed.
func RankByID(tokens []*models.Token) []*models.Token {
	byID := make([]*models.Token, len(tokens))
	copy(byID, tokens)
	sort.Slice(byID, func(i, j int) bool {
		return byID[i].ID < byID[j].ID
	})
	return byID
}

// TopN returns at most n tokens from the head of a ranked ordering.
func TopN(ranked []*models.Token, n int) []*models.Token {
	limit := n
	if len(ranked) < n {
		limit = len(ranked)
	}
	if limit < 0 {
		limit = 0
	}
	return ranked[:limit]
}
