package rarity

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/nft-rarity/models"
)

var (
	// ErrAttributeNotAggregated means a token was scored against a table
	// that never saw one of its attributes.
	ErrAttributeNotAggregated = errors.New("attribute not yet aggregated")
	ErrInvalidTotal           = errors.New("collection total must be positive")
)

// ScoreTable maps a trait pair to total / count.
type ScoreTable map[TraitKey]float64

// PercentageTable maps a trait pair to count / total.
type PercentageTable map[TraitKey]float64

// ComputeScores derives a rarity score for every pair in the table.
// total is the nominal collection size, not the number of tokens aggregated.
func ComputeScores(ft *FrequencyTable, total int) (ScoreTable, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}
	scores := make(ScoreTable, ft.Len())
	ft.Each(func(key TraitKey, count int) {
		scores[key] = float64(total) / float64(count)
	})
	return scores, nil
}

// ComputePercentages derives the share of the collection carrying each pair.
func ComputePercentages(ft *FrequencyTable, total int) (PercentageTable, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}
	pcts := make(PercentageTable, ft.Len())
	ft.Each(func(key TraitKey, count int) {
		pcts[key] = float64(count) / float64(total)
	})
	return pcts, nil
}

// TokenScore sums the scores of every attribute the token carries.
func TokenScore(tok *models.Token, scores ScoreTable) (float64, error) {
	var sum float64
	for _, attr := range tok.Attributes {
		key := TraitKey{Name: attr.Name, Value: attr.Value}
		s, ok := scores[key]
		if !ok {
			return 0, fmt.Errorf("token %d: %q: %w", tok.ID, key.String(), ErrAttributeNotAggregated)
		}
		sum += s
	}
	return sum, nil
}

// ScoreTokens assigns Score on every token.
func ScoreTokens(tokens []*models.Token, scores ScoreTable) error {
	for _, tok := range tokens {
		s, err := TokenScore(tok, scores)
		if err != nil {
			return err
		}
		tok.Score = s
	}
	return nil
}
