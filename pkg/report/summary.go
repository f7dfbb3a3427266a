package report

import (
	"fmt"
	"os"

	"github.com/dtnitsch/nft-rarity/models"
	"gopkg.in/yaml.v3"
)

// Summary is a lightweight overview of a run, written as YAML.
// It carries no timestamps so repeated runs produce identical files.
type Summary struct {
	Contract        string         `yaml:"contract"`
	CollectionTotal int            `yaml:"collection_total"`
	TokensRanked    int            `yaml:"tokens_ranked"`
	TraitNames      int            `yaml:"trait_names"`
	TraitPairs      int            `yaml:"trait_pairs"`
	Sources         map[string]int `yaml:"sources"` // cache, network, refetched
	TopTokens       []TopToken     `yaml:"top_tokens"`
}

// TopToken is one entry of the summary's leaderboard.
type TopToken struct {
	Rank  int     `yaml:"rank"`
	ID    int     `yaml:"id"`
	Name  string  `yaml:"name,omitempty"`
	Score float64 `yaml:"score"`
}

// TopTokens converts the head of a ranked ordering for the summary.
func TopTokens(ranked []*models.Token) []TopToken {
	out := make([]TopToken, len(ranked))
	for i, tok := range ranked {
		out[i] = TopToken{Rank: tok.Rank, ID: tok.ID, Name: tok.Name, Score: tok.Score}
	}
	return out
}

// WriteSummary saves the summary as YAML.
func WriteSummary(path string, s *Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("error marshalling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error saving summary: %w", err)
	}
	return nil
}
