// Package report writes ranking results to disk.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/rarity"
)

// FormatID renders a token id zero-padded to width digits. Width 0 disables padding.
func FormatID(id, width int) string {
	return fmt.Sprintf("%0*d", width, id)
}

// FormatScore renders a float with the shortest decimal that round-trips,
// e.g. 1666.5 and 1111. The output is stable across runs.
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteByRank writes the score ordering with columns rank,id,score.
func WriteByRank(path string, ranked []*models.Token, pad int) error {
	rows := [][]string{{"rank", "id", "score"}}
	for i, tok := range ranked {
		rows = append(rows, []string{strconv.Itoa(i + 1), FormatID(tok.ID, pad), FormatScore(tok.Score)})
	}
	return writeCSV(path, rows)
}

// WriteByID writes tokens in id order with columns id,rank,score.
// Tokens must already carry their Rank from RankByScore.
func WriteByID(path string, byID []*models.Token, pad int) error {
	rows := [][]string{{"id", "rank", "score"}}
	for _, tok := range byID {
		rows = append(rows, []string{FormatID(tok.ID, pad), strconv.Itoa(tok.Rank), FormatScore(tok.Score)})
	}
	return writeCSV(path, rows)
}

// WriteTraits writes one row per trait pair with its count, score and percentage.
func WriteTraits(path string, ft *rarity.FrequencyTable, scores rarity.ScoreTable, pcts rarity.PercentageTable) error {
	rows := [][]string{{"name", "value", "count", "score", "percentage"}}
	ft.Each(func(key rarity.TraitKey, count int) {
		rows = append(rows, []string{
			key.Name,
			key.Value,
			strconv.Itoa(count),
			FormatScore(scores[key]),
			FormatScore(pcts[key]),
		})
	})
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close() // Write error matters more
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report %s: %w", path, err)
	}
	return nil
}
