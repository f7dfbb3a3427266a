package rank

import (
	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/caching"
	"github.com/dtnitsch/nft-rarity/pkg/rarity"
)

// loaded is one resolved catalog entry.
type loaded struct {
	entry  models.CatalogEntry
	doc    *models.MetadataDocument
	source caching.Source
}

// Result holds everything a run computed.
type Result struct {
	Tokens      []*models.Token // catalog order, ascending id
	Ranked      []*models.Token // score descending
	ByID        []*models.Token
	Table       *rarity.FrequencyTable
	Scores      rarity.ScoreTable
	Percentages rarity.PercentageTable
	Stats       Stats
	RunID       int64 // zero when run history is disabled
}

// Stats provides summary statistics for the run.
type Stats struct {
	CatalogSize      int            `json:"catalog_size"`
	CollectionTotal  int            `json:"collection_total"`
	Sources          map[string]int `json:"sources"`
	TotalTimeSeconds float64        `json:"total_time_seconds"`
}

func (s Stats) count(src caching.Source) int {
	return s.Sources[string(src)]
}
