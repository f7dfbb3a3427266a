package rank

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/caching"
	"github.com/dtnitsch/nft-rarity/pkg/db"
	"github.com/dtnitsch/nft-rarity/pkg/fetcher"
	"github.com/dtnitsch/nft-rarity/pkg/indexer"
	"github.com/dtnitsch/nft-rarity/pkg/rarity"
	"github.com/dtnitsch/nft-rarity/pkg/report"
	"github.com/dtnitsch/nft-rarity/pkg/resolver"
)

// Run executes one full ranking pass: catalog, metadata, aggregation,
// scoring, ranking and reports. Any fetch or parse failure aborts the run.
func Run(ctx context.Context, logger *slog.Logger, cfg *models.Config) (*Result, error) {
	startTime := time.Now()

	f := fetcher.NewFetcher(cfg.HTTPTimeout)
	catalog := indexer.NewLoader(f, cfg.IndexerURL, cfg.Contract, cfg.Limit)
	res := resolver.NewResolver(f, cfg.GatewayURL)

	cache, err := caching.NewCache(cfg.Cache.Dir, cfg.Cache.Prefix)
	if err != nil {
		return nil, err
	}
	loader := caching.NewLoader(cache, res, logger, caching.WithStaleDelay(cfg.Cache.StaleDelay))

	logger.Info("Getting token info from indexer", "contract", cfg.Contract, "url", catalog.QueryURL())
	entries, err := catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Discovered tokens", "count", len(entries), "collection_total", cfg.CollectionTotal)
	if len(entries) != cfg.CollectionTotal {
		logger.Warn("Indexer token count differs from collection total; scoring against the collection total",
			"count", len(entries), "collection_total", cfg.CollectionTotal)
	}

	tokens, agg, sources, err := collect(ctx, logger, loader, entries, cfg.Workers)
	if err != nil {
		return nil, err
	}

	// Every token is tallied; the table is read-only from here on.
	table := agg.Finalize()

	scores, err := rarity.ComputeScores(table, cfg.CollectionTotal)
	if err != nil {
		return nil, err
	}
	pcts, err := rarity.ComputePercentages(table, cfg.CollectionTotal)
	if err != nil {
		return nil, err
	}
	if err := rarity.ScoreTokens(tokens, scores); err != nil {
		return nil, err
	}

	ranked := rarity.RankByScore(tokens, cfg.TieBreak)
	byID := rarity.RankByID(tokens)

	result := &Result{
		Tokens:      tokens,
		Ranked:      ranked,
		ByID:        byID,
		Table:       table,
		Scores:      scores,
		Percentages: pcts,
		Stats: Stats{
			CatalogSize:     len(entries),
			CollectionTotal: cfg.CollectionTotal,
			Sources:         sources,
		},
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		debugTables(ctx, logger, result)
	}

	if err := writeReports(logger, cfg, result); err != nil {
		return nil, err
	}

	if cfg.Database.Path != "" {
		runID, err := recordRun(cfg, result)
		if err != nil {
			return nil, err
		}
		result.RunID = runID
		logger.Info("Run recorded", "run_id", runID, "database", cfg.Database.Path)
	}

	result.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()
	return result, nil
}

func writeReports(logger *slog.Logger, cfg *models.Config, r *Result) error {
	if p := cfg.Reports.ByID; p != "" {
		if err := report.WriteByID(p, r.ByID, cfg.IDPadding); err != nil {
			return err
		}
		logger.Info("Report written", "path", p)
	}
	if p := cfg.Reports.ByRank; p != "" {
		if err := report.WriteByRank(p, r.Ranked, cfg.IDPadding); err != nil {
			return err
		}
		logger.Info("Report written", "path", p)
	}
	if p := cfg.Reports.Traits; p != "" {
		if err := report.WriteTraits(p, r.Table, r.Scores, r.Percentages); err != nil {
			return err
		}
		logger.Info("Report written", "path", p)
	}
	if p := cfg.Reports.Summary; p != "" {
		summary := &report.Summary{
			Contract:        cfg.Contract,
			CollectionTotal: cfg.CollectionTotal,
			TokensRanked:    len(r.Ranked),
			TraitNames:      len(r.Table.Names()),
			TraitPairs:      r.Table.Len(),
			Sources:         r.Stats.Sources,
			TopTokens:       report.TopTokens(rarity.TopN(r.Ranked, cfg.TopN)),
		}
		if err := report.WriteSummary(p, summary); err != nil {
			return err
		}
		logger.Info("Report written", "path", p)
	}
	return nil
}

func recordRun(cfg *models.Config, r *Result) (int64, error) {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	scores := make([]db.TokenScore, len(r.Ranked))
	for i, tok := range r.Ranked {
		scores[i] = db.TokenScore{TokenID: tok.ID, Name: tok.Name, Rank: tok.Rank, Score: tok.Score}
	}

	traits := make([]db.TraitStat, 0, r.Table.Len())
	r.Table.Each(func(key rarity.TraitKey, count int) {
		traits = append(traits, db.TraitStat{
			Name:       key.Name,
			Value:      key.Value,
			Count:      count,
			Score:      r.Scores[key],
			Percentage: r.Percentages[key],
		})
	})

	return database.RecordRun(db.Run{
		Contract:        cfg.Contract,
		CollectionTotal: cfg.CollectionTotal,
		TokenCount:      len(r.Ranked),
		TraitPairs:      r.Table.Len(),
		TieBreak:        string(cfg.TieBreak),
		CacheHits:       r.Stats.count(caching.SourceCache),
		NetworkFetches:  r.Stats.count(caching.SourceNetwork),
		Refetched:       r.Stats.count(caching.SourceRefetched),
	}, scores, traits)
}

// debugTables dumps the frequency, score and percentage tables.
func debugTables(ctx context.Context, logger *slog.Logger, r *Result) {
	r.Table.Each(func(key rarity.TraitKey, count int) {
		logger.DebugContext(ctx, "Attribute",
			"name", key.Name,
			"value", key.Value,
			"count", count,
			"score", r.Scores[key],
			"percentage", r.Percentages[key])
	})
	for _, tok := range r.Ranked {
		logger.DebugContext(ctx, "Token", "rank", tok.Rank, "id", tok.ID, "name", tok.Name, "score", tok.Score)
	}
}
