package rank

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/caching"
	"github.com/dtnitsch/nft-rarity/pkg/rarity"
	"golang.org/x/sync/errgroup"
)

// metadataLoader is satisfied by *caching.Loader.
type metadataLoader interface {
	Load(ctx context.Context, entry models.CatalogEntry) (*models.MetadataDocument, caching.Source, error)
}

// collect resolves every catalog entry and tallies its attributes.
// With one worker each token is resolved then aggregated before the next one
// starts. With more, resolution runs in parallel and aggregation happens
// afterwards in catalog order, so both paths produce the same tables.
func collect(ctx context.Context, logger *slog.Logger, loader metadataLoader, entries []models.CatalogEntry, workers int) ([]*models.Token, *rarity.Aggregator, map[string]int, error) {
	agg := rarity.NewAggregator()
	sources := make(map[string]int)
	tokens := make([]*models.Token, 0, len(entries))

	add := func(l loaded) {
		tok := models.NewToken(l.entry.TokenID, l.doc)
		agg.RecordToken(tok)
		tokens = append(tokens, tok)
		sources[string(l.source)]++
	}

	if workers <= 1 {
		for _, entry := range entries {
			doc, src, err := loader.Load(ctx, entry)
			if err != nil {
				return nil, nil, nil, err
			}
			add(loaded{entry: entry, doc: doc, source: src})
		}
		return tokens, agg, sources, nil
	}

	results, err := resolveParallel(ctx, logger, loader, entries, workers)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, l := range results {
		add(l)
	}
	return tokens, agg, sources, nil
}

// resolveParallel loads every entry with at most workers in flight.
// Results keep catalog positions. The first error cancels the rest.
func resolveParallel(ctx context.Context, logger *slog.Logger, loader metadataLoader, entries []models.CatalogEntry, workers int) ([]loaded, error) {
	logger.Info("Starting parallel resolution", "tokens", len(entries), "workers", workers)

	results := make([]loaded, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			doc, src, err := loader.Load(gctx, entry)
			if err != nil {
				return err
			}
			results[i] = loaded{entry: entry, doc: doc, source: src}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve token metadata: %w", err)
	}
	logger.Info("All resolution workers finished")
	return results, nil
}
