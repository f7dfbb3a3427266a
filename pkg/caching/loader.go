package caching

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/resolver"
)

// Source records where a loaded document came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceNetwork   Source = "network"
	SourceRefetched Source = "refetched" // cached copy was stale and replaced
)

// Resolver fetches a metadata document for a content locator.
type Resolver interface {
	Resolve(ctx context.Context, uri string) ([]byte, *models.MetadataDocument, error)
}

// Loader serves token metadata from the cache, falling back to the resolver.
type Loader struct {
	cache      *Cache
	resolver   Resolver
	logger     *slog.Logger
	stale      []StalePredicate
	staleDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStalePredicates replaces the default migration rules.
func WithStalePredicates(preds ...StalePredicate) LoaderOption {
	return func(l *Loader) { l.stale = preds }
}

// WithStaleDelay sets the pause between evicting a stale entry and re-resolving it.
func WithStaleDelay(d time.Duration) LoaderOption {
	return func(l *Loader) { l.staleDelay = d }
}

func withSleep(fn func(ctx context.Context, d time.Duration) error) LoaderOption {
	return func(l *Loader) { l.sleep = fn }
}

func NewLoader(cache *Cache, r Resolver, logger *slog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		cache:      cache,
		resolver:   r,
		logger:     logger,
		stale:      DefaultStalePredicates(),
		staleDelay: time.Second,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the metadata document for a catalog entry.
func (l *Loader) Load(ctx context.Context, entry models.CatalogEntry) (*models.MetadataDocument, Source, error) {
	data, hit := l.cache.Get(entry.TokenID)
	if !hit {
		l.logger.Info("Retrieving token metadata", "token_id", entry.TokenID, "uri", entry.MetadataURI)
		doc, err := l.resolveAndStore(ctx, entry)
		return doc, SourceNetwork, err
	}

	doc, err := resolver.Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("cached metadata for token %d (%s): %w", entry.TokenID, l.cache.FilePath(entry.TokenID), err)
	}
	l.logger.Debug("Loaded token metadata from cache", "token_id", entry.TokenID)

	if !anyStale(doc, l.stale) {
		return doc, SourceCache, nil
	}

	l.logger.Warn("Cache contains stale data, refetching", "token_id", entry.TokenID, "attributes", doc.Attributes)
	if err := l.cache.Delete(entry.TokenID); err != nil {
		return nil, "", err
	}
	if err := l.sleep(ctx, l.staleDelay); err != nil {
		return nil, "", err
	}
	doc, err = l.resolveAndStore(ctx, entry)
	if err != nil {
		return nil, "", err
	}
	l.logger.Info("Refetched token metadata", "token_id", entry.TokenID, "attributes", doc.Attributes)
	return doc, SourceRefetched, nil
}

func (l *Loader) resolveAndStore(ctx context.Context, entry models.CatalogEntry) (*models.MetadataDocument, error) {
	raw, doc, err := l.resolver.Resolve(ctx, entry.MetadataURI)
	if err != nil {
		return nil, fmt.Errorf("token %d: %w", entry.TokenID, err)
	}
	if _, err := l.cache.Set(entry.TokenID, raw); err != nil {
		return nil, fmt.Errorf("token %d: %w", entry.TokenID, err)
	}
	return doc, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
