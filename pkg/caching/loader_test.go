package caching

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	placeholderDoc = `{"attributes":[{"name":"Vital Signs","value":"Normal"}]}`
	hatchedDoc     = `{"name":"GOGO #5","attributes":[{"name":"Body","value":"Blue"},{"name":"Hat","value":"Crown"}]}`
)

// fakeResolver serves a fixed document and counts calls.
type fakeResolver struct {
	body  string
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) ([]byte, *models.MetadataDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	doc, err := resolver.Decode([]byte(f.body))
	return []byte(f.body), doc, err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLoader(t *testing.T, r Resolver, slept *[]time.Duration, opts ...LoaderOption) (*Loader, *Cache) {
	t.Helper()
	c, err := NewCache(t.TempDir(), "gogo")
	require.NoError(t, err)

	opts = append(opts, withSleep(func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}))
	return NewLoader(c, r, discardLogger(), opts...), c
}

func TestPrehatchPlaceholder(t *testing.T) {
	tests := []struct {
		name  string
		attrs []models.Attribute
		want  bool
	}{
		{name: "placeholder", attrs: []models.Attribute{{Name: "Vital Signs", Value: "Normal"}}, want: true},
		{name: "other value", attrs: []models.Attribute{{Name: "Vital Signs", Value: "Weak"}}, want: false},
		{name: "extra attribute", attrs: []models.Attribute{{Name: "Vital Signs", Value: "Normal"}, {Name: "Hat", Value: "Cap"}}, want: false},
		{name: "empty", attrs: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrehatchPlaceholder(&models.MetadataDocument{Attributes: tt.attrs}))
		})
	}
}

func TestLoader_MissResolvesAndStores(t *testing.T) {
	r := &fakeResolver{body: hatchedDoc}
	var slept []time.Duration
	l, c := newTestLoader(t, r, &slept)

	doc, src, err := l.Load(context.Background(), models.CatalogEntry{TokenID: 5, MetadataURI: "ipfs://x"})
	require.NoError(t, err)
	assert.Equal(t, SourceNetwork, src)
	assert.Equal(t, "GOGO #5", doc.Name)
	assert.Equal(t, 1, r.calls)

	data, hit := c.Get(5)
	require.True(t, hit)
	assert.Equal(t, hatchedDoc, string(data))

	// Second load is served from disk.
	_, src, err = l.Load(context.Background(), models.CatalogEntry{TokenID: 5, MetadataURI: "ipfs://x"})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
	assert.Equal(t, 1, r.calls)
	assert.Empty(t, slept)
}

func TestLoader_PlaceholderIsReplaced(t *testing.T) {
	r := &fakeResolver{body: hatchedDoc}
	var slept []time.Duration
	l, c := newTestLoader(t, r, &slept, WithStaleDelay(1500*time.Millisecond))

	_, err := c.Set(5, []byte(placeholderDoc))
	require.NoError(t, err)

	doc, src, err := l.Load(context.Background(), models.CatalogEntry{TokenID: 5, MetadataURI: "ipfs://x"})
	require.NoError(t, err)
	assert.Equal(t, SourceRefetched, src)
	assert.Len(t, doc.Attributes, 2)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, slept)

	data, _ := c.Get(5)
	assert.Equal(t, hatchedDoc, string(data), "cache entry is overwritten with the fresh document")
}

func TestLoader_PlaceholderCheckedOnEveryHit(t *testing.T) {
	// The gateway still serves the placeholder, so every load must retry.
	r := &fakeResolver{body: placeholderDoc}
	var slept []time.Duration
	l, c := newTestLoader(t, r, &slept)

	_, err := c.Set(9, []byte(placeholderDoc))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, src, err := l.Load(context.Background(), models.CatalogEntry{TokenID: 9, MetadataURI: "ipfs://x"})
		require.NoError(t, err)
		assert.Equal(t, SourceRefetched, src)
	}
	assert.Equal(t, 3, r.calls)
	assert.Len(t, slept, 3)

	// Once the gateway serves the hatched document, the next load replaces it.
	r.body = hatchedDoc
	doc, src, err := l.Load(context.Background(), models.CatalogEntry{TokenID: 9, MetadataURI: "ipfs://x"})
	require.NoError(t, err)
	assert.Equal(t, SourceRefetched, src)
	assert.Equal(t, "GOGO #5", doc.Name)

	_, src, err = l.Load(context.Background(), models.CatalogEntry{TokenID: 9, MetadataURI: "ipfs://x"})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
}

func TestLoader_CustomPredicates(t *testing.T) {
	r := &fakeResolver{body: hatchedDoc}
	var slept []time.Duration
	unnamed := func(doc *models.MetadataDocument) bool { return doc.Name == "" }
	l, c := newTestLoader(t, r, &slept, WithStalePredicates(unnamed))

	// The placeholder rule is not installed, but this document has no name.
	_, err := c.Set(1, []byte(placeholderDoc))
	require.NoError(t, err)

	_, src, err := l.Load(context.Background(), models.CatalogEntry{TokenID: 1})
	require.NoError(t, err)
	assert.Equal(t, SourceRefetched, src)

	_, src, err = l.Load(context.Background(), models.CatalogEntry{TokenID: 1})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
}

func TestLoader_ResolveErrorIsFatal(t *testing.T) {
	boom := errors.New("gateway down")
	r := &fakeResolver{err: boom}
	var slept []time.Duration
	l, c := newTestLoader(t, r, &slept)

	_, _, err := l.Load(context.Background(), models.CatalogEntry{TokenID: 3})
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Has(3))
}

func TestLoader_MalformedCacheEntry(t *testing.T) {
	r := &fakeResolver{body: hatchedDoc}
	var slept []time.Duration
	l, c := newTestLoader(t, r, &slept)

	_, err := c.Set(4, []byte(`{truncated`))
	require.NoError(t, err)

	_, _, err = l.Load(context.Background(), models.CatalogEntry{TokenID: 4})
	assert.Error(t, err)
	assert.Equal(t, 0, r.calls)
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}
