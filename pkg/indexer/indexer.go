// Package indexer loads the token catalog (ids and metadata locators) from a TzKT indexer.
package indexer

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/fetcher"
)

// ErrDuplicateToken is returned when the indexer reports the same token id twice.
var ErrDuplicateToken = errors.New("duplicate token id")

// record is one bigmap value from the token_metadata bigmap.
type record struct {
	TokenID   tokenID           `json:"token_id"`
	TokenInfo map[string]string `json:"token_info"`
}

// tokenID accepts both a JSON string ("42") and a JSON number (42).
// TzKT serializes nat values as strings.
type tokenID int

func (t *tokenID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid token_id %s: %w", data, err)
	}
	*t = tokenID(n)
	return nil
}

type Loader struct {
	fetcher  *fetcher.Fetcher
	baseURL  string
	contract string
	limit    int
}

func NewLoader(f *fetcher.Fetcher, baseURL, contract string, limit int) *Loader {
	return &Loader{
		fetcher:  f,
		baseURL:  strings.TrimRight(baseURL, "/"),
		contract: contract,
		limit:    limit,
	}
}

// QueryURL returns the bigmap keys query for the contract's token_metadata.
func (l *Loader) QueryURL() string {
	q := url.Values{}
	q.Set("active", "true")
	q.Set("select", "value")
	q.Set("limit", strconv.Itoa(l.limit))
	return fmt.Sprintf("%s/contracts/%s/bigmaps/token_metadata/keys?%s", l.baseURL, l.contract, q.Encode())
}

// Load fetches every active token and returns the catalog sorted by id ascending.
func (l *Loader) Load(ctx context.Context) ([]models.CatalogEntry, error) {
	var records []record
	if err := l.fetcher.GetJSON(ctx, l.QueryURL(), &records); err != nil {
		return nil, fmt.Errorf("failed to load token catalog: %w", err)
	}
	return parseRecords(records)
}

func parseRecords(records []record) ([]models.CatalogEntry, error) {
	seen := make(map[int]struct{}, len(records))
	entries := make([]models.CatalogEntry, 0, len(records))
	for _, r := range records {
		id := int(r.TokenID)
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateToken, id)
		}
		seen[id] = struct{}{}

		raw, ok := r.TokenInfo[""]
		if !ok {
			return nil, fmt.Errorf("token %d has no metadata locator", id)
		}
		uri, err := DecodeBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", id, err)
		}
		entries = append(entries, models.CatalogEntry{TokenID: id, MetadataURI: uri})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TokenID < entries[j].TokenID
	})
	return entries, nil
}

// DecodeBytes converts a Michelson bytes value (hex-encoded UTF-8) to text.
func DecodeBytes(s string) (string, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid bytes value: %w", err)
	}
	return string(b), nil
}
