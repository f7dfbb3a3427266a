package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/fetcher"
)

const ipfsScheme = "ipfs://"

// Resolver turns a content locator into a token metadata document over an HTTP gateway.
type Resolver struct {
	fetcher *fetcher.Fetcher
	gateway string
}

func NewResolver(f *fetcher.Fetcher, gateway string) *Resolver {
	return &Resolver{
		fetcher: f,
		gateway: strings.TrimRight(gateway, "/"),
	}
}

// GatewayURL rewrites an ipfs:// locator onto the gateway. Other locators pass through.
func (r *Resolver) GatewayURL(uri string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}
	return r.gateway + "/" + strings.TrimPrefix(uri, ipfsScheme)
}

// Resolve fetches the document and returns both the raw bytes and the decoded form.
func (r *Resolver) Resolve(ctx context.Context, uri string) ([]byte, *models.MetadataDocument, error) {
	raw, err := r.fetcher.GetBytes(ctx, r.GatewayURL(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", uri, err)
	}
	doc, err := Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", uri, err)
	}
	return raw, doc, nil
}

// Decode parses a metadata document.
func Decode(raw []byte) (*models.MetadataDocument, error) {
	var doc models.MetadataDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed metadata document: %w", err)
	}
	return &doc, nil
}
