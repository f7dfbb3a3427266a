package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dtnitsch/nft-rarity/models"
	"github.com/dtnitsch/nft-rarity/pkg/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayURL(t *testing.T) {
	r := NewResolver(nil, "https://cloudflare-ipfs.com/ipfs/")

	assert.Equal(t, "https://cloudflare-ipfs.com/ipfs/QmHash/12.json", r.GatewayURL("ipfs://QmHash/12.json"))
	assert.Equal(t, "https://example.com/12.json", r.GatewayURL("https://example.com/12.json"))
}

func TestResolve(t *testing.T) {
	const body = `{"name":"GOGO #12","displayUri":"ipfs://QmDisplay","attributes":[{"name":"Hat","value":"Cap"},{"name":"Eyes","value":"Sleepy"}],"extra":true}`

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	r := NewResolver(fetcher.NewFetcher(5*time.Second), srv.URL+"/ipfs")
	raw, doc, err := r.Resolve(context.Background(), "ipfs://QmHash/12.json")
	require.NoError(t, err)

	assert.Equal(t, "/ipfs/QmHash/12.json", gotPath)
	assert.Equal(t, body, string(raw), "raw bytes are kept verbatim")
	assert.Equal(t, "GOGO #12", doc.Name)
	assert.Equal(t, "ipfs://QmDisplay", doc.DisplayURI)
	assert.Equal(t, []models.Attribute{{Name: "Hat", Value: "Cap"}, {Name: "Eyes", Value: "Sleepy"}}, doc.Attributes)
}

func TestResolve_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer srv.Close()

	_, _, err := NewResolver(fetcher.NewFetcher(time.Second), srv.URL).Resolve(context.Background(), "ipfs://x")
	assert.Error(t, err)
}
